package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"carousel_studio_v1/internal/model"
	apperr "carousel_studio_v1/pkg/errors"
)

// ==================== 仓储接口 ====================

// SessionRepository 会话临时状态存储
// 会话只在 TTL 内有效，不落库
type SessionRepository interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error

	// Update 原子地读取、修改并写回会话，多实例共享存储时同样成立
	// fn 返回错误时会话保持不变，错误原样返回
	Update(ctx context.Context, id string, fn UpdateFunc) (*model.Session, error)
}

// UpdateFunc 会话修改函数
type UpdateFunc = func(*model.Session) error

// maxUpdateRetries 乐观锁冲突重试次数
const maxUpdateRetries = 5

// errConcurrentUpdate 重试耗尽
var errConcurrentUpdate = apperr.WrapWithCode(apperr.ErrBusy, apperr.CodeBusy, "Session was updated concurrently. Please retry.")

// ==================== 内存实现 ====================

type memorySessionRepo struct {
	mu    sync.Mutex // 串行化 Update 与 Delete
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemorySessionRepository 单实例部署使用
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepo{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (r *memorySessionRepo) Save(_ context.Context, session *model.Session) error {
	r.cache.Set(session.ID, session.Clone(), r.ttl)
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (*model.Session, error) {
	val, ok := r.cache.Get(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return val.(*model.Session).Clone(), nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(id)
	return nil
}

func (r *memorySessionRepo) Update(_ context.Context, id string, fn UpdateFunc) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	val, ok := r.cache.Get(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	session := val.(*model.Session).Clone()
	if err := fn(session); err != nil {
		return nil, err
	}

	r.cache.Set(id, session.Clone(), r.ttl)
	return session, nil
}

// ==================== Redis 实现 ====================

type redisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository 多实例部署共享会话
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepo{client: client, ttl: ttl}
}

func (r *redisSessionRepo) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err()
}

func (r *redisSessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisSessionRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Update 使用 WATCH + MULTI/EXEC，键在事务前被改动时重试
func (r *redisSessionRepo) Update(ctx context.Context, id string, fn UpdateFunc) (*model.Session, error) {
	key := sessionKey(id)
	var updated *model.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return apperr.ErrNotFound
		}
		if err != nil {
			return err
		}

		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}

		out, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &session
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, errConcurrentUpdate
}

func sessionKey(id string) string {
	return "carousel:session:" + id
}
