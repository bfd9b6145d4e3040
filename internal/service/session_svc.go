package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/repository"
	apperr "carousel_studio_v1/pkg/errors"
)

const (
	msgContentRequired = "Please generate content before generating images."
	msgStyleRequired   = "Please select an image style before generating images."
	msgBusy            = "A generation request is already in progress for this session."
)

// CarouselGenerator 两段生成能力，便于测试替换
type CarouselGenerator interface {
	GenerateText(ctx context.Context, niche model.Niche, userIdeas string) (*TextResult, error)
	GenerateImages(ctx context.Context, contents []string, style model.ImageStyle, niche model.Niche) ([]string, error)
}

// GenerateContentInput 生成文案请求
type GenerateContentInput struct {
	Niche      model.Niche
	UserIdeas  string
	ImageStyle model.ImageStyle // 可选，预先选择风格
}

// ==================== 服务 ====================

// SessionService 会话编排
// 状态: idle -> text_pending -> text_ready -> images_pending -> complete
// 状态的检查与写入由仓储 Update 保证原子性，模型调用期间不持锁
type SessionService struct {
	repo      repository.SessionRepository
	generator CarouselGenerator
	logger    *slog.Logger

	now func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(repo repository.SessionRepository, generator CarouselGenerator, logger *slog.Logger) *SessionService {
	return &SessionService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// ==================== 基础操作 ====================

func (s *SessionService) Create(ctx context.Context) (*model.Session, error) {
	now := s.now()
	sess := &model.Session{
		ID:             uuid.New().String(),
		State:          model.SessionIdle,
		ContentOptions: []string{},
		Posts:          []model.CarouselPost{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, apperr.Wrap(err, "failed to create session")
	}
	return sess, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ==================== 生成文案 ====================

// GenerateContent 丢弃旧结果并重新生成文案
// 失败回到 idle
func (s *SessionService) GenerateContent(ctx context.Context, id string, in GenerateContentInput) (*model.Session, error) {
	if !in.Niche.Valid() {
		return nil, apperr.Invalid("Please select a valid niche.")
	}
	if in.ImageStyle != "" && !in.ImageStyle.Valid() {
		return nil, apperr.Invalid("Please select a valid image style.")
	}

	_, err := s.transition(ctx, id, func(sess *model.Session) error {
		if sess.Busy() {
			return apperr.WrapWithCode(apperr.ErrBusy, apperr.CodeBusy, msgBusy)
		}
		sess.State = model.SessionTextPending
		sess.Niche = in.Niche
		sess.UserIdeas = strings.TrimSpace(in.UserIdeas)
		if in.ImageStyle != "" {
			sess.ImageStyle = in.ImageStyle
		}
		sess.ContentOptions = []string{}
		sess.OverallCaption = ""
		sess.Posts = []model.CarouselPost{}
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, genErr := s.generator.GenerateText(WithCallSession(ctx, id), in.Niche, in.UserIdeas)

	// 请求取消后仍需落回稳定状态
	storeCtx := context.WithoutCancel(ctx)
	sess, err := s.transition(storeCtx, id, func(sess *model.Session) error {
		if genErr != nil {
			sess.State = model.SessionIdle
			sess.LastError = apperr.GetMessage(genErr)
			return nil
		}
		sess.State = model.SessionTextReady
		sess.ContentOptions = result.ContentOptions
		sess.OverallCaption = result.OverallCaption
		return nil
	})
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return nil, genErr
	}

	s.logger.Info("session content generated",
		slog.String("session_id", id),
		slog.String("niche", string(in.Niche)),
		slog.Int("options", len(sess.ContentOptions)),
	)
	return sess, nil
}

// ==================== 生成图片 ====================

// GenerateImages 以当前文案生成图片
// 失败回到 text_ready，文案保留
func (s *SessionService) GenerateImages(ctx context.Context, id string, style model.ImageStyle) (*model.Session, error) {
	if style != "" && !style.Valid() {
		return nil, apperr.Invalid("Please select a valid image style.")
	}

	snapshot, err := s.transition(ctx, id, func(sess *model.Session) error {
		if sess.Busy() {
			return apperr.WrapWithCode(apperr.ErrBusy, apperr.CodeBusy, msgBusy)
		}
		if style != "" {
			sess.ImageStyle = style
		}
		if !sess.HasContent() {
			return apperr.Precondition(msgContentRequired)
		}
		if sess.ImageStyle == "" {
			return apperr.Precondition(msgStyleRequired)
		}
		sess.State = model.SessionImagesPending
		sess.Posts = []model.CarouselPost{}
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	images, genErr := s.generator.GenerateImages(WithCallSession(ctx, id), snapshot.ContentOptions, snapshot.ImageStyle, snapshot.Niche)

	var posts []model.CarouselPost
	if genErr == nil {
		var ok bool
		if posts, ok = model.ZipPosts(snapshot.ContentOptions, images); !ok {
			genErr = apperr.Upstream(apperr.New("image count does not match content count"), msgImagesFailed)
		}
	}

	storeCtx := context.WithoutCancel(ctx)
	sess, err := s.transition(storeCtx, id, func(sess *model.Session) error {
		if genErr != nil {
			sess.State = model.SessionTextReady
			sess.LastError = apperr.GetMessage(genErr)
			return nil
		}
		sess.State = model.SessionComplete
		sess.Posts = posts
		return nil
	})
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return nil, genErr
	}

	s.logger.Info("session images generated",
		slog.String("session_id", id),
		slog.String("style", string(snapshot.ImageStyle)),
		slog.Int("posts", len(posts)),
	)
	return sess, nil
}

// transition 原子地读取、修改并保存
// mutate 返回错误时会话保持不变
func (s *SessionService) transition(ctx context.Context, id string, mutate repository.UpdateFunc) (*model.Session, error) {
	var mutateErr error
	sess, err := s.repo.Update(ctx, id, func(sess *model.Session) error {
		if mutateErr = mutate(sess); mutateErr != nil {
			return mutateErr
		}
		sess.UpdatedAt = s.now()
		return nil
	})
	if err == nil {
		return sess, nil
	}
	if mutateErr != nil || apperr.IsNotFound(err) || apperr.IsBusy(err) {
		return nil, err
	}
	return nil, apperr.Wrap(err, "failed to save session")
}
