package database

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PartitionTask 分区维护任务
type PartitionTask struct {
	manager      *PartitionManager
	log          *slog.Logger
	futureMonths int
	interval     time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// PartitionTaskOption 任务选项
type PartitionTaskOption func(*PartitionTask)

// WithFutureMonths 设置未来分区月数
func WithFutureMonths(months int) PartitionTaskOption {
	return func(t *PartitionTask) {
		t.futureMonths = months
	}
}

// WithInterval 设置执行间隔
func WithInterval(d time.Duration) PartitionTaskOption {
	return func(t *PartitionTask) {
		t.interval = d
	}
}

// NewPartitionTask 创建分区维护任务
func NewPartitionTask(manager *PartitionManager, log *slog.Logger, opts ...PartitionTaskOption) *PartitionTask {
	t := &PartitionTask{
		manager:      manager,
		log:          log,
		futureMonths: 3,
		interval:     24 * time.Hour,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start 启动任务，启动时立即执行一次
func (t *PartitionTask) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run()

	t.log.Info("partition task started",
		slog.Duration("interval", t.interval),
		slog.Int("future_months", t.futureMonths),
	)
}

// Stop 停止任务
func (t *PartitionTask) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()

	close(t.stopCh)
	t.wg.Wait()
}

func (t *PartitionTask) run() {
	defer t.wg.Done()

	t.RunOnce()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.RunOnce()
		case <-t.stopCh:
			return
		}
	}
}

// RunOnce 健康检查、补建分区、清理过期分区
func (t *PartitionTask) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	if err := t.manager.HealthCheck(ctx); err != nil {
		t.log.Warn("partition health check", slog.Any("error", err))
	}

	// 单个分区失败已记录日志
	_ = t.manager.EnsureFuturePartitions(ctx, t.futureMonths)

	dropped, err := t.manager.CleanupExpiredPartitions(ctx)
	if err != nil {
		t.log.Error("partition cleanup failed", slog.Any("error", err))
	}

	t.log.Info("partition maintenance done",
		slog.Int("dropped", dropped),
		slog.Duration("elapsed", time.Since(start)),
	)
}
