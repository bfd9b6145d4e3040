package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"carousel_studio_v1/internal/repository"
)

// CallLogStore 调用日志的清理与汇总
type CallLogStore interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
	Summary(ctx context.Context, start, end time.Time) (*repository.AIUsageStats, error)
}

// LimiterCleaner 回收长时间未访问的限流桶
type LimiterCleaner interface {
	Cleanup(idle time.Duration) int
}

// MaintenanceTask 日志保留、限流桶回收与每日用量播报
type MaintenanceTask struct {
	callLogs CallLogStore
	limiter  LimiterCleaner
	logger   *slog.Logger
	Cron     *cron.Cron

	retention   time.Duration
	limiterIdle time.Duration
	jobTimeout  time.Duration
	now         func() time.Time
}

func NewMaintenanceTask(callLogs CallLogStore, limiter LimiterCleaner, retention time.Duration, logger *slog.Logger) *MaintenanceTask {
	return &MaintenanceTask{
		callLogs:    callLogs,
		limiter:     limiter,
		logger:      logger,
		Cron:        cron.New(cron.WithSeconds()),
		retention:   retention,
		limiterIdle: 30 * time.Minute,
		jobTimeout:  5 * time.Minute,
		now:         time.Now,
	}
}

// Start 注册定时任务并启动
func (t *MaintenanceTask) Start() error {
	jobs := []struct {
		spec string
		name string
		fn   func(ctx context.Context)
	}{
		{"0 0 3 * * *", "purge_call_logs", func(ctx context.Context) { _, _ = t.PurgeCallLogs(ctx) }},
		{"0 0/10 * * * *", "cleanup_limiter", func(context.Context) { t.CleanupLimiter() }},
		{"0 5 0 * * *", "report_daily_usage", func(ctx context.Context) { _ = t.ReportDailyUsage(ctx) }},
	}

	for _, job := range jobs {
		if _, err := t.Cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), t.jobTimeout)
			defer cancel()
			job.fn(ctx)
		}); err != nil {
			return err
		}
		t.logger.Info("cron job registered", slog.String("job", job.name), slog.String("spec", job.spec))
	}

	t.Cron.Start()
	return nil
}

// Stop 等待运行中的任务结束
func (t *MaintenanceTask) Stop() {
	<-t.Cron.Stop().Done()
}

// PurgeCallLogs 删除保留期之前的调用日志
// 保留天数 <= 0 时不清理
func (t *MaintenanceTask) PurgeCallLogs(ctx context.Context) (int64, error) {
	if t.callLogs == nil || t.retention <= 0 {
		return 0, nil
	}

	deleted, err := t.callLogs.Purge(ctx, t.retention)
	if err != nil {
		t.logger.Error("call log purge failed", slog.Any("error", err))
		return 0, err
	}

	t.logger.Info("call logs purged",
		slog.Int64("deleted", deleted),
		slog.Duration("retention", t.retention),
	)
	return deleted, nil
}

// CleanupLimiter 回收空闲限流桶
func (t *MaintenanceTask) CleanupLimiter() int {
	if t.limiter == nil {
		return 0
	}
	removed := t.limiter.Cleanup(t.limiterIdle)
	if removed > 0 {
		t.logger.Debug("rate limiter buckets removed", slog.Int("removed", removed))
	}
	return removed
}

// ReportDailyUsage 输出前一自然日的用量汇总
func (t *MaintenanceTask) ReportDailyUsage(ctx context.Context) error {
	if t.callLogs == nil {
		return nil
	}

	now := t.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -1)

	stats, err := t.callLogs.Summary(ctx, start, end.Add(-time.Nanosecond))
	if err != nil {
		t.logger.Error("daily usage report failed", slog.Any("error", err))
		return err
	}

	t.logger.Info("daily model usage",
		slog.String("date", start.Format(time.DateOnly)),
		slog.Int64("total_calls", stats.TotalCalls),
		slog.Int64("failed", stats.FailedCount),
		slog.Int64("images", stats.TotalImages),
		slog.Int64("input_tokens", stats.TotalInputTokens),
		slog.Int64("output_tokens", stats.TotalOutputTokens),
	)
	return nil
}
