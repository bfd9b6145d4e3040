package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"carousel_studio_v1/internal/metrics"
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/repository"
)

// ==================== 调用记录 ====================

type callSessionKey struct{}

// WithCallSession 在 ctx 中标记会话 ID，写入调用日志
func WithCallSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, callSessionKey{}, sessionID)
}

func callSessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(callSessionKey{}).(string)
	return id
}

// CallRecord 单次模型调用的元数据
type CallRecord struct {
	CallType   string
	ModelName  string
	Niche      model.Niche
	ImageStyle model.ImageStyle
	Usage      *Usage
	ImageCount int
	Duration   time.Duration
	Err        error
	Meta       map[string]interface{}
}

// CallRecorder 模型调用审计
type CallRecorder interface {
	Record(ctx context.Context, rec CallRecord)
}

// CallLogService 写调用日志并更新指标，同时提供用量查询
type CallLogService struct {
	repo    repository.AICallLogRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCallLogService repo 与 metrics 均可为 nil
func NewCallLogService(repo repository.AICallLogRepository, m *metrics.Metrics, logger *slog.Logger) *CallLogService {
	return &CallLogService{repo: repo, metrics: m, logger: logger}
}

// Record 记录失败不影响主流程
func (s *CallLogService) Record(ctx context.Context, rec CallRecord) {
	status := model.AICallStatusSuccess
	if rec.Err != nil {
		status = model.AICallStatusFailed
	}

	if s.metrics != nil {
		s.metrics.ObserveModelCall(rec.CallType, status, rec.Duration)
	}
	if s.repo == nil {
		return
	}

	entry := &model.AICallLog{
		SessionID:  callSessionFrom(ctx),
		CallType:   rec.CallType,
		ModelName:  rec.ModelName,
		Niche:      string(rec.Niche),
		ImageStyle: string(rec.ImageStyle),
		ImageCount: rec.ImageCount,
		DurationMs: rec.Duration.Milliseconds(),
		Status:     status,
	}
	if rec.Usage != nil {
		entry.InputTokens = rec.Usage.InputTokens
		entry.OutputTokens = rec.Usage.OutputTokens
	}
	if rec.Err != nil {
		entry.ErrorMsg = truncate(rec.Err.Error(), 1024)
	}
	if len(rec.Meta) > 0 {
		if raw, err := json.Marshal(rec.Meta); err == nil {
			entry.Meta = datatypes.JSON(raw)
		}
	}

	// 请求被取消时仍保留记录
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("failed to save model call log",
			slog.String("op", "CallLogService.Record"),
			slog.String("call_type", rec.CallType),
			slog.Any("error", err),
		)
	}
}

// ==================== 用量查询 ====================

func (s *CallLogService) Summary(ctx context.Context, start, end time.Time) (*repository.AIUsageStats, error) {
	return s.repo.GetUsageSummary(ctx, start, end)
}

func (s *CallLogService) Daily(ctx context.Context, start, end time.Time) ([]repository.DailyUsageStats, error) {
	return s.repo.GetDailyUsage(ctx, start, end)
}

func (s *CallLogService) BySession(ctx context.Context, sessionID string) (*repository.AIUsageStats, error) {
	return s.repo.GetUsageBySession(ctx, sessionID)
}

// Purge 删除保留期之前的日志
func (s *CallLogService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.DeleteBefore(ctx, time.Now().Add(-retention))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
