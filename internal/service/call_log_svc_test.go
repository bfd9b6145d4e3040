package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carousel_studio_v1/internal/metrics"
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/repository"
	"carousel_studio_v1/pkg/database"
	"carousel_studio_v1/pkg/logger"
)

func newTestCallLogService(t *testing.T) (*CallLogService, *metrics.Metrics) {
	db, err := database.InitDB("sqlite", ":memory:", logger.Discard(), &model.AICallLog{})
	require.NoError(t, err)

	m := metrics.New()
	return NewCallLogService(repository.NewAICallLogRepository(db), m, logger.Discard()), m
}

func TestCallLogService_Record(t *testing.T) {
	svc, m := newTestCallLogService(t)
	ctx := WithCallSession(context.Background(), "sess-1")

	svc.Record(ctx, CallRecord{
		CallType:  model.AICallTypeText,
		ModelName: "gemini-2.0-flash",
		Niche:     model.NicheWebDevelopment,
		Usage:     &Usage{InputTokens: 100, OutputTokens: 40},
		Duration:  1200 * time.Millisecond,
		Meta:      map[string]interface{}{"returned": 3},
	})
	svc.Record(ctx, CallRecord{
		CallType:   model.AICallTypeImage,
		ModelName:  "img",
		ImageStyle: model.StyleMinimal,
		Duration:   3 * time.Second,
		Err:        errors.New("quota exceeded"),
	})

	stats, err := svc.BySession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCalls)
	assert.Equal(t, int64(100), stats.TotalInputTokens)
	assert.Equal(t, int64(1), stats.FailedCount)

	series, err := testutil.GatherAndCount(m.Registry(), "carousel_model_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestCallLogService_RecordWithoutRepo(t *testing.T) {
	m := metrics.New()
	svc := NewCallLogService(nil, m, logger.Discard())

	// 仅更新指标
	svc.Record(context.Background(), CallRecord{CallType: model.AICallTypeCaption, Duration: time.Second})
	series, err := testutil.GatherAndCount(m.Registry(), "carousel_model_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestCallLogService_RecordSurvivesCancel(t *testing.T) {
	svc, _ := newTestCallLogService(t)

	ctx, cancel := context.WithCancel(WithCallSession(context.Background(), "sess-2"))
	cancel()
	svc.Record(ctx, CallRecord{CallType: model.AICallTypeText, Duration: time.Second})

	stats, err := svc.BySession(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCalls)
}

func TestCallLogService_Purge(t *testing.T) {
	svc, _ := newTestCallLogService(t)
	svc.Record(context.Background(), CallRecord{CallType: model.AICallTypeText})

	deleted, err := svc.Purge(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	summary, err := svc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalCalls)
}
