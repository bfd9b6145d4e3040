package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carousel_studio_v1/internal/repository"
	"carousel_studio_v1/pkg/logger"
)

// ==================== 测试替身 ====================

type mockCallLogStore struct {
	mu           sync.Mutex
	purgeFn      func(ctx context.Context, retention time.Duration) (int64, error)
	summaryStart time.Time
	summaryEnd   time.Time
	retentions   []time.Duration
}

func (m *mockCallLogStore) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	m.mu.Lock()
	m.retentions = append(m.retentions, retention)
	m.mu.Unlock()
	if m.purgeFn != nil {
		return m.purgeFn(ctx, retention)
	}
	return 4, nil
}

func (m *mockCallLogStore) Summary(_ context.Context, start, end time.Time) (*repository.AIUsageStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaryStart, m.summaryEnd = start, end
	return &repository.AIUsageStats{TotalCalls: 3}, nil
}

type mockLimiter struct {
	idle time.Duration
}

func (m *mockLimiter) Cleanup(idle time.Duration) int {
	m.idle = idle
	return 2
}

// ==================== 测试用例 ====================

func TestMaintenanceTask_PurgeCallLogs(t *testing.T) {
	store := &mockCallLogStore{}
	task := NewMaintenanceTask(store, nil, 30*24*time.Hour, logger.Discard())

	deleted, err := task.PurgeCallLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.Equal(t, []time.Duration{720 * time.Hour}, store.retentions)
}

func TestMaintenanceTask_PurgeDisabled(t *testing.T) {
	store := &mockCallLogStore{}
	task := NewMaintenanceTask(store, nil, 0, logger.Discard())

	deleted, err := task.PurgeCallLogs(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, store.retentions)
}

func TestMaintenanceTask_PurgeError(t *testing.T) {
	store := &mockCallLogStore{purgeFn: func(context.Context, time.Duration) (int64, error) {
		return 0, errors.New("database is locked")
	}}
	task := NewMaintenanceTask(store, nil, time.Hour, logger.Discard())

	_, err := task.PurgeCallLogs(context.Background())
	assert.Error(t, err)
}

func TestMaintenanceTask_CleanupLimiter(t *testing.T) {
	limiter := &mockLimiter{}
	task := NewMaintenanceTask(nil, limiter, 0, logger.Discard())

	assert.Equal(t, 2, task.CleanupLimiter())
	assert.Equal(t, 30*time.Minute, limiter.idle)

	assert.Zero(t, NewMaintenanceTask(nil, nil, 0, logger.Discard()).CleanupLimiter())
}

func TestMaintenanceTask_ReportDailyUsage(t *testing.T) {
	store := &mockCallLogStore{}
	task := NewMaintenanceTask(store, nil, 0, logger.Discard())
	task.now = func() time.Time { return time.Date(2024, 5, 10, 0, 5, 0, 0, time.UTC) }

	require.NoError(t, task.ReportDailyUsage(context.Background()))
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), store.summaryStart)
	assert.Equal(t, time.Date(2024, 5, 9, 23, 59, 59, 999999999, time.UTC), store.summaryEnd)
}

func TestMaintenanceTask_StartStop(t *testing.T) {
	task := NewMaintenanceTask(&mockCallLogStore{}, &mockLimiter{}, time.Hour, logger.Discard())

	require.NoError(t, task.Start())
	assert.Len(t, task.Cron.Entries(), 3)
	task.Stop()
}

func TestTaskManager_Disabled(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{Logger: logger.Discard()}, &TaskManagerConfig{MaintenanceEnabled: false})

	require.NoError(t, tm.Start())
	_, err := tm.TriggerPurge(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
	assert.ErrorIs(t, tm.TriggerUsageReport(context.Background()), ErrTaskDisabled)
	tm.Stop()
}

func TestTaskManager_TriggerPurge(t *testing.T) {
	store := &mockCallLogStore{}
	tm := NewTaskManager(&TaskManagerDeps{CallLogs: store, Logger: logger.Discard()}, &TaskManagerConfig{
		MaintenanceEnabled: true,
		LogRetentionDays:   7,
	})

	deleted, err := tm.TriggerPurge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.Equal(t, []time.Duration{7 * 24 * time.Hour}, store.retentions)
}
