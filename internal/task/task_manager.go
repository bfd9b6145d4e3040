package task

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrTaskDisabled = errors.New("task is disabled")

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台维护任务
type TaskManager struct {
	maintenance *MaintenanceTask
	logger      *slog.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	CallLogs CallLogStore
	Limiter  LimiterCleaner
	Logger   *slog.Logger
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	MaintenanceEnabled bool
	LogRetentionDays   int
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		MaintenanceEnabled: true,
		LogRetentionDays:   30,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{logger: deps.Logger}

	if cfg.MaintenanceEnabled {
		retention := time.Duration(cfg.LogRetentionDays) * 24 * time.Hour
		tm.maintenance = NewMaintenanceTask(deps.CallLogs, deps.Limiter, retention, deps.Logger)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	if tm.maintenance == nil {
		return nil
	}
	if err := tm.maintenance.Start(); err != nil {
		return err
	}
	tm.logger.Info("background tasks started")
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.maintenance != nil {
		tm.maintenance.Stop()
	}
	tm.logger.Info("background tasks stopped")
}

// ==================== 手动触发接口 ====================

// TriggerPurge 立即清理过期调用日志
func (tm *TaskManager) TriggerPurge(ctx context.Context) (int64, error) {
	if tm.maintenance == nil {
		return 0, ErrTaskDisabled
	}
	return tm.maintenance.PurgeCallLogs(ctx)
}

// TriggerUsageReport 立即输出前一日用量
func (tm *TaskManager) TriggerUsageReport(ctx context.Context) error {
	if tm.maintenance == nil {
		return ErrTaskDisabled
	}
	return tm.maintenance.ReportDailyUsage(ctx)
}
