package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PartitionManager PostgreSQL 按月范围分区维护
type PartitionManager struct {
	db     *gorm.DB
	config *PartitionConfig
	log    *slog.Logger
	now    func() time.Time
}

// NewPartitionManager 创建分区管理器
func NewPartitionManager(db *gorm.DB, config *PartitionConfig, log *slog.Logger) *PartitionManager {
	return &PartitionManager{db: db, config: config, log: log, now: time.Now}
}

// ==================== 初始化 ====================

// InitPartitionTables 创建分区主表
func (m *PartitionManager) InitPartitionTables(ctx context.Context) error {
	for _, table := range m.config.Tables {
		exists, err := m.tableExists(ctx, table.TableName)
		if err != nil {
			return fmt.Errorf("check table %s: %w", table.TableName, err)
		}
		if exists {
			continue
		}

		if err := m.db.WithContext(ctx).Exec(table.SQLContent).Error; err != nil {
			return fmt.Errorf("create table %s: %w", table.TableName, err)
		}
		m.log.Info("partitioned table created", slog.String("table", table.TableName))
	}
	return nil
}

func (m *PartitionManager) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM pg_tables
		WHERE schemaname = 'public' AND tablename = ?
	`, tableName).Scan(&count).Error
	return count > 0, err
}

// ==================== 分区创建 ====================

// EnsureFuturePartitions 确保当月及未来 monthsAhead 个月的分区存在
func (m *PartitionManager) EnsureFuturePartitions(ctx context.Context, monthsAhead int) error {
	current := monthStart(m.now())
	var firstErr error
	for i := 0; i <= monthsAhead; i++ {
		month := current.AddDate(0, i, 0)
		for _, table := range m.config.Tables {
			if err := m.createPartitionIfNotExists(ctx, table.TableName, month); err != nil {
				m.log.Error("create partition failed",
					slog.String("table", table.TableName),
					slog.String("month", month.Format("2006-01")),
					slog.Any("error", err),
				)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

func (m *PartitionManager) createPartitionIfNotExists(ctx context.Context, tableName string, month time.Time) error {
	start := monthStart(month)
	end := start.AddDate(0, 1, 0)
	name := partitionName(tableName, start)

	exists, err := m.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	sql := fmt.Sprintf(
		`CREATE TABLE %s PARTITION OF %s FOR VALUES FROM ('%s') TO ('%s')`,
		name, tableName,
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
	)
	if err := m.db.WithContext(ctx).Exec(sql).Error; err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("create partition %s: %w", name, err)
	}

	m.log.Info("partition created", slog.String("partition", name))
	return nil
}

// ==================== 分区清理 ====================

// CleanupExpiredPartitions 删除超过保留月数的分区，返回删除个数
func (m *PartitionManager) CleanupExpiredPartitions(ctx context.Context) (int, error) {
	dropped := 0
	for _, table := range m.config.Tables {
		if table.RetentionMonth == 0 {
			continue
		}

		cutoff := retentionCutoff(m.now(), table.RetentionMonth)
		partitions, err := m.ListPartitions(ctx, table.TableName)
		if err != nil {
			return dropped, err
		}

		for _, p := range expiredPartitions(partitions, table.TableName, cutoff) {
			if err := m.db.WithContext(ctx).Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", p)).Error; err != nil {
				m.log.Error("drop partition failed", slog.String("partition", p), slog.Any("error", err))
				continue
			}
			m.log.Info("expired partition dropped", slog.String("partition", p))
			dropped++
		}
	}
	return dropped, nil
}

// ==================== 分区查询 ====================

// PartitionInfo 分区信息
type PartitionInfo struct {
	Name      string `gorm:"column:partition_name"`
	Range     string `gorm:"column:partition_range"`
	SizeBytes int64  `gorm:"column:size_bytes"`
}

// ListPartitions 列出表的所有分区
func (m *PartitionManager) ListPartitions(ctx context.Context, tableName string) ([]PartitionInfo, error) {
	var partitions []PartitionInfo
	err := m.db.WithContext(ctx).Raw(`
		SELECT
			child.relname AS partition_name,
			pg_get_expr(child.relpartbound, child.oid) AS partition_range,
			pg_total_relation_size(child.oid) AS size_bytes
		FROM pg_inherits
		JOIN pg_class parent ON pg_inherits.inhparent = parent.oid
		JOIN pg_class child ON pg_inherits.inhrelid = child.oid
		WHERE parent.relname = ?
		ORDER BY child.relname
	`, tableName).Scan(&partitions).Error
	return partitions, err
}

// HealthCheck 当月与下月分区必须存在
func (m *PartitionManager) HealthCheck(ctx context.Context) error {
	current := monthStart(m.now())

	var missing []string
	for _, table := range m.config.Tables {
		for _, month := range []time.Time{current, current.AddDate(0, 1, 0)} {
			name := partitionName(table.TableName, month)
			exists, err := m.tableExists(ctx, name)
			if err != nil {
				return err
			}
			if !exists {
				missing = append(missing, name)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing partitions: %v", missing)
	}
	return nil
}

// ==================== 工具函数 ====================

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// partitionName ai_call_logs_y2024m05
func partitionName(tableName string, month time.Time) string {
	return fmt.Sprintf("%s_y%dm%02d", tableName, month.Year(), month.Month())
}

func parsePartitionMonth(name, tableName string) (time.Time, error) {
	suffix := strings.TrimPrefix(name, tableName+"_y")
	if suffix == name || len(suffix) < 6 {
		return time.Time{}, fmt.Errorf("invalid partition name %q", name)
	}
	var year, month int
	if _, err := fmt.Sscanf(suffix, "%dm%d", &year, &month); err != nil {
		return time.Time{}, err
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid partition month %q", name)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// retentionCutoff 早于该月份的分区过期
func retentionCutoff(now time.Time, retentionMonths int) time.Time {
	return monthStart(now).AddDate(0, -retentionMonths, 0)
}

func expiredPartitions(partitions []PartitionInfo, tableName string, cutoff time.Time) []string {
	var expired []string
	for _, p := range partitions {
		month, err := parsePartitionMonth(p.Name, tableName)
		if err != nil {
			continue
		}
		if month.Before(cutoff) {
			expired = append(expired, p.Name)
		}
	}
	return expired
}
