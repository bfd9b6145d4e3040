package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// InitPartitions 加载内嵌分区配置，创建分区主表及未来 futureMonths 个月的分区
// 仅用于 PostgreSQL
func InitPartitions(ctx context.Context, db *gorm.DB, log *slog.Logger, futureMonths int) (*PartitionManager, error) {
	cfg, err := LoadPartitionConfig(PartitionSQL, "partitions")
	if err != nil {
		return nil, err
	}
	if futureMonths <= 0 {
		futureMonths = 3
	}

	manager := NewPartitionManager(db, cfg, log)
	if err := manager.InitPartitionTables(ctx); err != nil {
		return nil, fmt.Errorf("init partition tables: %w", err)
	}
	if err := manager.EnsureFuturePartitions(ctx, futureMonths); err != nil {
		return nil, fmt.Errorf("ensure partitions: %w", err)
	}

	log.Info("partitions ready",
		slog.Any("tables", cfg.GetTableNames()),
		slog.Int("future_months", futureMonths),
	)
	return manager, nil
}
