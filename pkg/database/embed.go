package database

import "embed"

// PartitionSQL 分区表 DDL 与配置
//
//go:embed partitions/*.sql partitions/*.conf
var PartitionSQL embed.FS
