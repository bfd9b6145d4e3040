package database

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// PartitionTableConfig 分区表配置
type PartitionTableConfig struct {
	TableName      string // 表名
	RetentionMonth int    // 保留月数（0=永久）
	SQLContent     string // 建表 SQL
}

// PartitionConfig 分区配置
type PartitionConfig struct {
	Tables []PartitionTableConfig
}

// LoadPartitionConfig 读取 root 下的 partition_tables.conf 及对应 <table>.sql
func LoadPartitionConfig(fsys fs.FS, root string) (*PartitionConfig, error) {
	cfg := &PartitionConfig{}

	confData, err := fs.ReadFile(fsys, path.Join(root, "partition_tables.conf"))
	if err != nil {
		return nil, fmt.Errorf("read partition config: %w", err)
	}

	if err := cfg.parseConfig(string(confData)); err != nil {
		return nil, err
	}

	for i := range cfg.Tables {
		sqlFile := cfg.Tables[i].TableName + ".sql"
		sqlData, err := fs.ReadFile(fsys, path.Join(root, sqlFile))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sqlFile, err)
		}
		cfg.Tables[i].SQLContent = string(sqlData)
	}

	return cfg, nil
}

// parseConfig 每行 "表名, 保留月数"，# 开头为注释
func (c *PartitionConfig) parseConfig(content string) error {
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return fmt.Errorf("partition config line %d: malformed %q", lineNum, line)
		}

		retention, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || retention < 0 {
			return fmt.Errorf("partition config line %d: invalid retention %q", lineNum, parts[1])
		}

		c.Tables = append(c.Tables, PartitionTableConfig{
			TableName:      strings.TrimSpace(parts[0]),
			RetentionMonth: retention,
		})
	}

	return scanner.Err()
}

// GetTableNames 获取所有分区表名
func (c *PartitionConfig) GetTableNames() []string {
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.TableName
	}
	return names
}

// GetTable 获取指定表配置
func (c *PartitionConfig) GetTable(name string) *PartitionTableConfig {
	for i := range c.Tables {
		if c.Tables[i].TableName == name {
			return &c.Tables[i]
		}
	}
	return nil
}
