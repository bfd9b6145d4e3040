package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carousel_studio_v1/internal/model"
)

func setupAILogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.AICallLog{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func TestAICallLogRepo_Create(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	ctx := context.Background()

	log := &model.AICallLog{
		SessionID:    "s-1",
		CallType:     model.AICallTypeText,
		ModelName:    "gemini-2.0-flash",
		Niche:        string(model.NicheWebDevelopment),
		InputTokens:  500,
		OutputTokens: 200,
		DurationMs:   1500,
		Status:       model.AICallStatusSuccess,
	}

	require.NoError(t, repo.Create(ctx, log))
	assert.NotZero(t, log.ID, "ID 应该被自动分配")
}

func TestAICallLogRepo_GetByID(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	ctx := context.Background()

	log := &model.AICallLog{
		SessionID:  "s-1",
		CallType:   model.AICallTypeImage,
		ModelName:  "gemini-2.0-flash-preview-image-generation",
		ImageStyle: string(model.StyleMinimal),
		ImageCount: 1,
		Status:     model.AICallStatusSuccess,
	}
	require.NoError(t, repo.Create(ctx, log))

	found, err := repo.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AICallTypeImage, found.CallType)
	assert.Equal(t, "Minimal", found.ImageStyle)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func seedLogs(t *testing.T, repo AICallLogRepository) {
	ctx := context.Background()
	logs := []*model.AICallLog{
		{SessionID: "s-1", CallType: model.AICallTypeText, InputTokens: 100, OutputTokens: 50, DurationMs: 1000, Status: model.AICallStatusSuccess},
		{SessionID: "s-1", CallType: model.AICallTypeCaption, InputTokens: 80, OutputTokens: 40, DurationMs: 500, Status: model.AICallStatusSuccess},
		{SessionID: "s-1", CallType: model.AICallTypeImage, ImageCount: 1, DurationMs: 3000, Status: model.AICallStatusSuccess},
		{SessionID: "s-1", CallType: model.AICallTypeImage, ImageCount: 0, DurationMs: 1500, Status: model.AICallStatusFailed, ErrorMsg: "quota"},
		{SessionID: "s-2", CallType: model.AICallTypeText, InputTokens: 10, DurationMs: 2000, Status: model.AICallStatusSuccess},
	}
	for _, l := range logs {
		require.NoError(t, repo.Create(ctx, l))
	}
}

func TestAICallLogRepo_GetUsageBySession(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	seedLogs(t, repo)

	stats, err := repo.GetUsageBySession(context.Background(), "s-1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalCalls)
	assert.Equal(t, int64(1), stats.TextCalls)
	assert.Equal(t, int64(1), stats.CaptionCalls)
	assert.Equal(t, int64(2), stats.ImageCalls)
	assert.Equal(t, int64(180), stats.TotalInputTokens)
	assert.Equal(t, int64(90), stats.TotalOutputTokens)
	assert.Equal(t, int64(1), stats.TotalImages)
	assert.Equal(t, int64(3), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.FailedCount)
	assert.InDelta(t, 1500.0, stats.AvgDurationMs, 0.01)
}

func TestAICallLogRepo_GetUsageSummary(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	seedLogs(t, repo)

	stats, err := repo.GetUsageSummary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalCalls)

	// 时间窗口外
	future := time.Now().Add(time.Hour)
	stats, err = repo.GetUsageSummary(context.Background(), future, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalCalls)
}

func TestAICallLogRepo_GetDailyUsage(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	seedLogs(t, repo)

	now := time.Now()
	stats, err := repo.GetDailyUsage(context.Background(), now.Add(-24*time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	require.NotEmpty(t, stats)
	var total int64
	for _, d := range stats {
		total += d.TotalCalls
	}
	assert.Equal(t, int64(5), total)
	for _, d := range stats {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, d.Date)
	}
}

func TestDailyDateExpr(t *testing.T) {
	assert.Equal(t, "TO_CHAR(created_at, 'YYYY-MM-DD')", dailyDateExpr("postgres"))
	assert.Equal(t, "DATE(created_at)", dailyDateExpr("sqlite"))
}

func TestAICallLogRepo_DeleteBefore(t *testing.T) {
	db := setupAILogTestDB(t)
	repo := NewAICallLogRepository(db)
	ctx := context.Background()
	seedLogs(t, repo)

	// 把一条日志改成 40 天前
	old := time.Now().AddDate(0, 0, -40)
	require.NoError(t, db.Model(&model.AICallLog{}).Where("session_id = ?", "s-2").Update("created_at", old).Error)

	deleted, err := repo.DeleteBefore(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Unscoped().Model(&model.AICallLog{}).Count(&count)
	assert.Equal(t, int64(4), count)
}
