package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carousel_studio_v1/internal/config"
	"carousel_studio_v1/internal/controller"
	"carousel_studio_v1/internal/metrics"
	"carousel_studio_v1/internal/middleware"
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/repository"
	"carousel_studio_v1/internal/router"
	"carousel_studio_v1/internal/service"
	"carousel_studio_v1/internal/task"
	"carousel_studio_v1/pkg/database"
	"carousel_studio_v1/pkg/logger"
	"carousel_studio_v1/pkg/utils"
)

// @title Carousel Studio API
// @version 1.0
// @description Generate carousel social posts: copy, caption and matching images.
// @BasePath /
func main() {
	cfg := config.MustLoad()

	log, flush := logger.Setup(cfg.Env, cfg.SentryDSN)
	defer flush()

	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. 初始化数据库
	db, partitions, err := initDatabase(cfg.Database, log)
	if err != nil {
		log.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if partitions != nil {
		partitionTask := database.NewPartitionTask(partitions, log)
		partitionTask.Start()
		defer partitionTask.Stop()
	}

	// 2. 初始化依赖
	deps, err := initDependencies(cfg, db, log)
	if err != nil {
		log.Error("dependency init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()

	// 3. 启动定时任务
	tasks := task.NewTaskManager(&task.TaskManagerDeps{
		CallLogs: deps.CallLogs,
		Limiter:  deps.Limiter,
		Logger:   log,
	}, &task.TaskManagerConfig{
		MaintenanceEnabled: true,
		LogRetentionDays:   cfg.Task.LogRetentionDays,
	})
	if err := tasks.Start(); err != nil {
		log.Error("task start failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer tasks.Stop()

	// 4. 初始化路由
	r := router.New(deps.Controllers, router.Options{
		Logger:      log,
		Metrics:     deps.Metrics,
		RateLimiter: deps.Limiter,
		UploadsDir:  deps.UploadsDir,
	})

	// 5. 启动服务
	startServer(r, cfg.HTTP, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Controllers router.Controllers
	CallLogs    *service.CallLogService
	Metrics     *metrics.Metrics
	Limiter     *middleware.ClientRateLimiter
	UploadsDir  string

	closers []func()
}

// Close 释放外部连接
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// ==================== 初始化函数 ====================

// initDatabase PostgreSQL 下调用日志按月分区，由分区 SQL 建表
func initDatabase(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, *database.PartitionManager, error) {
	if cfg.Driver != "postgres" {
		db, err := database.InitDB(cfg.Driver, cfg.DSN, log, &model.AICallLog{})
		return db, nil, err
	}

	db, err := database.InitDB(cfg.Driver, cfg.DSN, log)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	partitions, err := database.InitPartitions(ctx, db, log, 3)
	if err != nil {
		return nil, nil, err
	}
	return db, partitions, nil
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, log *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Metrics: metrics.New(),
		Limiter: middleware.NewClientRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	// -------- 会话存储 --------
	sessionRepo, err := initSessionRepository(cfg, deps, log)
	if err != nil {
		return nil, err
	}

	// -------- 模型 --------
	textModel, imageModel, err := initModels(cfg, deps, log)
	if err != nil {
		return nil, err
	}

	// -------- 存储 --------
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  cfg.Storage.Provider,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		CDNDomain: cfg.Storage.CDNDomain,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
	})
	if err != nil {
		// 导出为可选能力，失败时不阻塞启动
		log.Warn("storage init failed, export disabled", slog.Any("error", err))
		storage = nil
	}
	if local, ok := storage.(*service.LocalStorage); ok {
		deps.UploadsDir = local.Root()
	}

	// -------- 业务服务 --------
	deps.CallLogs = service.NewCallLogService(repository.NewAICallLogRepository(db), deps.Metrics, log)
	prompts := service.NewPromptBuilder(cfg.AI.Brand, cfg.AI.Signature)
	carousel := service.NewCarouselService(textModel, imageModel, prompts, deps.CallLogs, log)
	sessions := service.NewSessionService(sessionRepo, carousel, log)
	export := service.NewExportService(storage, log)

	// -------- Controller 层 --------
	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}
	deps.Controllers = router.Controllers{
		Carousel: controller.NewCarouselController(carousel, log),
		Session:  controller.NewSessionController(sessions, export, log),
		Usage:    controller.NewUsageController(deps.CallLogs, log),
	}

	return deps, nil
}

// initSessionRepository 按配置选择内存或 Redis
func initSessionRepository(cfg *config.Config, deps *Dependencies, log *slog.Logger) (repository.SessionRepository, error) {
	if cfg.Session.Store != "redis" {
		log.Info("session store: memory", slog.Duration("ttl", cfg.Session.TTL))
		return repository.NewMemorySessionRepository(cfg.Session.TTL), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := database.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, func() { _ = client.Close() })

	log.Info("session store: redis", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Session.TTL))
	return repository.NewRedisSessionRepository(client, cfg.Session.TTL), nil
}

// initModels 文案走 REST 或 SDK，图片固定走 REST
func initModels(cfg *config.Config, deps *Dependencies, log *slog.Logger) (service.TextModel, service.ImageModel, error) {
	if cfg.AI.APIKey == "" {
		log.Warn("GEMINI_API_KEY is empty, model calls will fail")
	}

	gemini := service.NewGeminiClient(utils.NewModelClient(cfg.AI.BaseURL, cfg.AI.Timeout, cfg.AI.Debug), cfg.AI.APIKey)
	imageModel := service.NewRESTImageModel(gemini, cfg.AI.ImageModel)

	if cfg.AI.TextBackend != "sdk" {
		return service.NewRESTTextModel(gemini, cfg.AI.TextModel), imageModel, nil
	}

	sdkModel, err := service.NewSDKTextModel(context.Background(), cfg.AI.APIKey, cfg.AI.TextModel)
	if err != nil {
		return nil, nil, err
	}
	deps.closers = append(deps.closers, func() { _ = sdkModel.Close() })
	return sdkModel, imageModel, nil
}

// ==================== 服务启动 ====================

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, cfg config.HTTPConfig, log *slog.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("server started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", slog.Any("error", err))
		return
	}

	log.Info("server exited")
}
