package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carousel_studio_v1/internal/controller"
	"carousel_studio_v1/internal/metrics"
	"carousel_studio_v1/internal/middleware"

	_ "carousel_studio_v1/docs"
)

// Controllers 路由依赖
type Controllers struct {
	Carousel *controller.CarouselController
	Session  *controller.SessionController
	Usage    *controller.UsageController
}

// Options 路由可选项
type Options struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	RateLimiter *middleware.ClientRateLimiter
	UploadsDir  string // 本地存储目录，非空时挂载 /uploads
}

// New 创建 gin 引擎并注册所有路由
func New(ctls Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	InitRoutes(r, ctls, opts)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls Controllers, opts Options) {
	// 1. 基础路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "message": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	// 模型调用接口限流
	generate := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if opts.RateLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.GenerateRateLimit(opts.RateLimiter, opts.Metrics), h}
	}

	// 2. API 路由组
	api := r.Group("/api")
	{
		// GET /api/catalog
		api.GET("/catalog", ctls.Carousel.Catalog)

		// 无会话生成
		carousel := api.Group("/carousel")
		{
			carousel.POST("/text", generate(ctls.Carousel.GenerateText)...)
			carousel.POST("/images", generate(ctls.Carousel.GenerateImages)...)
		}

		// 会话编排
		sessions := api.Group("/sessions")
		{
			sessions.POST("", ctls.Session.Create)
			sessions.GET("/:id", ctls.Session.Get)
			sessions.DELETE("/:id", ctls.Session.Delete)

			sessions.POST("/:id/content", generate(ctls.Session.GenerateContent)...)
			sessions.POST("/:id/images", generate(ctls.Session.GenerateImages)...)

			// 下载
			sessions.GET("/:id/caption", ctls.Session.Caption)
			sessions.GET("/:id/posts/:index/image", ctls.Session.PostImage)
			sessions.GET("/:id/posts/:index/text", ctls.Session.PostText)
			sessions.POST("/:id/export", ctls.Session.Export)
		}

		// 用量统计
		if ctls.Usage != nil {
			usage := api.Group("/usage")
			{
				usage.GET("/summary", ctls.Usage.Summary)
				usage.GET("/daily", ctls.Usage.Daily)
				usage.GET("/sessions/:id", ctls.Usage.BySession)
			}
		}
	}
}
