package api

import (
	"context"
	"net/http"
	"time"

	"recipe-hub/internal/api/handlers/health"
	recipeHandler "recipe-hub/internal/api/handlers/recipe"
	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/core/ai/cache"
	"recipe-hub/internal/core/ai/openrouter"
	aiService "recipe-hub/internal/core/ai/service"
	"recipe-hub/internal/core/imagehost"
	recipeService "recipe-hub/internal/core/recipe"
	"recipe-hub/internal/core/scraper"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純文字 API 不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	provider := openrouter.NewClient(cfg)
	aiSvc := aiService.NewService(cfg, provider, cacheManager)

	// 初始化食譜服務
	generateSvc := recipeService.NewGenerateService(aiSvc)
	bulkSvc := recipeService.NewBulkService(generateSvc, cfg)

	// 初始化匯入服務
	fetcher := scraper.NewFetcher(cfg)
	rehoster := imagehost.NewClient(cfg)
	importSvc := recipeService.NewImportService(fetcher, rehoster)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組，需通過認證
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg))
	{
		handler := recipeHandler.NewHandler(generateSvc, bulkSvc, importSvc)

		recipeGroup := api.Group("/recipe")
		{
			// 使用食材名稱生成食譜
			recipeGroup.POST("/generate", handler.HandleGenerate)

			// 批次生成
			recipeGroup.POST("/generate/bulk", handler.HandleBulkGenerate)

			// 從第三方網站匯入食譜
			recipeGroup.POST("/import", handler.HandleImport)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
