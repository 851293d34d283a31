package api

import (
	"net/http"
	"time"

	"ModelBoard/internal/config"
	"ModelBoard/internal/metrics"
	"ModelBoard/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestID 透传或生成请求 ID，写入响应头和上下文
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog 用 logrus 记录访问日志
func accessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}).Info("request")
	}
}

// recovery panic 时返回通用 500，细节只写日志
func recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"panic":      recovered,
		}).Error("unhandled panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": genericServerError})
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowHeaders(requestIDHeader)
	cfg.AddExposeHeaders(requestIDHeader)
	return cfg
}

// NewRouter 组装中间件和全部路由
func NewRouter(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(logger), recovery(logger))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(metrics.Middleware())

	// 注册ppof 方便调试和监测性能问题
	if cfg.Server.Pprof {
		pprof.Register(r)
	}
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api", session.Middleware(cfg.Session))
	{
		catalogHandler := NewCatalogHandler(db, logger)
		apiGroup.GET("/usecases", catalogHandler.ListUseCases)
		apiGroup.GET("/benchmarks", catalogHandler.ListBenchmarks)
		apiGroup.POST("/suggestions", catalogHandler.SubmitSuggestion)

		modelHandler := NewModelHandler(db, cfg.Listing.DefaultLimit, logger)
		apiGroup.GET("/models", modelHandler.ListModels)
		apiGroup.POST("/vote/:model_id/:use_case_slug/:direction", modelHandler.Vote)
	}

	// 管理接口：未配置账号时不挂载
	if cfg.Admin.Enabled() {
		adminGroup := r.Group("/admin/api", gin.BasicAuth(gin.Accounts{cfg.Admin.User: cfg.Admin.Password}))
		NewAdminHandler(db, logger).Register(adminGroup)
	} else {
		logger.Warn("未配置管理员账号，/admin/api 未启用")
	}

	return r
}
