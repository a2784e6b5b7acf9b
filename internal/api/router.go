package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/compliment-api/config"
	_ "github.com/d60-Lab/compliment-api/docs"
	"github.com/d60-Lab/compliment-api/internal/api/handler"
	"github.com/d60-Lab/compliment-api/internal/api/middleware"
	"github.com/d60-Lab/compliment-api/internal/metrics"
	"github.com/d60-Lab/compliment-api/pkg/token"
)

// NewRouter 注册全部路由
func NewRouter(cfg *config.Config, h *handler.Handler, tokens *token.Manager, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.GET("/login", limiter.Handler(), h.Login)
		auth.GET("/callback", limiter.Handler(), h.Callback)
		auth.GET("/me", middleware.Auth(tokens), limiter.Handler(), h.Me)

		receivers := v1.Group("/receivers", middleware.Auth(tokens), limiter.Handler())
		receivers.GET("", h.ListReceivers)
		receivers.POST("", h.CreateReceiver)
		receivers.GET("/:receiver_id", h.GetReceiver)
		receivers.PUT("/:receiver_id", h.UpdateReceiver)
		receivers.DELETE("/:receiver_id", h.DeleteReceiver)

		compliments := receivers.Group("/:receiver_id/compliments")
		compliments.GET("", h.ListCompliments)
		compliments.POST("", h.CreateCompliment)
		compliments.GET("/random", h.RandomCompliment)
		compliments.GET("/random/batch", h.RandomCompliments)
		compliments.GET("/:compliment_id", h.GetCompliment)
		compliments.PUT("/:compliment_id", h.UpdateCompliment)
		compliments.DELETE("/:compliment_id", h.DeleteCompliment)
	}
	return r
}
