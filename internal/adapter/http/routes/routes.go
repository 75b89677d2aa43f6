package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskmanager/internal/adapter/http/handler"
	"taskmanager/internal/adapter/http/helper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/logger"
	"taskmanager/internal/config"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
)

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

// Dependencies are the collaborators of the global middleware chain.
type Dependencies struct {
	Config    *config.AppConfig
	Metrics   *telemetry.AppMetrics
	Logger    *logger.LokiLogger
	Tokens    port.TokenManager
	RateStore port.CounterStore
}

func SetupRouterWithConfig(handlers HandlersConfig, deps Dependencies) *gin.Engine {
	router := gin.New()

	if err := router.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		slog.Error("Invalid trusted proxies", "error", err)
	}

	zapLogger := deps.Logger.Logger.Logger

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		helper.SendInternalError(c, "internal error")
	}))
	router.Use(otelgin.Middleware(deps.Logger.ServiceName()))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.NewHTTPSEnforcer(deps.Config.EnforceHTTPS, zapLogger).HTTPSMiddleware())
	router.Use(middleware.CORSMiddleware(deps.Config.Server.CORSAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "route not found")
	})

	rateLimiter := middleware.NewRateLimiter(deps.RateStore, deps.Config, zapLogger, deps.Metrics)

	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Check)
	}

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler, rateLimiter)
	}

	if handlers.TaskHandler != nil {
		setupProtectedRoutes(router, handlers.TaskHandler, rateLimiter, deps.Tokens)
	}

	return router
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler, rateLimiter *middleware.RateLimiter) {
	public := router.Group("/auth")
	public.Use(rateLimiter.RateLimitMiddleware())
	{
		public.POST("/signup", authHandler.SignUp)
		public.POST("/signin", authHandler.SignIn)
	}
}

func setupProtectedRoutes(router *gin.Engine, taskHandler *handler.TaskHandler, rateLimiter *middleware.RateLimiter, tokens port.TokenManager) {
	protected := router.Group("/tasks")
	protected.Use(middleware.JWTMiddleware(tokens))
	protected.Use(rateLimiter.RateLimitMiddleware())
	{
		protected.GET("", taskHandler.List)
		protected.GET("/:id", taskHandler.Get)
		protected.POST("", taskHandler.Create)
		protected.PATCH("/:id/status", taskHandler.UpdateStatus)
		protected.DELETE("/:id", taskHandler.Delete)
	}
}
