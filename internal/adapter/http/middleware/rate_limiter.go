package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/helper"
	"taskmanager/internal/config"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
)

// RateLimiter applies a fixed-window limit per route and caller. Callers are
// identified by user id once authenticated, by client IP otherwise.
type RateLimiter struct {
	store   port.CounterStore
	config  *config.AppConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
}

func NewRateLimiter(store port.CounterStore, cfg *config.AppConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		store:   store,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.RateLimitEnabled {
			c.Next()
			return
		}

		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		route := c.Request.Method + " " + path
		rule := rl.config.RuleFor(route)
		key, keyType := rl.generateKey(c, route)
		ctx := c.Request.Context()

		count, resetAt, err := rl.store.Increment(ctx, key, rule.Window)

		// the limiter fails open
		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("route", route),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := max(rule.Requests-count, 0)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > rule.Requests {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(ctx, path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("route", route),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			helper.SendTooManyRequestsError(c, rule.Requests, rule.Window, resetAt)
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(ctx, path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) generateKey(c *gin.Context, route string) (string, string) {
	if userID, exists := c.Get(UserIDKey); exists {
		return fmt.Sprintf("rate_limit:%s:user_%v", route, userID), "user"
	}

	return fmt.Sprintf("rate_limit:%s:ip_%s", route, c.ClientIP()), "ip"
}
