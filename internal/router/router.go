// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/emotion-detection-service/internal/config"
	"github.com/iliyamo/emotion-detection-service/internal/handler"
	"github.com/iliyamo/emotion-detection-service/internal/middleware"
)

// Register wires every endpoint onto the Echo instance.
//
// Public surface: /health (liveness), /signup and /login plus its /token
// alias (credential endpoints, rate limited when Redis is up). Everything
// else sits behind BearerAuth, the single authentication choke point:
// /whoami, /predict, /statistics (Redis-cached for a short TTL), /history
// and /fine-tune. The rdb client may be nil; the rate limiter and the
// statistics cache then turn themselves into pass-throughs.
func Register(e *echo.Echo, a *handler.AuthHandler, p *handler.PredictionHandler, v middleware.TokenValidator, rdb *redis.Client) {
	e.GET("/health", handler.Health)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	e.POST("/signup", a.Signup, limiter)
	e.POST("/login", a.Login, limiter)
	// Alias kept for OAuth2-style clients that expect a /token endpoint.
	e.POST("/token", a.Login, limiter)

	auth := e.Group("", middleware.BearerAuth(v))
	auth.GET("/whoami", a.Whoami)
	auth.POST("/whoami", a.Whoami)
	auth.POST("/predict", p.Predict)
	auth.GET("/statistics", p.Statistics, middleware.StatsCache(config.LoadStatsCacheConfig(), rdb))
	auth.GET("/history", p.History)
	auth.POST("/fine-tune", p.FineTune)
}
