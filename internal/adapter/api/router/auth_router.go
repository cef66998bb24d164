package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/infrastructure/ratelimit"
)

// SetupAuthRouter registers signup and login. They stay outside the
// authenticated group and are rate limited per IP.
func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, limiter *ratelimit.RateLimiter) {
	auth := e.Group("/api/auth")
	if limiter != nil {
		auth.Use(middleware.RateLimit(limiter))
	}

	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
}
