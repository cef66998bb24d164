package middleware

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/infrastructure/ratelimit"
	"communityhub/pkg/errors"
	"communityhub/pkg/logger"
	"communityhub/pkg/response"
)

// RateLimit rejects callers whose IP has exhausted its bucket.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !limiter.Allow(ip) {
				logger.Warn("RATE LIMIT: blocked %s %s from %s", c.Request().Method, c.Path(), ip)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
