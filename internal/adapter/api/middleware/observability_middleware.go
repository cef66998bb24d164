package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"communityhub/internal/observability"
	"communityhub/pkg/logger"
)

// RequestObserver logs each request and records its metrics.
func RequestObserver() echo.MiddlewareFunc {
	log := logger.Component("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			elapsed := time.Since(start)

			observability.HTTPRequests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())

			event := log.Info()
			if status >= 500 {
				event = log.Error()
			}
			event.
				Str("method", method).
				Str("route", route).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("latency", elapsed).
				Str("ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}
