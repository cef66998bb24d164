package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/observability"
)

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/health/store", healthHandler.CheckStoreHealth)
	e.GET("/metrics", observability.MetricsHandler())
}
