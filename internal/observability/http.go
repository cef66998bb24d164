package observability

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus scrape endpoint through Echo.
func MetricsHandler() echo.HandlerFunc {
	RegisterMetrics()
	return echo.WrapHandler(promhttp.Handler())
}
