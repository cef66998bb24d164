package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
)

func SetupRequestRouter(api *echo.Group, requestHandler *handler.RequestHandler, adminMiddleware *middleware.AdminMiddleware) {
	requests := api.Group("/requests")

	requests.GET("", requestHandler.ListRequests)
	requests.POST("", requestHandler.CreateRequest)
	requests.PATCH("/:id", requestHandler.UpdateStatus, adminMiddleware.AdminOnly)
}
