package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
)

func SetupUserRouter(api *echo.Group, userHandler *handler.UserHandler, adminMiddleware *middleware.AdminMiddleware) {
	users := api.Group("/users")

	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser, adminMiddleware.AdminOnly)
	// Ownership and admin-only fields are checked in the usecase.
	users.PATCH("/:uid", userHandler.UpdateUser)
}
