package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
)

func SetupChatRouter(api *echo.Group, chatHandler *handler.ChatHandler, adminMiddleware *middleware.AdminMiddleware) {
	chat := api.Group("/chat")

	chat.GET("", chatHandler.ListMessages)
	chat.POST("", chatHandler.SendMessage)
	chat.DELETE("/:id", chatHandler.DeleteMessage, adminMiddleware.AdminOnly)
}
