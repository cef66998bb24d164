package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
)

func SetupPostRouter(api *echo.Group, postHandler *handler.PostHandler) {
	posts := api.Group("/posts")

	posts.GET("", postHandler.ListPosts)
	posts.POST("", postHandler.CreatePost)
	posts.DELETE("/:id", postHandler.DeletePost)
}
