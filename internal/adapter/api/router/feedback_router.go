package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
)

func SetupFeedbackRouter(api *echo.Group, feedbackHandler *handler.FeedbackHandler, adminMiddleware *middleware.AdminMiddleware) {
	feedback := api.Group("/feedback")

	feedback.GET("", feedbackHandler.ListFeedback, adminMiddleware.AdminOnly)
	feedback.POST("", feedbackHandler.SubmitFeedback)
}
