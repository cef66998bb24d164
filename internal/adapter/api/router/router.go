package router

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/handler"
	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/infrastructure/ratelimit"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Post     *handler.PostHandler
	Request  *handler.RequestHandler
	Chat     *handler.ChatHandler
	Feedback *handler.FeedbackHandler
	Health   *handler.HealthHandler
	// WebSocket is nil when push is disabled.
	WebSocket *handler.WebSocketHandler
}

func Setup(
	e *echo.Echo,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	authLimiter *ratelimit.RateLimiter,
) {
	SetupAuthRouter(e, h.Auth, authLimiter)

	api := e.Group("/api")
	api.Use(authMiddleware.Authenticate)

	SetupUserRouter(api, h.User, adminMiddleware)
	SetupPostRouter(api, h.Post)
	SetupRequestRouter(api, h.Request, adminMiddleware)
	SetupChatRouter(api, h.Chat, adminMiddleware)
	SetupFeedbackRouter(api, h.Feedback, adminMiddleware)

	SetupHealthRouter(e, h.Health)
	if h.WebSocket != nil {
		SetupWebSocketRouter(e, h.WebSocket)
	}
}
