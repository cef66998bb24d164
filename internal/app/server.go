// Package app wires usecases, handlers and middleware into an Echo server.
package app

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"communityhub/internal/adapter/api"
	"communityhub/internal/adapter/api/handler"
	apimiddleware "communityhub/internal/adapter/api/middleware"
	"communityhub/internal/adapter/api/router"
	"communityhub/internal/adapter/repository"
	"communityhub/internal/infrastructure/ratelimit"
	"communityhub/internal/infrastructure/realtime"
	"communityhub/internal/infrastructure/store"
	"communityhub/internal/usecase"
	"communityhub/pkg/config"
	"communityhub/pkg/response"
)

type Deps struct {
	Config      *config.Config
	Store       store.Store
	Credentials usecase.CredentialStore
	// Verifier is consulted on login only when VerifyPasswords is set.
	Verifier      usecase.PasswordVerifier
	TokenVerifier apimiddleware.TokenVerifier
	// Hub is optional; nil disables the push channel.
	Hub         *realtime.Hub
	AuthLimiter *ratelimit.RateLimiter
}

func NewServer(deps Deps) *echo.Echo {
	cfg := deps.Config

	var notifier usecase.Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}

	var verifier usecase.PasswordVerifier
	if cfg.VerifyPasswords {
		verifier = deps.Verifier
	}

	userRepo := repository.NewUserRepository(deps.Store)
	postRepo := repository.NewPostRepository(deps.Store)
	requestRepo := repository.NewRequestRepository(deps.Store)
	chatRepo := repository.NewChatRepository(deps.Store)
	feedbackRepo := repository.NewFeedbackRepository(deps.Store)

	authUseCase := usecase.NewAuthUseCase(userRepo, deps.Credentials, verifier, notifier)
	userUseCase := usecase.NewUserUseCase(userRepo, authUseCase, notifier)
	postUseCase := usecase.NewPostUseCase(postRepo, userRepo, notifier)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, notifier)
	chatUseCase := usecase.NewChatUseCase(chatRepo, notifier)
	feedbackUseCase := usecase.NewFeedbackUseCase(feedbackRepo, notifier)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(apimiddleware.RequestObserver())

	authMiddleware := apimiddleware.NewAuthMiddleware(cfg.AuthMode, deps.TokenVerifier, userRepo)
	adminMiddleware := apimiddleware.NewAdminMiddleware(authMiddleware.Enabled())

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authUseCase),
		User:     handler.NewUserHandler(userUseCase),
		Post:     handler.NewPostHandler(postUseCase),
		Request:  handler.NewRequestHandler(requestUseCase),
		Chat:     handler.NewChatHandler(chatUseCase),
		Feedback: handler.NewFeedbackHandler(feedbackUseCase),
		Health:   handler.NewHealthHandler(deps.Store),
	}
	if deps.Hub != nil {
		handlers.WebSocket = handler.NewWebSocketHandler(deps.Hub)
	}

	router.Setup(e, handlers, authMiddleware, adminMiddleware, deps.AuthLimiter)
	return e
}
