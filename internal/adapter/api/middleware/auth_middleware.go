package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"communityhub/internal/domain/repository"
	"communityhub/internal/usecase"
	"communityhub/pkg/config"
	"communityhub/pkg/errors"
	"communityhub/pkg/response"
)

const (
	HeaderUserID = "X-User-ID"
	actorKey     = "actor"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// AuthMiddleware resolves the caller according to the configured mode. In
// "none" mode it lets every request through without an actor.
type AuthMiddleware struct {
	mode     string
	verifier TokenVerifier
	userRepo repository.UserRepository
}

func NewAuthMiddleware(mode string, verifier TokenVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		mode:     mode,
		verifier: verifier,
		userRepo: userRepo,
	}
}

func (m *AuthMiddleware) Enabled() bool {
	return m.mode != "" && m.mode != config.AuthNone
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.Enabled() {
			return next(c)
		}

		uid, err := m.identify(c)
		if err != nil {
			return response.Error(c, err)
		}

		actor := &usecase.Actor{UID: uid}
		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		switch {
		case err == nil:
			actor.Admin = user.IsAdmin()
		case !isNotFound(err):
			return response.Error(c, errors.StoreUnavailable(err))
		}

		c.Set("uid", uid)
		c.Set(actorKey, actor)
		return next(c)
	}
}

func (m *AuthMiddleware) identify(c echo.Context) (string, error) {
	switch m.mode {
	case config.AuthHeader:
		uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
		if uid == "" {
			return "", errors.Unauthorized("Authentication required", nil)
		}
		return uid, nil

	case config.AuthFirebase:
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return "", errors.Unauthorized("Authorization header is required", nil)
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.Unauthorized("Invalid authorization format", nil)
		}
		uid, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return "", errors.Unauthorized("Invalid or expired token", err)
		}
		return uid, nil
	}
	return "", errors.Internal("Unknown auth mode "+m.mode, nil)
}

// ActorFrom returns the authenticated caller, or nil when authorization is
// off.
func ActorFrom(c echo.Context) *usecase.Actor {
	actor, _ := c.Get(actorKey).(*usecase.Actor)
	return actor
}
