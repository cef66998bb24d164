package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"communityhub/internal/domain/repository"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/response"
)

type AdminMiddleware struct {
	enforce bool
}

// NewAdminMiddleware guards admin routes only when enforce is set, which
// follows the auth mode.
func NewAdminMiddleware(enforce bool) *AdminMiddleware {
	return &AdminMiddleware{
		enforce: enforce,
	}
}

func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.enforce {
			return next(c)
		}

		actor := ActorFrom(c)
		if actor == nil {
			return response.Error(c, apperrors.Unauthorized("Authentication required", nil))
		}
		if !actor.Admin {
			return response.Error(c, apperrors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
