package handler

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/usecase"
	"communityhub/pkg/errors"
	"communityhub/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Create(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

// UpdateUser takes a free-form partial record; the usecase keeps only the
// known user fields.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return response.Error(c, errors.BadRequest("uid is required", nil))
	}

	fields := make(map[string]interface{})
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Update(c.Request().Context(), middleware.ActorFrom(c), uid, fields)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
