package handler

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/usecase"
	"communityhub/pkg/response"
)

type PostHandler struct {
	postUseCase *usecase.PostUseCase
}

func NewPostHandler(postUseCase *usecase.PostUseCase) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
	}
}

type createPostRequest struct {
	UID     string `json:"uid" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Name    string `json:"name"`
	Content string `json:"content" validate:"required"`
}

func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, posts)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.postUseCase.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.CreatePostInput{
		UID:     req.UID,
		Email:   req.Email,
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postUseCase.Delete(c.Request().Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Deleted(c)
}
