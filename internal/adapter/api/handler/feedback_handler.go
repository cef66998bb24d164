package handler

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/usecase"
	"communityhub/pkg/response"
)

type FeedbackHandler struct {
	feedbackUseCase *usecase.FeedbackUseCase
}

func NewFeedbackHandler(feedbackUseCase *usecase.FeedbackUseCase) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUseCase: feedbackUseCase,
	}
}

type submitFeedbackRequest struct {
	UID     string `json:"uid" validate:"required"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message" validate:"required"`
}

func (h *FeedbackHandler) ListFeedback(c echo.Context) error {
	items, err := h.feedbackUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, items)
}

func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.feedbackUseCase.Submit(c.Request().Context(), middleware.ActorFrom(c), usecase.SubmitFeedbackInput{
		UID:     req.UID,
		Email:   req.Email,
		Name:    req.Name,
		Message: req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}
