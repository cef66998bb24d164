package handler

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/usecase"
	"communityhub/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// targetUid may arrive as a string or null.
type sendMessageRequest struct {
	UID       string  `json:"uid" validate:"required"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Msg       string  `json:"msg" validate:"required"`
	TargetUID *string `json:"targetUid"`
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	msgs, err := h.chatUseCase.List(c.Request().Context(), middleware.ActorFrom(c), c.QueryParam("uid"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, msgs)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.SendMessageInput{
		UID:   req.UID,
		Email: req.Email,
		Name:  req.Name,
		Msg:   req.Msg,
	}
	if req.TargetUID != nil {
		input.TargetUID = *req.TargetUID
	}

	msg, err := h.chatUseCase.Send(c.Request().Context(), middleware.ActorFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, msg)
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	if err := h.chatUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Deleted(c)
}
