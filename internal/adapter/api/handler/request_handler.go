package handler

import (
	"github.com/labstack/echo/v4"

	"communityhub/internal/adapter/api/middleware"
	"communityhub/internal/usecase"
	"communityhub/pkg/response"
)

type RequestHandler struct {
	requestUseCase *usecase.RequestUseCase
}

func NewRequestHandler(requestUseCase *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

type createRequestRequest struct {
	UID   string `json:"uid" validate:"required"`
	Email string `json:"email"`
	Type  string `json:"type" validate:"required"`
	Desc  string `json:"desc" validate:"required"`
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active completed"`
}

func (h *RequestHandler) ListRequests(c echo.Context) error {
	requests, err := h.requestUseCase.List(c.Request().Context(), middleware.ActorFrom(c), c.QueryParam("uid"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.CreateRequestInput{
		UID:   req.UID,
		Email: req.Email,
		Type:  req.Type,
		Desc:  req.Desc,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	var req updateRequestStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
