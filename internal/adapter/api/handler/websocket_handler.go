package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"communityhub/internal/infrastructure/realtime"
	"communityhub/pkg/logger"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader gorillaws.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and subscribes it to change events.
// Events carry no data a poll would not return, so the channel is open to
// any caller the route lets through.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Debug("websocket upgrade failed: %v", err)
		return nil
	}

	h.hub.Serve(conn)
	return nil
}
