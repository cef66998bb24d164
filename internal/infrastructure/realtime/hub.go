// Package realtime pushes entity-change events to connected clients over
// websockets. Polling stays the source of truth; an event only tells a
// client to refresh early.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"communityhub/internal/observability"
	"communityhub/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Event is the wire frame: the collection that changed and the new record,
// or null for a deletion.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        logger.Component("realtime"),
	}
}

// Start runs the hub loop until ctx is done. All open connections are
// closed on exit.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.register:
				h.mu.Lock()
				h.clients[client] = struct{}{}
				h.mu.Unlock()
				observability.RealtimeConnections().Inc()
				h.log.Debug().Str("client", client.ID).Msg("client registered")

			case client := <-h.unregister:
				h.remove(client)

			case message := <-h.broadcast:
				h.mu.RLock()
				var slow []*Client
				for client := range h.clients {
					select {
					case client.send <- message:
					default:
						slow = append(slow, client)
					}
				}
				h.mu.RUnlock()
				for _, client := range slow {
					h.log.Warn().Str("client", client.ID).Msg("dropping slow client")
					h.remove(client)
				}

			case <-ctx.Done():
				close(h.done)
				h.mu.Lock()
				for client := range h.clients {
					close(client.send)
					delete(h.clients, client)
					observability.RealtimeConnections().Dec()
				}
				h.mu.Unlock()
				return
			}
		}
	}()
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		observability.RealtimeConnections().Dec()
		h.log.Debug().Str("client", client.ID).Msg("client unregistered")
	}
}

// Publish queues an event for every client. It never blocks; when the
// queue is full the event is dropped and clients catch up on their next
// poll.
func (h *Hub) Publish(kind string, data interface{}) {
	payload, err := json.Marshal(Event{Type: kind, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("type", kind).Msg("encode event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("type", kind).Msg("broadcast queue full, event dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve registers an upgraded connection and pumps events to it until the
// peer goes away.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

// readPump only drains control frames; clients never send data.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Str("client", c.ID).Msg("read")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
