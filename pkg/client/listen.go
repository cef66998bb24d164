package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

type pushFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebSocketURL maps the API base URL onto its /ws endpoint.
func (c *Client) WebSocketURL() string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

// Listen relays server push events onto the bus until ctx is done or the
// connection drops. Payloads are left nil; subscribers refetch.
func (c *Client) Listen(ctx context.Context) error {
	header := http.Header{}
	for key, values := range c.header {
		for _, v := range values {
			header.Add(key, v)
		}
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.WebSocketURL(), header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var frame pushFrame
		if err := conn.ReadJSON(&frame); err != nil {
			conn.Close()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if frame.Type == "" {
			continue
		}
		c.emit(Kind(frame.Type), nil)
	}
}
