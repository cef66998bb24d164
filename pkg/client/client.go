// Package client is a typed wrapper over the community hub HTTP API. Every
// mutation emits an Event on the client's Bus so views can refresh.
//
// There is no caching, retrying, or offline queueing: one method call is
// one HTTP request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	bus        *Bus
	header     http.Header
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBus(bus *Bus) Option {
	return func(c *Client) { c.bus = bus }
}

// WithHeader adds a header to every request, e.g. X-User-ID or an
// Authorization bearer token.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bus:        NewBus(),
		header:     make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Bus() *Bus {
	return c.bus
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) emit(kind Kind, payload interface{}) {
	c.bus.Emit(Event{Kind: kind, Payload: payload})
}

func withUID(path, uid string) string {
	if uid == "" {
		return path
	}
	return path + "?uid=" + url.QueryEscape(uid)
}

func (c *Client) Signup(ctx context.Context, email, password, name, phone string) (*User, error) {
	var user User
	body := map[string]string{"email": email, "password": password, "name": name, "phone": phone}
	if err := c.do(ctx, "Signup", http.MethodPost, "/api/auth/signup", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "Login", http.MethodPost, "/api/auth/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "Fetching users", http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUser PATCHes the user when UID is set and creates one otherwise.
func (c *Client) SaveUser(ctx context.Context, update UserUpdate) (*User, error) {
	var user User
	if update.UID != "" {
		path := "/api/users/" + url.PathEscape(update.UID)
		if err := c.do(ctx, "Update", http.MethodPatch, path, update, &user); err != nil {
			return nil, err
		}
	} else {
		if err := c.do(ctx, "Creation", http.MethodPost, "/api/users", update, &user); err != nil {
			return nil, err
		}
	}
	c.emit(KindUsers, &user)
	return &user, nil
}

// ToggleUserBan flips the ban flag of uid. A uid that is not listed is a
// no-op and returns nil.
func (c *Client) ToggleUserBan(ctx context.Context, uid string) (*User, error) {
	users, err := c.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.UID == uid {
			return c.SaveUser(ctx, UserUpdate{UID: uid, IsBanned: Bool(!u.IsBanned)})
		}
	}
	return nil, nil
}

func (c *Client) GetPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, "Fetching posts", http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) AddPost(ctx context.Context, post NewPost) (*Post, error) {
	var created Post
	if err := c.do(ctx, "Post", http.MethodPost, "/api/posts", post, &created); err != nil {
		return nil, err
	}
	c.emit(KindPosts, &created)
	return &created, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	if err := c.do(ctx, "Delete", http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.emit(KindPosts, nil)
	return nil
}

// GetRequests lists every request, or only uid's when uid is set.
func (c *Client) GetRequests(ctx context.Context, uid string) ([]Request, error) {
	var requests []Request
	if err := c.do(ctx, "Fetching requests", http.MethodGet, withUID("/api/requests", uid), nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) AddRequest(ctx context.Context, req NewRequest) (*Request, error) {
	var created Request
	if err := c.do(ctx, "Request", http.MethodPost, "/api/requests", req, &created); err != nil {
		return nil, err
	}
	c.emit(KindRequests, &created)
	return &created, nil
}

func (c *Client) UpdateRequest(ctx context.Context, id, status string) (*Request, error) {
	var updated Request
	body := map[string]string{"status": status}
	if err := c.do(ctx, "Update", http.MethodPatch, "/api/requests/"+url.PathEscape(id), body, &updated); err != nil {
		return nil, err
	}
	c.emit(KindRequests, &updated)
	return &updated, nil
}

func (c *Client) GetFeedback(ctx context.Context) ([]Feedback, error) {
	var items []Feedback
	if err := c.do(ctx, "Fetching feedback", http.MethodGet, "/api/feedback", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SubmitFeedback emits no event; nothing renders feedback live.
func (c *Client) SubmitFeedback(ctx context.Context, fb NewFeedback) (*Feedback, error) {
	var created Feedback
	if err := c.do(ctx, "Feedback", http.MethodPost, "/api/feedback", fb, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetChat returns uid's conversation, or every message when uid is empty.
func (c *Client) GetChat(ctx context.Context, uid string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	if err := c.do(ctx, "Fetching chat", http.MethodGet, withUID("/api/chat", uid), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) AddChatMessage(ctx context.Context, msg NewChatMessage) (*ChatMessage, error) {
	var created ChatMessage
	if err := c.do(ctx, "Message", http.MethodPost, "/api/chat", msg, &created); err != nil {
		return nil, err
	}
	c.emit(KindChat, &created)
	return &created, nil
}

func (c *Client) DeleteChat(ctx context.Context, id string) error {
	if err := c.do(ctx, "Delete", http.MethodDelete, "/api/chat/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.emit(KindChat, nil)
	return nil
}
