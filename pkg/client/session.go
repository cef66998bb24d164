package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// SessionStorage persists the signed-in user between runs.
type SessionStorage interface {
	Load() (*User, error)
	Save(user *User) error
	Clear() error
}

// FileStorage keeps the session as a JSON file.
type FileStorage struct {
	Path string
}

func (f FileStorage) Load() (*User, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		// a corrupt session file means signed out
		return nil, nil
	}
	return &user, nil
}

func (f FileStorage) Save(user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f FileStorage) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type MemoryStorage struct {
	mu   sync.Mutex
	user *User
}

func (m *MemoryStorage) Load() (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	cp := *m.user
	return &cp, nil
}

func (m *MemoryStorage) Save(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.user = &cp
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

// Session tracks the signed-in user and notifies listeners on every
// change.
type Session struct {
	client  *Client
	storage SessionStorage

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(*User)
	order     []int
}

func NewSession(c *Client, storage SessionStorage) *Session {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	return &Session{client: c, storage: storage, listeners: make(map[int]func(*User))}
}

// CurrentUser returns the stored user, or nil when signed out.
func (s *Session) CurrentUser() *User {
	user, err := s.storage.Load()
	if err != nil {
		return nil
	}
	return user
}

func (s *Session) Signup(ctx context.Context, email, password, name, phone string) (*User, error) {
	user, err := s.client.Signup(ctx, email, password, name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.SaveSession(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.SaveSession(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Session) SaveSession(user *User) error {
	if err := s.storage.Save(user); err != nil {
		return err
	}
	s.notify(user)
	return nil
}

func (s *Session) Logout() error {
	if err := s.storage.Clear(); err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// OnAuthStateChanged calls cb with the current user right away and again
// after every login, signup, or logout. The returned func unregisters cb.
func (s *Session) OnAuthStateChanged(cb func(*User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	s.order = append(s.order, id)
	s.mu.Unlock()

	cb(s.CurrentUser())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Session) notify(user *User) {
	s.mu.Lock()
	cbs := make([]func(*User), 0, len(s.order))
	for _, id := range s.order {
		cbs = append(cbs, s.listeners[id])
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		if user == nil {
			cb(nil)
			continue
		}
		cp := *user
		cb(&cp)
	}
}
