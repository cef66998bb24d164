// Package credential holds the credential-store contract shared by the
// Firebase and local drivers, plus the local driver itself.
package credential

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrExists          = errors.New("credential already exists")
	ErrInvalidPassword = errors.New("invalid email or password")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Input describes a credential to create. An empty UID lets the store
// assign one.
type Input struct {
	UID         string
	Email       string
	Password    string
	DisplayName string
}

type account struct {
	uid  string
	hash []byte
}

// Local keeps bcrypt hashes in memory. It stands in for Firebase Auth in
// development and tests.
type Local struct {
	mu       sync.RWMutex
	byEmail  map[string]account
	byUID    map[string]string
	hashCost int
}

func NewLocal() *Local {
	return &Local{
		byEmail:  make(map[string]account),
		byUID:    make(map[string]string),
		hashCost: bcrypt.DefaultCost,
	}
}

// NewLocalWithCost is NewLocal with a custom bcrypt cost; tests use
// bcrypt.MinCost.
func NewLocalWithCost(cost int) *Local {
	l := NewLocal()
	l.hashCost = cost
	return l
}

func (l *Local) CreateUser(_ context.Context, input Input) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), l.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byEmail[email]; ok {
		return "", ErrExists
	}
	uid := input.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	if _, ok := l.byUID[uid]; ok {
		return "", ErrExists
	}

	l.byEmail[email] = account{uid: uid, hash: hash}
	l.byUID[uid] = email
	return uid, nil
}

func (l *Local) VerifyPassword(_ context.Context, email, password string) (string, error) {
	l.mu.RLock()
	acc, ok := l.byEmail[strings.ToLower(strings.TrimSpace(email))]
	l.mu.RUnlock()

	if !ok {
		return "", ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return acc.uid, nil
}
