package usecase

import (
	"context"

	"communityhub/internal/infrastructure/credential"
	apperrors "communityhub/pkg/errors"
)

// Event kinds published after a mutation. They match the collection names
// the client listens for.
const (
	EventUsers    = "users"
	EventPosts    = "posts"
	EventRequests = "requests"
	EventChat     = "chat"
	EventFeedback = "feedback"
)

type CredentialStore interface {
	CreateUser(ctx context.Context, input credential.Input) (string, error)
}

type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (string, error)
}

// Notifier fans out entity changes to push subscribers. data is the new
// record, or nil for a deletion.
type Notifier interface {
	Publish(kind string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// Actor is the verified caller. A nil *Actor means authorization is off
// and identity is whatever the payload claims.
type Actor struct {
	UID   string
	Admin bool
}

// actAs rejects a non-admin actor whose payload names someone else.
func (a *Actor) actAs(uid string) error {
	if a == nil || a.Admin || a.UID == uid {
		return nil
	}
	return apperrors.Forbidden("You can only act as yourself", nil)
}

// requireAdmin is a no-op when authorization is off.
func (a *Actor) requireAdmin() error {
	if a == nil || a.Admin {
		return nil
	}
	return apperrors.Forbidden("Admin access required", nil)
}
