package usecase

import (
	"context"
	"errors"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/credential"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/logger"
)

const msgEmailExists = "Email already exists"

type AuthUseCase struct {
	userRepo    repository.UserRepository
	credentials CredentialStore
	verifier    PasswordVerifier
	notifier    Notifier
}

// NewAuthUseCase builds the signup/login flow. A nil verifier leaves
// password checking to the credential store's own clients.
func NewAuthUseCase(userRepo repository.UserRepository, credentials CredentialStore, verifier PasswordVerifier, notifier Notifier) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		credentials: credentials,
		verifier:    verifier,
		notifier:    notifierOrNoop(notifier),
	}
}

type RegisterInput struct {
	// UID is optional; the credential store assigns one when empty.
	UID      string
	Email    string
	Password string
	Name     string
	Phone    string
}

// Register creates the credential and the profile record. The email check
// is read-then-write; the record write itself is insert-if-absent by uid.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	existing, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, storeError(err)
	}
	if len(existing) > 0 {
		return nil, apperrors.Conflict(msgEmailExists)
	}

	uid, err := uc.credentials.CreateUser(ctx, credential.Input{
		UID:         input.UID,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.Name,
	})
	if err != nil {
		if errors.Is(err, credential.ErrExists) {
			return nil, apperrors.Conflict(msgEmailExists)
		}
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return nil, apperrors.BadRequest(err.Error(), err)
		}
		return nil, apperrors.Internal("Failed to create credential", err)
	}

	user := &entity.User{
		UID:      uid,
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Role:     entity.RoleUser,
		Avatar:   "",
		IsBanned: false,
		JoinedAt: nowMillis(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgEmailExists)
		}
		return nil, storeError(err)
	}

	logger.Info("Registered user %s", uid)
	uc.notifier.Publish(EventUsers, user)
	return user, nil
}

// Login returns the first user record stored for the email. When a
// verifier is configured the password is checked first, and the record
// whose uid matches the credential wins over key order.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	users, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if len(users) == 0 {
		return nil, apperrors.Unauthorized("Invalid credentials", nil)
	}

	if uc.verifier == nil {
		return users[0], nil
	}

	uid, err := uc.verifier.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, credential.ErrInvalidPassword) {
			return nil, apperrors.Unauthorized("Invalid credentials", err)
		}
		return nil, apperrors.Internal("Failed to verify credentials", err)
	}

	for _, u := range users {
		if u.UID == uid {
			return u, nil
		}
	}
	return users[0], nil
}
