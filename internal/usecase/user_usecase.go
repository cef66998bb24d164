package usecase

import (
	"context"
	"encoding/json"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	apperrors "communityhub/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	auth     *AuthUseCase
	notifier Notifier
}

func NewUserUseCase(userRepo repository.UserRepository, auth *AuthUseCase, notifier Notifier) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		auth:     auth,
		notifier: notifierOrNoop(notifier),
	}
}

func (uc *UserUseCase) List(ctx context.Context) ([]*entity.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return users, nil
}

// Create is the admin-side account creation. It follows the signup policy
// with a generated user_ uid.
func (uc *UserUseCase) Create(ctx context.Context, email, password string) (*entity.User, error) {
	return uc.auth.Register(ctx, RegisterInput{
		UID:      "user_" + newID(),
		Email:    email,
		Password: password,
	})
}

// Update merges the allowed fields onto the stored user. A missing user is
// created when the payload carries an email; otherwise it is NotFound.
// Applying the same fields twice leaves the same record.
func (uc *UserUseCase) Update(ctx context.Context, actor *Actor, uid string, fields map[string]interface{}) (*entity.User, error) {
	updates, err := sanitizeUserFields(fields)
	if err != nil {
		return nil, err
	}

	if actor != nil && !actor.Admin {
		if actor.UID != uid {
			return nil, apperrors.Forbidden("You can only update your own profile", nil)
		}
		if _, ok := updates["role"]; ok {
			return nil, apperrors.Forbidden("Admin access required", nil)
		}
		if _, ok := updates["isBanned"]; ok {
			return nil, apperrors.Forbidden("Admin access required", nil)
		}
	}

	if email, _ := updates["email"].(string); email != "" {
		if err := uc.ensureEmailFree(ctx, uid, email); err != nil {
			return nil, err
		}
	}

	existing, err := uc.userRepo.GetByID(ctx, uid)
	switch {
	case err == nil:
		if len(updates) == 0 {
			return existing, nil
		}
		updated, err := uc.userRepo.Update(ctx, uid, updates)
		if err != nil {
			return nil, storeError(err)
		}
		uc.notifier.Publish(EventUsers, updated)
		return updated, nil

	case isNotFound(err):
		email, _ := updates["email"].(string)
		if email == "" {
			return nil, apperrors.NotFound("User", err)
		}

		user := &entity.User{
			UID:      uid,
			Role:     entity.RoleUser,
			IsBanned: false,
			JoinedAt: nowMillis(),
		}
		if err := applyUserFields(user, updates); err != nil {
			return nil, err
		}
		if err := uc.userRepo.Save(ctx, user); err != nil {
			return nil, storeError(err)
		}
		uc.notifier.Publish(EventUsers, user)
		return user, nil

	default:
		return nil, storeError(err)
	}
}

// ensureEmailFree keeps emails unique across profiles. Re-sending the
// caller's own email is fine.
func (uc *UserUseCase) ensureEmailFree(ctx context.Context, uid, email string) error {
	holders, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}
	for _, holder := range holders {
		if holder.UID != uid {
			return apperrors.Conflict(msgEmailExists)
		}
	}
	return nil
}

// sanitizeUserFields drops keys that are not user fields and checks the
// value types of the ones that are.
func sanitizeUserFields(fields map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if !entity.UserFields[key] {
			continue
		}
		switch key {
		case "isBanned":
			if _, ok := value.(bool); !ok {
				return nil, apperrors.BadRequest("isBanned must be a boolean", nil)
			}
		case "role":
			role, ok := value.(string)
			if !ok || (role != entity.RoleUser && role != entity.RoleAdmin) {
				return nil, apperrors.BadRequest("role must be one of [user admin]", nil)
			}
		default:
			if _, ok := value.(string); !ok {
				return nil, apperrors.BadRequest(key+" must be a string", nil)
			}
		}
		out[key] = value
	}
	return out, nil
}

func applyUserFields(user *entity.User, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return apperrors.BadRequest("Invalid user fields", err)
	}
	if err := json.Unmarshal(raw, user); err != nil {
		return apperrors.BadRequest("Invalid user fields", err)
	}
	return nil
}
