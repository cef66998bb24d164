package repository

import (
	"context"

	"communityhub/internal/domain/entity"
)

type UserRepository interface {
	// Create writes the user only if no record exists under its uid.
	Create(ctx context.Context, user *entity.User) error
	Save(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, uid string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) ([]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Update shallow-merges fields into the record and returns the result.
	Update(ctx context.Context, uid string, fields map[string]interface{}) (*entity.User, error)
}
