package repository

import (
	"context"

	"communityhub/internal/domain/entity"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns posts oldest first.
	List(ctx context.Context) ([]*entity.Post, error)
	Delete(ctx context.Context, id string) error
}
