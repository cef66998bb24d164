package repository

import (
	"context"

	"communityhub/internal/domain/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context) ([]*entity.Request, error)
	ListByUID(ctx context.Context, uid string) ([]*entity.Request, error)
	UpdateStatus(ctx context.Context, id, status string) (*entity.Request, error)
}
