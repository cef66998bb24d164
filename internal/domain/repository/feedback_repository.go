package repository

import (
	"context"

	"communityhub/internal/domain/entity"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	List(ctx context.Context) ([]*entity.Feedback, error)
}
