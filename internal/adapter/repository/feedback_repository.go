package repository

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

type feedbackRepository struct {
	store store.Store
}

func NewFeedbackRepository(s store.Store) repository.FeedbackRepository {
	return &feedbackRepository{store: s}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	rec, err := encode(feedback)
	if err != nil {
		return err
	}
	return translate(r.store.Set(ctx, store.Feedback, feedback.ID, rec))
}

func (r *feedbackRepository) List(ctx context.Context) ([]*entity.Feedback, error) {
	recs, err := r.store.ListOrderedBy(ctx, store.Feedback, "timestamp")
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.Feedback](recs)
}
