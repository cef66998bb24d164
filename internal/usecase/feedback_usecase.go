package usecase

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
)

type FeedbackUseCase struct {
	feedbackRepo repository.FeedbackRepository
	notifier     Notifier
}

func NewFeedbackUseCase(feedbackRepo repository.FeedbackRepository, notifier Notifier) *FeedbackUseCase {
	return &FeedbackUseCase{
		feedbackRepo: feedbackRepo,
		notifier:     notifierOrNoop(notifier),
	}
}

type SubmitFeedbackInput struct {
	UID     string
	Email   string
	Name    string
	Message string
}

func (uc *FeedbackUseCase) List(ctx context.Context) ([]*entity.Feedback, error) {
	items, err := uc.feedbackRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return reversed(items), nil
}

func (uc *FeedbackUseCase) Submit(ctx context.Context, actor *Actor, input SubmitFeedbackInput) (*entity.Feedback, error) {
	if err := actor.actAs(input.UID); err != nil {
		return nil, err
	}

	item := &entity.Feedback{
		ID:        newID(),
		UID:       input.UID,
		Email:     input.Email,
		Name:      input.Name,
		Message:   input.Message,
		Timestamp: nowMillis(),
	}

	if err := uc.feedbackRepo.Create(ctx, item); err != nil {
		return nil, storeError(err)
	}

	uc.notifier.Publish(EventFeedback, item)
	return item, nil
}
