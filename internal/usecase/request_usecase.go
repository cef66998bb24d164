package usecase

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	apperrors "communityhub/pkg/errors"
)

type RequestUseCase struct {
	requestRepo repository.RequestRepository
	notifier    Notifier
}

func NewRequestUseCase(requestRepo repository.RequestRepository, notifier Notifier) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		notifier:    notifierOrNoop(notifier),
	}
}

type CreateRequestInput struct {
	UID   string
	Email string
	Type  string
	Desc  string
}

// List returns requests most recent first, limited to uid when given.
func (uc *RequestUseCase) List(ctx context.Context, actor *Actor, uid string) ([]*entity.Request, error) {
	if uid == "" {
		if err := actor.requireAdmin(); err != nil {
			return nil, err
		}
	} else if err := actor.actAs(uid); err != nil {
		return nil, err
	}

	var (
		requests []*entity.Request
		err      error
	)
	if uid != "" {
		requests, err = uc.requestRepo.ListByUID(ctx, uid)
	} else {
		requests, err = uc.requestRepo.List(ctx)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return reversed(requests), nil
}

func (uc *RequestUseCase) Create(ctx context.Context, actor *Actor, input CreateRequestInput) (*entity.Request, error) {
	if err := actor.actAs(input.UID); err != nil {
		return nil, err
	}

	request := &entity.Request{
		ID:        newID(),
		UID:       input.UID,
		Email:     input.Email,
		Type:      input.Type,
		Desc:      input.Desc,
		Status:    entity.RequestPending,
		Timestamp: nowMillis(),
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, storeError(err)
	}

	uc.notifier.Publish(EventRequests, request)
	return request, nil
}

func (uc *RequestUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Request, error) {
	if !entity.ValidRequestStatus(status) {
		return nil, apperrors.BadRequest("status must be one of [pending active completed]", nil)
	}

	request, err := uc.requestRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Request", err)
		}
		return nil, storeError(err)
	}

	uc.notifier.Publish(EventRequests, request)
	return request, nil
}
