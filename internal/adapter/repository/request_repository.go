package repository

import (
	"context"
	"sort"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

type requestRepository struct {
	store store.Store
}

func NewRequestRepository(s store.Store) repository.RequestRepository {
	return &requestRepository{store: s}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) error {
	rec, err := encode(request)
	if err != nil {
		return err
	}
	return translate(r.store.Set(ctx, store.Requests, request.ID, rec))
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	rec, err := r.store.Get(ctx, store.Requests, id)
	if err != nil {
		return nil, translate(err)
	}
	return decodeOne[entity.Request](rec)
}

func (r *requestRepository) List(ctx context.Context) ([]*entity.Request, error) {
	recs, err := r.store.ListOrderedBy(ctx, store.Requests, "timestamp")
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.Request](recs)
}

func (r *requestRepository) ListByUID(ctx context.Context, uid string) ([]*entity.Request, error) {
	recs, err := r.store.QueryByField(ctx, store.Requests, "uid", uid)
	if err != nil {
		return nil, translate(err)
	}
	requests, err := decodeAll[entity.Request](recs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Timestamp < requests[j].Timestamp
	})
	return requests, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id, status string) (*entity.Request, error) {
	if _, err := r.store.Get(ctx, store.Requests, id); err != nil {
		return nil, translate(err)
	}
	if err := r.store.Update(ctx, store.Requests, id, store.Record{"status": status}); err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, id)
}
