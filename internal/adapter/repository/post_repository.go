package repository

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

type postRepository struct {
	store store.Store
}

func NewPostRepository(s store.Store) repository.PostRepository {
	return &postRepository{store: s}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	rec, err := encode(post)
	if err != nil {
		return err
	}
	return translate(r.store.Set(ctx, store.Posts, post.ID, rec))
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	rec, err := r.store.Get(ctx, store.Posts, id)
	if err != nil {
		return nil, translate(err)
	}
	return decodeOne[entity.Post](rec)
}

func (r *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	recs, err := r.store.ListOrderedBy(ctx, store.Posts, "timestamp")
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.Post](recs)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return translate(r.store.Remove(ctx, store.Posts, id))
}
