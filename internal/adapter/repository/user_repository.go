package repository

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

type userRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) repository.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	rec, err := encode(user)
	if err != nil {
		return err
	}
	return translate(r.store.InsertIfAbsent(ctx, store.Users, user.UID, rec))
}

func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	rec, err := encode(user)
	if err != nil {
		return err
	}
	return translate(r.store.Set(ctx, store.Users, user.UID, rec))
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	rec, err := r.store.Get(ctx, store.Users, uid)
	if err != nil {
		return nil, translate(err)
	}
	return decodeOne[entity.User](rec)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) ([]*entity.User, error) {
	recs, err := r.store.QueryByField(ctx, store.Users, "email", email)
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.User](recs)
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	recs, err := r.store.List(ctx, store.Users)
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.User](recs)
}

func (r *userRepository) Update(ctx context.Context, uid string, fields map[string]interface{}) (*entity.User, error) {
	if err := r.store.Update(ctx, store.Users, uid, store.Record(fields)); err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, uid)
}
