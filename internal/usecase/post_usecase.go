package usecase

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	apperrors "communityhub/pkg/errors"
)

type PostUseCase struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	notifier Notifier
}

func NewPostUseCase(postRepo repository.PostRepository, userRepo repository.UserRepository, notifier Notifier) *PostUseCase {
	return &PostUseCase{
		postRepo: postRepo,
		userRepo: userRepo,
		notifier: notifierOrNoop(notifier),
	}
}

type CreatePostInput struct {
	UID     string
	Email   string
	Name    string
	Content string
}

// List returns the feed, most recent first.
func (uc *PostUseCase) List(ctx context.Context) ([]*entity.Post, error) {
	posts, err := uc.postRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return reversed(posts), nil
}

// Create rejects banned authors. An author with no profile record may post.
// Under authorization a non-admin may only post as themselves.
func (uc *PostUseCase) Create(ctx context.Context, actor *Actor, input CreatePostInput) (*entity.Post, error) {
	if err := actor.actAs(input.UID); err != nil {
		return nil, err
	}

	author, err := uc.userRepo.GetByID(ctx, input.UID)
	if err != nil && !isNotFound(err) {
		return nil, storeError(err)
	}
	if err == nil && author.IsBanned {
		return nil, apperrors.Forbidden("You are banned from posting", nil)
	}

	post := &entity.Post{
		ID:        newID(),
		UID:       input.UID,
		Email:     input.Email,
		Name:      input.Name,
		Content:   input.Content,
		Timestamp: nowMillis(),
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, storeError(err)
	}

	uc.notifier.Publish(EventPosts, post)
	return post, nil
}

// Delete removes a post. Under authorization only admins and the author
// may do so. Deleting a missing post succeeds.
func (uc *PostUseCase) Delete(ctx context.Context, actor *Actor, id string) error {
	if actor != nil && !actor.Admin {
		post, err := uc.postRepo.GetByID(ctx, id)
		if err != nil && !isNotFound(err) {
			return storeError(err)
		}
		if err == nil && post.UID != actor.UID {
			return apperrors.Forbidden("You can only delete your own posts", nil)
		}
	}

	if err := uc.postRepo.Delete(ctx, id); err != nil {
		return storeError(err)
	}

	uc.notifier.Publish(EventPosts, nil)
	return nil
}
