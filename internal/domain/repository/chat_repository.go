package repository

import (
	"context"

	"communityhub/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *entity.ChatMessage) error
	GetByID(ctx context.Context, id string) (*entity.ChatMessage, error)
	// List returns every message ascending by timestamp.
	List(ctx context.Context) ([]*entity.ChatMessage, error)
	// ListConversation returns uid's own messages plus support replies
	// addressed to uid, ascending by timestamp.
	ListConversation(ctx context.Context, uid string) ([]*entity.ChatMessage, error)
	Delete(ctx context.Context, id string) error
}
