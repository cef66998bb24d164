package repository

import (
	"context"
	"sort"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

type chatRepository struct {
	store store.Store
}

func NewChatRepository(s store.Store) repository.ChatRepository {
	return &chatRepository{store: s}
}

func (r *chatRepository) Create(ctx context.Context, msg *entity.ChatMessage) error {
	rec, err := encode(msg)
	if err != nil {
		return err
	}
	return translate(r.store.Set(ctx, store.Chat, msg.ID, rec))
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*entity.ChatMessage, error) {
	rec, err := r.store.Get(ctx, store.Chat, id)
	if err != nil {
		return nil, translate(err)
	}
	return decodeOne[entity.ChatMessage](rec)
}

func (r *chatRepository) List(ctx context.Context) ([]*entity.ChatMessage, error) {
	recs, err := r.store.ListOrderedBy(ctx, store.Chat, "timestamp")
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll[entity.ChatMessage](recs)
}

func (r *chatRepository) ListConversation(ctx context.Context, uid string) ([]*entity.ChatMessage, error) {
	authored, err := r.store.QueryByField(ctx, store.Chat, "uid", uid)
	if err != nil {
		return nil, translate(err)
	}
	replies, err := r.store.QueryByField(ctx, store.Chat, "targetUid", uid)
	if err != nil {
		return nil, translate(err)
	}

	msgs, err := decodeAll[entity.ChatMessage](append(authored, replies...))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(msgs))
	out := make([]*entity.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if seen[m.ID] || !m.InConversation(uid) {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *chatRepository) Delete(ctx context.Context, id string) error {
	return translate(r.store.Remove(ctx, store.Chat, id))
}
