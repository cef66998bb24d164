package usecase

import (
	"context"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
)

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	notifier Notifier
}

func NewChatUseCase(chatRepo repository.ChatRepository, notifier Notifier) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		notifier: notifierOrNoop(notifier),
	}
}

type SendMessageInput struct {
	UID       string
	Email     string
	Name      string
	Msg       string
	TargetUID string
}

// List returns messages ascending by timestamp. With a uid it returns only
// that participant's conversation; without one, everything. Under
// authorization a non-admin may only read their own conversation.
func (uc *ChatUseCase) List(ctx context.Context, actor *Actor, uid string) ([]*entity.ChatMessage, error) {
	if uid == "" {
		if err := actor.requireAdmin(); err != nil {
			return nil, err
		}
	} else if err := actor.actAs(uid); err != nil {
		return nil, err
	}

	var (
		msgs []*entity.ChatMessage
		err  error
	)
	if uid != "" {
		msgs, err = uc.chatRepo.ListConversation(ctx, uid)
	} else {
		msgs, err = uc.chatRepo.List(ctx)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return msgs, nil
}

// Send stores a message. An empty target means the author is writing to
// support. Only admins reply to a target.
func (uc *ChatUseCase) Send(ctx context.Context, actor *Actor, input SendMessageInput) (*entity.ChatMessage, error) {
	if err := actor.actAs(input.UID); err != nil {
		return nil, err
	}
	if input.TargetUID != "" {
		if err := actor.requireAdmin(); err != nil {
			return nil, err
		}
	}

	msg := &entity.ChatMessage{
		ID:        newID(),
		UID:       input.UID,
		Email:     input.Email,
		Name:      input.Name,
		Msg:       input.Msg,
		Timestamp: nowMillis(),
	}
	if input.TargetUID != "" {
		target := input.TargetUID
		msg.TargetUID = &target
	}

	if err := uc.chatRepo.Create(ctx, msg); err != nil {
		return nil, storeError(err)
	}

	uc.notifier.Publish(EventChat, msg)
	return msg, nil
}

func (uc *ChatUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.chatRepo.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	uc.notifier.Publish(EventChat, nil)
	return nil
}
