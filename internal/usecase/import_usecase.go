package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"communityhub/internal/domain/entity"
	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/credential"
	"communityhub/pkg/logger"
)

// Snapshot is a local JSON dump with one array per collection. Records stay
// raw so a malformed entry only fails itself.
type Snapshot struct {
	Users    []json.RawMessage `json:"users"`
	Posts    []json.RawMessage `json:"posts"`
	Requests []json.RawMessage `json:"requests"`
	Chat     []json.RawMessage `json:"chat"`
	Feedback []json.RawMessage `json:"feedback"`
}

func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// importedUser is a snapshot user row. The password only seeds the
// credential store and is never written to the record.
type importedUser struct {
	entity.User
	Password string `json:"password"`
}

type Count struct {
	Migrated int `json:"migrated"`
	Total    int `json:"total"`
}

type Summary struct {
	Users    Count `json:"users"`
	Posts    Count `json:"posts"`
	Requests Count `json:"requests"`
	Chat     Count `json:"chat"`
	Feedback Count `json:"feedback"`
}

func (s Summary) Failed() int {
	total := 0
	for _, c := range []Count{s.Users, s.Posts, s.Requests, s.Chat, s.Feedback} {
		total += c.Total - c.Migrated
	}
	return total
}

type ImportUseCase struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	requestRepo  repository.RequestRepository
	chatRepo     repository.ChatRepository
	feedbackRepo repository.FeedbackRepository
	credentials  CredentialStore
	log          zerolog.Logger
}

func NewImportUseCase(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	requestRepo repository.RequestRepository,
	chatRepo repository.ChatRepository,
	feedbackRepo repository.FeedbackRepository,
	credentials CredentialStore,
) *ImportUseCase {
	return &ImportUseCase{
		userRepo:     userRepo,
		postRepo:     postRepo,
		requestRepo:  requestRepo,
		chatRepo:     chatRepo,
		feedbackRepo: feedbackRepo,
		credentials:  credentials,
		log:          logger.Component("import"),
	}
}

// Import writes every snapshot record by id. Failures are logged and
// counted; they never stop the run.
func (uc *ImportUseCase) Import(ctx context.Context, snap *Snapshot) Summary {
	var sum Summary

	sum.Users = Count{Total: len(snap.Users)}
	for _, raw := range snap.Users {
		if err := uc.importUser(ctx, raw); err != nil {
			uc.log.Error().Err(err).Msg("user not migrated")
			continue
		}
		sum.Users.Migrated++
	}

	sum.Posts = importAll(ctx, uc.log, "post", snap.Posts,
		func(p *entity.Post) string { return p.ID }, uc.postRepo.Create)
	sum.Requests = importAll(ctx, uc.log, "request", snap.Requests,
		func(r *entity.Request) string { return r.ID }, uc.requestRepo.Create)
	sum.Chat = importAll(ctx, uc.log, "chat", snap.Chat,
		func(m *entity.ChatMessage) string { return m.ID }, uc.chatRepo.Create)
	sum.Feedback = importAll(ctx, uc.log, "feedback", snap.Feedback,
		func(f *entity.Feedback) string { return f.ID }, uc.feedbackRepo.Create)

	return sum
}

func (uc *ImportUseCase) importUser(ctx context.Context, raw json.RawMessage) error {
	var row importedUser
	if err := json.Unmarshal(raw, &row); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	if row.UID == "" {
		return errors.New("user has no uid")
	}

	if row.Password != "" && row.Email != "" && uc.credentials != nil {
		_, err := uc.credentials.CreateUser(ctx, credential.Input{
			UID:      row.UID,
			Email:    row.Email,
			Password: row.Password,
		})
		switch {
		case err == nil:
			uc.log.Info().Str("email", row.Email).Msg("created credential")
		case errors.Is(err, credential.ErrExists):
			uc.log.Warn().Str("email", row.Email).Msg("credential already exists")
		default:
			uc.log.Warn().Err(err).Str("email", row.Email).Msg("credential not created")
		}
	}

	user := row.User
	if err := uc.userRepo.Save(ctx, &user); err != nil {
		return fmt.Errorf("user %s: %w", row.UID, err)
	}
	uc.log.Info().Str("uid", row.UID).Msg("migrated user")
	return nil
}

func importAll[T any](
	ctx context.Context,
	log zerolog.Logger,
	kind string,
	rows []json.RawMessage,
	idOf func(*T) string,
	write func(context.Context, *T) error,
) Count {
	count := Count{Total: len(rows)}
	for _, raw := range rows {
		if ctx.Err() != nil {
			log.Error().Err(ctx.Err()).Str("kind", kind).Msg("import cancelled")
			return count
		}

		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("record not decoded")
			continue
		}
		id := idOf(&item)
		if id == "" {
			log.Error().Str("kind", kind).Msg("record has no id")
			continue
		}
		if err := write(ctx, &item); err != nil {
			log.Error().Err(err).Str("kind", kind).Str("id", id).Msg("record not migrated")
			continue
		}
		count.Migrated++
	}
	return count
}
