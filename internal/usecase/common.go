package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"communityhub/internal/domain/repository"
	apperrors "communityhub/pkg/errors"
)

var now = time.Now

func nowMillis() int64 {
	return now().UnixMilli()
}

// newID returns a time-ordered id that stays unique within one clock tick.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// storeError maps repository failures that have no more specific meaning
// for the caller.
func storeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.StoreUnavailable(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
