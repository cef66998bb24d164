package repository

import (
	"errors"
	"fmt"

	"communityhub/internal/domain/repository"
	"communityhub/internal/infrastructure/store"
)

// translate maps store sentinels onto the domain ones. Other errors pass
// through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	case errors.Is(err, store.ErrExists):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return err
}

func decodeOne[T any](rec store.Record) (*T, error) {
	var out T
	if err := store.Decode(rec, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", repository.ErrUnavailable, err)
	}
	return &out, nil
}

func decodeAll[T any](recs []store.Record) ([]*T, error) {
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		item, err := decodeOne[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func encode(v interface{}) (store.Record, error) {
	rec, err := store.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return rec, nil
}
