// Package store is the record store adapter: typed-agnostic CRUD and
// simple queries over flat collections of JSON records keyed by id.
//
// Drivers never retry. Every failure that is not ErrNotFound or ErrExists
// is reported wrapped in ErrUnavailable.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	Users    = "users"
	Posts    = "posts"
	Requests = "requests"
	Chat     = "chat"
	Feedback = "feedback"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrExists      = errors.New("record already exists")
	ErrUnavailable = errors.New("store unavailable")
)

// Record is one stored document. Values are JSON-compatible.
type Record map[string]interface{}

type Store interface {
	Get(ctx context.Context, collection, id string) (Record, error)
	Set(ctx context.Context, collection, id string, rec Record) error
	// InsertIfAbsent writes rec only when nothing is stored at id. The
	// check and the write are atomic for that single path.
	InsertIfAbsent(ctx context.Context, collection, id string, rec Record) error
	// Update shallow-merges partial into the record at id.
	Update(ctx context.Context, collection, id string, partial Record) error
	// Remove deletes the record; removing a missing record is not an error.
	Remove(ctx context.Context, collection, id string) error
	// QueryByField returns records whose field equals value, ascending by id.
	QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error)
	// ListOrderedBy returns every record ascending by field, ties by id.
	ListOrderedBy(ctx context.Context, collection, field string) ([]Record, error)
	// List returns every record ascending by id.
	List(ctx context.Context, collection string) ([]Record, error)
	Ping(ctx context.Context) error
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// Encode converts a tagged struct into a Record through its JSON form.
func Encode(v interface{}) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Decode fills v from rec through its JSON form.
func Decode(rec Record, v interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
