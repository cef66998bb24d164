package store

import (
	"context"
	"errors"
	"strings"

	"firebase.google.com/go/v4/db"
)

// RTDB stores each collection as a child of the database root:
// <collection>/<id> -> record.
type RTDB struct {
	client *db.Client
}

func NewRTDB(client *db.Client) *RTDB {
	return &RTDB{client: client}
}

func (s *RTDB) ref(collection string) *db.Ref {
	return s.client.NewRef(collection)
}

func (s *RTDB) Get(ctx context.Context, collection, id string) (Record, error) {
	var rec Record
	if err := s.ref(collection).Child(id).Get(ctx, &rec); err != nil {
		return nil, unavailable("rtdb get", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RTDB) Set(ctx context.Context, collection, id string, rec Record) error {
	if err := s.ref(collection).Child(id).Set(ctx, rec); err != nil {
		return unavailable("rtdb set", err)
	}
	return nil
}

func (s *RTDB) InsertIfAbsent(ctx context.Context, collection, id string, rec Record) error {
	err := s.ref(collection).Child(id).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current Record
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current != nil {
			return nil, ErrExists
		}
		return rec, nil
	})
	if errors.Is(err, ErrExists) {
		return ErrExists
	}
	if err != nil {
		return unavailable("rtdb insert", err)
	}
	return nil
}

func (s *RTDB) Update(ctx context.Context, collection, id string, partial Record) error {
	if len(partial) == 0 {
		return nil
	}
	if err := s.ref(collection).Child(id).Update(ctx, partial); err != nil {
		return unavailable("rtdb update", err)
	}
	return nil
}

func (s *RTDB) Remove(ctx context.Context, collection, id string) error {
	if err := s.ref(collection).Child(id).Delete(ctx); err != nil {
		return unavailable("rtdb remove", err)
	}
	return nil
}

func (s *RTDB) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	nodes, err := s.ref(collection).OrderByChild(field).EqualTo(value).GetOrdered(ctx)
	if isIndexError(err) {
		entries, err := s.scan(ctx, collection)
		if err != nil {
			return nil, unavailable("rtdb query", err)
		}
		matched := entries[:0]
		for _, e := range entries {
			if equalValues(e.rec[field], value) {
				matched = append(matched, e)
			}
		}
		return records(matched), nil
	}
	if err != nil {
		return nil, unavailable("rtdb query", err)
	}
	// Equal child values leave the server ordering by key, which is the
	// contract already; sorting again keeps drivers interchangeable.
	entries, err := decodeNodes(nodes)
	if err != nil {
		return nil, unavailable("rtdb query", err)
	}
	sortEntries(entries, "")
	return records(entries), nil
}

func (s *RTDB) ListOrderedBy(ctx context.Context, collection, field string) ([]Record, error) {
	nodes, err := s.ref(collection).OrderByChild(field).GetOrdered(ctx)
	if isIndexError(err) {
		entries, err := s.scan(ctx, collection)
		if err != nil {
			return nil, unavailable("rtdb list", err)
		}
		sortEntries(entries, field)
		return records(entries), nil
	}
	if err != nil {
		return nil, unavailable("rtdb list", err)
	}
	entries, err := decodeNodes(nodes)
	if err != nil {
		return nil, unavailable("rtdb list", err)
	}
	return records(entries), nil
}

func (s *RTDB) List(ctx context.Context, collection string) ([]Record, error) {
	entries, err := s.scan(ctx, collection)
	if err != nil {
		return nil, unavailable("rtdb list", err)
	}
	return records(entries), nil
}

// scan reads a whole collection in key order. Key ordering needs no index
// rule, so it is also the fallback for child queries the database refuses.
func (s *RTDB) scan(ctx context.Context, collection string) ([]entry, error) {
	nodes, err := s.ref(collection).OrderByKey().GetOrdered(ctx)
	if err != nil {
		return nil, err
	}
	return decodeNodes(nodes)
}

func (s *RTDB) Ping(ctx context.Context) error {
	if _, err := s.ref(Users).OrderByKey().LimitToFirst(1).GetOrdered(ctx); err != nil {
		return unavailable("rtdb ping", err)
	}
	return nil
}

// Close is a no-op; the database client holds no connections of its own.
func (s *RTDB) Close() error { return nil }

// isIndexError reports the REST rejection of orderBy on a child without an
// .indexOn rule. database.rules.json declares the indexes the repositories use.
func isIndexError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Index not defined")
}

func decodeNodes(nodes []db.QueryNode) ([]entry, error) {
	entries := make([]entry, 0, len(nodes))
	for _, node := range nodes {
		var rec Record
		if err := node.Unmarshal(&rec); err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		entries = append(entries, entry{id: node.Key(), rec: rec})
	}
	return entries, nil
}
