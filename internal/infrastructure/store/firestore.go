package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore maps each collection onto a top-level Firestore collection with
// the record id as document id.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) Get(ctx context.Context, collection, id string) (Record, error) {
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, unavailable("firestore get", err)
	}
	return Record(doc.Data()), nil
}

func (s *Firestore) Set(ctx context.Context, collection, id string, rec Record) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]interface{}(rec)); err != nil {
		return unavailable("firestore set", err)
	}
	return nil
}

func (s *Firestore) InsertIfAbsent(ctx context.Context, collection, id string, rec Record) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, map[string]interface{}(rec))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrExists
		}
		return unavailable("firestore insert", err)
	}
	return nil
}

func (s *Firestore) Update(ctx context.Context, collection, id string, partial Record) error {
	if len(partial) == 0 {
		return nil
	}
	data := make(map[string]interface{}, len(partial))
	for k, v := range partial {
		if v == nil {
			data[k] = firestore.Delete
			continue
		}
		data[k] = v
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return unavailable("firestore update", err)
	}
	return nil
}

func (s *Firestore) Remove(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return unavailable("firestore remove", err)
	}
	return nil
}

func (s *Firestore) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	entries, err := s.collect(ctx, s.client.Collection(collection).Where(field, "==", value))
	if err != nil {
		return nil, unavailable("firestore query", err)
	}
	sortEntries(entries, "")
	return records(entries), nil
}

func (s *Firestore) ListOrderedBy(ctx context.Context, collection, field string) ([]Record, error) {
	entries, err := s.collect(ctx, s.client.Collection(collection).OrderBy(field, firestore.Asc))
	if err != nil {
		return nil, unavailable("firestore list", err)
	}
	sortEntries(entries, field)
	return records(entries), nil
}

func (s *Firestore) List(ctx context.Context, collection string) ([]Record, error) {
	entries, err := s.collect(ctx, s.client.Collection(collection).OrderBy(firestore.DocumentID, firestore.Asc))
	if err != nil {
		return nil, unavailable("firestore list", err)
	}
	return records(entries), nil
}

func (s *Firestore) Ping(ctx context.Context) error {
	iter := s.client.Collection(Users).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return unavailable("firestore ping", err)
	}
	return nil
}

func (s *Firestore) Close() error {
	return s.client.Close()
}

func (s *Firestore) collect(ctx context.Context, query firestore.Query) ([]entry, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{id: doc.Ref.ID, rec: Record(doc.Data())})
	}
	return entries, nil
}
