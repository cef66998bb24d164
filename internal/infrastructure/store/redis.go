package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps one hash per collection (<prefix>:<collection>) whose fields
// are record ids and whose values are JSON-encoded records.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "communityhub"
	}
	return &Redis{client: client, prefix: prefix}
}

// ConnectRedis parses url and verifies the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}
	return client, nil
}

func (s *Redis) key(collection string) string {
	return s.prefix + ":" + collection
}

func (s *Redis) Get(ctx context.Context, collection, id string) (Record, error) {
	raw, err := s.client.HGet(ctx, s.key(collection), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("redis get", err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, unavailable("redis get", err)
	}
	return rec, nil
}

func (s *Redis) Set(ctx context.Context, collection, id string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return unavailable("redis set", err)
	}
	if err := s.client.HSet(ctx, s.key(collection), id, raw).Err(); err != nil {
		return unavailable("redis set", err)
	}
	return nil
}

func (s *Redis) InsertIfAbsent(ctx context.Context, collection, id string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return unavailable("redis insert", err)
	}
	ok, err := s.client.HSetNX(ctx, s.key(collection), id, raw).Result()
	if err != nil {
		return unavailable("redis insert", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *Redis) Update(ctx context.Context, collection, id string, partial Record) error {
	key := s.key(collection)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		rec := Record{}
		raw, err := tx.HGet(ctx, key, id).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if rec, err = decodeRecord(raw); err != nil {
				return err
			}
		}
		for k, v := range partial {
			if v == nil {
				delete(rec, k)
				continue
			}
			rec[k] = v
		}
		merged, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, merged)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return unavailable("redis update", err)
	}
	return nil
}

func (s *Redis) Remove(ctx context.Context, collection, id string) error {
	if err := s.client.HDel(ctx, s.key(collection), id).Err(); err != nil {
		return unavailable("redis remove", err)
	}
	return nil
}

func (s *Redis) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	all, err := s.entries(ctx, collection)
	if err != nil {
		return nil, unavailable("redis query", err)
	}
	matched := all[:0]
	for _, e := range all {
		if equalValues(e.rec[field], value) {
			matched = append(matched, e)
		}
	}
	sortEntries(matched, "")
	return records(matched), nil
}

func (s *Redis) ListOrderedBy(ctx context.Context, collection, field string) ([]Record, error) {
	all, err := s.entries(ctx, collection)
	if err != nil {
		return nil, unavailable("redis list", err)
	}
	sortEntries(all, field)
	return records(all), nil
}

func (s *Redis) List(ctx context.Context, collection string) ([]Record, error) {
	return s.ListOrderedBy(ctx, collection, "")
}

func (s *Redis) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("redis ping", err)
	}
	return nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) entries(ctx context.Context, collection string) ([]entry, error) {
	all, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]entry, 0, len(all))
	for id, raw := range all {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{id: id, rec: rec})
	}
	return entries, nil
}

func decodeRecord(raw string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}
