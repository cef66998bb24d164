package store

import (
	"context"
	"math"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory":       NewMemory(),
		"redis":        NewRedis(client, "test"),
		"instrumented": Instrument(NewMemory()),
	}
}

func ids(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec["id"].(string))
	}
	return out
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, Posts, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, Posts, "b", Record{"id": "b", "uid": "u1", "timestamp": 30}))
			require.NoError(t, s.Set(ctx, Posts, "a", Record{"id": "a", "uid": "u2", "timestamp": 20}))
			require.NoError(t, s.Set(ctx, Posts, "c", Record{"id": "c", "uid": "u1", "timestamp": 10}))

			rec, err := s.Get(ctx, Posts, "a")
			require.NoError(t, err)
			assert.Equal(t, "u2", rec["uid"])

			ordered, err := s.ListOrderedBy(ctx, Posts, "timestamp")
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "a", "b"}, ids(ordered))

			all, err := s.List(ctx, Posts)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, ids(all))

			byUID, err := s.QueryByField(ctx, Posts, "uid", "u1")
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "c"}, ids(byUID))

			none, err := s.QueryByField(ctx, Posts, "uid", "nobody")
			require.NoError(t, err)
			assert.Empty(t, none)

			require.NoError(t, s.Update(ctx, Posts, "a", Record{"content": "edited"}))
			rec, err = s.Get(ctx, Posts, "a")
			require.NoError(t, err)
			assert.Equal(t, "edited", rec["content"])
			assert.Equal(t, "u2", rec["uid"])

			require.NoError(t, s.Remove(ctx, Posts, "a"))
			require.NoError(t, s.Remove(ctx, Posts, "a"))
			_, err = s.Get(ctx, Posts, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Ping(ctx))
		})
	}
}

func TestInsertIfAbsent(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.InsertIfAbsent(ctx, Users, "u1", Record{"uid": "u1", "email": "a@x.com"}))

			err := s.InsertIfAbsent(ctx, Users, "u1", Record{"uid": "u1", "email": "b@x.com"})
			assert.ErrorIs(t, err, ErrExists)

			rec, err := s.Get(ctx, Users, "u1")
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", rec["email"])
		})
	}
}

func TestRedisEncodeFailuresAreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := drivers(t)["redis"]
	bad := Record{"id": "x", "score": math.Inf(1)}

	assert.ErrorIs(t, s.Set(ctx, Posts, "x", bad), ErrUnavailable)
	assert.ErrorIs(t, s.InsertIfAbsent(ctx, Posts, "x", bad), ErrUnavailable)

	_, err := s.Get(ctx, Posts, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryByFieldMatchesBooleans(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, Users, "u1", Record{"id": "u1", "isBanned": true}))
	require.NoError(t, s.Set(ctx, Users, "u2", Record{"id": "u2", "isBanned": false}))

	banned, err := s.QueryByField(ctx, Users, "isBanned", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids(banned))
}

func TestCompareValuesOrdersLikeRealtimeDatabase(t *testing.T) {
	values := []interface{}{nil, false, true, 1, 2.5, "a", "b", map[string]interface{}{}}
	for i := 0; i < len(values)-1; i++ {
		assert.Equal(t, -1, compareValues(values[i], values[i+1]), "%v < %v", values[i], values[i+1])
	}
	assert.Equal(t, 0, compareValues(int64(3), float64(3)))
}

func TestEncodeDecodeKeepsJSONFieldNames(t *testing.T) {
	type sample struct {
		UID      string  `json:"uid"`
		IsBanned bool    `json:"isBanned"`
		Target   *string `json:"targetUid"`
	}

	rec, err := Encode(sample{UID: "u1", IsBanned: true})
	require.NoError(t, err)
	assert.Equal(t, Record{"uid": "u1", "isBanned": true, "targetUid": nil}, rec)

	var out sample
	require.NoError(t, Decode(rec, &out))
	assert.Equal(t, "u1", out.UID)
	assert.Nil(t, out.Target)
}
