package store

import (
	"context"
	"sync"
)

// Memory keeps collections in process memory. It backs local development
// and tests; contents are lost on exit.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Record
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Record)}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec), nil
}

func (m *Memory) Set(_ context.Context, collection, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bucket(collection)[id] = clone(rec)
	return nil
}

func (m *Memory) InsertIfAbsent(_ context.Context, collection, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bucket(collection)
	if _, ok := b[id]; ok {
		return ErrExists
	}
	b[id] = clone(rec)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, partial Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bucket(collection)
	rec, ok := b[id]
	if !ok {
		rec = Record{}
	} else {
		rec = clone(rec)
	}
	for k, v := range partial {
		if v == nil {
			delete(rec, k)
			continue
		}
		rec[k] = v
	}
	b[id] = rec
	return nil
}

func (m *Memory) Remove(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[collection], id)
	return nil
}

func (m *Memory) QueryByField(_ context.Context, collection, field string, value interface{}) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []entry
	for id, rec := range m.data[collection] {
		if equalValues(rec[field], value) {
			entries = append(entries, entry{id: id, rec: clone(rec)})
		}
	}
	sortEntries(entries, "")
	return records(entries), nil
}

func (m *Memory) ListOrderedBy(_ context.Context, collection, field string) ([]Record, error) {
	return m.list(collection, field), nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Record, error) {
	return m.list(collection, ""), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) list(collection, field string) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]entry, 0, len(m.data[collection]))
	for id, rec := range m.data[collection] {
		entries = append(entries, entry{id: id, rec: clone(rec)})
	}
	sortEntries(entries, field)
	return records(entries)
}

// bucket must be called with mu held for writing.
func (m *Memory) bucket(collection string) map[string]Record {
	b, ok := m.data[collection]
	if !ok {
		b = make(map[string]Record)
		m.data[collection] = b
	}
	return b
}
