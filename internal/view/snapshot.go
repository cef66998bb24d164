// Package view holds the console view controllers: each one polls the API,
// diffs the fresh data against what it last rendered, and repaints only the
// sections that changed.
package view

import (
	"encoding/json"
	"sync"
)

// Serialize renders v as the comparison key for a section. Values that
// cannot be encoded serialize to "" so they always count as changed once.
func Serialize(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func Changed(last, next string) bool {
	return last != next
}

// Snapshot is the last rendered serialization of each section of a view.
type Snapshot struct {
	mu       sync.Mutex
	sections map[string]string
}

func NewSnapshot() *Snapshot {
	return &Snapshot{sections: make(map[string]string)}
}

// Swap stores next for section and reports whether it differs from what
// was stored before. A section seen for the first time is always changed.
func (s *Snapshot) Swap(section, next string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, seen := s.sections[section]
	if seen && !Changed(last, next) {
		return false
	}
	s.sections[section] = next
	return true
}

// Reset forgets section so the next Swap repaints it.
func (s *Snapshot) Reset(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, section)
}
