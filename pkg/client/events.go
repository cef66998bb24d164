package client

import (
	"context"
	"sync"
)

type Kind string

const (
	KindUsers    Kind = "users"
	KindPosts    Kind = "posts"
	KindRequests Kind = "requests"
	KindChat     Kind = "chat"
	KindFeedback Kind = "feedback"
)

// Event tells views that an entity collection changed. Payload is the new
// record, or nil after a deletion or a push notification.
type Event struct {
	Kind    Kind
	Payload interface{}
}

// Bus delivers events synchronously to every subscriber in registration
// order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
	order  []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns its unsubscribe func.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Channel forwards events onto a buffered channel until ctx is done. An
// event that finds the buffer full is dropped; readers only need to know
// that something changed.
func (b *Bus) Channel(ctx context.Context, buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch
}
