package hub

import (
	"sync"

	"github.com/grovetools/chime/pkg/api"
)

// Broadcaster fans hub events out to every connected event stream. It
// is thread-safe and supports pub/sub for the SSE endpoint.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan api.StreamEvent]struct{}
}

// NewBroadcaster creates a Broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan api.StreamEvent]struct{})}
}

// Subscribe creates a new subscription channel for hub events.
func (b *Broadcaster) Subscribe() chan api.StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan api.StreamEvent, 100) // Buffered
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to
// call twice with the same channel.
func (b *Broadcaster) Unsubscribe(ch chan api.StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers an event to every subscriber.
func (b *Broadcaster) Publish(ev api.StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Non-blocking send to prevent slow clients from stalling the hub
		}
	}
}

// Subscribers returns the number of connected streams.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
