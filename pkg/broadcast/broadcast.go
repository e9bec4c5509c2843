// Package broadcast is a small last-value pub/sub hub. Publishing is
// fire-and-forget: with no subscribers the value is dropped silently,
// and a subscriber that cannot keep up loses intermediate values
// rather than blocking the publisher. Because published values are
// full snapshots, missing one is harmless — the next publish carries
// the whole state. The hub remembers the most recent value and replays
// it once to each new subscriber, so a display that attaches mid-shift
// shows the current cart immediately.
package broadcast

import "sync"

// Hub fans a stream of values out to any number of subscribers.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[*subscriber[T]]struct{}
	last   T
	hasVal bool
	closed bool
}

type subscriber[T any] struct {
	ch chan T
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*subscriber[T]]struct{})}
}

// Publish delivers v to every current subscriber without blocking.
// A subscriber whose buffer is full has its pending value replaced by
// draining one slot first — last write wins.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = v
	h.hasVal = true
	for s := range h.subs {
		select {
		case s.ch <- v:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- v:
			default:
			}
		}
	}
}

// Subscribe registers a new receiver. If the hub has seen a value, it
// is queued immediately so the receiver starts from current state.
// The returned cancel func must be called when the receiver detaches.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	s := &subscriber[T]{ch: make(chan T, 1)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	h.subs[s] = struct{}{}
	if h.hasVal {
		s.ch <- h.last
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[s]; ok {
			delete(h.subs, s)
			close(s.ch)
		}
		h.mu.Unlock()
	}
	return s.ch, cancel
}

// SubscriberCount returns the number of attached receivers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close detaches all subscribers and rejects further publishes.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
}
