// Package inputbuffer queues short-lived control requests between the
// goroutines that produce them and the tick that consumes them.
package inputbuffer

import "time"

type entry[K comparable] struct {
	kind K
	at   time.Time
}

// Buffer is a FIFO of requests that expire after a fixed timeout.
//
// Only the front of the queue is ever matched: ConsumeIfPresent drops
// expired entries from the front, then either consumes a matching front
// entry or leaves the queue untouched. It never searches past the first
// live entry. Expiry is evaluated lazily, there is no background timer.
//
// Buffer is not safe for concurrent use. Producers on other goroutines
// must hand requests to the simulation goroutine first.
type Buffer[K comparable] struct {
	timeout time.Duration
	now     func() time.Time
	queue   []entry[K]
}

// New creates a buffer. now may be nil to use the wall clock.
func New[K comparable](timeout time.Duration, now func() time.Time) *Buffer[K] {
	if now == nil {
		now = time.Now
	}
	return &Buffer[K]{timeout: timeout, now: now}
}

// Push appends kind stamped with the current time.
func (b *Buffer[K]) Push(kind K) {
	b.queue = append(b.queue, entry[K]{kind: kind, at: b.now()})
}

// ConsumeIfPresent reports whether the oldest live request is kind,
// removing it if so.
func (b *Buffer[K]) ConsumeIfPresent(kind K) bool {
	now := b.now()
	for len(b.queue) > 0 && now.Sub(b.queue[0].at) > b.timeout {
		b.queue[0] = entry[K]{}
		b.queue = b.queue[1:]
	}
	if len(b.queue) == 0 || b.queue[0].kind != kind {
		return false
	}
	b.queue[0] = entry[K]{}
	b.queue = b.queue[1:]
	return true
}

// Peek returns the front entry without expiring or consuming anything.
func (b *Buffer[K]) Peek() (K, bool) {
	if len(b.queue) == 0 {
		var zero K
		return zero, false
	}
	return b.queue[0].kind, true
}

// Len returns the number of queued entries, expired ones included.
func (b *Buffer[K]) Len() int {
	return len(b.queue)
}

// Clear drops every queued request.
func (b *Buffer[K]) Clear() {
	b.queue = nil
}
