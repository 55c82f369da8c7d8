// Package chanutil provides a byte-weighted bounded channel: the sole
// backpressure mechanism between the connection pipeline's state and
// respond workers (spec.md §4.H, §9 — "MUST NOT substitute a
// count-bounded queue", because object payloads vary by orders of
// magnitude).
package chanutil

import (
	"context"
	"sync"
)

// Weighted is the interface an item must satisfy to flow through a
// BoundedChannel: it reports the byte weight it occupies while queued.
type Weighted interface {
	Weight() int
}

// BoundedChannel is a FIFO, byte-weighted bounded queue between exactly
// one sender and one receiver (spec.md §4.F: "all typed,
// single-producer/single-consumer").
type BoundedChannel[T Weighted] struct {
	capacity int64

	mu       sync.Mutex
	queued   int64
	items    []T
	closed   bool
	notEmpty chan struct{}
	notFull  chan struct{}
}

// NewBoundedChannel creates a channel that blocks sends once the queued
// weight would exceed capacityBytes.
func NewBoundedChannel[T Weighted](capacityBytes int64) *BoundedChannel[T] {
	return &BoundedChannel[T]{
		capacity: capacityBytes,
		notEmpty: make(chan struct{}, 1),
		notFull:  make(chan struct{}, 1),
	}
}

// Send blocks until queued weight + item.Weight() <= capacity, then
// enqueues item. It returns ctx.Err() if ctx is cancelled while waiting,
// and ErrClosed if the channel has been closed.
func (c *BoundedChannel[T]) Send(ctx context.Context, item T) error {
	w := int64(item.Weight())
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		// An oversized single item is still admitted once the queue is
		// otherwise empty, so one object larger than capacity cannot wedge
		// the pipeline forever.
		if c.queued+w <= c.capacity || len(c.items) == 0 {
			c.items = append(c.items, item)
			c.queued += w
			c.mu.Unlock()
			c.signal(c.notEmpty)
			return nil
		}
		c.mu.Unlock()

		select {
		case <-c.notFull:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Recv blocks until an item is available or the channel is closed and
// drained.
func (c *BoundedChannel[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	for {
		c.mu.Lock()
		if len(c.items) > 0 {
			item := c.items[0]
			c.items = c.items[1:]
			c.queued -= int64(item.Weight())
			c.mu.Unlock()
			c.signal(c.notFull)
			return item, nil
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return zero, ErrClosed
		}

		select {
		case <-c.notEmpty:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close marks the channel closed; pending Recv calls drain remaining
// items before returning ErrClosed.
func (c *BoundedChannel[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.signal(c.notEmpty)
	c.signal(c.notFull)
}

// QueuedBytes reports the current queued weight, for tests asserting the
// backpressure property (spec.md §8).
func (c *BoundedChannel[T]) QueuedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queued
}

func (c *BoundedChannel[T]) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// ErrClosed is returned by Send/Recv once the channel has been closed and
// drained.
var ErrClosed = errClosed{}

type errClosed struct{}

func (errClosed) Error() string { return "chanutil: channel closed" }
