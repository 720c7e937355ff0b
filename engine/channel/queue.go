package channel

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO shared by any number of producers and consumers.
// Push never blocks. Pop blocks until an item is available, the queue is closed or ctx is done.
// Items pushed before Close are still delivered.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push appends v. It fails with ErrChannelClosed once the queue is closed.
func (q *queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrChannelClosed
	}
	q.items = append(q.items, v)
	q.signal()
	return nil
}

// TryPop removes the oldest item without blocking.
// It reports ErrChannelClosed only when the queue is closed and drained.
func (q *queue[T]) TryPop() (T, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Pop removes the oldest item, waiting for one if the queue is empty.
func (q *queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		v, ok, err := q.popLocked()
		q.mu.Unlock()
		if ok || err != nil {
			return v, err
		}

		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Len returns the number of queued items.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops further pushes and wakes every waiter. Safe to call more than once.
func (q *queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
}

// Done is closed when the queue is closed.
func (q *queue[T]) Done() <-chan struct{} {
	return q.done
}

func (q *queue[T]) popLocked() (T, bool, error) {
	var zero T
	if len(q.items) == 0 {
		if q.closed {
			return zero, false, ErrChannelClosed
		}
		return zero, false, nil
	}

	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.signal()
	}
	return v, true, nil
}

// signal wakes one waiter. Must be called with mu held.
func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
