package executor

import (
	"context"
	"errors"
	"sync"
)

var errQueueClosed = errors.New("queue: closed")

type waiter[T any] struct {
	item  T
	ready chan error
}

// blockingQueue is a bounded FIFO. Put blocks while the queue is full;
// DrainUpTo is only called from the executor's worker.
//
// In fair mode producers blocked on a full queue are admitted in arrival
// order, and a newcomer queues up behind them even if room just freed up.
// Otherwise woken producers race each other and newcomers for free slots.
type blockingQueue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	fair     bool
	waiters  []*waiter[T]
	space    chan struct{}
	closed   bool
}

func newBlockingQueue[T any](capacity int, fair bool) *blockingQueue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &blockingQueue[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		fair:     fair,
		space:    make(chan struct{}),
	}
}

func (q *blockingQueue[T]) Put(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return errQueueClosed
		}

		if len(q.items) < q.capacity && (!q.fair || len(q.waiters) == 0) {
			q.items = append(q.items, item)
			q.mu.Unlock()
			return nil
		}

		if q.fair {
			w := &waiter[T]{item: item, ready: make(chan error, 1)}
			q.waiters = append(q.waiters, w)
			q.mu.Unlock()
			return q.await(ctx, w)
		}

		space := q.space
		q.mu.Unlock()

		select {
		case <-space:
		case <-ctx.Done():
			return ctx.Err()
		}

		q.mu.Lock()
	}
}

func (q *blockingQueue[T]) await(ctx context.Context, w *waiter[T]) error {
	select {
	case err := <-w.ready:
		return err
	case <-ctx.Done():
	}

	q.mu.Lock()
	for i, other := range q.waiters {
		if other == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			q.mu.Unlock()
			return ctx.Err()
		}
	}
	q.mu.Unlock()

	// admitted or rejected while we were giving up
	return <-w.ready
}

// DrainUpTo removes at most limit items, oldest first.
func (q *blockingQueue[T]) DrainUpTo(limit int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(limit, len(q.items))
	if n <= 0 {
		return nil
	}

	batch := make([]T, n)
	copy(batch, q.items)

	remaining := copy(q.items, q.items[n:])
	var zero T
	for i := remaining; i < len(q.items); i++ {
		q.items[i] = zero
	}
	q.items = q.items[:remaining]

	q.admit()
	return batch
}

func (q *blockingQueue[T]) admit() {
	if q.fair {
		for len(q.items) < q.capacity && len(q.waiters) > 0 {
			w := q.waiters[0]
			q.waiters[0] = nil
			q.waiters = q.waiters[1:]
			q.items = append(q.items, w.item)
			w.ready <- nil
		}
		return
	}

	close(q.space)
	q.space = make(chan struct{})
}

func (q *blockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects every blocked and future Put and returns the items that were
// still queued.
func (q *blockingQueue[T]) Close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	discarded := q.items
	q.items = nil

	for _, w := range q.waiters {
		w.ready <- errQueueClosed
	}
	q.waiters = nil
	close(q.space)

	return discarded
}
