// Package future provides a cancellable one-shot result handle.
//
// A Future starts pending and ends in exactly one of three terminal states:
// resolved, failed or cancelled. The first terminal transition wins; any
// later attempt is ignored and reported as false to the caller.
//
//	f := future.New[int](nil)
//	go func() { f.Complete(42) }()
//	v, err := f.Wait(ctx)
//
// Any number of goroutines may wait on Done() at the same time.
package future

import (
	"context"
	"sync"
)

// State is the lifecycle state of a Future.
type State int32

const (
	StatePending State = iota
	StateResolved
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Result[T any] struct {
	Data T
	Err  error
}

type Future[T any] struct {
	mu     sync.Mutex
	done   chan struct{}
	state  State
	result Result[T]
	cancel context.CancelFunc
}

// New returns a pending future. cancel, if not nil, is called by Stop and Cancel.
func New[T any](cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Completed returns a future already resolved with v.
func Completed[T any](v T) *Future[T] {
	f := New[T](nil)
	f.Complete(v)
	return f
}

// Failed returns a future already failed with err.
func Failed[T any](err error) *Future[T] {
	f := New[T](nil)
	f.Fail(err)
	return f
}

func (f *Future[T]) Complete(v T) bool {
	return f.finish(StateResolved, Result[T]{Data: v})
}

func (f *Future[T]) Fail(err error) bool {
	return f.finish(StateFailed, Result[T]{Err: err})
}

// Cancel fails the future with context.Canceled and cancels the work context.
func (f *Future[T]) Cancel() bool {
	ok := f.finish(StateCancelled, Result[T]{Err: context.Canceled})
	f.Stop()
	return ok
}

// Stop cancels the context of the work behind the future, if any.
// The future itself is left to whoever produces the result.
func (f *Future[T]) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Future[T]) finish(state State, r Result[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePending {
		return false
	}
	f.state = state
	f.result = r
	close(f.done)
	return true
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Future[T]) IsDone() bool {
	return f.State() != StatePending
}

func (f *Future[T]) IsCancelled() bool {
	return f.State() == StateCancelled
}

// Result returns the outcome and true once the future is terminal.
func (f *Future[T]) Result() (Result[T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.state != StatePending
}

// Err returns the failure of a terminal future, nil otherwise.
func (f *Future[T]) Err() error {
	r, _ := f.Result()
	return r.Err
}

// Wait blocks until the future is terminal or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		r, _ := f.Result()
		return r.Data, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
