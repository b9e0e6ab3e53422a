package scheduler

import (
	"context"
	"errors"
)

var ErrSchedulerClosed = errors.New("scheduler: closed")

type Work[T any] func(ctx context.Context) (T, error)

// Factory creates the named background resource used by one orchestrator.
type Factory func(name string) *Scheduler

// DefaultFactory creates a single-worker scheduler, which serializes every
// piece of work submitted to it.
func DefaultFactory(name string) *Scheduler {
	return NewNamedScheduler(name, 1)
}
