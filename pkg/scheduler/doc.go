// Package scheduler implements a small worker pool that runs work functions
// and reports their outcome through futures.
//
// It is the background resource every orchestrator in this module runs on.
// An orchestrator asks a Factory for a named scheduler; the default factory
// creates a single-worker scheduler, so everything submitted to it runs on
// one goroutine at a time.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	│         ▲                     ▲                     ▲               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                        ┌──────┴──────┐                              │
//	│                        │  dispatch() │                              │
//	│                        └──────┬──────┘                              │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                      Work Queue                         │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                      Submit(fn) / AddWork(fn)                       │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Submitting Work
//
// Submit returns a *future.Future together with an error. The error is
// ErrSchedulerClosed when the scheduler has been closed; callers that need
// to undo bookkeeping on rejection use Submit. AddWork never fails and hands
// back a cancelled future instead.
//
//	f, err := s.Submit(func(ctx context.Context) (any, error) {
//	    return "done", nil
//	})
//	if err != nil {
//	    // rejected, nothing will run
//	}
//	v, err := f.Wait(ctx)
//
// # Cancellation
//
// Each work request gets a context derived from the scheduler's main context:
//
//   - future.Stop() cancels the work's context; work that has not started
//     yet is skipped and its future cancelled
//   - Close() cancels the main context, cancels queued work and waits for
//     in-flight work to return
//
// Work functions should check ctx.Done() to respond to cancellation.
//
// # Panic Recovery
//
// A panic inside a work function fails its future with
// "worker panicked: <value>" and the worker returns to the pool.
//
// Close() is idempotent (uses sync.Once).
package scheduler
