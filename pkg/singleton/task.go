package singleton

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
)

// Worker is the recurring unit of work run by a Task.
type Worker interface {
	// Work performs one run. The returned future resolves when the run is over.
	Work(ctx context.Context) *future.Future[struct{}]
	// Complete is called when a run ends and no other run was requested.
	Complete()
}

// Scheduler runs a callback once. *scheduler.Scheduler satisfies it.
type Scheduler interface {
	Submit(w scheduler.Work[any]) (*future.Future[any], error)
}

type Status int32

const (
	StatusIdle Status = iota
	StatusScheduled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// Task guarantees its worker never runs concurrently with itself. Requests
// made while a run is scheduled or in progress collapse into at most one
// extra run.
type Task struct {
	name           string
	worker         Worker
	scheduler      Scheduler
	failureHandler failure.Handler

	status   atomic.Int32
	needsRun atomic.Bool

	mu         sync.Mutex
	completion *future.Future[struct{}]
	// waiting resolves after the next run to start, covered after the
	// current one.
	waiting   *future.Future[struct{}]
	covered   []*future.Future[struct{}]
	cancelRun context.CancelFunc
	stopped   bool
}

func NewTask(name string, worker Worker, s Scheduler, failureHandler failure.Handler) *Task {
	if failureHandler == nil {
		failureHandler = failure.NewLogHandler(name)
	}
	return &Task{
		name:           name,
		worker:         worker,
		scheduler:      s,
		failureHandler: failureHandler,
	}
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Status() Status {
	return Status(t.status.Load())
}

// EnsureScheduled asks for the worker to run soon. It never runs anything by
// itself: only the caller that moves the task from idle to scheduled submits
// a run, everyone else leaves the needs-run flag for the current run to find.
func (t *Task) EnsureScheduled() {
	t.needsRun.Store(true)
	if !t.status.CompareAndSwap(int32(StatusIdle), int32(StatusScheduled)) {
		return
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		t.status.Store(int32(StatusIdle))
		return
	}
	if t.completion == nil {
		t.completion = future.New[struct{}](nil)
	}
	runCtx, cancel := context.WithCancel(context.Background())
	t.cancelRun = cancel
	t.mu.Unlock()

	_, err := t.scheduler.Submit(func(ctx context.Context) (any, error) {
		return t.run(ctx, runCtx)
	})
	if err != nil {
		cancel()
		t.mu.Lock()
		f, waiting, stopped := t.completion, t.waiting, t.stopped
		t.completion, t.waiting, t.cancelRun = nil, nil, nil
		t.mu.Unlock()

		if f != nil {
			f.Fail(err)
		}
		if waiting != nil {
			waiting.Fail(err)
		}
		t.status.Store(int32(StatusIdle))
		if !stopped {
			t.failureHandler.Handle(failure.Context{
				FailingOperation: fmt.Sprintf("Scheduling task %q", t.name),
				Err:              err,
			})
		}
	}
}

// Schedule is EnsureScheduled returning a future that resolves once a run
// started after the call has completed. A run that is already ending never
// resolves it.
func (t *Task) Schedule() *future.Future[struct{}] {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		f := future.New[struct{}](nil)
		f.Cancel()
		return f
	}
	if t.waiting == nil {
		t.waiting = future.New[struct{}](nil)
	}
	f := t.waiting
	t.mu.Unlock()

	t.EnsureScheduled()
	return f
}

// Completion returns a future resolving when no run is scheduled or in progress.
func (t *Task) Completion() *future.Future[struct{}] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completion == nil {
		return future.Completed(struct{}{})
	}
	return t.completion
}

// Stop cancels the pending or running invocation and the completion future.
// The task ignores EnsureScheduled afterwards.
func (t *Task) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancel, f := t.cancelRun, t.completion
	pending := t.covered
	if t.waiting != nil {
		pending = append(pending, t.waiting)
	}
	t.cancelRun, t.completion, t.waiting, t.covered = nil, nil, nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if f != nil {
		f.Cancel()
	}
	for _, p := range pending {
		p.Cancel()
	}
	zap.S().Named("singleton").Debugw("task stopped", "name", t.name)
}

func (t *Task) run(ctx, runCtx context.Context) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(runCtx, cancel)()

	if runCtx.Err() != nil || ctx.Err() != nil {
		t.status.Store(int32(StatusIdle))
		return nil, context.Canceled
	}

	t.needsRun.Store(false)

	t.mu.Lock()
	if t.waiting != nil {
		t.covered = append(t.covered, t.waiting)
		t.waiting = nil
	}
	t.mu.Unlock()

	if err := t.work(ctx); err != nil && ctx.Err() == nil {
		t.failureHandler.Handle(failure.Context{
			FailingOperation: fmt.Sprintf("Running task %q", t.name),
			Err:              err,
		})
	}

	t.afterRun()
	return nil, nil
}

func (t *Task) work(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task worker panicked: %v", r)
		}
	}()

	f := t.worker.Work(ctx)
	if f == nil {
		return nil
	}
	_, err = f.Wait(ctx)
	return err
}

func (t *Task) afterRun() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if stopped {
		t.status.Store(int32(StatusIdle))
		return
	}

	defer func() {
		t.mu.Lock()
		if t.cancelRun != nil {
			t.cancelRun()
			t.cancelRun = nil
		}
		t.mu.Unlock()
		t.status.Store(int32(StatusIdle))
		// A request may have come in after needs-run was read.
		if t.needsRun.Load() {
			t.EnsureScheduled()
		}
	}()

	if t.needsRun.Load() {
		return
	}

	t.complete()

	t.mu.Lock()
	f, covered := t.completion, t.covered
	t.completion, t.covered = nil, nil
	t.mu.Unlock()

	if f != nil {
		f.Complete(struct{}{})
	}
	for _, c := range covered {
		c.Complete(struct{}{})
	}
}

func (t *Task) complete() {
	defer func() {
		if r := recover(); r != nil {
			t.failureHandler.Handle(failure.Context{
				FailingOperation: fmt.Sprintf("Completing task %q", t.name),
				Err:              fmt.Errorf("panic: %v", r),
			})
		}
	}()
	t.worker.Complete()
}
