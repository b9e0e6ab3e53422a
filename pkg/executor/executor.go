package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
)

type BatchingExecutor[P Processor] struct {
	name           string
	processor      P
	opts           Options
	failureHandler failure.Handler

	// mu guards the bookkeeping below, never a processor call.
	mu         sync.Mutex
	worker     *scheduler.Scheduler
	workQueue  *blockingQueue[Workset[P]]
	completion *future.Future[struct{}]
	stopped    bool

	processing  atomic.Bool
	processorMu sync.Mutex

	batches   atomic.Uint64
	applied   atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64
}

func NewBatchingExecutor[P Processor](name string, processor P, opts Options, failureHandler failure.Handler) *BatchingExecutor[P] {
	opts.FillDefaults()
	if failureHandler == nil {
		failureHandler = failure.NewLogHandler(name)
	}
	return &BatchingExecutor[P]{
		name:           name,
		processor:      processor,
		opts:           opts,
		failureHandler: failureHandler,
	}
}

// Start creates the single worker the executor runs its batches on.
func (e *BatchingExecutor[P]) Start(factory scheduler.Factory) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return srvErrors.NewIllegalStateError("executor %q cannot be restarted after stop", e.name)
	}
	if e.worker != nil {
		return srvErrors.NewIllegalStateError("executor %q is already started", e.name)
	}
	if factory == nil {
		factory = scheduler.DefaultFactory
	}

	e.workQueue = newBlockingQueue[Workset[P]](e.opts.QueueCapacity, e.opts.Fair)
	e.worker = factory(e.name)

	zap.S().Named("executor").Debugw("executor started", "name", e.name,
		"max_tasks_per_batch", e.opts.MaxTasksPerBatch, "queue_capacity", e.opts.QueueCapacity, "fair", e.opts.Fair)
	return nil
}

// Submit enqueues ws, blocking while the queue is full, and makes sure a
// processing cycle is scheduled. If ctx ends first the workset is not enqueued.
func (e *BatchingExecutor[P]) Submit(ctx context.Context, ws Workset[P]) error {
	e.mu.Lock()
	q, stopped := e.workQueue, e.stopped
	e.mu.Unlock()

	if stopped {
		return ErrExecutorStopped
	}
	if q == nil {
		return ErrExecutorNotStarted
	}

	if err := q.Put(ctx, ws); err != nil {
		if errors.Is(err, errQueueClosed) {
			return ErrExecutorStopped
		}
		return err
	}

	e.ensureProcessingScheduled()
	return nil
}

// Completion returns a future resolving when the queue is drained and no batch
// is running. Work submitted after the call may delay it.
func (e *BatchingExecutor[P]) Completion() *future.Future[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.completion == nil {
		return future.Completed(struct{}{})
	}
	return e.completion
}

// Stop drops queued work, cancels the outstanding-work future and the worker.
// Worksets still in the queue are marked as failed with ErrExecutorStopped.
func (e *BatchingExecutor[P]) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	worker, q, f := e.worker, e.workQueue, e.completion
	e.completion = nil
	e.mu.Unlock()

	var discarded []Workset[P]
	if q != nil {
		discarded = q.Close()
	}
	if f != nil {
		f.Cancel()
	}
	if worker != nil {
		worker.Close()
	}

	for _, ws := range discarded {
		e.markAsFailed(ws, ErrExecutorStopped)
	}
	e.discarded.Add(uint64(len(discarded)))

	zap.S().Named("executor").Debugw("executor stopped", "name", e.name, "discarded", len(discarded))
}

func (e *BatchingExecutor[P]) Stats() Stats {
	e.mu.Lock()
	q := e.workQueue
	e.mu.Unlock()

	s := Stats{
		Batches:        e.batches.Load(),
		Applied:        e.applied.Load(),
		Failed:         e.failed.Load(),
		Discarded:      e.discarded.Load(),
		ProcessingBusy: e.processing.Load(),
	}
	if q != nil {
		s.QueueLength = q.Len()
	}
	return s
}

func (e *BatchingExecutor[P]) ensureProcessingScheduled() {
	// The loser relies on the winner noticing its work before giving up.
	if !e.processing.CompareAndSwap(false, true) {
		return
	}

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.processing.Store(false)
		return
	}
	if e.completion == nil {
		e.completion = future.New[struct{}](nil)
	}
	worker := e.worker
	e.mu.Unlock()

	if _, err := worker.Submit(e.process); err != nil {
		e.mu.Lock()
		f, stopped := e.completion, e.stopped
		e.completion = nil
		e.mu.Unlock()

		if f != nil {
			f.Fail(err)
		}
		e.processing.Store(false)
		if stopped {
			return
		}
		e.failureHandler.Handle(failure.Context{
			FailingOperation: fmt.Sprintf("Scheduling the processing of the work queue of %q", e.name),
			Err:              err,
		})
	}
}

func (e *BatchingExecutor[P]) process(ctx context.Context) (any, error) {
	e.processBatch(ctx)

	e.mu.Lock()
	q, stopped := e.workQueue, e.stopped
	var done *future.Future[struct{}]
	empty := q.Len() == 0
	if empty {
		done = e.completion
		e.completion = nil
	}
	e.mu.Unlock()

	if done != nil {
		done.Complete(struct{}{})
	} else if empty && !stopped {
		e.failureHandler.Handle(failure.Context{
			FailingOperation: fmt.Sprintf("Completing the work queue of %q", e.name),
			Err:              errors.New("outstanding-work future missing while processing was in progress"),
		})
	}

	e.processing.Store(false)

	// New work may have arrived after the emptiness check, while its
	// producer still saw processing in progress.
	if !stopped && q.Len() > 0 {
		e.ensureProcessingScheduled()
	}
	return nil, nil
}

func (e *BatchingExecutor[P]) processBatch(ctx context.Context) {
	e.processorMu.Lock()
	defer e.processorMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.failureHandler.Handle(failure.Context{
				FailingOperation: fmt.Sprintf("Work processing in %q", e.name),
				Err:              fmt.Errorf("processor panicked: %v", r),
			})
		}
	}()

	if e.workQueue.Len() == 0 {
		return
	}

	e.processor.BeginBatch()

	batch := e.workQueue.DrainUpTo(e.opts.MaxTasksPerBatch)
	for _, ws := range batch {
		e.apply(ws)
	}
	e.batches.Add(1)

	endBatch := e.processor.EndBatch()
	if endBatch == nil {
		return
	}

	// No deadline here: the processor enforces its own timeouts. Only Stop
	// cancels ctx.
	if _, err := endBatch.Wait(ctx); err != nil && ctx.Err() == nil {
		e.failureHandler.Handle(failure.Context{
			FailingOperation: fmt.Sprintf("Work processing in %q", e.name),
			Err:              err,
		})
	}

	zap.S().Named("executor").Debugw("batch processed", "name", e.name, "size", len(batch))
}

func (e *BatchingExecutor[P]) apply(ws Workset[P]) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("workset panicked: %v", r)
			}
		}()
		return ws.SubmitTo(e.processor)
	}()

	if err != nil {
		e.failed.Add(1)
		e.markAsFailed(ws, err)
		return
	}
	e.applied.Add(1)
}

func (e *BatchingExecutor[P]) markAsFailed(ws Workset[P], cause error) {
	defer func() {
		if r := recover(); r != nil {
			e.failureHandler.Handle(failure.Context{
				FailingOperation: fmt.Sprintf("Marking a workset as failed in %q", e.name),
				Err:              fmt.Errorf("panic: %v (original failure: %w)", r, cause),
			})
		}
	}()
	ws.MarkAsFailed(cause)
}
