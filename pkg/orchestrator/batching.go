package orchestrator

import (
	"context"
	"errors"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
	"github.com/kubev2v/index-orchestrator/pkg/executor"
	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
)

// BatchingOrchestrator is a Gate in front of a BatchingExecutor. Each start
// builds a fresh executor around the same processor.
type BatchingOrchestrator[P executor.Processor] struct {
	*Gate[executor.Workset[P]]
	consumer *batchingConsumer[P]
}

func NewBatchingOrchestrator[P executor.Processor](
	name string,
	processor P,
	opts executor.Options,
	factory scheduler.Factory,
	failureHandler failure.Handler,
) *BatchingOrchestrator[P] {
	if factory == nil {
		factory = scheduler.DefaultFactory
	}
	if failureHandler == nil {
		failureHandler = failure.NewLogHandler(name)
	}
	c := &batchingConsumer[P]{
		name:           name,
		processor:      processor,
		opts:           opts,
		factory:        factory,
		failureHandler: failureHandler,
	}
	return &BatchingOrchestrator[P]{
		Gate:     NewGate[executor.Workset[P]](name, c),
		consumer: c,
	}
}

func (o *BatchingOrchestrator[P]) Stats() executor.Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.consumer.exec == nil {
		return executor.Stats{}
	}
	return o.consumer.exec.Stats()
}

// batchingConsumer is only touched through the gate, so exec needs no lock
// of its own: it is replaced under the exclusive lock and read under the
// shared one.
type batchingConsumer[P executor.Processor] struct {
	name           string
	processor      P
	opts           executor.Options
	factory        scheduler.Factory
	failureHandler failure.Handler

	exec *executor.BatchingExecutor[P]
}

func (c *batchingConsumer[P]) DoStart(_ context.Context) error {
	exec := executor.NewBatchingExecutor(c.name, c.processor, c.opts, c.failureHandler)
	if err := exec.Start(c.factory); err != nil {
		return err
	}
	c.exec = exec
	return nil
}

func (c *batchingConsumer[P]) DoSubmit(ctx context.Context, w executor.Workset[P]) error {
	err := c.exec.Submit(ctx, w)
	if errors.Is(err, executor.ErrExecutorStopped) {
		return srvErrors.NewOrchestratorStoppedError(c.name, StateStopped.String())
	}
	return err
}

func (c *batchingConsumer[P]) Completion() *future.Future[struct{}] {
	if c.exec == nil {
		return future.Completed(struct{}{})
	}
	return c.exec.Completion()
}

func (c *batchingConsumer[P]) DoStop() {
	if c.exec != nil {
		c.exec.Stop()
	}
}
