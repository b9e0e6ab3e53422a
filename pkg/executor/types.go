package executor

import (
	"errors"

	"github.com/kubev2v/index-orchestrator/pkg/future"
)

const DefaultMaxTasksPerBatch = 1000

var (
	ErrExecutorNotStarted = errors.New("executor: not started")
	ErrExecutorStopped    = errors.New("executor: stopped")
)

// Processor absorbs the worksets of one batch. The executor only ever calls
// it from its worker, so implementations need not be safe for concurrent use.
type Processor interface {
	// BeginBatch resets per-batch state.
	BeginBatch()
	// EndBatch flushes what the batch accumulated. The returned future
	// resolves once those effects are durable.
	EndBatch() *future.Future[struct{}]
}

// Workset is one unit of work handed to a Processor.
type Workset[P Processor] interface {
	SubmitTo(processor P) error
	// MarkAsFailed is called instead of, or after a failed, SubmitTo.
	MarkAsFailed(err error)
}

// WorksetFunc adapts a function to Workset; failures are passed to onFailure.
type WorksetFunc[P Processor] struct {
	Fn        func(P) error
	OnFailure func(error)
}

func (w WorksetFunc[P]) SubmitTo(p P) error {
	return w.Fn(p)
}

func (w WorksetFunc[P]) MarkAsFailed(err error) {
	if w.OnFailure != nil {
		w.OnFailure(err)
	}
}

type Options struct {
	// MaxTasksPerBatch caps how many worksets one batch drains.
	MaxTasksPerBatch int
	// QueueCapacity is the back-pressure threshold. Defaults to MaxTasksPerBatch.
	QueueCapacity int
	// Fair admits producers blocked on a full queue in arrival order.
	Fair bool
}

func (o *Options) FillDefaults() {
	if o.MaxTasksPerBatch <= 0 {
		o.MaxTasksPerBatch = DefaultMaxTasksPerBatch
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = o.MaxTasksPerBatch
	}
}

// Stats is a snapshot of the executor counters.
type Stats struct {
	Batches        uint64
	Applied        uint64
	Failed         uint64
	Discarded      uint64
	QueueLength    int
	ProcessingBusy bool
}
