package orchestrator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
	"github.com/kubev2v/index-orchestrator/pkg/future"
)

type State int32

const (
	StateNotStarted State = iota
	StateAccepting
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateAccepting:
		return "accepting"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var ErrStartWhileDraining = srvErrors.NewIllegalStateError("cannot start an orchestrator while it is draining")

// Consumer is what a Gate protects. Its Do* hooks are only called by the
// gate, DoStart and DoStop under the exclusive lock, DoSubmit under the
// shared one.
type Consumer[W any] interface {
	DoStart(ctx context.Context) error
	DoSubmit(ctx context.Context, w W) error
	Completion() *future.Future[struct{}]
	DoStop()
}

type Gate[W any] struct {
	name     string
	consumer Consumer[W]

	mu    sync.RWMutex
	state State
}

func NewGate[W any](name string, consumer Consumer[W]) *Gate[W] {
	return &Gate[W]{name: name, consumer: consumer}
}

func (g *Gate[W]) Name() string {
	return g.name
}

func (g *Gate[W]) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Start moves a new or stopped gate to accepting. It is a no-op when the gate
// already accepts work. A failing DoStart leaves the state unchanged.
func (g *Gate[W]) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateAccepting:
		return nil
	case StateDraining:
		return ErrStartWhileDraining
	}

	if err := g.consumer.DoStart(ctx); err != nil {
		return err
	}

	g.state = StateAccepting
	zap.S().Named("orchestrator").Debugw("orchestrator started", "name", g.name)
	return nil
}

// PreStop stops accepting work and returns the future of the work still in
// flight. Calling it again returns the current completion.
func (g *Gate[W]) PreStop() *future.Future[struct{}] {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateNotStarted:
		return future.Completed(struct{}{})
	case StateAccepting:
		g.state = StateDraining
		zap.S().Named("orchestrator").Debugw("orchestrator draining", "name", g.name)
	}
	return g.consumer.Completion()
}

// Stop forcefully stops the consumer. Queued work is dropped.
func (g *Gate[W]) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateStopped {
		return
	}
	g.state = StateStopped
	g.consumer.DoStop()
	zap.S().Named("orchestrator").Debugw("orchestrator stopped", "name", g.name)
}

// Completion returns the consumer's outstanding-work future without changing
// the state.
func (g *Gate[W]) Completion() *future.Future[struct{}] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state == StateNotStarted {
		return future.Completed(struct{}{})
	}
	return g.consumer.Completion()
}

// Submit hands w to the consumer. Submissions run concurrently with each other
// but never with a state transition.
func (g *Gate[W]) Submit(ctx context.Context, w W) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state != StateAccepting {
		return srvErrors.NewOrchestratorStoppedError(g.name, g.state.String())
	}

	err := g.consumer.DoSubmit(ctx, w)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return srvErrors.NewSubmitInterruptedError(g.name, ctx.Err())
	}
	return err
}
