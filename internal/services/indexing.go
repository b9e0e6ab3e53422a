package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/internal/index"
	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/internal/store"
	"github.com/kubev2v/index-orchestrator/pkg/executor"
	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/orchestrator"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
)

type backend = orchestrator.BatchingOrchestrator[index.Writer]

// IndexingService fans every operation out to one orchestrator per writer.
type IndexingService struct {
	store    *store.Store
	backends []*backend
}

func NewIndexingService(st *store.Store, writers []index.Writer, opts executor.Options, factory scheduler.Factory, failureHandler failure.Handler) *IndexingService {
	s := &IndexingService{store: st}
	for _, w := range writers {
		h := failureHandler
		if h == nil {
			h = failure.NewLogHandler(w.Name())
		}
		s.backends = append(s.backends, orchestrator.NewBatchingOrchestrator(w.Name(), w, opts, factory, h))
	}
	return s
}

func (s *IndexingService) Start(ctx context.Context) error {
	for _, b := range s.backends {
		if err := b.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backend %q: %w", b.Name(), err)
		}
	}
	zap.S().Named("indexing_service").Infow("indexing started", "backends", len(s.backends))
	return nil
}

// Index persists the entity changes and submits them to every backend. The
// returned futures resolve when each change is durable in every backend.
func (s *IndexingService) Index(ctx context.Context, ops []models.Operation) ([]*future.Future[struct{}], error) {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.store.Entities().Apply(ctx, ops); err != nil {
		return nil, fmt.Errorf("failed to persist entities: %w", err)
	}

	return s.Submit(ctx, ops)
}

// Submit hands ops to every backend without touching the entity store.
func (s *IndexingService) Submit(ctx context.Context, ops []models.Operation) ([]*future.Future[struct{}], error) {
	results := make([]*future.Future[struct{}], 0, len(ops)*len(s.backends))
	for _, b := range s.backends {
		for _, op := range ops {
			work := index.NewWork(op)
			if err := b.Submit(ctx, work); err != nil {
				return results, err
			}
			results = append(results, work.Result())
		}
	}
	return results, nil
}

// Flush waits until every backend has drained what was submitted so far.
func (s *IndexingService) Flush(ctx context.Context) error {
	for _, b := range s.backends {
		if _, err := b.Completion().Wait(ctx); err != nil {
			return fmt.Errorf("failed to flush backend %q: %w", b.Name(), err)
		}
	}
	return nil
}

// Stop drains every backend, bounded by ctx, then stops them. Work still
// queued when ctx ends is dropped.
func (s *IndexingService) Stop(ctx context.Context) error {
	drains := make([]*future.Future[struct{}], 0, len(s.backends))
	for _, b := range s.backends {
		drains = append(drains, b.PreStop())
	}

	var errs []error
	for i, b := range s.backends {
		if _, err := drains[i].Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("backend %q did not drain: %w", b.Name(), err))
		}
		b.Stop()
	}

	zap.S().Named("indexing_service").Infow("indexing stopped", "backends", len(s.backends))
	return errors.Join(errs...)
}

func (s *IndexingService) Status(ctx context.Context) (models.IndexerStatus, error) {
	var status models.IndexerStatus
	for _, b := range s.backends {
		stats := b.Stats()
		status.Backends = append(status.Backends, models.BackendStatus{
			Name:        b.Name(),
			State:       backendState(b.State()),
			Batches:     stats.Batches,
			Applied:     stats.Applied,
			Failed:      stats.Failed,
			Discarded:   stats.Discarded,
			QueueLength: stats.QueueLength,
			Busy:        stats.ProcessingBusy,
		})
	}

	count, err := s.store.Documents().Count(ctx)
	if err != nil {
		return status, err
	}
	status.Documents = count
	return status, nil
}

func backendState(s orchestrator.State) models.BackendStatusType {
	switch s {
	case orchestrator.StateAccepting:
		return models.BackendStatusAccepting
	case orchestrator.StateDraining:
		return models.BackendStatusDraining
	case orchestrator.StateStopped:
		return models.BackendStatusStopped
	default:
		return models.BackendStatusNotStarted
	}
}
