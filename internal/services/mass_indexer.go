package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/singleton"
)

const completeTimeout = time.Minute

type EntityLister interface {
	List(ctx context.Context, afterID string, limit uint64) ([]models.Entity, error)
}

type OperationSubmitter interface {
	Submit(ctx context.Context, ops []models.Operation) ([]*future.Future[struct{}], error)
	Flush(ctx context.Context) error
}

type IndexRefresher interface {
	Refresh(ctx context.Context, index string) error
}

type MassIndexerOption func(*MassIndexer)

// WithRefresh makes every finished reindex refresh index on the cluster.
func WithRefresh(r IndexRefresher, index string) MassIndexerOption {
	return func(m *MassIndexer) {
		m.refresher = r
		m.index = index
	}
}

// MassIndexer rebuilds every index from the entity store. Reindex requests
// made while a run is in progress collapse into one more run.
type MassIndexer struct {
	entities  EntityLister
	indexer   OperationSubmitter
	refresher IndexRefresher
	index     string
	pageSize  uint64
	task      *singleton.Task

	mu      sync.Mutex
	status  models.MassIndexerStatus
	indexed int
}

func NewMassIndexer(entities EntityLister, indexer OperationSubmitter, s singleton.Scheduler, pageSize int, failureHandler failure.Handler, opts ...MassIndexerOption) *MassIndexer {
	if pageSize <= 0 {
		pageSize = 500
	}
	m := &MassIndexer{
		entities: entities,
		indexer:  indexer,
		pageSize: uint64(pageSize),
		status:   models.MassIndexerStatus{State: models.MassIndexerStatusIdle},
	}
	for _, opt := range opts {
		opt(m)
	}
	if failureHandler == nil {
		failureHandler = failure.NewLogHandler("mass_indexer")
	}
	m.task = singleton.NewTask("mass-indexer", m, s, failure.HandlerFunc(func(c failure.Context) {
		m.mu.Lock()
		m.status.Error = c.Err
		m.mu.Unlock()
		failureHandler.Handle(c)
	}))
	return m
}

// Reindex requests a run. The returned future resolves once a run started
// after the request has finished and been recorded.
func (m *MassIndexer) Reindex() *future.Future[struct{}] {
	return m.task.Schedule()
}

func (m *MassIndexer) Completion() *future.Future[struct{}] {
	return m.task.Completion()
}

func (m *MassIndexer) Status() models.MassIndexerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *MassIndexer) Stop() {
	m.task.Stop()
}

// Work submits every entity as an add operation, one page at a time.
func (m *MassIndexer) Work(ctx context.Context) *future.Future[struct{}] {
	m.mu.Lock()
	m.status.State = models.MassIndexerStatusRunning
	m.status.Error = nil
	m.indexed = 0
	m.mu.Unlock()

	after := ""
	for {
		page, err := m.entities.List(ctx, after, m.pageSize)
		if err != nil {
			return future.Failed[struct{}](fmt.Errorf("failed to list entities after %q: %w", after, err))
		}
		if len(page) == 0 {
			break
		}

		ops := make([]models.Operation, 0, len(page))
		for _, e := range page {
			ops = append(ops, models.Operation{Type: models.OperationAdd, Entity: e})
		}
		if _, err := m.indexer.Submit(ctx, ops); err != nil {
			return future.Failed[struct{}](fmt.Errorf("failed to submit page after %q: %w", after, err))
		}

		m.mu.Lock()
		m.indexed += len(page)
		m.mu.Unlock()

		after = page[len(page)-1].ID
		if uint64(len(page)) < m.pageSize {
			break
		}
	}

	return future.Completed(struct{}{})
}

// Complete runs once no other reindex is pending: it waits for the backends
// to drain, refreshes the remote index and records the run.
func (m *MassIndexer) Complete() {
	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	var err error
	if err = m.indexer.Flush(ctx); err == nil && m.refresher != nil {
		err = m.refresher.Refresh(ctx, m.index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.State = models.MassIndexerStatusIdle
	m.status.RunID = uuid.NewString()
	m.status.Runs++
	m.status.LastIndexed = m.indexed
	m.status.LastRunAt = time.Now()
	if err != nil {
		m.status.Error = err
	}

	zap.S().Named("mass_indexer").Infow("reindex finished", "run_id", m.status.RunID, "indexed", m.indexed, "error", err)
}
