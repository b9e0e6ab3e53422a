// Package app wires the store, the indexing backends, the mass indexer and the
// HTTP server into one process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/index-orchestrator/api/v1"
	"github.com/kubev2v/index-orchestrator/internal/config"
	"github.com/kubev2v/index-orchestrator/internal/handlers"
	"github.com/kubev2v/index-orchestrator/internal/index"
	"github.com/kubev2v/index-orchestrator/internal/server"
	"github.com/kubev2v/index-orchestrator/internal/services"
	"github.com/kubev2v/index-orchestrator/internal/store"
	"github.com/kubev2v/index-orchestrator/internal/store/migrations"
	"github.com/kubev2v/index-orchestrator/pkg/executor"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
	"github.com/kubev2v/index-orchestrator/pkg/search"
)

type App struct {
	cfg              *config.Configuration
	db               *sql.DB
	indexingSrv      *services.IndexingService
	massIndexer      *services.MassIndexer
	massIndexerSched *scheduler.Scheduler
	srv              *server.Server
}

// New opens and migrates the database, then builds and starts the indexing
// backends. The HTTP server starts with Run.
func New(ctx context.Context, cfg *config.Configuration) (*App, error) {
	db, err := store.NewDB(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{cfg: cfg, db: db}
	if err := a.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	if err := migrations.Run(ctx, a.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	st := store.NewStore(a.db)

	writers := []index.Writer{index.NewLocalWriter(st.Documents(), a.cfg.Indexing.BatchTimeout)}

	var massIndexerOpts []services.MassIndexerOption
	if a.cfg.Remote.RemoteEnabled {
		client, err := search.NewClient(a.cfg.Remote.URL,
			search.WithToken(a.cfg.Remote.Token),
			search.WithMaxRetries(a.cfg.Remote.MaxRetries),
		)
		if err != nil {
			return fmt.Errorf("failed to create search client: %w", err)
		}
		writers = append(writers, index.NewRemoteWriter(client, a.cfg.Remote.Index, a.cfg.Indexing.BatchTimeout))
		massIndexerOpts = append(massIndexerOpts, services.WithRefresh(client, a.cfg.Remote.Index))
	}

	a.indexingSrv = services.NewIndexingService(st, writers, executor.Options{
		MaxTasksPerBatch: a.cfg.Indexing.MaxTasksPerBatch,
		QueueCapacity:    a.cfg.Indexing.QueueCapacity,
		Fair:             a.cfg.Indexing.Fair,
	}, scheduler.DefaultFactory, nil)
	if err := a.indexingSrv.Start(ctx); err != nil {
		return err
	}

	a.massIndexerSched = scheduler.NewNamedScheduler("mass-indexer", 1)
	a.massIndexer = services.NewMassIndexer(st.Entities(), a.indexingSrv, a.massIndexerSched,
		a.cfg.Indexing.MassIndexerPageSize, nil, massIndexerOpts...)

	h := handlers.New(a.indexingSrv, services.NewDocumentService(st), a.massIndexer)
	srv, err := server.NewServer(a.cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, h)
	})
	if err != nil {
		a.massIndexerSched.Close()
		_ = a.indexingSrv.Stop(ctx)
		return err
	}
	a.srv = srv
	return nil
}

// Run serves HTTP until ctx ends or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.srv.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		zap.S().Named("app").Infow("shutdown requested")
	case runErr = <-serverErr:
	}

	return errors.Join(runErr, a.Shutdown())
}

// Shutdown stops accepting requests, cancels any reindex, then drains the
// backends. The whole sequence shares ShutdownTimeout.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.srv.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
	}
	a.massIndexer.Stop()
	a.massIndexerSched.Close()
	if err := a.indexingSrv.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	zap.S().Named("app").Infow("indexer stopped")
	return errors.Join(errs...)
}

// Handler exposes the HTTP router without listening.
func (a *App) Handler() http.Handler {
	return a.srv.Handler()
}
