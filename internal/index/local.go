package index

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/pkg/future"
)

type DocumentWriter interface {
	ApplyBatch(ctx context.Context, upserts []models.Document, deletes []string) error
}

// LocalWriter flushes batches into the local document store.
type LocalWriter struct {
	store   DocumentWriter
	timeout time.Duration
	batch   batch
}

func NewLocalWriter(store DocumentWriter, timeout time.Duration) *LocalWriter {
	return &LocalWriter{store: store, timeout: timeout, batch: newBatch()}
}

func (w *LocalWriter) Name() string {
	return "local"
}

func (w *LocalWriter) BeginBatch() {
	w.batch.reset()
}

func (w *LocalWriter) Index(doc models.Document) {
	w.batch.index(doc)
}

func (w *LocalWriter) Delete(id string) {
	w.batch.delete(id)
}

func (w *LocalWriter) AfterBatch(id string, fn func(error)) {
	w.batch.afterBatch(id, fn)
}

// EndBatch writes the batch in one transaction. The store call is bounded by
// the writer timeout.
func (w *LocalWriter) EndBatch() *future.Future[struct{}] {
	if w.batch.empty() {
		finish(w.batch.callbacks, nil)
		return future.Completed(struct{}{})
	}

	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	upserts, deletes := w.batch.changes()
	err := w.store.ApplyBatch(ctx, upserts, deletes)
	finish(w.batch.callbacks, err)
	if err != nil {
		return future.Failed[struct{}](err)
	}

	zap.S().Named("local_writer").Debugw("batch written", "upserts", len(upserts), "deletes", len(deletes))
	return future.Completed(struct{}{})
}
