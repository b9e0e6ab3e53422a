package index

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/search"
)

type BulkClient interface {
	Bulk(ctx context.Context, index string, actions []search.BulkAction) error
}

// RemoteWriter flushes batches to a search cluster as bulk requests. The
// request runs in the background; EndBatch returns its future right away.
type RemoteWriter struct {
	client  BulkClient
	index   string
	timeout time.Duration
	batch   batch
}

func NewRemoteWriter(client BulkClient, index string, timeout time.Duration) *RemoteWriter {
	return &RemoteWriter{client: client, index: index, timeout: timeout, batch: newBatch()}
}

func (w *RemoteWriter) Name() string {
	return "remote"
}

func (w *RemoteWriter) BeginBatch() {
	w.batch.reset()
}

func (w *RemoteWriter) Index(doc models.Document) {
	w.batch.index(doc)
}

func (w *RemoteWriter) Delete(id string) {
	w.batch.delete(id)
}

func (w *RemoteWriter) AfterBatch(id string, fn func(error)) {
	w.batch.afterBatch(id, fn)
}

func (w *RemoteWriter) EndBatch() *future.Future[struct{}] {
	if w.batch.empty() {
		finish(w.batch.callbacks, nil)
		return future.Completed(struct{}{})
	}

	upserts, deletes := w.batch.changes()
	actions := make([]search.BulkAction, 0, len(upserts)+len(deletes))
	for _, d := range upserts {
		actions = append(actions, search.BulkAction{Type: search.ActionIndex, ID: d.ID, Source: d})
	}
	for _, id := range deletes {
		actions = append(actions, search.BulkAction{Type: search.ActionDelete, ID: id})
	}
	callbacks := w.batch.callbacks

	var ctx context.Context
	var cancel context.CancelFunc
	if w.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), w.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	f := future.New[struct{}](cancel)

	go func() {
		defer cancel()

		err := w.client.Bulk(ctx, w.index, actions)
		finish(callbacks, err)
		if err != nil {
			f.Fail(err)
			return
		}
		zap.S().Named("remote_writer").Debugw("bulk sent", "index", w.index, "actions", len(actions))
		f.Complete(struct{}{})
	}()

	return f
}
