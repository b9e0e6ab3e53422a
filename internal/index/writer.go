package index

import (
	"errors"

	"github.com/kubev2v/index-orchestrator/internal/models"
	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
	"github.com/kubev2v/index-orchestrator/pkg/executor"
)

// Writer accumulates one batch of index changes and flushes it on EndBatch.
// Writers are not safe for concurrent use; the executor serializes them.
type Writer interface {
	executor.Processor
	Name() string
	Index(doc models.Document)
	Delete(id string)
	// AfterBatch registers fn to receive the outcome of the current batch for id.
	AfterBatch(id string, fn func(error))
}

type callback struct {
	id string
	fn func(error)
}

// batch is the change set shared by every writer. The last change of an id
// wins, and ids keep the order they first appeared in.
type batch struct {
	order     []string
	upserts   map[string]models.Document
	deletes   map[string]struct{}
	callbacks []callback
}

func newBatch() batch {
	return batch{
		upserts: make(map[string]models.Document),
		deletes: make(map[string]struct{}),
	}
}

func (b *batch) reset() {
	*b = newBatch()
}

func (b *batch) seen(id string) bool {
	_, u := b.upserts[id]
	_, d := b.deletes[id]
	return u || d
}

func (b *batch) index(doc models.Document) {
	if !b.seen(doc.ID) {
		b.order = append(b.order, doc.ID)
	}
	delete(b.deletes, doc.ID)
	b.upserts[doc.ID] = doc
}

func (b *batch) delete(id string) {
	if !b.seen(id) {
		b.order = append(b.order, id)
	}
	delete(b.upserts, id)
	b.deletes[id] = struct{}{}
}

func (b *batch) afterBatch(id string, fn func(error)) {
	b.callbacks = append(b.callbacks, callback{id: id, fn: fn})
}

func (b *batch) empty() bool {
	return len(b.order) == 0
}

func (b *batch) changes() ([]models.Document, []string) {
	var upserts []models.Document
	var deletes []string
	for _, id := range b.order {
		if d, ok := b.upserts[id]; ok {
			upserts = append(upserts, d)
			continue
		}
		if _, ok := b.deletes[id]; ok {
			deletes = append(deletes, id)
		}
	}
	return upserts, deletes
}

// finish hands the batch outcome to every callback. When the backend refused
// only some documents, the others succeed.
func finish(callbacks []callback, err error) {
	var ie *srvErrors.IndexingError
	partial := errors.As(err, &ie)

	for _, c := range callbacks {
		switch {
		case err == nil:
			c.fn(nil)
		case partial:
			if reason, failed := ie.Failed[c.id]; failed {
				c.fn(srvErrors.NewInvalidOperationError("document %q rejected by index %q: %s", c.id, ie.Index, reason))
			} else {
				c.fn(nil)
			}
		default:
			c.fn(err)
		}
	}
}
