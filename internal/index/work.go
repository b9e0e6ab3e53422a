package index

import (
	"github.com/google/uuid"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/pkg/future"
)

// Work applies one operation to a Writer. Its Result resolves once the batch
// holding it is durable, or fails with the reason it was not applied.
type Work struct {
	ID     string
	Op     models.Operation
	result *future.Future[struct{}]
}

func NewWork(op models.Operation) *Work {
	return &Work{
		ID:     uuid.NewString(),
		Op:     op,
		result: future.New[struct{}](nil),
	}
}

func (w *Work) SubmitTo(wr Writer) error {
	if err := w.Op.Validate(); err != nil {
		return err
	}

	switch w.Op.Type {
	case models.OperationDelete:
		wr.Delete(w.Op.Entity.ID)
	default:
		wr.Index(models.NewDocument(w.Op.Entity))
	}

	wr.AfterBatch(w.Op.Entity.ID, func(err error) {
		if err != nil {
			w.result.Fail(err)
			return
		}
		w.result.Complete(struct{}{})
	})
	return nil
}

func (w *Work) MarkAsFailed(err error) {
	w.result.Fail(err)
}

func (w *Work) Result() *future.Future[struct{}] {
	return w.result
}
