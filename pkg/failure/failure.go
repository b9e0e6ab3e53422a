// Package failure defines the sink background goroutines report to when
// something goes wrong and there is no caller left to return an error to.
package failure

import (
	"go.uber.org/zap"
)

// Context describes one background failure.
type Context struct {
	// FailingOperation names what was being done, e.g. "Work processing".
	FailingOperation string
	Err              error
	// EntityReference identifies the domain entity involved, if any.
	EntityReference string
}

type Handler interface {
	Handle(Context)
}

type HandlerFunc func(Context)

func (f HandlerFunc) Handle(c Context) {
	f(c)
}

type logHandler struct {
	name string
}

// NewLogHandler returns a Handler writing every failure to the global zap logger.
func NewLogHandler(name string) Handler {
	return &logHandler{name: name}
}

func (h *logHandler) Handle(c Context) {
	kv := []any{"operation", c.FailingOperation, "error", c.Err}
	if c.EntityReference != "" {
		kv = append(kv, "entity", c.EntityReference)
	}
	zap.S().Named(h.name).Errorw("background failure", kv...)
}
