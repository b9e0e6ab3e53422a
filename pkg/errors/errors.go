package errors

import (
	"errors"
	"fmt"
)

// OrchestratorStoppedError is returned when work is submitted to an
// orchestrator that is not accepting work.
type OrchestratorStoppedError struct {
	name  string
	state string
}

func NewOrchestratorStoppedError(name, state string) *OrchestratorStoppedError {
	return &OrchestratorStoppedError{name: name, state: state}
}

func (e *OrchestratorStoppedError) Error() string {
	return fmt.Sprintf("work submitted to stopped orchestrator %q (state: %s)", e.name, e.state)
}

func IsOrchestratorStoppedError(err error) bool {
	var e *OrchestratorStoppedError
	return errors.As(err, &e)
}

// SubmitInterruptedError is returned when the caller's context ends while
// its work is being handed off. The work is not enqueued.
type SubmitInterruptedError struct {
	name  string
	cause error
}

func NewSubmitInterruptedError(name string, cause error) *SubmitInterruptedError {
	return &SubmitInterruptedError{name: name, cause: cause}
}

func (e *SubmitInterruptedError) Error() string {
	return fmt.Sprintf("interrupted while submitting work to orchestrator %q: %v", e.name, e.cause)
}

func (e *SubmitInterruptedError) Unwrap() error {
	return e.cause
}

func IsSubmitInterruptedError(err error) bool {
	var e *SubmitInterruptedError
	return errors.As(err, &e)
}

// IllegalStateError reports misuse of a lifecycle: the call is a bug in the
// caller and retrying it will not help.
type IllegalStateError struct {
	msg string
}

func NewIllegalStateError(format string, args ...any) *IllegalStateError {
	return &IllegalStateError{msg: fmt.Sprintf(format, args...)}
}

func (e *IllegalStateError) Error() string {
	return e.msg
}

func IsIllegalStateError(err error) bool {
	var e *IllegalStateError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	resource string
	id       string
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: resource, id: id}
}

func NewDocumentNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("document", id)
}

func NewEntityNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("entity", id)
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.resource, e.id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// IndexingError lists the documents a search backend refused.
type IndexingError struct {
	Index  string
	Failed map[string]string
}

func NewIndexingError(index string, failed map[string]string) *IndexingError {
	return &IndexingError{Index: index, Failed: failed}
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("index %q rejected %d document(s)", e.Index, len(e.Failed))
}

func IsIndexingError(err error) bool {
	var e *IndexingError
	return errors.As(err, &e)
}

// InvalidOperationError is returned for an indexing operation that cannot be applied.
type InvalidOperationError struct {
	msg string
}

func NewInvalidOperationError(format string, args ...any) *InvalidOperationError {
	return &InvalidOperationError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidOperationError) Error() string {
	return e.msg
}

func IsInvalidOperationError(err error) bool {
	var e *InvalidOperationError
	return errors.As(err, &e)
}

// UnauthorizedError is returned when a remote backend refuses our credentials.
type UnauthorizedError struct {
	backend string
}

func NewUnauthorizedError(backend string) *UnauthorizedError {
	return &UnauthorizedError{backend: backend}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized by %s", e.backend)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
