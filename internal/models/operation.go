package models

import (
	"fmt"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

type OperationType string

const (
	OperationAdd    OperationType = "add"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

func ParseOperationType(s string) (OperationType, error) {
	switch s {
	case "add":
		return OperationAdd, nil
	case "update":
		return OperationUpdate, nil
	case "delete":
		return OperationDelete, nil
	default:
		return "", fmt.Errorf("invalid operation type: %s", s)
	}
}

// Operation is one change to an entity that must be reflected in the indexes.
type Operation struct {
	Type   OperationType
	Entity Entity
}

func (o Operation) Validate() error {
	if o.Entity.ID == "" {
		return srvErrors.NewInvalidOperationError("%s operation without entity id", o.Type)
	}
	switch o.Type {
	case OperationAdd, OperationUpdate, OperationDelete:
		return nil
	default:
		return srvErrors.NewInvalidOperationError("invalid operation type %q for entity %q", o.Type, o.Entity.ID)
	}
}
