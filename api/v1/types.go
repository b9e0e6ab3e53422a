package v1

import "time"

// OperationType defines model for Operation.Type.
type OperationType string

const (
	OperationTypeAdd    OperationType = "add"
	OperationTypeUpdate OperationType = "update"
	OperationTypeDelete OperationType = "delete"
)

// Entity defines model for Entity.
type Entity struct {
	Id    string `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Operation defines model for Operation.
type Operation struct {
	Type   OperationType `json:"type"`
	Entity Entity        `json:"entity"`
}

// IndexRequest defines model for IndexRequest.
type IndexRequest struct {
	Operations []Operation `json:"operations"`

	// Wait blocks the request until every operation is durable in every backend.
	Wait bool `json:"wait,omitempty"`
}

// IndexResponse defines model for IndexResponse.
type IndexResponse struct {
	Accepted int      `json:"accepted"`
	Failed   []string `json:"failed,omitempty"`
}

// Document defines model for Document.
type Document struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IndexedAt time.Time `json:"indexedAt"`
}

// SearchHit defines model for SearchHit.
type SearchHit struct {
	Document
	Score float64 `json:"score"`
}

// SearchResponse defines model for SearchResponse.
type SearchResponse struct {
	Query string      `json:"query"`
	Total int         `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// BackendStatus defines model for BackendStatus.
type BackendStatus struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Batches     uint64 `json:"batches"`
	Applied     uint64 `json:"applied"`
	Failed      uint64 `json:"failed"`
	Discarded   uint64 `json:"discarded"`
	QueueLength int    `json:"queueLength"`
	Busy        bool   `json:"busy"`
}

// MassIndexerStatus defines model for MassIndexerStatus.
type MassIndexerStatus struct {
	State       string     `json:"state"`
	RunId       *string    `json:"runId,omitempty"`
	Runs        int        `json:"runs"`
	LastIndexed int        `json:"lastIndexed"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	Error       *string    `json:"error,omitempty"`
}

// Status defines model for Status.
type Status struct {
	Documents   int               `json:"documents"`
	Backends    []BackendStatus   `json:"backends"`
	MassIndexer MassIndexerStatus `json:"massIndexer"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
}
