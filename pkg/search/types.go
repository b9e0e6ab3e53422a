package search

type ActionType string

const (
	ActionIndex  ActionType = "index"
	ActionDelete ActionType = "delete"
)

// BulkAction is one line pair of a bulk request. Source is ignored for deletes.
type BulkAction struct {
	Type   ActionType
	ID     string
	Source any
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type bulkResponse struct {
	Took   int                       `json:"took"`
	Errors bool                      `json:"errors"`
	Items  []map[string]bulkItemResp `json:"items"`
}

type bulkItemResp struct {
	ID     string         `json:"_id"`
	Status int            `json:"status"`
	Error  *bulkItemError `json:"error,omitempty"`
}

type bulkItemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
