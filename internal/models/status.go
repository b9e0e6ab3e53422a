package models

import "time"

type BackendStatusType string

const (
	BackendStatusNotStarted BackendStatusType = "not-started"
	BackendStatusAccepting  BackendStatusType = "accepting"
	BackendStatusDraining   BackendStatusType = "draining"
	BackendStatusStopped    BackendStatusType = "stopped"
)

// BackendStatus is a snapshot of one indexing backend.
type BackendStatus struct {
	Name        string
	State       BackendStatusType
	Batches     uint64
	Applied     uint64
	Failed      uint64
	Discarded   uint64
	QueueLength int
	Busy        bool
}

type MassIndexerStatusType string

const (
	MassIndexerStatusIdle    MassIndexerStatusType = "idle"
	MassIndexerStatusRunning MassIndexerStatusType = "running"
)

type MassIndexerStatus struct {
	State MassIndexerStatusType
	// RunID identifies the last finished reindex run.
	RunID       string
	Runs        int
	LastIndexed int
	LastRunAt   time.Time
	Error       error
}

type IndexerStatus struct {
	Backends    []BackendStatus
	Documents   int
	MassIndexer MassIndexerStatus
}
