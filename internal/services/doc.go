// Package services implements the business logic layer of the indexer.
//
// Services sit between the HTTP handlers and the orchestration primitives.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── IndexingService ──► EntityStore, BatchingOrchestrator per Writer
//	    ├── MassIndexer ──────► EntityStore, IndexingService, singleton.Task
//	    └── DocumentService ──► DocumentStore
//
// # IndexingService
//
// Owns one BatchingOrchestrator per index.Writer: the local DuckDB writer
// always, the remote search cluster writer when configured.
//
//	Index(ctx, ops)
//	    ├── Validate every operation (InvalidOperationError)
//	    ├── EntityStore.Apply(ops)       one transaction
//	    └── Submit(ops)                  one index.Work per op per backend
//
// Each Work carries a future resolved when its batch is durable in that
// backend; Index returns them so a caller can wait for its own changes.
//
// Shutdown drains first and stops second:
//
//	for every backend: PreStop()          no new work accepted
//	for every backend: wait (ctx bound)   queued work flushed
//	                   Stop()             anything left is dropped
//
// # MassIndexer
//
// Rebuilds every index from the entity store. The reindex itself is the
// Worker of a singleton.Task, so it never runs twice at once and any number
// of Reindex calls made during a run produce at most one more run.
//
//	┌──────┐  Reindex   ┌─────────┐  pages done, no new request  ┌──────┐
//	│ idle │──────────►│ running │─────────────────────────────►│ idle │
//	└──────┘            └─────────┘  Complete(): Flush, Refresh  └──────┘
//	                      │    ▲
//	                      └────┘ Reindex during the run
//
// Work pages through EntityStore.List in id order and submits each page as
// add operations. Complete waits for the backends to drain, refreshes the
// remote index and records the run in Status.
//
// # DocumentService
//
// Stateless facade over the local index: Get and Search. Search limits are
// clamped to [1, MaxSearchLimit].
//
// # Thread Safety
//
// IndexingService relies on the orchestrators' gates. MassIndexer status is
// protected by a mutex; the task guarantees Work and Complete never overlap.
package services
