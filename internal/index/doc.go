// Package index holds the processors and worksets the indexing orchestrators
// run.
//
// A Writer collects the changes of one batch and flushes them on EndBatch:
//
//	┌──────────────┬───────────────────────────┬──────────────────────────┐
//	│ Writer       │ EndBatch                  │ Future                   │
//	├──────────────┼───────────────────────────┼──────────────────────────┤
//	│ LocalWriter  │ DocumentStore.ApplyBatch  │ already terminal         │
//	│ RemoteWriter │ search.Client.Bulk        │ resolved by a goroutine  │
//	└──────────────┴───────────────────────────┴──────────────────────────┘
//
// Within a batch the last change of a document wins. A Work is one
// operation; it resolves its Result future through the writer's AfterBatch
// callbacks, so a producer can wait for its own change to be durable. When
// the search cluster refuses some documents only their works fail.
package index
