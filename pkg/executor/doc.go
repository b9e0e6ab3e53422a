// Package executor implements a batching executor: many producers hand off
// worksets to a bounded queue, and a single worker drains them in batches
// into a Processor that is never touched by more than one goroutine.
//
// # Architecture Overview
//
//	 producer 1 ──┐
//	 producer 2 ──┼──► Submit ──► ┌─────────────────────┐
//	 producer N ──┘   (blocks if  │  bounded work queue │
//	                   full)      └──────────┬──────────┘
//	                                         │ DrainUpTo(MaxTasksPerBatch)
//	                                         ▼
//	                          ┌──────────────────────────────┐
//	                          │ worker (single-worker        │
//	                          │ scheduler)                   │
//	                          │   BeginBatch()               │
//	                          │   ws.SubmitTo(processor) ... │
//	                          │   EndBatch().Wait()          │
//	                          └──────────────────────────────┘
//
// # Scheduling
//
// An atomic "processing" flag decides who schedules the next cycle. After a
// successful enqueue the producer tries to flip it false→true; the winner
// creates the outstanding-work future if needed and schedules exactly one
// cycle. Losers do nothing: the running cycle re-checks the queue after
// clearing the flag and schedules itself again if work slipped in.
//
//	Submit ──► Put ──► CAS(false→true) ──won──► schedule cycle
//	                        │
//	                       lost ──► return (the running cycle will see the work)
//
// # Completion
//
// Completion() returns the outstanding-work future, or an already-resolved
// future when nothing is queued or running. The future is resolved by the
// cycle that finds the queue empty after its batch, then dropped; the next
// idle→active transition creates a fresh one.
//
// # Failures
//
//   - A workset whose SubmitTo fails or panics is marked as failed; the rest
//     of the batch is applied normally.
//   - A failure of the EndBatch future, a panic in the processor or a
//     rejected scheduling attempt goes to the failure.Handler given at
//     construction. Nothing is returned to producers.
//
// # Stopping
//
// Stop closes the queue, releases blocked producers with ErrExecutorStopped,
// marks still-queued worksets as failed, cancels the outstanding-work future
// and closes the worker. An executor cannot be restarted.
//
// Processors enforce their own timeouts: the worker waits on the EndBatch
// future until it resolves or Stop is called.
package executor
