// Package singleton runs a recurring piece of work that must never overlap
// with itself.
//
// A Task moves between two states:
//
//	          EnsureScheduled (CAS)
//	  idle ───────────────────────────▶ scheduled
//	   ▲                                    │
//	   │     run ends, needs-run false      │ run: clear needs-run,
//	   │     → Worker.Complete()            │      Worker.Work(ctx)
//	   │     → resolve completion           │
//	   └────────────────────────────────────┘
//	         run ends, needs-run true → EnsureScheduled again
//
// Any number of EnsureScheduled calls made while the task is scheduled or
// running only set the needs-run flag, so they produce at most one extra run.
// The worker itself may call EnsureScheduled when it finds more work.
//
// Completion returns a future shared by every caller waiting for the task
// to go idle. It is resolved only after Worker.Complete returned.
//
// Completion taken right after EnsureScheduled may belong to a run that was
// already ending, so it can resolve before the requested run. Schedule
// returns a future that resolves only after a run started after the call:
//
//	done := task.Schedule()
//	_, err := done.Wait(ctx)
package singleton
