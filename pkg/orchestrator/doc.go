// Package orchestrator guards a work consumer with a start/drain/stop
// lifecycle so that late submissions fail fast instead of racing a shutdown.
//
//	               Start                 PreStop
//	not started ─────────▶ accepting ─────────────▶ draining
//	     │                   ▲   │                     │
//	     │                   │   │ Stop                │ Stop
//	     │ Stop        Start │   ▼                     ▼
//	     └─────────────────▶ stopped ◀─────────────────┘
//
// Only an accepting gate takes work. Start while draining is a programmer
// error (ErrStartWhileDraining). PreStop and Stop are idempotent.
//
// Transitions hold the gate's lock exclusively while Submit holds it shared:
// producers never serialize against each other, only against the rare
// transition. The usual shutdown is
//
//	done := o.PreStop()
//	_, _ = done.Wait(ctx)
//	o.Stop()
//
// A Submit blocked on a full queue keeps the shared lock, so a Stop issued
// while the consumer's worker is hung waits as long as that Submit does.
package orchestrator
