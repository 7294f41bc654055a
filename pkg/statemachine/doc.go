// Package statemachine provides a small, type-safe finite state machine.
//
// States and events are any comparable types, usually string-backed enums
// declared by the caller. The machine handles:
//  1. Transition lookup indexed by [from][event]
//  2. Optional Guard evaluation to accept or reject transitions
//  3. Actions executed before the state changes
//  4. Observers notified after a successful transition
//
// All access is guarded by a RWMutex, so a single machine may be shared by
// goroutines.
//
// # Usage
//
//	type State string
//	type Event string
//
//	m := statemachine.MustNew[State, Event]("pending",
//		statemachine.WithTransition[State, Event]("pending", "ready", "resolved"),
//		statemachine.WithTransitionFromAny[State, Event]([]State{"pending", "ready"}, "pending", "reset"),
//	)
//
//	if err := m.Fire(ctx, "resolved"); err != nil {
//		// handle error
//	}
//
// # Errors
//
// Fire returns *ErrNoTransitionAvailable when no transition is defined for the
// current state and event, and *ErrTransitionRejected when every candidate was
// blocked by guards. Use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell them apart. Action failures are wrapped
// with "action failed".
package statemachine
