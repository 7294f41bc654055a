package gate

import (
	"github.com/dmitrymomot/menukit/pkg/statemachine"
)

// State is the resolution state of the current tenant key.
// Pending is the only non-terminal state.
type State uint8

const (
	StatePending State = iota
	StateReady
	StateNotFound
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not_found"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends resolution for the current key.
func (s State) Terminal() bool {
	return s != StatePending
}

type event uint8

const (
	eventResolved event = iota + 1
	eventMissing
	eventFailed
	eventReset
)

func (e event) String() string {
	switch e {
	case eventResolved:
		return "resolved"
	case eventMissing:
		return "missing"
	case eventFailed:
		return "failed"
	case eventReset:
		return "reset"
	default:
		return "unknown"
	}
}

var allStates = []State{StatePending, StateReady, StateNotFound, StateError}

func newMachine() *statemachine.Machine[State, event] {
	return statemachine.MustNew(StatePending,
		statemachine.WithTransition[State, event](StatePending, StateReady, eventResolved),
		statemachine.WithTransition[State, event](StatePending, StateNotFound, eventMissing),
		statemachine.WithTransition[State, event](StatePending, StateError, eventFailed),
		statemachine.WithTransitionFromAny[State, event](allStates, StatePending, eventReset),
	)
}
