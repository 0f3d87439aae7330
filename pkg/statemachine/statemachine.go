package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Action executes side effects during state transitions. Returning an error prevents the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Transition defines a state change triggered by an event, with optional guards and actions.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard  // All must pass for transition to proceed
	Actions []Action // Executed in order before state change
}

// StringState provides a simple string-based state implementation.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent provides a simple string-based event implementation.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }

// Machine is a thread-safe finite state machine.
// Uses a nested map for O(1) transition lookups: [fromState][event][]Transition
type Machine struct {
	initialState State
	currentState State
	transitions  map[string]map[string][]Transition
	mu           sync.RWMutex
}

// New creates a state machine starting in the given initial state.
func New(initialState State) *Machine {
	return &Machine{
		initialState: initialState,
		currentState: initialState,
		transitions:  make(map[string]map[string][]Transition),
	}
}

// Current returns the machine's current state.
func (sm *Machine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// AddTransition registers a transition from one state to another for the given event.
func (sm *Machine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	fromName := from.Name()
	eventName := event.Name()

	if _, ok := sm.transitions[fromName]; !ok {
		sm.transitions[fromName] = make(map[string][]Transition)
	}

	// Multiple transitions allowed for same from/event to support guard-based branching
	sm.transitions[fromName][eventName] = append(sm.transitions[fromName][eventName], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// Fire attempts to transition the machine with the given event.
// The first registered transition whose guards all pass wins; its actions run
// in order before the state changes, and any action error aborts the transition.
func (sm *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	currentName := sm.currentState.Name()
	eventName := event.Name()

	transitions, ok := sm.transitions[currentName][eventName]
	if !ok || len(transitions) == 0 {
		return NewErrNoTransitionAvailable(currentName, eventName)
	}

	var valid *Transition
	for i, t := range transitions {
		passed := true
		for _, guard := range t.Guards {
			if guard != nil && !guard(ctx, sm.currentState, event, data) {
				passed = false
				break
			}
		}
		if passed {
			valid = &transitions[i]
			break
		}
	}

	if valid == nil {
		return NewErrTransitionRejected(currentName, eventName)
	}

	for _, action := range valid.Actions {
		if action != nil {
			if err := action(ctx, sm.currentState, valid.To, event, data); err != nil {
				return fmt.Errorf("action failed: %w", err)
			}
		}
	}

	sm.currentState = valid.To
	return nil
}

// CanFire reports whether any transition exists for the event whose guards pass.
func (sm *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	transitions, ok := sm.transitions[sm.currentState.Name()][event.Name()]
	if !ok {
		return false
	}

	for _, t := range transitions {
		passed := true
		for _, guard := range t.Guards {
			if guard != nil && !guard(ctx, sm.currentState, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return true
		}
	}
	return false
}

// Reset returns the machine to its initial state.
func (sm *Machine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = sm.initialState
	return nil
}
