// Package statemachine is a small guarded state machine generic over the
// type that owns it.
//
// Transitions are kept in registration order. Each Tick runs the current
// state's OnTick and then fires the first transition whose source matches
// and whose guard passes. At most one transition fires per tick.
package statemachine

import (
	"errors"
	"fmt"
)

// StateID identifies a state within one machine
type StateID int

const (
	// Any matches every current state when used as a transition source
	Any StateID = -1
	// Previous resolves to the most recently exited state when used as a
	// transition target. Only one level of history is kept.
	Previous StateID = -2
)

var (
	ErrUnknownState   = errors.New("statemachine: unknown state")
	ErrDuplicateState = errors.New("statemachine: duplicate state")
)

// State is one node of the machine
type State[T any] interface {
	ID() StateID
	OnEnter(owner T)
	OnExit(owner T)
	OnTick(owner T)
}

// GuardFunc returns true if the transition should fire. nil means always.
type GuardFunc[T any] func(owner T) bool

// ActionFunc runs when its transition fires, before the exit hook.
type ActionFunc[T any] func(owner T)

// Transition links a source to a target
type Transition[T any] struct {
	From   StateID
	To     StateID
	Guard  GuardFunc[T]
	Action ActionFunc[T]
}

// Machine is the runtime. It is not safe for concurrent use.
type Machine[T any] struct {
	owner       T
	states      map[StateID]State[T]
	transitions []Transition[T]

	current  State[T]
	previous State[T]

	started     bool
	deactivated bool

	// OnChange, if set, is called after every completed state change
	OnChange func(from, to StateID)
}

// New builds a machine starting in initial. OnEnter of the initial state
// runs on Start, not here.
func New[T any](owner T, initial StateID, states ...State[T]) (*Machine[T], error) {
	m := &Machine[T]{
		owner:  owner,
		states: make(map[StateID]State[T], len(states)),
	}
	for _, s := range states {
		id := s.ID()
		if id < 0 {
			return nil, fmt.Errorf("%w: reserved id %d", ErrUnknownState, id)
		}
		if _, dup := m.states[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateState, id)
		}
		m.states[id] = s
	}
	first, ok := m.states[initial]
	if !ok {
		return nil, fmt.Errorf("%w: initial %d", ErrUnknownState, initial)
	}
	m.current = first
	return m, nil
}

// AddTransition appends a transition. Callers own the ordering, the first
// match wins.
func (m *Machine[T]) AddTransition(from, to StateID, guard GuardFunc[T], action ActionFunc[T]) error {
	if from != Any {
		if _, ok := m.states[from]; !ok {
			return fmt.Errorf("%w: source %d", ErrUnknownState, from)
		}
	}
	if to != Previous {
		if _, ok := m.states[to]; !ok {
			return fmt.Errorf("%w: target %d", ErrUnknownState, to)
		}
	}
	m.transitions = append(m.transitions, Transition[T]{From: from, To: to, Guard: guard, Action: action})
	return nil
}

// Start enters the initial state. Later calls do nothing.
func (m *Machine[T]) Start() {
	if m.started || m.deactivated {
		return
	}
	m.started = true
	m.current.OnEnter(m.owner)
}

// Started reports whether Start has run
func (m *Machine[T]) Started() bool {
	return m.started
}

// Tick runs the current state and fires at most one transition. It does
// nothing before Start or after Deactivate.
func (m *Machine[T]) Tick() {
	if !m.started || m.deactivated {
		return
	}
	m.current.OnTick(m.owner)
	if m.deactivated {
		return
	}

	for _, tr := range m.transitions {
		if tr.From != Any && tr.From != m.current.ID() {
			continue
		}
		target := m.resolve(tr.To)
		if target == nil || target == m.current {
			continue
		}
		if tr.Guard != nil && !tr.Guard(m.owner) {
			continue
		}
		if tr.Action != nil {
			tr.Action(m.owner)
		}
		m.change(target)
		return
	}
}

func (m *Machine[T]) resolve(to StateID) State[T] {
	if to == Previous {
		return m.previous
	}
	return m.states[to]
}

func (m *Machine[T]) change(next State[T]) {
	old := m.current
	old.OnExit(m.owner)
	m.previous = old
	m.current = next
	next.OnEnter(m.owner)
	if m.OnChange != nil {
		m.OnChange(old.ID(), next.ID())
	}
}

// Current returns the id of the current state
func (m *Machine[T]) Current() StateID {
	return m.current.ID()
}

// Previous returns the most recently exited state, if any
func (m *Machine[T]) Previous() (StateID, bool) {
	if m.previous == nil {
		return 0, false
	}
	return m.previous.ID(), true
}

// In reports whether id is the current state
func (m *Machine[T]) In(id StateID) bool {
	return m.current.ID() == id
}

// Deactivate stops the machine for good. No exit hook runs.
func (m *Machine[T]) Deactivate() {
	m.deactivated = true
}

// Deactivated reports whether Deactivate was called
func (m *Machine[T]) Deactivated() bool {
	return m.deactivated
}
