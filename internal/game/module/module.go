package module

import "github.com/cory-johannsen/defuse/internal/game/random"

// Module is the capability every puzzle unit exposes to the registry.
type Module interface {
	// Location returns the module's unique cell, which is also its ID.
	Location() Location
	// Kind returns the module type.
	Kind() Kind
	// Generate builds the hidden configuration. It runs exactly once, at
	// bomb construction.
	//
	// Postcondition: Returns nil or an error wrapping ErrInvalidConfiguration.
	Generate(ctx Context, src random.Source) error
	// HandleEvent applies a routed input event.
	//
	// Postcondition: Returns nil, or an error wrapping ErrStaleEvent,
	// ErrPreconditionNotMet or ErrUnsupportedEvent with no outcome change.
	HandleEvent(ev Event, emit Emitter) error
	// Activate gives the module input focus.
	Activate(pointer [2]float64, emit Emitter)
	// Deactivate removes input focus, running any focus-loss evaluation.
	Deactivate(emit Emitter)
	// Active reports whether the module has input focus.
	Active() bool
	// Resolved reports whether the module reached Passed or Failed.
	Resolved() bool
	// Outcome returns the current resolution state.
	Outcome() Outcome
	// Snapshot returns a copy of the module's observable state.
	Snapshot() Snapshot
}

// Snapshot is a read-only copy of a module's observable state.
type Snapshot struct {
	Location  Location
	Kind      Kind
	Outcome   Outcome
	Active    bool
	Situation int

	// Wires
	Wires []Color
	Cut   []bool

	// Button
	Color   Color
	Label   Label
	Presses int

	// Knob
	Rotation float64
	Display  string
}

// Base holds the identity and lifecycle flags shared by every module type.
//
// Invariant: passed and failed are never both true, and once either is set
// neither changes again.
type Base struct {
	loc    Location
	passed bool
	failed bool
	active bool
}

func newBase(loc Location) Base {
	return Base{loc: loc}
}

// Location returns the module's cell.
func (b *Base) Location() Location { return b.loc }

// Active reports whether the module has input focus.
func (b *Base) Active() bool { return b.active }

// Passed reports whether the module was disarmed.
func (b *Base) Passed() bool { return b.passed }

// Failed reports whether the module was failed.
func (b *Base) Failed() bool { return b.failed }

// Resolved reports whether the module reached a terminal state.
func (b *Base) Resolved() bool { return b.passed || b.failed }

// Outcome returns the current resolution state.
func (b *Base) Outcome() Outcome {
	switch {
	case b.passed:
		return Passed
	case b.failed:
		return Failed
	default:
		return Unresolved
	}
}

// Activate gives the module input focus and announces it.
func (b *Base) Activate(pointer [2]float64, emit Emitter) {
	if b.active {
		return
	}
	b.active = true
	emit(Notification{Kind: NoteModuleActivated, Module: b.loc, Pointer: pointer})
}

// deactivate clears focus. It reports whether the module was active.
func (b *Base) deactivate(emit Emitter) bool {
	if !b.active {
		return false
	}
	b.active = false
	emit(Notification{Kind: NoteModuleDeactivated, Module: b.loc})
	return true
}

// resolve moves the module to a terminal state. Calls after the first are
// ignored.
func (b *Base) resolve(pass bool, emit Emitter) Outcome {
	if b.Resolved() {
		return b.Outcome()
	}
	if pass {
		b.passed = true
		emit(Notification{Kind: NoteModulePassed, Module: b.loc})
	} else {
		b.failed = true
		emit(Notification{Kind: NoteModuleFailed, Module: b.loc})
	}
	return b.Outcome()
}

func (b *Base) snapshot(kind Kind, situation int) Snapshot {
	return Snapshot{
		Location:  b.loc,
		Kind:      kind,
		Outcome:   b.Outcome(),
		Active:    b.active,
		Situation: situation,
	}
}
