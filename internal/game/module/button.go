package module

import (
	"fmt"

	"github.com/cory-johannsen/defuse/internal/game/random"
)

// Label is the text printed on a button.
type Label string

// Button labels.
const (
	Abort    Label = "abort"
	Detonate Label = "detonate"
	Hold     Label = "hold"
)

// Button palettes.
var (
	ButtonColors = []Color{Red, Yellow, Blue, White, Green}
	ButtonLabels = []Label{Abort, Detonate, Hold}
)

// ButtonSituations is the number of button generation situations; the last
// one is the fallback.
const ButtonSituations = 7

// Button is a big press button judged by how many times it was pressed
// before the player moved away.
type Button struct {
	Base
	situation int
	color     Color
	label     Label
	presses   int
}

// NewButton creates an ungenerated button. A zero situation is chosen at
// random during Generate.
func NewButton(loc Location, situation int) *Button {
	return &Button{Base: newBase(loc), situation: situation}
}

// Kind returns KindButton.
func (b *Button) Kind() Kind { return KindButton }

// Color returns the button color.
func (b *Button) Color() Color { return b.color }

// Label returns the button label.
func (b *Button) Label() Label { return b.label }

// Presses returns the number of presses registered so far.
func (b *Button) Presses() int { return b.presses }

// Situation returns the generation situation.
func (b *Button) Situation() int { return b.situation }

// Generate fixes color and label from the situation table.
//
// Precondition: Generate has not been called before.
// Postcondition: Color() is in ButtonColors and Label() in ButtonLabels, or
// an error wrapping ErrInvalidConfiguration.
func (b *Button) Generate(ctx Context, src random.Source) error {
	if b.color != "" {
		return fmt.Errorf("%w: button at %s already generated", ErrInvalidConfiguration, b.loc)
	}
	if b.situation == 0 {
		b.situation = random.Int(src, 1, ButtonSituations)
	}
	if b.situation < 1 || b.situation > ButtonSituations {
		return fmt.Errorf("%w: button situation %d outside [1,%d]", ErrInvalidConfiguration, b.situation, ButtonSituations)
	}

	var (
		color Color
		label Label
		err   error
	)
	switch s := b.situation; {
	case s == 1:
		color, label = Blue, Abort
	case s == 2 && ctx.Batteries > 1:
		label = Detonate
	case s == 3 && ctx.IsLit("CAR"):
		color = White
	case s == 4 && ctx.Batteries > 2 && ctx.IsLit("FRK"):
		// Both picked freely below.
	case s == 5:
		color = Yellow
	case s == 6:
		color, label = Red, Hold
	default:
		if color, err = random.Pick(src, ButtonColors); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		if label, err = random.Pick(src, fallbackLabels(color)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}

	if color == "" {
		if color, err = random.Pick(src, ButtonColors); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}
	if label == "" {
		if label, err = random.Pick(src, ButtonLabels); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}
	b.color, b.label = color, label
	return nil
}

// fallbackLabels returns the labels the fallback situation may pair with
// color.
func fallbackLabels(color Color) []Label {
	labels := random.Without(ButtonLabels, Detonate)
	if color == Blue || color == Green {
		labels = random.Without(labels, Abort)
	}
	if color == Red {
		labels = random.Without(labels, Hold)
	}
	return labels
}

// ExpectedPresses returns how many presses disarm the button.
func (b *Button) ExpectedPresses() int {
	switch {
	case b.label == Detonate,
		b.color == Green && b.label == Abort,
		b.color == Red && b.label == Hold:
		return 2
	default:
		return 1
	}
}

// PassOrFail judges the press count. The first call resolves the module;
// later calls return the existing outcome.
func (b *Button) PassOrFail(emit Emitter) Outcome {
	if b.Resolved() {
		return b.Outcome()
	}
	return b.resolve(b.presses == b.ExpectedPresses(), emit)
}

// HandleEvent applies PressButton and ReleaseButton events.
func (b *Button) HandleEvent(ev Event, emit Emitter) error {
	switch ev.(type) {
	case PressButton:
		if b.Resolved() {
			return fmt.Errorf("%w: button at %s already %s", ErrStaleEvent, b.loc, b.Outcome())
		}
		b.presses++
		emit(Notification{Kind: NoteButtonPressed, Module: b.loc, Count: b.presses})
		return nil
	case ReleaseButton:
		if b.Resolved() {
			return fmt.Errorf("%w: button at %s already %s", ErrStaleEvent, b.loc, b.Outcome())
		}
		emit(Notification{Kind: NoteButtonReleased, Module: b.loc, Count: b.presses})
		return nil
	default:
		return fmt.Errorf("%w: %s on button", ErrUnsupportedEvent, ev.Name())
	}
}

// Deactivate removes focus and, if the button was pressed at least once,
// judges the press count.
func (b *Button) Deactivate(emit Emitter) {
	if !b.deactivate(emit) {
		return
	}
	if b.presses > 0 {
		b.PassOrFail(emit)
	}
}

// Snapshot returns the module's observable state.
func (b *Button) Snapshot() Snapshot {
	s := b.snapshot(KindButton, b.situation)
	s.Color = b.color
	s.Label = b.label
	s.Presses = b.presses
	return s
}
