package module

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cory-johannsen/defuse/internal/game/random"
)

// KnobSituations is the number of knob targets. Situation 10 is displayed
// as 0.
const KnobSituations = 10

// KnobSettings describes the dial geometry.
type KnobSettings struct {
	// InitialRotation is the dial angle in degrees at generation; it reads 1.
	InitialRotation float64
	// StepDegrees is the rotation applied per tick.
	StepDegrees float64
	// LockAngle is the width in degrees of one digit bucket.
	LockAngle float64
}

// DefaultKnobSettings matches the physical dial artwork.
var DefaultKnobSettings = KnobSettings{
	InitialRotation: 268,
	StepDegrees:     1,
	LockAngle:       31.01,
}

// Knob is a dial that must be left pointing at the target digit.
type Knob struct {
	Base
	settings  KnobSettings
	situation int
	rotation  float64
	value     int
	hasValue  bool
	turned    bool
	generated bool
}

// NewKnob creates an ungenerated knob. A zero situation is chosen at random
// during Generate.
func NewKnob(loc Location, situation int, settings KnobSettings) *Knob {
	return &Knob{Base: newBase(loc), situation: situation, settings: settings}
}

// Kind returns KindKnob.
func (k *Knob) Kind() Kind { return KindKnob }

// Situation returns the target situation in [1,10].
func (k *Knob) Situation() int { return k.situation }

// Target returns the displayed digit that disarms the knob.
func (k *Knob) Target() int { return k.situation % 10 }

// Rotation returns the accumulated dial angle in degrees.
func (k *Knob) Rotation() float64 { return k.rotation }

// Value returns the displayed digit and whether the dial sits in a digit
// bucket at all.
func (k *Knob) Value() (int, bool) { return k.value, k.hasValue }

// Display returns the displayed digit, or "" between buckets.
func (k *Knob) Display() string {
	if !k.hasValue {
		return ""
	}
	return strconv.Itoa(k.value)
}

// Generate picks the target when unset and resets the dial.
//
// Precondition: Generate has not been called before.
// Postcondition: Situation() is in [1,10], or an error wrapping
// ErrInvalidConfiguration.
func (k *Knob) Generate(_ Context, src random.Source) error {
	if k.generated {
		return fmt.Errorf("%w: knob at %s already generated", ErrInvalidConfiguration, k.loc)
	}
	if k.settings.LockAngle <= 0 || k.settings.StepDegrees <= 0 {
		return fmt.Errorf("%w: knob lock angle and step must be positive", ErrInvalidConfiguration)
	}
	if k.situation == 0 {
		k.situation = random.Int(src, 1, KnobSituations)
	}
	if k.situation < 1 || k.situation > KnobSituations {
		return fmt.Errorf("%w: knob situation %d outside [1,%d]", ErrInvalidConfiguration, k.situation, KnobSituations)
	}
	k.rotation = k.settings.InitialRotation
	k.value, k.hasValue = QuantizeKnob(k.rotation, k.settings)
	k.generated = true
	return nil
}

// QuantizeKnob maps a dial angle to its displayed digit. Buckets 1-9 read
// as themselves, bucket 10 reads 0, and the remaining arc shows nothing.
func QuantizeKnob(rotation float64, s KnobSettings) (int, bool) {
	offset := math.Mod(rotation-s.InitialRotation+720, 360)
	if offset < 0 {
		offset += 360
	}
	bucket := int(math.Floor(offset/s.LockAngle)) + 1
	switch {
	case bucket >= 1 && bucket <= 9:
		return bucket, true
	case bucket == 10:
		return 0, true
	default:
		return 0, false
	}
}

// Rotate turns the dial one tick.
func (k *Knob) Rotate(clockwise bool, emit Emitter) error {
	if k.Resolved() {
		return fmt.Errorf("%w: knob at %s already %s", ErrStaleEvent, k.loc, k.Outcome())
	}
	if clockwise {
		k.rotation += k.settings.StepDegrees
	} else {
		k.rotation -= k.settings.StepDegrees
	}
	k.value, k.hasValue = QuantizeKnob(k.rotation, k.settings)
	k.turned = true
	emit(Notification{Kind: NoteKnobRotated, Module: k.loc, Rotation: k.rotation, Display: k.Display()})
	return nil
}

// Evaluate compares the displayed digit with the target. The first call
// resolves the module; later calls return the existing outcome.
func (k *Knob) Evaluate(emit Emitter) Outcome {
	if k.Resolved() {
		return k.Outcome()
	}
	return k.resolve(k.hasValue && k.value == k.Target(), emit)
}

// HandleEvent applies RotateKnob events.
func (k *Knob) HandleEvent(ev Event, emit Emitter) error {
	rk, ok := ev.(RotateKnob)
	if !ok {
		return fmt.Errorf("%w: %s on knob", ErrUnsupportedEvent, ev.Name())
	}
	return k.Rotate(rk.Clockwise, emit)
}

// Deactivate removes focus and, if the dial was turned, judges it.
func (k *Knob) Deactivate(emit Emitter) {
	if !k.deactivate(emit) {
		return
	}
	if k.turned {
		k.Evaluate(emit)
	}
}

// Snapshot returns the module's observable state.
func (k *Knob) Snapshot() Snapshot {
	s := k.snapshot(KindKnob, k.situation)
	s.Rotation = k.rotation
	s.Display = k.Display()
	return s
}
