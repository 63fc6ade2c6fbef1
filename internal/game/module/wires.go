package module

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/defuse/internal/game/random"
)

// Wire count bounds.
const (
	MinWires = 3
	MaxWires = 6
)

// WirePalette is every color a wire can have.
var WirePalette = []Color{Red, White, Blue, Black, Yellow}

// Wires is a row of colored wires; exactly one is the correct cut.
//
// Invariant: len(cut) == len(wires) == count once generated; cut entries only
// ever flip from false to true.
type Wires struct {
	Base
	count     int
	situation int
	ctx       Context
	preset    []Color
	wires     []Color
	cut       []bool
}

// NewWires creates an ungenerated wires module. A zero count or situation is
// chosen at random during Generate.
func NewWires(loc Location, count, situation int) *Wires {
	return &Wires{Base: newBase(loc), count: count, situation: situation}
}

// NewPresetWires creates a wires module whose colors are fixed in advance
// rather than generated. Generate still validates them and records the
// bomb context used for evaluation.
func NewPresetWires(loc Location, colors []Color) *Wires {
	return &Wires{Base: newBase(loc), count: len(colors), preset: slices.Clone(colors)}
}

// Kind returns KindWires.
func (w *Wires) Kind() Kind { return KindWires }

// Count returns the number of wires.
func (w *Wires) Count() int { return w.count }

// Situation returns the generation branch requested for this module.
func (w *Wires) Situation() int { return w.situation }

// Colors returns a copy of the wire colors, left to right.
func (w *Wires) Colors() []Color { return slices.Clone(w.wires) }

// CutWires returns a copy of the per-wire cut flags.
func (w *Wires) CutWires() []bool { return slices.Clone(w.cut) }

// Generate picks the wire count and situation when unset, then builds the
// wire set from the situation's rule.
//
// Precondition: Generate has not been called before.
// Postcondition: len(Colors()) == Count() and every color is in WirePalette,
// or an error wrapping ErrInvalidConfiguration.
func (w *Wires) Generate(ctx Context, src random.Source) error {
	if w.wires != nil {
		return fmt.Errorf("%w: wires at %s already generated", ErrInvalidConfiguration, w.loc)
	}
	if w.preset != nil {
		return w.usePreset(ctx)
	}
	if w.count == 0 {
		w.count = random.Int(src, MinWires, MaxWires)
	}
	if w.count < MinWires || w.count > MaxWires {
		return fmt.Errorf("%w: wire count %d outside [%d,%d]", ErrInvalidConfiguration, w.count, MinWires, MaxWires)
	}
	maxSituation := WireSituations(w.count)
	if w.situation == 0 {
		w.situation = random.Int(src, 1, maxSituation)
	}
	if w.situation < 1 || w.situation > maxSituation {
		return fmt.Errorf("%w: wire situation %d outside [1,%d] for %d wires",
			ErrInvalidConfiguration, w.situation, maxSituation, w.count)
	}

	wires, err := generateWires(w.count, w.situation, ctx, src)
	if err != nil {
		return fmt.Errorf("%w: generating %d wires (situation %d): %v", ErrInvalidConfiguration, w.count, w.situation, err)
	}
	if len(wires) != w.count {
		return fmt.Errorf("%w: generated %d wires, want %d", ErrInvalidConfiguration, len(wires), w.count)
	}
	w.ctx = ctx
	w.wires = wires
	w.cut = make([]bool, w.count)
	return nil
}

func (w *Wires) usePreset(ctx Context) error {
	if w.count < MinWires || w.count > MaxWires {
		return fmt.Errorf("%w: preset has %d wires, want [%d,%d]", ErrInvalidConfiguration, w.count, MinWires, MaxWires)
	}
	for i, c := range w.preset {
		if !slices.Contains(WirePalette, c) {
			return fmt.Errorf("%w: preset wire %d has color %q outside the wire palette", ErrInvalidConfiguration, i, c)
		}
	}
	w.ctx = ctx
	w.wires = w.preset
	w.cut = make([]bool, w.count)
	return nil
}

// CorrectPosition returns the zero-based index of the wire that disarms the
// module.
//
// Precondition: Generate succeeded.
func (w *Wires) CorrectPosition() int {
	return correctWire(w.wires, w.ctx)
}

// Evaluate judges a cut at position. The first call resolves the module;
// later calls return the existing outcome unchanged.
func (w *Wires) Evaluate(position int, emit Emitter) Outcome {
	if w.Resolved() {
		return w.Outcome()
	}
	return w.resolve(position == w.CorrectPosition(), emit)
}

// HandleEvent applies CutWire events. A cut always marks the wire as cut;
// only the first cut on an unresolved module is evaluated.
func (w *Wires) HandleEvent(ev Event, emit Emitter) error {
	cw, ok := ev.(CutWire)
	if !ok {
		return fmt.Errorf("%w: %s on wires", ErrUnsupportedEvent, ev.Name())
	}
	if cw.Position < 0 || cw.Position >= len(w.cut) {
		return fmt.Errorf("%w: wire %d outside [0,%d)", ErrPreconditionNotMet, cw.Position, len(w.cut))
	}
	if w.cut[cw.Position] {
		return fmt.Errorf("%w: wire %d already cut", ErrPreconditionNotMet, cw.Position)
	}

	w.cut[cw.Position] = true
	emit(Notification{Kind: NoteWireCut, Module: w.loc, Position: cw.Position})

	if w.Resolved() {
		return fmt.Errorf("%w: wires at %s already %s", ErrStaleEvent, w.loc, w.Outcome())
	}
	w.Evaluate(cw.Position, emit)
	return nil
}

// Deactivate removes focus. Wires are judged on cut, never on focus loss.
func (w *Wires) Deactivate(emit Emitter) {
	w.deactivate(emit)
}

// Snapshot returns the module's observable state.
func (w *Wires) Snapshot() Snapshot {
	s := w.snapshot(KindWires, w.situation)
	s.Wires = w.Colors()
	s.Cut = w.CutWires()
	return s
}
