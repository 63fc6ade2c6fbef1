package bomb

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// ModuleSpec describes one module mounted on the bomb. A zero Wires or
// Situation is chosen at random during generation.
type ModuleSpec struct {
	Kind      module.Kind
	Location  module.Location
	Wires     int
	Situation int
	// Colors presets the wire colors instead of generating them.
	Colors []module.Color
}

// Layout is the fixed board a bomb is built from.
type Layout struct {
	Name          string
	SerialNumber  int
	Batteries     int
	LitIndicators []string
	Modules       []ModuleSpec
}

// Context returns the bomb-wide facts the module rules consult.
func (l Layout) Context() module.Context {
	return module.Context{
		SerialNumber:  l.SerialNumber,
		Batteries:     l.Batteries,
		LitIndicators: slices.Clone(l.LitIndicators),
	}
}

// DefaultLayout returns the five-module practice board.
func DefaultLayout() Layout {
	return Layout{
		Name: "practice",
		Modules: []ModuleSpec{
			{Kind: module.KindButton, Location: module.Location{Side: module.Front, Row: 1, Column: 1}},
			{Kind: module.KindButton, Location: module.Location{Side: module.Back, Row: 1, Column: 2}},
			{Kind: module.KindKnob, Location: module.Location{Side: module.Back, Row: 0, Column: 1}, Situation: 8},
			{Kind: module.KindWires, Location: module.Location{Side: module.Front, Row: 0, Column: 0}, Wires: 4},
			{Kind: module.KindWires, Location: module.Location{Side: module.Back, Row: 1, Column: 1}, Wires: 3},
		},
	}
}

// Validate checks the layout and returns every violation found, joined.
//
// Postcondition: Returns nil or an error wrapping ErrInvalidConfiguration.
func (l Layout) Validate() error {
	var errs []error
	if len(l.Modules) == 0 {
		errs = append(errs, errors.New("layout has no modules"))
	}
	if l.Batteries < 0 {
		errs = append(errs, fmt.Errorf("batteries must be >= 0, got %d", l.Batteries))
	}
	seen := make(map[module.Location]bool, len(l.Modules))
	for i, m := range l.Modules {
		if !m.Location.Valid() {
			errs = append(errs, fmt.Errorf("module %d: location %s outside the %dx%d grid", i, m.Location, module.Rows, module.Columns))
		} else if seen[m.Location] {
			errs = append(errs, fmt.Errorf("module %d: duplicate location %s", i, m.Location))
		}
		seen[m.Location] = true
		if err := m.validate(); err != nil {
			errs = append(errs, fmt.Errorf("module %d at %s: %w", i, m.Location, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", module.ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

func (m ModuleSpec) validate() error {
	if m.Situation < 0 {
		return fmt.Errorf("situation must be >= 0, got %d", m.Situation)
	}
	switch m.Kind {
	case module.KindWires:
		if len(m.Colors) > 0 {
			if m.Wires != 0 && m.Wires != len(m.Colors) {
				return fmt.Errorf("wires %d does not match %d preset colors", m.Wires, len(m.Colors))
			}
			if m.Situation != 0 {
				return fmt.Errorf("preset colors cannot be combined with situation %d", m.Situation)
			}
			return nil
		}
		if m.Wires != 0 && (m.Wires < module.MinWires || m.Wires > module.MaxWires) {
			return fmt.Errorf("wires must be in [%d,%d], got %d", module.MinWires, module.MaxWires, m.Wires)
		}
		if m.Wires != 0 && m.Situation > module.WireSituations(m.Wires) {
			return fmt.Errorf("situation %d outside [1,%d] for %d wires", m.Situation, module.WireSituations(m.Wires), m.Wires)
		}
	case module.KindButton:
		if m.Situation > module.ButtonSituations {
			return fmt.Errorf("situation %d outside [1,%d]", m.Situation, module.ButtonSituations)
		}
	case module.KindKnob:
		if m.Situation > module.KnobSituations {
			return fmt.Errorf("situation %d outside [1,%d]", m.Situation, module.KnobSituations)
		}
	default:
		return fmt.Errorf("unknown module type %q", m.Kind)
	}
	if len(m.Colors) > 0 {
		return fmt.Errorf("colors are only valid on wire modules")
	}
	return nil
}

// build constructs the ungenerated module described by m.
func (m ModuleSpec) build(knob module.KnobSettings) module.Module {
	switch m.Kind {
	case module.KindWires:
		if len(m.Colors) > 0 {
			return module.NewPresetWires(m.Location, m.Colors)
		}
		return module.NewWires(m.Location, m.Wires, m.Situation)
	case module.KindButton:
		return module.NewButton(m.Location, m.Situation)
	default:
		return module.NewKnob(m.Location, m.Situation, knob)
	}
}
