// Package module implements the individual puzzle units mounted on a bomb:
// wires, button and knob. Each module procedurally generates its own hidden
// configuration and judges the player's actions against a fixed rule table.
package module

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error taxonomy shared by modules and the registry. Per-event errors leave
// state unchanged; only ErrInvalidConfiguration is fatal, and only at setup.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrStaleEvent           = errors.New("stale event ignored")
	ErrPreconditionNotMet   = errors.New("precondition not met")
	ErrUnsupportedEvent     = fmt.Errorf("%w: event not supported by module", ErrPreconditionNotMet)
)

// Side is one of the two faces of the bomb.
type Side string

// The two bomb faces.
const (
	Front Side = "front"
	Back  Side = "back"
)

// Valid reports whether s is Front or Back.
func (s Side) Valid() bool {
	return s == Front || s == Back
}

// Opposite returns the other face.
func (s Side) Opposite() Side {
	if s == Front {
		return Back
	}
	return Front
}

// ParseSide converts a case-insensitive name into a Side.
func ParseSide(name string) (Side, error) {
	s := Side(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidLocation, name)
	}
	return s, nil
}

// Grid dimensions of one bomb face.
const (
	Rows    = 2
	Columns = 3
)

// Location identifies a module cell. It doubles as the module ID.
type Location struct {
	Side   Side
	Row    int
	Column int
}

// Valid reports whether the location lies inside a face's 2x3 grid.
func (l Location) Valid() bool {
	return l.Side.Valid() && l.Row >= 0 && l.Row < Rows && l.Column >= 0 && l.Column < Columns
}

// String renders the location as "side/row/column".
func (l Location) String() string {
	return fmt.Sprintf("%s/%d/%d", l.Side, l.Row, l.Column)
}

// Kind names a module type.
type Kind string

// Module kinds.
const (
	KindWires  Kind = "wires"
	KindButton Kind = "button"
	KindKnob   Kind = "knob"
)

// Outcome is a module's resolution state.
type Outcome int

// Outcomes. A module moves from Unresolved to exactly one of Passed or Failed.
const (
	Unresolved Outcome = iota
	Passed
	Failed
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "unresolved"
	}
}

// Color is a wire or button color.
type Color string

// Colors used by wires and buttons.
const (
	Red    Color = "red"
	White  Color = "white"
	Blue   Color = "blue"
	Black  Color = "black"
	Yellow Color = "yellow"
	Green  Color = "green"
)

// Context carries the bomb-wide facts some rules depend on.
type Context struct {
	// SerialNumber is the bomb serial; only the parity of its last digit matters.
	SerialNumber int
	// Batteries is the number of batteries on the bomb casing.
	Batteries int
	// LitIndicators lists the labels of lit indicators, e.g. "CAR", "FRK".
	LitIndicators []string
}

// SerialOdd reports whether the last digit of the serial number is odd.
func (c Context) SerialOdd() bool {
	return c.SerialNumber%2 != 0
}

// IsLit reports whether the named indicator is lit. Matching ignores case.
func (c Context) IsLit(label string) bool {
	return slices.ContainsFunc(c.LitIndicators, func(l string) bool {
		return strings.EqualFold(l, label)
	})
}
