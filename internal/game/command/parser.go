package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// ErrUsage reports arguments that do not match a command's syntax.
var ErrUsage = errors.New("usage")

// MaxTicks caps the ticks a single rotate command may request.
const MaxTicks = 360

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command, lowercased.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: fields[0]}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}

// ParseLocation reads "<side> <row> <col>" with one-based row and column,
// e.g. "front 1 2". The slash form "front/0/1" with zero-based indices, as
// printed by the status display, is accepted too.
//
// Postcondition: Returns a Location or an error wrapping ErrUsage. The
// location is not range checked.
func ParseLocation(args []string) (module.Location, error) {
	if len(args) == 1 && strings.Count(args[0], "/") == 2 {
		return parseLocationParts(strings.Split(args[0], "/"), 0)
	}
	if len(args) != 3 {
		return module.Location{}, fmt.Errorf("%w: expected <side> <row> <col>", ErrUsage)
	}
	return parseLocationParts(args, 1)
}

func parseLocationParts(parts []string, base int) (module.Location, error) {
	side, err := module.ParseSide(parts[0])
	if err != nil {
		return module.Location{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return module.Location{}, fmt.Errorf("%w: row %q is not a number", ErrUsage, parts[1])
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return module.Location{}, fmt.Errorf("%w: column %q is not a number", ErrUsage, parts[2])
	}
	return module.Location{Side: side, Row: row - base, Column: col - base}, nil
}

// ParseWire reads a one-based wire number and returns its zero-based
// position.
func ParseWire(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected a wire number", ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: wire %q must be a number from 1", ErrUsage, args[0])
	}
	return n - 1, nil
}

// ParseRotation reads "<cw|ccw> [ticks]". Ticks default to 1.
//
// Postcondition: 1 <= ticks <= MaxTicks, or an error wrapping ErrUsage.
func ParseRotation(args []string) (clockwise bool, ticks int, err error) {
	if len(args) < 1 || len(args) > 2 {
		return false, 0, fmt.Errorf("%w: expected <cw|ccw> [ticks]", ErrUsage)
	}
	switch args[0] {
	case "cw", "clockwise", "right":
		clockwise = true
	case "ccw", "counterclockwise", "anticlockwise", "left":
		clockwise = false
	default:
		return false, 0, fmt.Errorf("%w: direction %q must be cw or ccw", ErrUsage, args[0])
	}
	ticks = 1
	if len(args) == 2 {
		ticks, err = strconv.Atoi(args[1])
		if err != nil || ticks < 1 || ticks > MaxTicks {
			return false, 0, fmt.Errorf("%w: ticks %q must be in [1,%d]", ErrUsage, args[1], MaxTicks)
		}
	}
	return clockwise, ticks, nil
}
