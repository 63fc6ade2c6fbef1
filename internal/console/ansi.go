// Package console is the interactive text front end: it reads commands from
// a line stream, drives the bomb registry and renders notifications with
// ANSI colors.
package console

import (
	"fmt"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	// Foreground colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// Bright foreground colors
	BrightBlack  = "\033[90m"
	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightWhite  = "\033[97m"
)

// Styler applies ANSI styling when enabled and passes text through
// unchanged otherwise.
type Styler struct {
	Enabled bool
}

// Colorize wraps text with the given ANSI code and a reset suffix.
//
// Postcondition: Returns text unchanged when styling is disabled.
func (s Styler) Colorize(code, text string) string {
	if !s.Enabled {
		return text
	}
	return code + text + Reset
}

// Colorf wraps a formatted string with the given ANSI code.
func (s Styler) Colorf(code, format string, args ...any) string {
	return s.Colorize(code, fmt.Sprintf(format, args...))
}

// Paint renders a wire or button color name in that color.
func (s Styler) Paint(c module.Color) string {
	return s.Colorize(colorCode(c), string(c))
}

func colorCode(c module.Color) string {
	switch c {
	case module.Red:
		return BrightRed
	case module.White:
		return BrightWhite
	case module.Blue:
		return Blue
	case module.Black:
		return BrightBlack
	case module.Yellow:
		return BrightYellow
	case module.Green:
		return BrightGreen
	default:
		return White
	}
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			// Skip past the 'm' terminator
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}
