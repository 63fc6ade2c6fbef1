package command

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// ErrUnknownCommand reports a command word that matches no name or alias.
var ErrUnknownCommand = errors.New("unknown command")

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
	order    []string
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.order = append(r.order, cmd.Name)

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.commands[name])
	}
	return result
}

// CommandsByCategory returns commands grouped by category.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}

// Suggest returns the canonical name closest to input by edit distance, or
// "" when nothing is close enough.
func (r *Registry) Suggest(input string) string {
	if len(input) < 2 {
		return ""
	}
	best, bestDist := "", -1
	consider := func(word, canonical string) {
		dist := levenshtein.ComputeDistance(input, word)
		if dist > suggestLimit(len(word)) {
			return
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && canonical < best) {
			best, bestDist = canonical, dist
		}
	}
	for _, name := range r.order {
		consider(name, name)
	}
	aliases := make([]string, 0, len(r.aliases))
	for alias := range r.aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		if len(alias) >= 3 {
			consider(alias, r.aliases[alias])
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Invocation is a resolved command line.
type Invocation struct {
	Command *Command
	Args    []string
	// Events are the bomb inputs the command produces, in order. Commands
	// that only read state produce none.
	Events []module.Event
	// Target is the module named by inspect, when one was given.
	Target    module.Location
	HasTarget bool
}

// Compile resolves line and translates it into bomb input events.
//
// Postcondition: Returns an Invocation, or an error wrapping
// ErrUnknownCommand or ErrUsage. An empty line yields a zero Invocation.
func (r *Registry) Compile(line string) (Invocation, error) {
	parsed := Parse(line)
	if parsed.Command == "" {
		return Invocation{}, nil
	}
	cmd, ok := r.Resolve(parsed.Command)
	if !ok {
		if s := r.Suggest(parsed.Command); s != "" {
			return Invocation{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownCommand, parsed.Command, s)
		}
		return Invocation{}, fmt.Errorf("%w %q", ErrUnknownCommand, parsed.Command)
	}

	inv := Invocation{Command: cmd, Args: parsed.Args}
	args := parsed.Args
	switch cmd.Handler {
	case HandlerActivate:
		loc, err := ParseLocation(args)
		if err != nil {
			return Invocation{}, usage(cmd, err)
		}
		inv.Events = []module.Event{module.ActivateAt{Location: loc}}
	case HandlerCut:
		pos, err := ParseWire(args)
		if err != nil {
			return Invocation{}, usage(cmd, err)
		}
		inv.Events = []module.Event{module.CutWire{Position: pos}}
	case HandlerRotate:
		cw, ticks, err := ParseRotation(args)
		if err != nil {
			return Invocation{}, usage(cmd, err)
		}
		inv.Events = make([]module.Event, ticks)
		for i := range inv.Events {
			inv.Events[i] = module.RotateKnob{Clockwise: cw}
		}
	case HandlerInspect:
		if len(args) > 0 {
			loc, err := ParseLocation(args)
			if err != nil {
				return Invocation{}, usage(cmd, err)
			}
			inv.Target, inv.HasTarget = loc, true
		}
	default:
		if len(args) > 0 {
			return Invocation{}, usage(cmd, fmt.Errorf("%w: %s takes no arguments", ErrUsage, cmd.Name))
		}
		switch cmd.Handler {
		case HandlerLeave:
			inv.Events = []module.Event{module.Deactivate{}}
		case HandlerPress:
			inv.Events = []module.Event{module.PressButton{}}
		case HandlerRelease:
			inv.Events = []module.Event{module.ReleaseButton{}}
		case HandlerSwipe:
			inv.Events = []module.Event{module.SwipeSides{}}
		}
	}
	return inv, nil
}

func usage(cmd *Command, err error) error {
	return fmt.Errorf("%w (usage: %s)", err, cmd.Usage)
}
