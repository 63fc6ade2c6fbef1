// Package command provides the console command registry, the line parser
// and the compiler that turns a command line into bomb input events.
package command

// Categories for organizing commands.
const (
	CategoryFocus   = "focus"
	CategoryGesture = "gesture"
	CategoryInfo    = "info"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to their console action.
const (
	HandlerActivate = "activate"
	HandlerLeave    = "leave"
	HandlerCut      = "cut"
	HandlerPress    = "press"
	HandlerRelease  = "release"
	HandlerRotate   = "rotate"
	HandlerSwipe    = "swipe"
	HandlerStatus   = "status"
	HandlerInspect  = "inspect"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, e.g. "cut <wire>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler names the console action.
	Handler string
}

// BuiltinCommands returns all built-in console commands.
func BuiltinCommands() []Command {
	return []Command{
		// Focus
		{Name: "activate", Aliases: []string{"a", "hover", "touch"}, Usage: "activate <side> <row> <col>", Help: "Put your hand on a module", Category: CategoryFocus, Handler: HandlerActivate},
		{Name: "leave", Aliases: []string{"away", "release-focus"}, Usage: "leave", Help: "Take your hand off the bomb", Category: CategoryFocus, Handler: HandlerLeave},
		{Name: "swipe", Aliases: []string{"flip", "turn"}, Usage: "swipe", Help: "Turn the bomb over", Category: CategoryFocus, Handler: HandlerSwipe},

		// Gestures
		{Name: "cut", Aliases: []string{"snip"}, Usage: "cut <wire>", Help: "Cut a wire, counting from 1 on the left", Category: CategoryGesture, Handler: HandlerCut},
		{Name: "press", Aliases: []string{"p", "push"}, Usage: "press", Help: "Press the button", Category: CategoryGesture, Handler: HandlerPress},
		{Name: "release", Aliases: []string{"r", "let-go"}, Usage: "release", Help: "Release the button", Category: CategoryGesture, Handler: HandlerRelease},
		{Name: "rotate", Aliases: []string{"spin", "twist"}, Usage: "rotate <cw|ccw> [ticks]", Help: "Turn the knob", Category: CategoryGesture, Handler: HandlerRotate},

		// Info
		{Name: "status", Aliases: []string{"look", "l"}, Usage: "status", Help: "Show the presented face and strikes", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "inspect", Aliases: []string{"ex", "examine"}, Usage: "inspect [side row col]", Help: "Describe a module in detail", Category: CategoryInfo, Handler: HandlerInspect},

		// System
		{Name: "help", Aliases: []string{"h", "?"}, Usage: "help", Help: "List commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"q", "exit"}, Usage: "quit", Help: "Leave the trainer", Category: CategorySystem, Handler: HandlerQuit},
	}
}
