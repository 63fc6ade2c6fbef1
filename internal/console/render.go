package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/command"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

// Place renders a location with one-based row and column, the form the
// activate command accepts.
func Place(loc module.Location) string {
	return fmt.Sprintf("%s %d %d", loc.Side, loc.Row+1, loc.Column+1)
}

// RenderNotification formats one notification as a line of text.
func RenderNotification(n module.Notification, s Styler) string {
	switch n.Kind {
	case module.NoteModuleActivated:
		return fmt.Sprintf("You put your hand on the module at %s.", Place(n.Module))
	case module.NoteModuleDeactivated:
		return s.Colorf(Dim, "You let go of %s.", Place(n.Module))
	case module.NoteWireSetGenerated:
		return fmt.Sprintf("Wires at %s: %s", Place(n.Module), renderColors(n.Colors, nil, s))
	case module.NoteWireCut:
		return fmt.Sprintf("Snip. Wire %d at %s is cut.", n.Position+1, Place(n.Module))
	case module.NoteButtonPressed:
		return fmt.Sprintf("Click. Pressed %d time(s).", n.Count)
	case module.NoteButtonReleased:
		return s.Colorize(Dim, "Button released.")
	case module.NoteKnobRotated:
		return fmt.Sprintf("The knob reads %s (%.0f°).", knobDisplay(n.Display), n.Rotation)
	case module.NoteModulePassed:
		return s.Colorf(BrightGreen, "Module at %s disarmed.", Place(n.Module))
	case module.NoteModuleFailed:
		return s.Colorf(BrightRed, "Module at %s failed!", Place(n.Module))
	case module.NoteStrikeRecorded:
		return s.Colorf(Bold+Red, "Strike %d!", n.Count)
	case module.NoteSideSwapped:
		return fmt.Sprintf("You turn the bomb over. The %s face is up.", n.Side)
	case module.NoteCooldownExpired:
		return s.Colorf(Dim, "(%s ready)", n.Cooldown)
	case module.NoteGameOver:
		if n.Won {
			return s.Colorize(Bold+BrightGreen, "*** BOMB DEFUSED ***")
		}
		return s.Colorize(Bold+BrightRed, "*** BOOM ***")
	default:
		return string(n.Kind)
	}
}

// RenderNotifications formats a batch, keeping only the last of each run of
// knob rotations so a multi-tick turn prints one line.
func RenderNotifications(notes []module.Notification, s Styler) []string {
	lines := make([]string, 0, len(notes))
	for i, n := range notes {
		if n.Kind == module.NoteKnobRotated && i+1 < len(notes) &&
			notes[i+1].Kind == module.NoteKnobRotated && notes[i+1].Module == n.Module {
			continue
		}
		lines = append(lines, RenderNotification(n, s))
	}
	return lines
}

func knobDisplay(d string) string {
	if d == "" {
		return "blank"
	}
	return d
}

func renderColors(colors []module.Color, cut []bool, s Styler) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		label := fmt.Sprintf("%d:%s", i+1, s.Paint(c))
		if i < len(cut) && cut[i] {
			label += s.Colorize(Dim, "(cut)")
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}

// RenderStatus formats the bomb summary and a map of the presented face.
func RenderStatus(st bomb.Status, ctx module.Context, mods []module.Snapshot, s Styler) string {
	var b strings.Builder

	b.WriteString(s.Colorf(BrightYellow, "Bomb %s", st.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Serial %d | Batteries %d | Lit %s\n",
		ctx.SerialNumber, ctx.Batteries, litList(ctx.LitIndicators)))
	strikes := fmt.Sprintf("Strikes %d/%d", st.Fails, st.MaxFails)
	if st.Fails > 0 {
		strikes = s.Colorize(Red, strikes)
	}
	b.WriteString(fmt.Sprintf("%s | Resolved %d/%d | Face %s\n", strikes, st.Resolved, st.Total, st.Side))

	bySlot := make(map[module.Location]module.Snapshot, len(mods))
	for _, m := range mods {
		bySlot[m.Location] = m
	}
	for row := 0; row < module.Rows; row++ {
		cells := make([]string, module.Columns)
		for col := 0; col < module.Columns; col++ {
			loc := module.Location{Side: st.Side, Row: row, Column: col}
			m, ok := bySlot[loc]
			if !ok {
				cells[col] = s.Colorize(Dim, fmt.Sprintf("%-12s", "."))
				continue
			}
			cells[col] = renderCell(m, s)
		}
		b.WriteString("  " + strings.Join(cells, " ") + "\n")
	}

	if st.HasActive {
		b.WriteString(fmt.Sprintf("Hand on %s.\n", Place(st.Active)))
	}
	if len(st.Cooldowns) > 0 {
		names := make([]string, len(st.Cooldowns))
		for i, c := range st.Cooldowns {
			names[i] = string(c)
		}
		b.WriteString(s.Colorf(Dim, "Cooling down: %s\n", strings.Join(names, ", ")))
	}
	if st.Over {
		if st.Won {
			b.WriteString(s.Colorize(BrightGreen, "The bomb is defused.\n"))
		} else {
			b.WriteString(s.Colorize(BrightRed, "The bomb has exploded.\n"))
		}
	}
	return b.String()
}

func renderCell(m module.Snapshot, s Styler) string {
	label := string(m.Kind)
	if m.Kind == module.KindWires {
		label = fmt.Sprintf("wires(%d)", len(m.Wires))
	}
	if m.Active {
		label = "*" + label
	}
	label = fmt.Sprintf("%-12s", label)
	switch m.Outcome {
	case module.Passed:
		return s.Colorize(Green, label)
	case module.Failed:
		return s.Colorize(Red, label)
	default:
		return label
	}
}

func litList(lit []string) string {
	if len(lit) == 0 {
		return "none"
	}
	return strings.ToUpper(strings.Join(lit, ","))
}

// RenderModule describes what the player can see of one module.
func RenderModule(m module.Snapshot, s Styler) string {
	var detail string
	switch m.Kind {
	case module.KindWires:
		detail = renderColors(m.Wires, m.Cut, s)
	case module.KindButton:
		detail = fmt.Sprintf("a %s button labeled %q, pressed %d time(s)", s.Paint(m.Color), strings.ToUpper(string(m.Label)), m.Presses)
	case module.KindKnob:
		detail = fmt.Sprintf("a dial reading %s", knobDisplay(m.Display))
	}
	return fmt.Sprintf("%s at %s [%s]: %s", m.Kind, Place(m.Location), m.Outcome, detail)
}

// RenderHelp lists the commands grouped by category.
func RenderHelp(reg *command.Registry, s Styler) string {
	var b strings.Builder
	cats := reg.CommandsByCategory()
	for _, cat := range []string{command.CategoryFocus, command.CategoryGesture, command.CategoryInfo, command.CategorySystem} {
		cmds := cats[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString(s.Colorize(Cyan, strings.ToUpper(cat[:1])+cat[1:]+":"))
		b.WriteString("\n")
		for _, cmd := range cmds {
			line := fmt.Sprintf("  %-28s %s", cmd.Usage, cmd.Help)
			if len(cmd.Aliases) > 0 {
				line += s.Colorf(Dim, " (aliases: %s)", strings.Join(cmd.Aliases, ", "))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
