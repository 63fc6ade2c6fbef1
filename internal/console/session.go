package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/command"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

// Session runs one interactive game over a line-oriented stream.
type Session struct {
	bomb     *bomb.Registry
	feed     *bomb.Feed
	commands *command.Registry
	style    Styler
	prompt   string
	logger   *zap.Logger

	// pending holds notifications drained from the feed but not yet rendered.
	pending []module.Notification
}

// NewSession creates a Session. feed must be the registry's listener (or
// part of it) so the session can render what the registry reports.
//
// Precondition: reg, feed, cmds and logger must be non-nil.
func NewSession(reg *bomb.Registry, feed *bomb.Feed, cmds *command.Registry, style Styler, prompt string, logger *zap.Logger) *Session {
	return &Session{
		bomb:     reg,
		feed:     feed,
		commands: cmds,
		style:    style,
		prompt:   prompt,
		logger:   logger,
	}
}

// Run reads commands from in and writes responses to out until the player
// quits, the input ends, the game is over or ctx is cancelled.
//
// Postcondition: Returns nil on quit, end of input or game over; ctx.Err()
// on cancellation; otherwise the first read or write error.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	w := &lineWriter{out: out}
	w.println(s.style.Colorize(Bold+BrightYellow, "Bomb armed. Type 'help' for commands."))
	s.flush(w)
	w.println(RenderStatus(s.bomb.Status(), s.bomb.Context(), s.bomb.Modules(), s.style))
	w.print(s.prompt)
	if w.err != nil {
		return w.err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.flush(w)
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return w.err
			}
			quit := s.execute(line, w)
			s.flush(w)
			if w.err != nil {
				return w.err
			}
			if over, _ := s.bomb.Over(); over || quit {
				if over {
					w.println(RenderStatus(s.bomb.Status(), s.bomb.Context(), s.bomb.Modules(), s.style))
				}
				return w.err
			}
			w.print(s.prompt)
		}
	}
}

// execute runs one command line. It reports whether the player asked to
// quit.
func (s *Session) execute(line string, w *lineWriter) bool {
	inv, err := s.commands.Compile(line)
	if err != nil {
		w.println(s.style.Colorize(Yellow, err.Error()))
		return false
	}
	if inv.Command == nil {
		return false
	}
	s.logger.Debug("console command", zap.String("command", inv.Command.Name), zap.Strings("args", inv.Args))

	switch inv.Command.Handler {
	case command.HandlerQuit:
		w.println("You walk away from the bomb.")
		return true
	case command.HandlerHelp:
		w.print(RenderHelp(s.commands, s.style))
		return false
	case command.HandlerStatus:
		w.print(RenderStatus(s.bomb.Status(), s.bomb.Context(), s.bomb.Modules(), s.style))
		return false
	case command.HandlerInspect:
		s.inspect(inv, w)
		return false
	}

	for _, ev := range inv.Events {
		err := s.bomb.Handle(ev)
		s.drain()
		if err != nil {
			w.println(s.style.Colorize(Yellow, describeRejection(err)))
			break
		}
	}
	return false
}

func (s *Session) inspect(inv command.Invocation, w *lineWriter) {
	target := inv.Target
	if !inv.HasTarget {
		st := s.bomb.Status()
		if !st.HasActive {
			w.println("Your hand is not on a module. Try 'inspect <side> <row> <col>'.")
			return
		}
		target = st.Active
	}
	snap, ok := s.bomb.Snapshot(target)
	if !ok {
		w.println(fmt.Sprintf("There is no module at %s.", Place(target)))
		return
	}
	w.println(RenderModule(snap, s.style))
}

// drain moves every notification queued on the feed into pending. It runs
// after each event so a long command never overflows the feed.
func (s *Session) drain() {
	for {
		select {
		case n, ok := <-s.feed.Events():
			if !ok {
				return
			}
			s.pending = append(s.pending, n)
		default:
			return
		}
	}
}

// flush renders every pending or queued notification.
func (s *Session) flush(w *lineWriter) {
	s.drain()
	notes := s.pending
	s.pending = nil
	s.render(notes, w)
}

func (s *Session) render(notes []module.Notification, w *lineWriter) {
	for _, line := range RenderNotifications(notes, s.style) {
		w.println(line)
	}
}

// describeRejection turns a registry error into player-facing text.
func describeRejection(err error) string {
	switch {
	case errors.Is(err, bomb.ErrGameOver):
		return "The game is over."
	case errors.Is(err, module.ErrUnsupportedEvent):
		return "That does nothing to this module."
	case errors.Is(err, module.ErrStaleEvent):
		return "That module is already done."
	case errors.Is(err, module.ErrInvalidLocation):
		return "There is no module there."
	case errors.Is(err, module.ErrPreconditionNotMet):
		msg := err.Error()
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
		return "Not now: " + msg + "."
	default:
		return err.Error()
	}
}

// lineWriter remembers the first write error so the loop can check once.
type lineWriter struct {
	out io.Writer
	err error
}

func (w *lineWriter) print(text string) {
	if w.err != nil || text == "" {
		return
	}
	_, w.err = io.WriteString(w.out, text)
}

func (w *lineWriter) println(text string) {
	w.print(strings.TrimRight(text, "\n") + "\n")
}
