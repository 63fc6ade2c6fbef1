package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/defuse/internal/console"
	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/command"
	"github.com/cory-johannsen/defuse/internal/game/module"
	"github.com/cory-johannsen/defuse/internal/game/random"
	"github.com/cory-johannsen/defuse/internal/testutil"
)

func drillLayout() bomb.Layout {
	return bomb.Layout{
		Name:         "drill",
		SerialNumber: 12,
		Modules: []bomb.ModuleSpec{
			{Kind: module.KindWires, Location: module.Location{Side: module.Front, Row: 0, Column: 0},
				Colors: []module.Color{module.White, module.Blue, module.Red}},
			{Kind: module.KindButton, Location: module.Location{Side: module.Front, Row: 0, Column: 1}, Situation: 6},
			{Kind: module.KindKnob, Location: module.Location{Side: module.Front, Row: 1, Column: 0}, Situation: 1},
		},
	}
}

func newSession(t *testing.T, opts bomb.Options) *console.Session {
	t.Helper()
	return newSessionWithFeed(t, opts, 256)
}

func newSessionWithFeed(t *testing.T, opts bomb.Options, buffer int) *console.Session {
	t.Helper()
	logger := zaptest.NewLogger(t)
	feed := bomb.NewFeed("console", buffer, zap.NewNop())
	opts.Listener = feed
	opts.Logger = logger
	opts.Source = random.NewSeededSource(3)
	reg, err := bomb.New(drillLayout(), opts)
	require.NoError(t, err)
	return console.NewSession(reg, feed, command.DefaultRegistry(), console.Styler{}, "> ", logger)
}

func runScript(t *testing.T, s *console.Session, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	err := s.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, err)
	return out.String()
}

func TestSession_DefuseWholeBomb(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}),
		"activate front 1 1",
		"cut 3",
		"a front 1 2",
		"press",
		"press",
		"leave",
		"hover front 2 1",
		"rotate cw",
		"leave",
		"status",
	)

	assert.Contains(t, out, "Wires at front 1 1: 1:white 2:blue 3:red")
	assert.Contains(t, out, "Snip. Wire 3 at front 1 1 is cut.")
	assert.Contains(t, out, "Module at front 1 1 disarmed.")
	assert.Contains(t, out, "Pressed 2 time(s).")
	assert.Contains(t, out, "Module at front 1 2 disarmed.")
	assert.Contains(t, out, "The knob reads 1 (269°).")
	assert.Contains(t, out, "*** BOMB DEFUSED ***")
	assert.Contains(t, out, "The bomb is defused.")
	assert.NotContains(t, out, "Strike 1!")
}

func TestSession_StrikesEndTheGame(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{MaxFails: 1}),
		"activate front 1 1",
		"cut 1",
		"status",
	)
	assert.Contains(t, out, "Module at front 1 1 failed!")
	assert.Contains(t, out, "Strike 1!")
	assert.Contains(t, out, "*** BOOM ***")
	assert.Contains(t, out, "The bomb has exploded.")
}

func TestSession_RejectionsAreReported(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}),
		"press",
		"activate back 1 1",
		"activate front 2 3",
		"a front 1 1",
		"rotate cw",
		"quit",
	)
	assert.Contains(t, out, "Not now: no active module for press.")
	assert.Contains(t, out, "Not now: back/0/0 is not on the presented front face.")
	assert.Contains(t, out, "There is no module there.")
	assert.Contains(t, out, "That does nothing to this module.")
	assert.Contains(t, out, "You walk away from the bomb.")
}

func TestSession_UnknownCommandSuggests(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}), "swpie", "cut")
	assert.Contains(t, out, `unknown command "swpie" (did you mean "swipe"?)`)
	assert.Contains(t, out, "usage: cut <wire>")
}

func TestSession_InspectAndHelp(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}),
		"inspect",
		"inspect front 1 2",
		"inspect back 1 1",
		"a front 2 1",
		"inspect",
		"help",
	)
	assert.Contains(t, out, "Your hand is not on a module.")
	assert.Contains(t, out, `button at front 1 2 [unresolved]: a red button labeled "HOLD", pressed 0 time(s)`)
	assert.Contains(t, out, "There is no module at back 1 1.")
	assert.Contains(t, out, "knob at front 2 1 [unresolved]: a dial reading 1")
	assert.Contains(t, out, "Gesture:")
	assert.Contains(t, out, "rotate <cw|ccw> [ticks]")
}

func TestSession_StatusShowsPresentedFace(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}), "a front 1 1", "status")
	assert.Contains(t, out, "Bomb drill")
	assert.Contains(t, out, "Serial 12 | Batteries 0 | Lit none")
	assert.Contains(t, out, "Strikes 0/3 | Resolved 0/3 | Face front")
	assert.Contains(t, out, "*wires(3)")
	assert.Contains(t, out, "Hand on front 1 1.")
}

func TestSession_MultiTickRotationPrintsOnce(t *testing.T) {
	out := runScript(t, newSession(t, bomb.Options{}), "a front 2 1", "rotate cw 40")
	assert.Equal(t, 1, strings.Count(out, "The knob reads"))
	assert.Contains(t, out, "The knob reads 2 (308°).")
}

func TestSession_RotationLongerThanFeedBufferKeepsFinalReading(t *testing.T) {
	out := runScript(t, newSessionWithFeed(t, bomb.Options{}, 16), "a front 2 1", "rotate cw 300", "inspect")
	assert.Equal(t, 1, strings.Count(out, "The knob reads"))
	assert.Contains(t, out, "The knob reads 0 (568°).")
	assert.Contains(t, out, "a dial reading 0")
}

func TestSession_CooldownRejectsAndRecovers(t *testing.T) {
	sched := testutil.NewManualScheduler()
	s := newSession(t, bomb.Options{Timings: bomb.DefaultTimings, Scheduler: sched})
	out := runScript(t, s, "a front 1 2", "press", "press")
	assert.Contains(t, out, "Not now: button lockout running.")
	assert.Contains(t, out, "Pressed 1 time(s).")
	assert.NotContains(t, out, "Pressed 2 time(s).")
}

func TestSession_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	err := newSession(t, bomb.Options{}).Run(context.Background(), strings.NewReader(""), &out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Bomb armed.")
}

func TestSession_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- newSession(t, bomb.Options{}).Run(ctx, pr, io.Discard)
	}()
	cancel()
	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on cancel")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestSession_WriteErrorStops(t *testing.T) {
	err := newSession(t, bomb.Options{}).Run(context.Background(), strings.NewReader("status\n"), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestSession_OverPipe(t *testing.T) {
	client, server := testutil.NewConsolePipe(t)
	s := newSession(t, bomb.Options{})
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background(), server, server) }()

	client.ReadUntil("> ", 2*time.Second)
	client.Send("a front 1 1")
	client.ReadUntil("You put your hand on the module at front 1 1.", 2*time.Second)
	client.ReadUntil("> ", 2*time.Second)
	client.Send("quit")
	client.ReadUntil("You walk away", 2*time.Second)

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not return after quit")
	}
}
