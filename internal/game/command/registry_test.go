package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
	assert.Equal(t, "activate", r.Commands()[0].Name)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("cut")
	assert.True(t, ok)
	assert.Equal(t, "cut", cmd.Name)
	assert.Equal(t, HandlerCut, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("hover")
	assert.True(t, ok)
	assert.Equal(t, "activate", cmd.Name)

	cmd, ok = r.Resolve("look")
	assert.True(t, ok)
	assert.Equal(t, "status", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("detonate")
	assert.False(t, ok)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "cut"}, {Name: "cut"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "cut", Aliases: []string{"c"}},
		{Name: "press", Aliases: []string{"c"}},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Command{
		{Name: "cut", Aliases: []string{"press"}},
		{Name: "press"},
	})
	assert.Error(t, err)
}

func TestCommandsByCategory(t *testing.T) {
	cats := DefaultRegistry().CommandsByCategory()
	assert.Len(t, cats[CategoryGesture], 4)
	assert.Len(t, cats[CategoryFocus], 3)
}

func TestSuggest(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "cut", r.Suggest("cutt"))
	assert.Equal(t, "rotate", r.Suggest("roatte"))
	assert.Equal(t, "status", r.Suggest("stauts"))
	assert.Equal(t, "activate", r.Suggest("hoverr"))
	assert.Equal(t, "", r.Suggest("xyzzy"))
	assert.Equal(t, "", r.Suggest("z"))
}

func TestCompile_Activate(t *testing.T) {
	inv, err := DefaultRegistry().Compile("a back 1 2")
	require.NoError(t, err)
	assert.Equal(t, "activate", inv.Command.Name)
	assert.Equal(t, []module.Event{module.ActivateAt{Location: module.Location{Side: module.Back, Row: 0, Column: 1}}}, inv.Events)
}

func TestCompile_RotateExpandsTicks(t *testing.T) {
	inv, err := DefaultRegistry().Compile("rotate ccw 3")
	require.NoError(t, err)
	require.Len(t, inv.Events, 3)
	for _, ev := range inv.Events {
		assert.Equal(t, module.RotateKnob{Clockwise: false}, ev)
	}
}

func TestCompile_SimpleGestures(t *testing.T) {
	r := DefaultRegistry()
	cases := map[string]module.Event{
		"press":   module.PressButton{},
		"release": module.ReleaseButton{},
		"leave":   module.Deactivate{},
		"swipe":   module.SwipeSides{},
		"cut 1":   module.CutWire{Position: 0},
	}
	for line, want := range cases {
		inv, err := r.Compile(line)
		require.NoError(t, err, line)
		assert.Equal(t, []module.Event{want}, inv.Events, line)
	}
}

func TestCompile_InfoCommandsProduceNoEvents(t *testing.T) {
	r := DefaultRegistry()
	for _, line := range []string{"status", "help", "quit", "inspect"} {
		inv, err := r.Compile(line)
		require.NoError(t, err, line)
		assert.Empty(t, inv.Events, line)
	}

	inv, err := r.Compile("inspect front 1 1")
	require.NoError(t, err)
	assert.True(t, inv.HasTarget)
	assert.Equal(t, module.Location{Side: module.Front}, inv.Target)
}

func TestCompile_Errors(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Compile("cutt 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Contains(t, err.Error(), `did you mean "cut"`)

	_, err = r.Compile("xyzzy")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.NotContains(t, err.Error(), "did you mean")

	_, err = r.Compile("press twice")
	assert.True(t, errors.Is(err, ErrUsage))

	_, err = r.Compile("cut")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "cut <wire>")
}

func TestCompile_Empty(t *testing.T) {
	inv, err := DefaultRegistry().Compile("   ")
	require.NoError(t, err)
	assert.Nil(t, inv.Command)
}

func TestPropertyResolveAllAliases(t *testing.T) {
	r := DefaultRegistry()
	cmds := BuiltinCommands()
	rapid.Check(t, func(t *rapid.T) {
		cmd := rapid.SampledFrom(cmds).Draw(t, "cmd")
		for _, alias := range cmd.Aliases {
			got, ok := r.Resolve(alias)
			if !ok || got.Name != cmd.Name {
				t.Fatalf("alias %q did not resolve to %q", alias, cmd.Name)
			}
		}
	})
}

func TestPropertyCompileNeverPanics(t *testing.T) {
	r := DefaultRegistry()
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.StringMatching(`[a-z ]{0,12}( [a-z0-9/]{0,6}){0,3}`).Draw(t, "line")
		inv, err := r.Compile(line)
		if err == nil && inv.Command == nil && len(inv.Events) > 0 {
			t.Fatalf("events without a command for %q", line)
		}
	})
}
