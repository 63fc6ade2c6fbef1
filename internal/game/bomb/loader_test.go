package bomb_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

const sampleLayout = `
bomb:
  name: sample
  serial_number: 31
  batteries: 2
  lit_indicators: [CAR]
  modules:
    - type: Wires
      side: FRONT
      row: 0
      column: 0
      wires: 4
      situation: 1
    - type: button
      side: back
      row: 1
      column: 2
      situation: 6
    - type: wires
      side: back
      row: 0
      column: 0
      colors: [white, Blue, red]
`

func TestLoadLayoutFromBytes(t *testing.T) {
	layout, err := bomb.LoadLayoutFromBytes([]byte(sampleLayout))
	require.NoError(t, err)
	assert.Equal(t, "sample", layout.Name)
	assert.Equal(t, 31, layout.SerialNumber)
	assert.True(t, layout.Context().SerialOdd())
	assert.True(t, layout.Context().IsLit("car"))
	require.Len(t, layout.Modules, 3)

	assert.Equal(t, bomb.ModuleSpec{
		Kind:      module.KindWires,
		Location:  module.Location{Side: module.Front, Row: 0, Column: 0},
		Wires:     4,
		Situation: 1,
	}, layout.Modules[0])
	assert.Equal(t, []module.Color{module.White, module.Blue, module.Red}, layout.Modules[2].Colors)
}

func TestLoadLayoutFromBytes_Errors(t *testing.T) {
	cases := map[string]string{
		"bad side": `
bomb:
  modules:
    - {type: knob, side: top, row: 0, column: 0}
`,
		"duplicate location": `
bomb:
  modules:
    - {type: knob, side: front, row: 0, column: 0}
    - {type: button, side: front, row: 0, column: 0}
`,
		"out of grid": `
bomb:
  modules:
    - {type: knob, side: front, row: 2, column: 0}
`,
		"unknown type": `
bomb:
  modules:
    - {type: keypad, side: front, row: 0, column: 0}
`,
		"too many wires": `
bomb:
  modules:
    - {type: wires, side: front, row: 0, column: 0, wires: 7}
`,
		"wire situation out of range": `
bomb:
  modules:
    - {type: wires, side: front, row: 0, column: 0, wires: 3, situation: 5}
`,
		"preset colors with situation": `
bomb:
  modules:
    - {type: wires, side: front, row: 0, column: 0, colors: [white, blue, red], situation: 9}
`,
		"colors on button": `
bomb:
  modules:
    - {type: button, side: front, row: 0, column: 0, colors: [red]}
`,
		"knob situation": `
bomb:
  modules:
    - {type: knob, side: front, row: 0, column: 0, situation: 11}
`,
		"no modules": `
bomb:
  name: empty
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := bomb.LoadLayoutFromBytes([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, module.ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestLoadLayoutFromBytes_MalformedYAML(t *testing.T) {
	_, err := bomb.LoadLayoutFromBytes([]byte("bomb: [unterminated"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	layout := bomb.Layout{
		Batteries: -1,
		Modules: []bomb.ModuleSpec{
			{Kind: module.KindKnob, Location: module.Location{Side: module.Front, Row: 9}},
			{Kind: module.KindButton, Location: module.Location{Side: module.Front}, Situation: 8},
		},
	}
	err := layout.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batteries")
	assert.Contains(t, err.Error(), "outside the 2x3 grid")
	assert.Contains(t, err.Error(), "situation 8")
}

func TestLoadLayoutFromFile_NameDefaultsToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drill_board.yaml")
	doc := "bomb:\n  modules:\n    - {type: knob, side: front, row: 0, column: 0}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	layout, err := bomb.LoadLayoutFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "drill_board", layout.Name)

	_, err = bomb.LoadLayoutFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadLayoutsFromDir_Content(t *testing.T) {
	layouts, err := bomb.LoadLayoutsFromDir("../../../content/layouts")
	require.NoError(t, err, "content/layouts should load without error")
	require.NotEmpty(t, layouts)
	for _, l := range layouts {
		_, err := bomb.New(l, bomb.Options{})
		assert.NoError(t, err, "layout %q should arm", l.Name)
	}
}

func TestLoadLayoutsFromDir_Empty(t *testing.T) {
	_, err := bomb.LoadLayoutsFromDir(t.TempDir())
	assert.Error(t, err)
}

func TestDefaultLayoutMatchesClassicContent(t *testing.T) {
	classic, err := bomb.LoadLayoutFromFile("../../../content/layouts/classic.yaml")
	require.NoError(t, err)
	assert.Equal(t, bomb.DefaultLayout().Modules, classic.Modules)
	require.NoError(t, bomb.DefaultLayout().Validate())
}
