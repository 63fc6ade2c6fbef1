package bomb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// yamlLayoutFile is the top-level YAML structure for layout files.
type yamlLayoutFile struct {
	Bomb yamlLayout `yaml:"bomb"`
}

// yamlLayout is the YAML representation of a bomb layout.
type yamlLayout struct {
	Name          string       `yaml:"name"`
	SerialNumber  int          `yaml:"serial_number"`
	Batteries     int          `yaml:"batteries"`
	LitIndicators []string     `yaml:"lit_indicators"`
	Modules       []yamlModule `yaml:"modules"`
}

// yamlModule is the YAML representation of one mounted module.
type yamlModule struct {
	Type      string   `yaml:"type"`
	Side      string   `yaml:"side"`
	Row       int      `yaml:"row"`
	Column    int      `yaml:"column"`
	Wires     int      `yaml:"wires"`
	Situation int      `yaml:"situation"`
	Colors    []string `yaml:"colors"`
}

// LoadLayoutFromFile reads and validates a layout YAML file.
//
// Precondition: path must point to a YAML layout file.
// Postcondition: Returns a validated Layout or a non-nil error.
func LoadLayoutFromFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	layout, err := LoadLayoutFromBytes(data)
	if err != nil {
		return Layout{}, err
	}
	if layout.Name == "" {
		layout.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return layout, nil
}

// LoadLayoutFromBytes parses and validates a layout from YAML bytes.
//
// Precondition: data must be YAML conforming to the layout schema.
// Postcondition: Returns a validated Layout or a non-nil error.
func LoadLayoutFromBytes(data []byte) (Layout, error) {
	var file yamlLayoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Layout{}, fmt.Errorf("parsing layout YAML: %w", err)
	}

	layout, err := convertYAMLLayout(file.Bomb)
	if err != nil {
		return Layout{}, fmt.Errorf("converting layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, fmt.Errorf("validating layout: %w", err)
	}
	return layout, nil
}

// LoadLayoutsFromDir loads every YAML file in dir as a layout.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated layouts or the first error encountered.
func LoadLayoutsFromDir(dir string) ([]Layout, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading layout directory %s: %w", dir, err)
	}

	var layouts []Layout
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		layout, err := LoadLayoutFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading layout from %s: %w", name, err)
		}
		layouts = append(layouts, layout)
	}

	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layout files found in %s", dir)
	}
	return layouts, nil
}

// convertYAMLLayout converts the parsed YAML structures into domain types.
func convertYAMLLayout(yl yamlLayout) (Layout, error) {
	layout := Layout{
		Name:          yl.Name,
		SerialNumber:  yl.SerialNumber,
		Batteries:     yl.Batteries,
		LitIndicators: yl.LitIndicators,
		Modules:       make([]ModuleSpec, 0, len(yl.Modules)),
	}
	for i, ym := range yl.Modules {
		side, err := module.ParseSide(ym.Side)
		if err != nil {
			return Layout{}, fmt.Errorf("%w: module %d: %w", module.ErrInvalidConfiguration, i, err)
		}
		spec := ModuleSpec{
			Kind:      module.Kind(strings.ToLower(strings.TrimSpace(ym.Type))),
			Location:  module.Location{Side: side, Row: ym.Row, Column: ym.Column},
			Wires:     ym.Wires,
			Situation: ym.Situation,
		}
		for _, c := range ym.Colors {
			spec.Colors = append(spec.Colors, module.Color(strings.ToLower(strings.TrimSpace(c))))
		}
		layout.Modules = append(layout.Modules, spec)
	}
	return layout, nil
}
