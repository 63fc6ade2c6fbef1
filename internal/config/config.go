// Package config provides Viper-based configuration loading for the defuse
// trainer.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. The interactive console
	// owns stdout, so the default is stderr.
	Output string `mapstructure:"output"`
}

// GameConfig holds bomb rules and lockout timings.
type GameConfig struct {
	// MaxFails is the number of strikes that detonates the bomb.
	MaxFails int `mapstructure:"max_fails"`
	// Seed makes generation reproducible. Zero selects a crypto-backed source.
	Seed int64 `mapstructure:"seed"`
	// CutCooldown is the minimum interval between two cut gestures.
	CutCooldown time.Duration `mapstructure:"cut_cooldown"`
	// PressCooldown is the button flash during which presses are ignored.
	PressCooldown time.Duration `mapstructure:"press_cooldown"`
	// SwipeCooldown locks out repeated swipes.
	SwipeCooldown time.Duration `mapstructure:"swipe_cooldown"`
}

// KnobConfig holds the dial geometry.
type KnobConfig struct {
	InitialRotation float64 `mapstructure:"initial_rotation"`
	StepDegrees     float64 `mapstructure:"step_degrees"`
	LockAngle       float64 `mapstructure:"lock_angle"`
}

// LayoutConfig selects the bomb layout.
type LayoutConfig struct {
	// Path is a layout YAML file. Empty selects the built-in practice board.
	Path string `mapstructure:"path"`
}

// ScriptingConfig holds Lua drill settings.
type ScriptingConfig struct {
	// InstructionLimit caps the VM instructions a drill may execute.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ConsoleConfig holds interactive console settings.
type ConsoleConfig struct {
	// Color enables ANSI color output.
	Color bool `mapstructure:"color"`
	// Prompt is printed before each command.
	Prompt string `mapstructure:"prompt"`
	// FeedBuffer is the notification buffer size.
	FeedBuffer int `mapstructure:"feed_buffer"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	Knob      KnobConfig      `mapstructure:"knob"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Console   ConsoleConfig   `mapstructure:"console"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateKnob(c.Knob); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateConsole(c.Console); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.MaxFails < 1 {
		errs = append(errs, fmt.Sprintf("game.max_fails must be >= 1, got %d", g.MaxFails))
	}
	if g.CutCooldown < 0 {
		errs = append(errs, "game.cut_cooldown must not be negative")
	}
	if g.PressCooldown < 0 {
		errs = append(errs, "game.press_cooldown must not be negative")
	}
	if g.SwipeCooldown < 0 {
		errs = append(errs, "game.swipe_cooldown must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateKnob(k KnobConfig) error {
	var errs []string
	if k.StepDegrees <= 0 {
		errs = append(errs, fmt.Sprintf("knob.step_degrees must be > 0, got %v", k.StepDegrees))
	}
	if k.LockAngle <= 0 || k.LockAngle*10 > 360 {
		errs = append(errs, fmt.Sprintf("knob.lock_angle must be in (0, 36], got %v", k.LockAngle))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 1 {
		return fmt.Errorf("scripting.instruction_limit must be >= 1, got %d", s.InstructionLimit)
	}
	return nil
}

func validateConsole(c ConsoleConfig) error {
	if c.FeedBuffer < 1 {
		return fmt.Errorf("console.feed_buffer must be >= 1, got %d", c.FeedBuffer)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Precondition: path must be empty or a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and DEFUSE_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with DEFUSE_ prefix
	v.SetEnvPrefix("DEFUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("game.max_fails", 3)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.cut_cooldown", "500ms")
	v.SetDefault("game.press_cooldown", "500ms")
	v.SetDefault("game.swipe_cooldown", "1s")

	v.SetDefault("knob.initial_rotation", 268.0)
	v.SetDefault("knob.step_degrees", 1.0)
	v.SetDefault("knob.lock_angle", 31.01)

	v.SetDefault("layout.path", "")

	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("console.color", true)
	v.SetDefault("console.prompt", "> ")
	v.SetDefault("console.feed_buffer", 256)
}
