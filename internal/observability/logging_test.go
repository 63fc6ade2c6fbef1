package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/defuse/internal/config"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defuse.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	logger.Info("bomb armed", zap.Int("modules", 5))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"bomb armed"`)
	assert.Contains(t, string(data), `"modules":5`)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}

func TestJournal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	j := Journal(zap.New(core))

	loc := module.Location{Side: module.Front, Row: 0, Column: 1}
	j.Notify(module.Notification{Kind: module.NoteKnobRotated, Module: loc, Rotation: 270, Display: "1"})
	j.Notify(module.Notification{Kind: module.NoteGameOver, Won: true})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "knob_rotated", fields["kind"])
	assert.Equal(t, "front/0/1", fields["module"])
	assert.Equal(t, "1", fields["display"])

	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, true, entries[1].ContextMap()["won"])
	_, hasModule := entries[1].ContextMap()["module"]
	assert.False(t, hasModule)
}
