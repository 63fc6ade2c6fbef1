package scripting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
)

// Settling polls the bomb in settleStep increments for at most maxSettleSteps
// steps before giving up.
const (
	settleStep     = 50 * time.Millisecond
	maxSettleSteps = 200
)

// Result is the bomb's state after a drill finished or aborted.
type Result struct {
	Drill  string
	Status bomb.Status
}

// Manager runs drill scripts against one armed bomb.
//
// A Manager is not safe for concurrent Run calls; drills take turns on the
// bomb the same way a single player would.
type Manager struct {
	bomb   *bomb.Registry
	limit  int
	logger *zap.Logger

	// Out receives the output of the drill's print calls. nil discards it.
	Out io.Writer
	// Wait pauses the drill for d. nil sleeps on the wall clock.
	Wait func(d time.Duration)
}

// NewManager creates a Manager for reg.
//
// Precondition: reg and logger must be non-nil; instLimit >= 0 where 0
// selects DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager.
func NewManager(reg *bomb.Registry, instLimit int, logger *zap.Logger) *Manager {
	return &Manager{
		bomb:   reg,
		limit:  instLimit,
		logger: logger.With(zap.String("bomb", reg.ID().String())),
	}
}

// RunFile executes the drill at path.
//
// Postcondition: The returned Result reflects the bomb after the drill,
// including when the drill raised an error.
func (m *Manager) RunFile(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{Drill: path, Status: m.bomb.Status()}, fmt.Errorf("scripting: reading drill %q: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m.RunString(name, string(src))
}

// RunString executes src as the drill called name in a fresh sandbox.
//
// Postcondition: Returns an error when the drill fails to compile, raises a
// Lua error, or exhausts its instruction budget.
func (m *Manager) RunString(name, src string) (Result, error) {
	L, cancel := NewSandboxedState(m.limit)
	defer L.Close()
	defer cancel()
	m.RegisterModules(L)

	log := m.logger.With(zap.String("drill", name))
	log.Info("drill started")

	err := L.DoString(src)
	res := Result{Drill: name, Status: m.bomb.Status()}
	if err != nil {
		log.Warn("drill aborted", zap.Error(err))
		return res, fmt.Errorf("scripting: drill %q: %w", name, err)
	}
	log.Info("drill finished",
		zap.Bool("over", res.Status.Over),
		zap.Bool("won", res.Status.Won),
		zap.Int("fails", res.Status.Fails),
		zap.Int("resolved", res.Status.Resolved),
	)
	return res, nil
}

// ListDrills returns the *.lua files in dir in lexicographic order.
func ListDrills(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading drill dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func (m *Manager) wait(d time.Duration) {
	if m.Wait != nil {
		m.Wait(d)
		return
	}
	time.Sleep(d)
}

// settle waits until no lockout is running. It reports false if the bomb
// is still cooling down after the polling budget.
func (m *Manager) settle() bool {
	for range maxSettleSteps {
		if len(m.bomb.Status().Cooldowns) == 0 {
			return true
		}
		m.wait(settleStep)
	}
	return len(m.bomb.Status().Cooldowns) == 0
}

func (m *Manager) out() io.Writer {
	if m.Out == nil {
		return io.Discard
	}
	return m.Out
}
