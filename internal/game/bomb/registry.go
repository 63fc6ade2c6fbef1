// Package bomb owns the set of modules mounted on one bomb. The Registry
// routes input events to the active module, counts strikes, runs the
// lockout timers and decides when the game is over.
package bomb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/module"
	"github.com/cory-johannsen/defuse/internal/game/random"
)

// ErrGameOver is returned for every event accepted after the game ended.
var ErrGameOver = errors.New("game over")

// Options configures a Registry. Zero fields take defaults.
type Options struct {
	// MaxFails is the strike limit; zero selects DefaultMaxFails.
	MaxFails int
	// Timings are the lockout durations. Use DefaultTimings for the
	// physical build; the zero value disables every lockout.
	Timings Timings
	// Knob is the dial geometry; zero selects module.DefaultKnobSettings.
	Knob module.KnobSettings
	// Source drives generation; nil selects a crypto-backed source.
	Source random.Source
	// Scheduler runs lockout timers; nil selects WallClock.
	Scheduler Scheduler
	// Logger receives registry logs; nil selects a no-op logger.
	Logger *zap.Logger
	// Listener receives every notification; nil discards them.
	Listener Listener
}

// Status is a point-in-time summary of the bomb.
type Status struct {
	ID        uuid.UUID
	Name      string
	Fails     int
	MaxFails  int
	Passed    int
	Failed    int
	Resolved  int
	Total     int
	Over      bool
	Won       bool
	Side      module.Side
	Active    module.Location
	HasActive bool
	Cooldowns []CooldownKind
}

// Registry is the single owner of a bomb's modules and of the active module
// slot. Every event is applied under one lock, so events are processed one
// at a time in arrival order.
type Registry struct {
	mu       sync.Mutex
	id       uuid.UUID
	layout   Layout
	ctx      module.Context
	order    []module.Location
	modules  map[module.Location]module.Module
	active   module.Module
	state    BombState
	fails    *FailIndicator
	passed   int
	failed   int
	over     bool
	won      bool
	cool     *cooldowns
	listener Listener
	logger   *zap.Logger
}

// New validates layout, then builds and generates every module.
//
// Precondition: layout passes Validate.
// Postcondition: Returns a Registry presenting the front face with no active
// module, or an error wrapping module.ErrInvalidConfiguration. One
// NoteWireSetGenerated is emitted per wire module.
func New(layout Layout, opts Options) (*Registry, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxFails < 0 {
		return nil, fmt.Errorf("%w: max fails must be > 0, got %d", module.ErrInvalidConfiguration, opts.MaxFails)
	}
	if opts.MaxFails == 0 {
		opts.MaxFails = DefaultMaxFails
	}
	if opts.Knob == (module.KnobSettings{}) {
		opts.Knob = module.DefaultKnobSettings
	}
	if opts.Source == nil {
		opts.Source = random.NewCryptoSource()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = WallClock
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Listener == nil {
		opts.Listener = ListenerFunc(module.Discard)
	}

	r := &Registry{
		id:       uuid.New(),
		layout:   layout,
		ctx:      layout.Context(),
		modules:  make(map[module.Location]module.Module, len(layout.Modules)),
		state:    NewBombState(),
		fails:    NewFailIndicator(opts.MaxFails),
		cool:     newCooldowns(opts.Scheduler, opts.Timings),
		listener: opts.Listener,
	}
	r.logger = opts.Logger.With(zap.String("bomb", r.id.String()))

	for _, spec := range layout.Modules {
		m := spec.build(opts.Knob)
		if err := m.Generate(r.ctx, opts.Source); err != nil {
			return nil, fmt.Errorf("generating %s at %s: %w", spec.Kind, spec.Location, err)
		}
		r.logger.Debug("module generated",
			zap.Stringer("location", spec.Location),
			zap.String("kind", string(spec.Kind)),
			zap.Int("situation", m.Snapshot().Situation),
		)
		r.modules[spec.Location] = m
		r.order = append(r.order, spec.Location)
	}

	for _, loc := range r.order {
		if w, ok := r.modules[loc].(*module.Wires); ok {
			r.listener.Notify(module.Notification{Kind: module.NoteWireSetGenerated, Module: loc, Colors: w.Colors()})
		}
	}

	r.logger.Info("bomb armed",
		zap.String("layout", layout.Name),
		zap.Int("modules", len(r.order)),
		zap.Int("max_fails", opts.MaxFails),
	)
	return r, nil
}

// ID returns the bomb instance ID.
func (r *Registry) ID() uuid.UUID { return r.id }

// Context returns the bomb-wide facts the module rules consult.
func (r *Registry) Context() module.Context { return r.ctx }

// Handle applies one event.
//
// Postcondition: Returns nil, or an error wrapping ErrGameOver,
// module.ErrInvalidLocation, module.ErrStaleEvent or
// module.ErrPreconditionNotMet. Apart from the side effects named by each
// event's contract, a returned error means no state changed.
func (r *Registry) Handle(ev module.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.over {
		return fmt.Errorf("%w: %s rejected", ErrGameOver, ev.Name())
	}

	var err error
	switch e := ev.(type) {
	case module.ActivateAt:
		err = r.activateAt(e)
	case module.Deactivate:
		r.clearActive()
	case module.SwipeSides:
		err = r.swipe()
	case module.CutWire:
		err = r.cut(e)
	case module.PressButton:
		err = r.press(e)
	case module.ReleaseButton, module.RotateKnob:
		err = r.route(ev)
	case CooldownExpired:
		r.expire(e.Kind)
	default:
		err = fmt.Errorf("%w: unknown event %s", module.ErrPreconditionNotMet, ev.Name())
	}

	if err != nil {
		r.logger.Debug("event rejected", zap.String("event", ev.Name()), zap.Error(err))
	} else {
		r.logger.Debug("event applied", zap.String("event", ev.Name()))
	}
	return err
}

// ActivateAt gives focus to the module at loc on the presented face.
func (r *Registry) ActivateAt(loc module.Location, pointer [2]float64) error {
	return r.Handle(module.ActivateAt{Location: loc, Pointer: pointer})
}

// Deactivate removes focus from the active module, if any.
func (r *Registry) Deactivate() error { return r.Handle(module.Deactivate{}) }

// CutWire cuts the wire at position on the active module.
func (r *Registry) CutWire(position int) error {
	return r.Handle(module.CutWire{Position: position})
}

// PressButton presses the active button.
func (r *Registry) PressButton() error { return r.Handle(module.PressButton{}) }

// ReleaseButton releases the active button.
func (r *Registry) ReleaseButton() error { return r.Handle(module.ReleaseButton{}) }

// RotateKnob turns the active knob one tick.
func (r *Registry) RotateKnob(clockwise bool) error {
	return r.Handle(module.RotateKnob{Clockwise: clockwise})
}

// SwipeSides turns the bomb over.
func (r *Registry) SwipeSides() error { return r.Handle(module.SwipeSides{}) }

// activateAt moves focus to the module at e.Location. Re-entering the
// active module is a no-op; entering an empty cell only clears focus.
func (r *Registry) activateAt(e module.ActivateAt) error {
	if !e.Location.Valid() {
		return fmt.Errorf("%w: %s", module.ErrInvalidLocation, e.Location)
	}
	if e.Location.Side != r.state.Side() {
		return fmt.Errorf("%w: %s is not on the presented %s face", module.ErrPreconditionNotMet, e.Location, r.state.Side())
	}
	m, ok := r.modules[e.Location]
	if !ok {
		r.clearActive()
		return fmt.Errorf("%w: no module at %s", module.ErrInvalidLocation, e.Location)
	}
	if r.active == m {
		return nil
	}
	r.clearActive()
	if r.over {
		return nil
	}
	r.active = m
	m.Activate(e.Pointer, r.emit)
	return nil
}

// clearActive deactivates the active module, which may resolve it.
func (r *Registry) clearActive() {
	if r.active == nil {
		return
	}
	m := r.active
	r.active = nil
	m.Deactivate(r.emit)
}

func (r *Registry) swipe() error {
	if r.cool.active(CooldownSwipe) {
		return fmt.Errorf("%w: swipe lockout running", module.ErrPreconditionNotMet)
	}
	r.clearActive()
	if r.over {
		return nil
	}
	r.state.Swap(r.emit)
	r.startCooldown(CooldownSwipe)
	return nil
}

func (r *Registry) cut(e module.CutWire) error {
	if r.cool.active(CooldownCut) {
		return fmt.Errorf("%w: cut lockout running", module.ErrPreconditionNotMet)
	}
	err := r.route(e)
	if err == nil || errors.Is(err, module.ErrStaleEvent) {
		r.startCooldown(CooldownCut)
	}
	return err
}

func (r *Registry) press(e module.PressButton) error {
	if r.cool.active(CooldownPress) {
		return fmt.Errorf("%w: button lockout running", module.ErrPreconditionNotMet)
	}
	err := r.route(e)
	if err == nil {
		r.startCooldown(CooldownPress)
	}
	return err
}

// route delivers ev to the active module.
func (r *Registry) route(ev module.Event) error {
	if r.active == nil {
		return fmt.Errorf("%w: no active module for %s", module.ErrPreconditionNotMet, ev.Name())
	}
	return r.active.HandleEvent(ev, r.emit)
}

func (r *Registry) startCooldown(kind CooldownKind) {
	if r.over {
		return
	}
	r.cool.start(kind, func() {
		_ = r.Handle(CooldownExpired{Kind: kind})
	})
}

func (r *Registry) expire(kind CooldownKind) {
	if r.cool.expire(kind) {
		r.notify(module.Notification{Kind: module.NoteCooldownExpired, Cooldown: string(kind)})
	}
}

// emit forwards a module notification and applies its bomb-level
// consequences.
func (r *Registry) emit(n module.Notification) {
	r.notify(n)
	switch n.Kind {
	case module.NoteModulePassed:
		r.passed++
		r.checkGameOver()
	case module.NoteModuleFailed:
		r.failed++
		r.fails.Record(r.notify)
		r.logger.Info("strike recorded",
			zap.Stringer("module", n.Module),
			zap.Int("fails", r.fails.Count()),
		)
		r.checkGameOver()
	}
}

func (r *Registry) notify(n module.Notification) {
	r.listener.Notify(n)
}

// checkGameOver ends the game on the strike limit or when every module has
// resolved, whichever comes first.
//
// Postcondition: NoteGameOver is emitted at most once per Registry.
func (r *Registry) checkGameOver() {
	if r.over {
		return
	}
	switch {
	case r.fails.Exhausted():
		r.finish(false)
	case r.passed+r.failed == len(r.order):
		r.finish(true)
	}
}

func (r *Registry) finish(won bool) {
	r.over = true
	r.won = won
	r.cool.stopAll()
	r.logger.Info("game over",
		zap.Bool("won", won),
		zap.Int("passed", r.passed),
		zap.Int("failed", r.failed),
		zap.Int("fails", r.fails.Count()),
	)
	r.notify(module.Notification{Kind: module.NoteGameOver, Won: won})
}

// Snapshot returns a copy of the state of the module at loc. The live module
// is never handed out; every change goes through the registry.
func (r *Registry) Snapshot(loc module.Location) (module.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[loc]
	if !ok {
		return module.Snapshot{}, false
	}
	return m.Snapshot(), true
}

// Modules returns a snapshot of every module in layout order.
func (r *Registry) Modules() []module.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]module.Snapshot, 0, len(r.order))
	for _, loc := range r.order {
		out = append(out, r.modules[loc].Snapshot())
	}
	return out
}

// Side returns the presented face.
func (r *Registry) Side() module.Side {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Side()
}

// Over reports whether the game has ended, and if so whether it was won.
func (r *Registry) Over() (over, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.over, r.won
}

// Status returns a summary of the bomb.
func (r *Registry) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Status{
		ID:        r.id,
		Name:      r.layout.Name,
		Fails:     r.fails.Count(),
		MaxFails:  r.fails.Max(),
		Passed:    r.passed,
		Failed:    r.failed,
		Resolved:  r.passed + r.failed,
		Total:     len(r.order),
		Over:      r.over,
		Won:       r.won,
		Side:      r.state.Side(),
		Cooldowns: r.cool.kinds(),
	}
	if r.active != nil {
		s.Active = r.active.Location()
		s.HasActive = true
	}
	return s
}
