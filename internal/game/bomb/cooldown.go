package bomb

import (
	"sync"
	"time"
)

// CooldownKind names one of the registry's lockout timers.
type CooldownKind string

// Cooldown kinds.
const (
	// CooldownCut is the minimum interval between two cut gestures.
	CooldownCut CooldownKind = "cut"
	// CooldownPress is the button flash during which further presses are ignored.
	CooldownPress CooldownKind = "press"
	// CooldownSwipe locks out repeated swipes while the bomb turns over.
	CooldownSwipe CooldownKind = "swipe"
)

// Timings holds the lockout durations. A zero duration disables that
// cooldown.
type Timings struct {
	Cut   time.Duration
	Press time.Duration
	Swipe time.Duration
}

// DefaultTimings are the lockouts used by the physical build.
var DefaultTimings = Timings{
	Cut:   500 * time.Millisecond,
	Press: 500 * time.Millisecond,
	Swipe: time.Second,
}

func (t Timings) duration(kind CooldownKind) time.Duration {
	switch kind {
	case CooldownCut:
		return t.Cut
	case CooldownPress:
		return t.Press
	default:
		return t.Swipe
	}
}

// CooldownExpired is the synthetic event delivered through Registry.Handle
// when a lockout ends.
type CooldownExpired struct {
	Kind CooldownKind
}

// Name implements module.Event.
func (CooldownExpired) Name() string { return "cooldown_expired" }

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped a
	// pending callback.
	Stop() bool
}

// Scheduler runs a callback after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WallClock is the Scheduler backed by time.AfterFunc. Callbacks run on
// their own goroutine.
var WallClock Scheduler = wallClock{}

// cooldownTimer fires a callback once after a duration unless stopped. It is
// safe for concurrent use.
type cooldownTimer struct {
	mu      sync.Mutex
	timer   Timer
	stopped bool
}

// startCooldown schedules onFire after d.
//
// Precondition: d > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop is called first.
func startCooldown(s Scheduler, d time.Duration, onFire func()) *cooldownTimer {
	ct := &cooldownTimer{}
	t := s.AfterFunc(d, func() {
		ct.mu.Lock()
		stopped := ct.stopped
		ct.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	ct.mu.Lock()
	ct.timer = t
	ct.mu.Unlock()
	return ct
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (ct *cooldownTimer) Stop() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.stopped = true
	if ct.timer != nil {
		ct.timer.Stop()
	}
}

// cooldowns tracks the running lockouts. It is guarded by the registry
// mutex.
type cooldowns struct {
	sched   Scheduler
	timings Timings
	running map[CooldownKind]*cooldownTimer
}

func newCooldowns(sched Scheduler, timings Timings) *cooldowns {
	return &cooldowns{sched: sched, timings: timings, running: make(map[CooldownKind]*cooldownTimer)}
}

// active reports whether the lockout of kind is running.
func (c *cooldowns) active(kind CooldownKind) bool {
	_, ok := c.running[kind]
	return ok
}

// start begins the lockout of kind. onFire is called when it elapses. A
// disabled or already running lockout is left alone.
func (c *cooldowns) start(kind CooldownKind, onFire func()) bool {
	d := c.timings.duration(kind)
	if d <= 0 || c.active(kind) {
		return false
	}
	c.running[kind] = startCooldown(c.sched, d, onFire)
	return true
}

// expire ends the lockout of kind. It reports whether one was running.
func (c *cooldowns) expire(kind CooldownKind) bool {
	if !c.active(kind) {
		return false
	}
	delete(c.running, kind)
	return true
}

// stopAll cancels every running lockout.
func (c *cooldowns) stopAll() {
	for kind, ct := range c.running {
		ct.Stop()
		delete(c.running, kind)
	}
}

// kinds returns the running lockouts in a stable order.
func (c *cooldowns) kinds() []CooldownKind {
	var out []CooldownKind
	for _, k := range []CooldownKind{CooldownCut, CooldownPress, CooldownSwipe} {
		if c.active(k) {
			out = append(out, k)
		}
	}
	return out
}
