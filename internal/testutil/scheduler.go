// Package testutil provides test helpers: a manually advanced scheduler
// and a line-oriented console client.
package testutil

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
)

// ManualScheduler is a bomb.Scheduler whose clock only moves when Advance is
// called. Callbacks run on the caller's goroutine, never inside AfterFunc.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements bomb.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) bomb.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Stop implements bomb.Timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every timer that falls due,
// in deadline order.
//
// Postcondition: every live timer with a deadline <= the new time has fired.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	s.mu.Unlock()

	for {
		t := s.nextDue(now)
		if t == nil {
			return
		}
		t.f()
	}
}

func (s *ManualScheduler) nextDue(now time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = slices.DeleteFunc(s.pending, func(t *manualTimer) bool { return t.stopped || t.fired })
	slices.SortStableFunc(s.pending, func(a, b *manualTimer) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	if len(s.pending) == 0 || s.pending[0].at > now {
		return nil
	}
	t := s.pending[0]
	t.fired = true
	return t
}
