package bomb

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/module"
)

// Listener receives registry notifications. Notify is called with the
// registry lock held and must not call back into the registry.
type Listener interface {
	Notify(n module.Notification)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(module.Notification)

// Notify calls f(n).
func (f ListenerFunc) Notify(n module.Notification) { f(n) }

// Fanout delivers every notification to each listener in order.
func Fanout(listeners ...Listener) Listener {
	return ListenerFunc(func(n module.Notification) {
		for _, l := range listeners {
			l.Notify(n)
		}
	})
}

// Feed buffers notifications on a channel for a consumer running on another
// goroutine, such as a console renderer.
type Feed struct {
	name    string
	events  chan module.Notification
	logger  *zap.Logger
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewFeed creates a Feed with the given buffer size. A non-positive size
// selects 64.
//
// Precondition: logger must not be nil.
// Postcondition: Returns a Feed with an open events channel.
func NewFeed(name string, bufferSize int, logger *zap.Logger) *Feed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Feed{
		name:   name,
		events: make(chan module.Notification, bufferSize),
		logger: logger,
	}
}

// Push enqueues n without blocking.
//
// Postcondition: n is enqueued, or an error if the feed is closed or full.
func (f *Feed) Push(n module.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return fmt.Errorf("feed %s is closed", f.name)
	}
	select {
	case f.events <- n:
		return nil
	default:
		f.dropped++
		return fmt.Errorf("feed %s buffer full", f.name)
	}
}

// Notify implements Listener. Notifications that cannot be enqueued are
// dropped and logged.
func (f *Feed) Notify(n module.Notification) {
	if err := f.Push(n); err != nil {
		f.logger.Warn("dropping notification",
			zap.String("feed", f.name),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
	}
}

// Events returns the read-only notification channel.
func (f *Feed) Events() <-chan module.Notification {
	return f.events
}

// Dropped returns how many notifications were discarded because the buffer
// was full.
func (f *Feed) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// Close marks the feed as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// IsClosed reports whether the feed has been closed.
func (f *Feed) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
