package bomb

import "github.com/cory-johannsen/defuse/internal/game/module"

// DefaultMaxFails is the strike count that detonates the bomb.
const DefaultMaxFails = 3

// FailIndicator counts strikes: one per module that resolves to failed.
type FailIndicator struct {
	count int
	max   int
}

// NewFailIndicator creates an indicator that is exhausted after max strikes.
//
// Precondition: max > 0.
func NewFailIndicator(max int) *FailIndicator {
	return &FailIndicator{max: max}
}

// Count returns the strikes recorded so far.
func (f *FailIndicator) Count() int { return f.count }

// Max returns the strike limit.
func (f *FailIndicator) Max() int { return f.max }

// Exhausted reports whether the strike limit has been reached.
func (f *FailIndicator) Exhausted() bool { return f.count >= f.max }

// Record adds a strike and announces the new count. Strikes past the limit
// are not counted.
//
// Postcondition: Count() <= Max().
func (f *FailIndicator) Record(emit module.Emitter) int {
	if f.Exhausted() {
		return f.count
	}
	f.count++
	emit(module.Notification{Kind: module.NoteStrikeRecorded, Count: f.count})
	return f.count
}
