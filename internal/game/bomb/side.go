package bomb

import "github.com/cory-johannsen/defuse/internal/game/module"

// BombState tracks which face of the bomb is presented to the player.
type BombState struct {
	side module.Side
}

// NewBombState returns a state presenting the front face.
func NewBombState() BombState {
	return BombState{side: module.Front}
}

// Side returns the presented face.
func (s *BombState) Side() module.Side { return s.side }

// Swap turns the bomb over and announces the new face.
func (s *BombState) Swap(emit module.Emitter) module.Side {
	s.side = s.side.Opposite()
	emit(module.Notification{Kind: module.NoteSideSwapped, Side: s.side})
	return s.side
}
