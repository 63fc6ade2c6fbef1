package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

// Journal returns a bomb.Listener that logs every notification at debug
// level, and game over at info.
//
// Precondition: logger must not be nil.
func Journal(logger *zap.Logger) bomb.Listener {
	return bomb.ListenerFunc(func(n module.Notification) {
		fields := []zap.Field{zap.String("kind", string(n.Kind))}
		if n.Module.Valid() {
			fields = append(fields, zap.Stringer("module", n.Module))
		}
		switch n.Kind {
		case module.NoteWireSetGenerated:
			colors := make([]string, len(n.Colors))
			for i, c := range n.Colors {
				colors[i] = string(c)
			}
			fields = append(fields, zap.Strings("colors", colors))
		case module.NoteWireCut:
			fields = append(fields, zap.Int("position", n.Position))
		case module.NoteButtonPressed, module.NoteButtonReleased, module.NoteStrikeRecorded:
			fields = append(fields, zap.Int("count", n.Count))
		case module.NoteKnobRotated:
			fields = append(fields, zap.Float64("rotation", n.Rotation), zap.String("display", n.Display))
		case module.NoteSideSwapped:
			fields = append(fields, zap.String("side", string(n.Side)))
		case module.NoteCooldownExpired:
			fields = append(fields, zap.String("cooldown", n.Cooldown))
		case module.NoteGameOver:
			logger.Info("notification", append(fields, zap.Bool("won", n.Won))...)
			return
		}
		logger.Debug("notification", fields...)
	})
}
