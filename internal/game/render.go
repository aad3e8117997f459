package game

import (
	"go.uber.org/zap"
)

// Renderer receives a snapshot after every accepted submission. Render is
// called outside the engine lock, so it may call back into the engine.
type Renderer interface {
	Render(snapshot Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

// Render implements Renderer.
func (f RendererFunc) Render(snapshot Snapshot) {
	f(snapshot)
}

// LogRenderer writes snapshots to a zap logger at debug level.
type LogRenderer struct {
	logger *zap.Logger
}

// NewLogRenderer creates a renderer logging through logger.
func NewLogRenderer(logger *zap.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

// Render implements Renderer.
func (r *LogRenderer) Render(snapshot Snapshot) {
	if r.logger == nil {
		return
	}
	r.logger.Debug("game state",
		zap.String("game_id", snapshot.GameID),
		zap.Int("turn", snapshot.Turn),
		zap.Int("seat", snapshot.ActiveSeat),
		zap.Int("deciding_seat", snapshot.DecidingSeat),
		zap.String("stage", snapshot.Stage.String()),
		zap.Ints("actions_left", snapshot.ActionsLeft),
		zap.String("board", snapshot.String()),
	)
}
