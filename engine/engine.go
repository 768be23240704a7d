package engine

import (
	"context"

	"goban/experiments/metrics"
	"goban/game"
)

// MaxMoves ends a game that never sees two passes in a row.
const MaxMoves = 1000

type Engine interface {
	// Run plays a game till two passes in a row or the move limit. The winner
	// is Empty for a draw.
	Run(ctx context.Context) (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
