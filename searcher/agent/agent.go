package agent

import (
	"goban/experiments/metrics"
	"goban/game"
)

type Agent interface {
	// FindMove returns the move of color on board and the metrics of the
	// search behind it (zero when not collected). The board is not modified.
	FindMove(board *game.Board, color game.Color) (game.Point, metrics.SearchMetric, error)
}
