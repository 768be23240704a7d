package agent

import (
	"goban/experiments/metrics"
	"goban/game"
	"goban/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(board *game.Board, color game.Color) (game.Point, metrics.SearchMetric, error) {
	result, metric, err := a.mcts.Simulate(board, color)
	if err != nil {
		return game.Pass, metric, err
	}
	return result.Move, metric, nil
}
