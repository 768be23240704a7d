package agent

import (
	"math"

	"goban/experiments/metrics"
	"goban/game"
	"goban/searcher"
	"goban/utils"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"lukechampine.com/frand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves from the visit distribution sharpened by temperature: 1 keeps
// the distribution, lower values approach the most visited move.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	}
	return &trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(board *game.Board, color game.Color) (game.Point, metrics.SearchMetric, error) {
	result, metric, err := a.mcts.Simulate(board, color)
	if err != nil {
		return game.Pass, metric, err
	}
	policy := adjustTemperature(result.Policy, a.temperature)
	return sample(policy, a.rng), metric, nil
}

func adjustTemperature(policy map[game.Point]float64, temperature float64) map[game.Point]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Point]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample draws a move in row-major order so a seeded agent repeats itself.
// An empty policy passes.
func sample(policy map[game.Point]float64, r *rand.Rand) game.Point {
	moves := make([]game.Point, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	slices.SortFunc(moves, func(a, b game.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})

	weights := make([]float64, len(moves))
	for i, move := range moves {
		weights[i] = policy[move]
	}
	if i := utils.Roulette(weights, r); i >= 0 {
		return moves[i]
	}
	return game.Pass
}
