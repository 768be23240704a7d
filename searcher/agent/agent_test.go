package agent

import (
	"testing"

	"goban/game"
	"goban/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestAdjustTemperature(t *testing.T) {
	policy := map[game.Point]float64{
		{X: 0, Y: 0}: 0.75,
		{X: 1, Y: 0}: 0.25,
	}

	t.Run("a temperature of one keeps the distribution", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 1)

		require.InDelta(t, 0.75, adjusted[game.Point{X: 0, Y: 0}], 1e-9)
		require.InDelta(t, 0.25, adjusted[game.Point{X: 1, Y: 0}], 1e-9)
	})

	t.Run("a low temperature sharpens the distribution", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 0.5)

		require.InDelta(t, 0.9, adjusted[game.Point{X: 0, Y: 0}], 1e-9)
		require.InDelta(t, 0.1, adjusted[game.Point{X: 1, Y: 0}], 1e-9)
	})

	t.Run("an unvisited policy stays empty of mass", func(t *testing.T) {
		adjusted := adjustTemperature(map[game.Point]float64{game.Pass: 0}, 1)

		require.Zero(t, adjusted[game.Pass])
	})
}

func TestSample(t *testing.T) {
	t.Run("never draws a move without mass", func(t *testing.T) {
		policy := map[game.Point]float64{
			{X: 0, Y: 0}: 0,
			{X: 1, Y: 0}: 1,
		}
		r := rand.New(rand.NewSource(3))
		for i := 0; i < 100; i++ {
			require.Equal(t, game.Point{X: 1, Y: 0}, sample(policy, r))
		}
	})

	t.Run("the same seed draws the same moves", func(t *testing.T) {
		policy := map[game.Point]float64{
			{X: 0, Y: 0}: 0.2,
			{X: 1, Y: 0}: 0.3,
			{X: 2, Y: 0}: 0.5,
		}
		a, b := rand.New(rand.NewSource(9)), rand.New(rand.NewSource(9))
		for i := 0; i < 50; i++ {
			require.Equal(t, sample(policy, a), sample(policy, b))
		}
	})

	t.Run("an empty policy passes", func(t *testing.T) {
		require.Equal(t, game.Pass, sample(nil, rand.New(rand.NewSource(1))))
	})
}

func TestAgents(t *testing.T) {
	board, err := game.ParseDiagram([]string{
		".X...",
		"XO...",
		".X...",
		".....",
		".....",
	})
	require.NoError(t, err)
	mcts := func() *searcher.MCTS {
		return searcher.NewMCTS(1,
			searcher.WithEpisodes(300),
			searcher.WithSeed(5),
			searcher.WithExhaustionPolicy(searcher.ScoreOnExhaustion),
			searcher.WithMetrics(),
		)
	}

	t.Run("the evaluation agent plays the searched move", func(t *testing.T) {
		m := mcts()
		move, metric, err := NewEvaluationAgent(m).FindMove(board, game.Black)

		require.NoError(t, err)
		require.Equal(t, 300, metric.Episodes)
		require.NotEqual(t, game.Pass, move)
		require.True(t, board.Clone().Move(move, game.Black))
	})

	t.Run("the training agent plays a searched move", func(t *testing.T) {
		m := mcts()
		move, _, err := NewTrainingAgent(m, 1, 11).FindMove(board, game.Black)

		require.NoError(t, err)
		require.Contains(t, m.Root().Policy(), move)
		require.Positive(t, m.Root().Policy()[move])
	})

	t.Run("a non-positive temperature is rejected", func(t *testing.T) {
		require.Panics(t, func() { NewTrainingAgent(mcts(), 0, 1) })
	})
}
