package engine

import (
	"context"
	"testing"

	"goban/experiments/metrics"
	"goban/game"
	"goban/searcher"
	"goban/searcher/agent"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// scripted plays its moves in order, then passes.
type scripted struct {
	moves []game.Point
	err   error
	seen  []string
}

func (s *scripted) FindMove(board *game.Board, _ game.Color) (game.Point, metrics.SearchMetric, error) {
	s.seen = append(s.seen, board.String())
	if s.err != nil {
		return game.Pass, metrics.SearchMetric{}, s.err
	}
	if len(s.moves) == 0 {
		return game.Pass, metrics.SearchMetric{}, nil
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, metrics.SearchMetric{Episodes: 1}, nil
}

func TestLocalEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("two passes end the game and komi decides it", func(t *testing.T) {
		e := NewLocalEngine(9, &scripted{}, &scripted{}, WithKomi(7.5))

		winner, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, game.White, winner)
		require.Equal(t, "white", gameMetric.Winner)
		require.Equal(t, "black", gameMetric.StartingPlayer)
		require.Equal(t, -7.5, gameMetric.Score)
		require.Equal(t, 2, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 2)
		require.Equal(t, "pass", moveMetrics[1].Move)
		require.Equal(t, "white", moveMetrics[1].Player)
	})

	t.Run("an illegal move becomes a pass", func(t *testing.T) {
		black := &scripted{moves: []game.Point{{X: 0, Y: 0}}}
		white := &scripted{moves: []game.Point{{X: 0, Y: 0}}}
		e := NewLocalEngine(3, black, white, WithKomi(0.5))

		winner, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, game.Black, winner)
		require.Equal(t, 8.5, gameMetric.Score)
		require.Equal(t, 1, gameMetric.IllegalMoves)
		require.Equal(t, 3, gameMetric.TotalMoves)
		require.Equal(t, []string{"(0,0)", "pass", "pass"}, []string{moveMetrics[0].Move, moveMetrics[1].Move, moveMetrics[2].Move})
		require.Equal(t, 1, moveMetrics[0].Episodes)
	})

	t.Run("retaking a ko at once repeats a position and becomes a pass", func(t *testing.T) {
		ko, err := game.ParseDiagram([]string{
			".XO..",
			"XO.O.",
			".XO..",
			".....",
			".....",
		})
		require.NoError(t, err)
		black := &scripted{moves: []game.Point{{X: 2, Y: 1}}}
		white := &scripted{moves: []game.Point{{X: 1, Y: 1}}}
		e := NewLocalEngine(5, black, white, WithPosition(ko, game.Black))

		_, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, gameMetric.IllegalMoves)
		require.Equal(t, game.Black, e.Board().Stone(game.Point{X: 2, Y: 1}))
		require.Equal(t, game.Empty, e.Board().Stone(game.Point{X: 1, Y: 1}))
		require.Equal(t, ".XO..", ko.String()[:5], "The starting board is copied")
	})

	t.Run("agents see the board after every move", func(t *testing.T) {
		black := &scripted{moves: []game.Point{{X: 1, Y: 1}}}
		white := &scripted{}
		e := NewLocalEngine(3, black, white)

		_, _, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, "...\n.X.\n...\n", white.seen[0])
	})

	t.Run("a random opening plays legal moves up to the limit", func(t *testing.T) {
		e := NewLocalEngine(5, &scripted{}, &scripted{}, WithRandomOpening(12), WithMaxMoves(12))

		_, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 12, gameMetric.TotalMoves)
		require.Zero(t, gameMetric.IllegalMoves)
		require.Equal(t, 12, e.Board().StoneCount()+e.Board().Captured(game.Black)+e.Board().Captured(game.White))
		for _, mm := range moveMetrics {
			require.NotEqual(t, "pass", mm.Move)
		}
	})

	t.Run("an agent error stops the game", func(t *testing.T) {
		boom := errors.New("boom")
		e := NewLocalEngine(5, &scripted{err: boom}, &scripted{})

		_, _, _, err := e.Run(ctx)

		require.ErrorIs(t, err, boom)
	})

	t.Run("a cancelled context stops the game", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		e := NewLocalEngine(5, &scripted{}, &scripted{})

		_, _, _, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("searching agents finish a game", func(t *testing.T) {
		mcts := func() *searcher.MCTS {
			return searcher.NewMCTS(2,
				searcher.WithEpisodes(40),
				searcher.WithKomi(0.5),
				searcher.WithExhaustionPolicy(searcher.ScoreOnExhaustion),
				searcher.WithMetrics(),
			)
		}
		e := NewLocalEngine(5,
			agent.NewEvaluationAgent(mcts()),
			agent.NewTrainingAgent(mcts(), 1, 7),
			WithKomi(0.5),
			WithMaxMoves(200),
		)

		winner, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.NotEqual(t, game.Empty, winner, "Half a point of komi rules out a draw")
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.Equal(t, 40, moveMetrics[0].Episodes)
		require.NoError(t, e.Board().Verify())
	})
}
