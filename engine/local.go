package engine

import (
	"context"
	"time"

	"goban/experiments/metrics"
	"goban/game"
	"goban/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

type Option func(e *LocalEngine)

// WithKomi sets the points given to White.
func WithKomi(komi float64) Option {
	return func(e *LocalEngine) {
		e.komi = komi
	}
}

func WithMaxMoves(moves int) Option {
	return func(e *LocalEngine) {
		if moves > 0 {
			e.maxMoves = moves
		}
	}
}

// WithRandomOpening plays the first moves at random so repeated games between
// the same agents differ.
func WithRandomOpening(moves int) Option {
	return func(e *LocalEngine) {
		e.openingMoves = moves
	}
}

// WithPosition starts from board instead of an empty one.
func WithPosition(board *game.Board, toMove game.Color) Option {
	return func(e *LocalEngine) {
		e.board = board.Clone()
		e.toMove = toMove
	}
}

// LocalEngine plays two agents against each other in one process. A move
// that is illegal or repeats an earlier position is replaced by a pass.
type LocalEngine struct {
	board        *game.Board
	agents       [2]agent.Agent // Black, White
	toMove       game.Color
	komi         float64
	maxMoves     int
	openingMoves int
	history      map[uint32][]*game.Board
}

func NewLocalEngine(size int, black, white agent.Agent, options ...Option) *LocalEngine {
	if black == nil || white == nil {
		panic("need two agents")
	}
	e := &LocalEngine{
		board:    game.NewBoard(size),
		agents:   [2]agent.Agent{black, white},
		toMove:   game.Black,
		maxMoves: MaxMoves,
		history:  make(map[uint32][]*game.Board),
	}
	for _, option := range options {
		option(e)
	}
	e.remember(e.board)
	return e
}

// Board is the current position.
func (e *LocalEngine) Board() *game.Board {
	return e.board
}

func (e *LocalEngine) Run(ctx context.Context) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.toMove.String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%v is starting", e.toMove)

	passes := 0
	for step := 1; passes < 2 && step <= e.maxMoves; step++ {
		if err := ctx.Err(); err != nil {
			return game.Empty, gameMetric, moveMetrics, err
		}

		var move game.Point
		var searchMetric metrics.SearchMetric
		if step <= e.openingMoves {
			move = e.randomMove()
		} else {
			var err error
			move, searchMetric, err = e.agents[e.toMove-game.Black].FindMove(e.board, e.toMove)
			if err != nil {
				return game.Empty, gameMetric, moveMetrics, errors.Wrapf(err, "%v failed to move at step %d", e.toMove, step)
			}
		}

		next, ok := e.play(move)
		if !ok {
			log.Warn().Msgf("%v played an illegal move %v at step %d, passing instead", e.toMove, move, step)
			gameMetric.IllegalMoves++
			move = game.Pass
			next = e.board
		}
		if move == game.Pass {
			passes++
		} else {
			passes = 0
			e.board = next
			e.remember(next)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       e.toMove.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		gameMetric.TotalMoves = step
		e.toMove = e.toMove.Opposite()
	}

	score := float64(e.board.ChineseScore(nil)) - e.komi
	winner := game.Empty
	switch {
	case score > 0:
		winner = game.Black
	case score < 0:
		winner = game.White
	}

	gameMetric.Winner = winner.String()
	gameMetric.Score = score
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	if passes < 2 {
		log.Info().Msgf("stopped after %d moves without two passes", gameMetric.TotalMoves)
	}
	return winner, gameMetric, moveMetrics, nil
}

// play returns the board after move, or false when the move is illegal or
// repeats a position of the game.
func (e *LocalEngine) play(move game.Point) (*game.Board, bool) {
	if move == game.Pass {
		return e.board, true
	}
	next := e.board.Clone()
	if !next.Move(move, e.toMove) {
		return nil, false
	}
	if e.repeats(next) {
		return nil, false
	}
	return next, true
}

func (e *LocalEngine) remember(b *game.Board) {
	hash := b.ZobristHash()
	e.history[hash] = append(e.history[hash], b)
}

// repeats checks exact positions against the whole game. Symmetric repeats
// are only rejected inside the search tree, not here.
func (e *LocalEngine) repeats(b *game.Board) bool {
	for _, prev := range e.history[b.ZobristHash()] {
		if prev.EqualUnder(b, game.Identity) {
			return true
		}
	}
	return false
}

// randomMove is a uniformly drawn legal move, or a pass when none is left.
func (e *LocalEngine) randomMove() game.Point {
	empty := e.board.EmptyPoints()
	frand.Shuffle(len(empty), func(i, j int) {
		empty[i], empty[j] = empty[j], empty[i]
	})
	for _, p := range empty {
		if _, ok := e.play(p); ok {
			return p
		}
	}
	return game.Pass
}
