package searcher

import (
	"context"
	"math"
	"runtime"
	"time"

	"goban/experiments/metrics"
	"goban/game"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	goroutines      int
	duration        time.Duration
	episodes        int
	komi            float64
	seed            uint64
	maxRolloutMoves int
	exhaustion      ExhaustionPolicy
	heuristics      Heuristics
	checked         bool
	metrics         metrics.Collector
	root            *Node
}

// Result is the outcome of one search, seen by the player to move.
type Result struct {
	Move   game.Point
	Pass   bool
	Value  float64 // Mean reward of the best move
	Score  float64 // Mean final score margin after the best move
	Visits int     // Episodes through the root
	Policy map[game.Point]float64
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithKomi sets the points given to White.
func WithKomi(komi float64) Option {
	return func(m *MCTS) {
		m.komi = komi
	}
}

// WithSeed makes searches reproducible when run on one goroutine.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithMaxRolloutMoves caps the length of a rollout. The default is
// RolloutFactor times the number of points.
func WithMaxRolloutMoves(moves int) Option {
	return func(m *MCTS) {
		if moves > 0 {
			m.maxRolloutMoves = moves
		}
	}
}

func WithExhaustionPolicy(policy ExhaustionPolicy) Option {
	return func(m *MCTS) {
		m.exhaustion = policy
	}
}

func WithHeuristics(heuristics Heuristics) Option {
	return func(m *MCTS) {
		m.heuristics = heuristics
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithInvariantChecks verifies every board of the search. A broken board
// aborts the search with a *game.InvariantError.
func WithInvariantChecks() Option {
	return func(m *MCTS) {
		m.checked = true
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	if goroutines < 1 {
		panic("Must run at least one goroutine")
	}
	m := &MCTS{ // Default values
		goroutines: goroutines,
		heuristics: DefaultHeuristics(),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Root is the tree of the last search.
func (m *MCTS) Root() *Node {
	return m.root
}

func (m *MCTS) Simulate(board *game.Board, color game.Color) (Result, metrics.SearchMetric, error) {
	return m.SimulateContext(context.Background(), board, color)
}

// SimulateContext searches the best move of color on board. The board is
// not modified. Cancelling ctx stops the search with the context's error.
func (m *MCTS) SimulateContext(ctx context.Context, board *game.Board, color game.Color) (Result, metrics.SearchMetric, error) {
	if color != game.Black && color != game.White {
		return Result{}, metrics.SearchMetric{}, errors.Errorf("cannot search for %v", color)
	}

	var boardOptions []game.Option
	if m.checked {
		boardOptions = append(boardOptions, game.WithInvariantChecks())
	}
	m.root = newRoot(board.Clone(boardOptions...), color, &tree{komi: m.komi, heuristics: m.heuristics})

	s := &search{
		root:       m.root,
		maxMoves:   m.maxRolloutMoves,
		exhaustion: m.exhaustion,
		metrics:    m.metrics,
		seed:       m.seed,
		logger:     log.With().Str("run", xid.New().String()).Logger(),
	}
	s.truncations = s.logger.Sample(&zerolog.BurstSampler{Burst: 1, Period: time.Second})
	if s.maxMoves == 0 {
		s.maxMoves = RolloutFactor * board.Size() * board.Size()
	}
	if s.seed == 0 {
		s.seed = frand.Uint64n(math.MaxUint64)
	}

	s.logger.Debug().
		Str("color", color.String()).
		Int("goroutines", m.goroutines).
		Int("episodes", m.episodes).
		Dur("duration", m.duration).
		Int("max_rollout_moves", s.maxMoves).
		Msg("starting search")

	m.metrics.Start(m.goroutines, s.maxMoves)
	var err error
	if m.episodes > 0 {
		err = m.iterate(ctx, s)
	} else {
		err = m.countdown(ctx, s)
	}
	metric := m.metrics.Complete()
	if err != nil {
		s.logger.Error().Err(err).Msg("search aborted")
		return Result{}, metric, err
	}

	result := m.root.result()
	s.logger.Debug().
		Str("move", result.Move.String()).
		Float64("value", result.Value).
		Float64("score", result.Score).
		Int("visits", result.Visits).
		Msg("completed search")
	return result, metric, nil
}

func (m *MCTS) iterate(ctx context.Context, s *search) error {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < m.goroutines; i++ {
		r := rand.New(rand.NewSource(s.seed + uint64(i)))
		g.Go(func() error {
			for range task {
				if gctx.Err() != nil {
					return nil
				}
				if err := s.episode(r); err != nil {
					return err
				}
				m.metrics.AddEpisode()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (m *MCTS) countdown(ctx context.Context, s *search) error {
	deadline, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	g, gctx := errgroup.WithContext(deadline)
	for i := 0; i < m.goroutines; i++ {
		r := rand.New(rand.NewSource(s.seed + uint64(i)))
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if err := s.episode(r); err != nil {
					return err
				}
				m.metrics.AddEpisode()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// search is the state shared by the workers of one run.
type search struct {
	root       *Node
	maxMoves   int
	exhaustion ExhaustionPolicy
	metrics    metrics.Collector
	seed       uint64
	logger     zerolog.Logger

	truncations zerolog.Logger // Rate limited
}

// episode runs one descent, rollout and backup.
func (s *search) episode(r *rand.Rand) (err error) {
	defer func() {
		if v := recover(); v != nil {
			switch v := v.(type) {
			case error:
				err = errors.Wrap(v, "search aborted")
			default:
				err = errors.Errorf("search aborted: %v", v)
			}
		}
	}()

	leaf := s.descend(r)
	terminal, err := s.rollout(leaf, r)
	if err != nil {
		return err
	}
	backup(leaf, terminal.evaluateByScoring(nil))
	return nil
}

// descend follows the UCT policy from the root to the first node that has
// never been visited, or to the end of the game.
func (s *search) descend(r *rand.Rand) *Node {
	node := s.root
	for !node.isTerminal() && (node == s.root || node.Visits() > 0) {
		child := node.selectRandomUCTMove(r)
		child.applyLoss()
		node = child
	}
	return node
}

// rollout plays random moves after leaf until two passes in a row.
func (s *search) rollout(leaf *Node, r *rand.Rand) (*Node, error) {
	node := leaf
	moves := 0
	for !node.isTerminal() {
		if moves >= s.maxMoves {
			if s.exhaustion == FailOnExhaustion {
				return nil, errors.Wrapf(ErrSearchExhausted, "%d moves without two passes", moves)
			}
			s.truncations.Warn().Int("moves", moves).Msg("scoring truncated rollout")
			s.metrics.AddTruncatedPlayout(moves)
			return node, nil
		}
		node = node.selectRandomMCMove(r)
		moves++
	}
	s.metrics.AddFullPlayout(moves)
	return node, nil
}

// backup adds the final score, from Black's side, to every node from leaf to
// the root and takes back the virtual losses of the descent.
func backup(leaf *Node, score float64) {
	for node := leaf; node != nil; node = node.parent {
		if node.parent != nil {
			node.reverseLoss()
		}
		node.update(outcome(node.color, score))
	}
}

func outcome(c game.Color, score float64) (value, margin float64) {
	if c == game.White {
		score = -score
	}
	switch {
	case score > 0:
		return Win, score
	case score < 0:
		return Loss, score
	default:
		return Draw, score
	}
}

func (n *Node) result() Result {
	result := Result{
		Move:   game.Pass,
		Pass:   true,
		Visits: n.Visits(),
		Policy: n.Policy(),
	}
	best := n.bestChild()
	if best == nil {
		return result
	}
	result.Move = best.move
	result.Pass = best.move == game.Pass
	result.Value = best.Value()
	result.Score = best.Score()
	return result
}

// Evaluate searches the best move of color with simulations episodes on all
// processors.
func Evaluate(board *game.Board, color game.Color, komi float64, simulations int) (Result, error) {
	if simulations <= 0 {
		return Result{}, errors.Errorf("need a positive number of simulations, got %d", simulations)
	}
	m := NewMCTS(runtime.GOMAXPROCS(0), WithEpisodes(simulations), WithKomi(komi))
	result, _, err := m.Simulate(board, color)
	return result, err
}
