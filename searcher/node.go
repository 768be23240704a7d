package searcher

import (
	"math"
	"sync"
	"sync/atomic"

	"goban/game"
	"goban/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// tree holds what every node of one search shares.
type tree struct {
	komi       float64
	heuristics Heuristics
}

// Node is one position of the search tree. Its board is derived lazily from
// the parent's by playing move for color, and is never mutated afterwards.
type Node struct {
	parent      *Node
	tree        *tree
	move        game.Point
	color       game.Color // Player who made move
	suitability float64

	boardOnce sync.Once
	board     *game.Board

	miaiOnce sync.Once
	miai     game.Point
	hasMiai  bool

	koOnce    sync.Once
	illegalKo bool

	mu       sync.RWMutex
	expanded bool
	children []*Node
	index    map[game.Point]*Node

	visits  atomic.Int64
	pending atomic.Int64 // Virtual losses of workers inside the subtree
	value   atomicFloat
	score   atomicFloat
	scoreSq atomicFloat
}

func newRoot(board *game.Board, toMove game.Color, t *tree) *Node {
	n := &Node{
		tree:  t,
		move:  board.LastMove(),
		color: toMove.Opposite(),
		board: board,
		index: make(map[game.Point]*Node),
	}
	n.miai = game.Pass
	return n
}

func newChild(parent *Node, move game.Point, suitability float64) *Node {
	return &Node{
		parent:      parent,
		tree:        parent.tree,
		move:        move,
		color:       parent.color.Opposite(),
		suitability: suitability,
		miai:        game.Pass,
		index:       make(map[game.Point]*Node),
	}
}

func (n *Node) Move() game.Point     { return n.move }
func (n *Node) Color() game.Color    { return n.color }
func (n *Node) Suitability() float64 { return n.suitability }

// Board materializes the position of n on first use.
func (n *Node) Board() *game.Board {
	n.boardOnce.Do(func() {
		if n.board != nil {
			return
		}
		parent := n.parent.Board()
		if n.isPass() {
			n.board = parent
			return
		}
		b := parent.Clone()
		if err := b.Play(n.move, n.color); err != nil {
			panic(errors.Wrap(err, "node holds an illegal move"))
		}
		n.board = b
	})
	return n.board
}

func (n *Node) isPass() bool {
	return n.parent != nil && n.move == game.Pass
}

// isTerminal reports a pass answering a pass.
func (n *Node) isTerminal() bool {
	return n.isPass() && n.parent.isPass()
}

// miaiPoint is where the opponent should answer the move of n.
func (n *Node) miaiPoint() (game.Point, bool) {
	n.miaiOnce.Do(func() {
		if n.parent == nil || n.isPass() {
			return
		}
		n.miai, n.hasMiai = n.parent.Board().Miai(n.move, n.color.Opposite())
	})
	return n.miai, n.hasMiai
}

// isIllegalKo reports whether the board of n repeats an ancestor position
// under some symmetry. Passes never do.
func (n *Node) isIllegalKo() bool {
	n.koOnce.Do(func() {
		if n.parent == nil || n.isPass() {
			return
		}
		b := n.Board()
		hash := b.CanonicalHash()
		for a := n.parent; a != nil; a = a.parent {
			ab := a.Board()
			if ab.CanonicalHash() == hash && ab.Equivalent(b) {
				n.illegalKo = true
				return
			}
		}
	})
	return n.illegalKo
}

// createChild returns the child for move, adding it if absent.
func (n *Node) createChild(move game.Point) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()

	if child, ok := n.index[move]; ok {
		return child
	}
	suitability := n.tree.heuristics.PassSuitability
	if move != game.Pass {
		suitability = n.calculateStaticSuitability(move)
	}
	return n.insert(move, suitability)
}

func (n *Node) createPassNode() *Node {
	return n.createChild(game.Pass)
}

// insert must be called with the lock held.
func (n *Node) insert(move game.Point, suitability float64) *Node {
	child := newChild(n, move, suitability)
	n.index[move] = child
	n.children = append(n.children, child)
	return child
}

// expand adds every move with a positive suitability in row-major order, then
// the pass. It runs once per node.
func (n *Node) expand() []*Node {
	n.mu.RLock()
	if n.expanded {
		children := n.children
		n.mu.RUnlock()
		return children
	}
	n.mu.RUnlock()

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.expanded {
		for _, p := range n.Board().EmptyPoints() {
			if _, ok := n.index[p]; ok {
				continue
			}
			if s := n.calculateStaticSuitability(p); s > 0 {
				n.insert(p, s)
			}
		}
		if _, ok := n.index[game.Pass]; !ok {
			n.insert(game.Pass, n.tree.heuristics.PassSuitability)
		}
		n.expanded = true
	}
	return n.children
}

// Children returns the children created so far.
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.children
}

// selectRandomUCTMove expands n if needed and returns the child with the
// highest priority, breaking ties at random. Children repeating an ancestor
// position are skipped.
func (n *Node) selectRandomUCTMove(r *rand.Rand) *Node {
	children := n.expand()

	// One snapshot per child: other workers keep applying losses.
	stats := make([]visitCounts, len(children))
	total := 0.0
	for i, child := range children {
		stats[i] = child.counts()
		total += float64(stats[i].visits + stats[i].pending)
	}
	var policy *uct
	if total > 0 {
		policy = newUCT(CSquared, total)
	}

	var best *Node
	bestPriority := math.Inf(-1)
	ties := 0
	for i, child := range children {
		if child.move != game.Pass && child.isIllegalKo() {
			continue
		}
		priority := child.priority(policy, stats[i])
		switch {
		case priority > bestPriority:
			best, bestPriority, ties = child, priority, 1
		case priority == bestPriority:
			ties++
			if r.Intn(ties) == 0 {
				best = child
			}
		}
	}
	return best
}

type visitCounts struct {
	visits, pending int64
	value           float64
}

func (n *Node) counts() visitCounts {
	return visitCounts{visits: n.visits.Load(), pending: n.pending.Load(), value: n.value.load()}
}

func (n *Node) priority(policy *uct, c visitCounts) float64 {
	if c.visits+c.pending == 0 || policy == nil {
		return n.tree.heuristics.UnvisitedPriority + n.suitability
	}
	return policy.score(c.value, c.visits, c.pending)
}

// selectRandomMCMove draws a rollout move with probability proportional to
// its suitability. The child is not added to the tree. It passes when no
// move has a positive suitability.
func (n *Node) selectRandomMCMove(r *rand.Rand) *Node {
	empty := n.Board().EmptyPoints()
	weights := make([]float64, len(empty))
	for i, p := range empty {
		weights[i] = n.calculateStaticSuitability(p)
	}
	for {
		i := utils.Roulette(weights, r)
		if i < 0 {
			return newChild(n, game.Pass, n.tree.heuristics.PassSuitability)
		}
		child := newChild(n, empty[i], weights[i])
		if !child.isIllegalKo() {
			return child
		}
		weights[i] = 0
	}
}

// evaluateByScoring is Black's Chinese score minus komi.
func (n *Node) evaluateByScoring(territory []int) float64 {
	return float64(n.Board().ChineseScore(territory)) - n.tree.komi
}

func (n *Node) applyLoss() {
	n.pending.Add(1)
}

func (n *Node) reverseLoss() {
	n.pending.Add(-1)
}

// update records one finished episode from the perspective of n's player.
func (n *Node) update(value, score float64) {
	n.value.add(value)
	n.score.add(score)
	n.scoreSq.add(score * score)
	n.visits.Add(1)
}

func (n *Node) Visits() int {
	return int(n.visits.Load())
}

// Value is the mean reward of n's player, 0 before any visit.
func (n *Node) Value() float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return 0
	}
	return n.value.load() / float64(visits)
}

// Score is the mean final score margin of n's player.
func (n *Node) Score() float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return 0
	}
	return n.score.load() / float64(visits)
}

func (n *Node) Variance() float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return 0
	}
	mean := n.score.load() / float64(visits)
	return math.Max(0, n.scoreSq.load()/float64(visits)-mean*mean)
}

// bestChild is the child with the highest mean value among those visited at
// least BestChildVisitFraction as often as the most visited one.
func (n *Node) bestChild() *Node {
	children := n.Children()
	most := 0
	for _, child := range children {
		most = max(most, child.Visits())
	}
	if most == 0 {
		return nil
	}

	var best *Node
	for _, child := range children {
		if float64(child.Visits()) < BestChildVisitFraction*float64(most) {
			continue
		}
		if best == nil || child.Value() > best.Value() {
			best = child
		}
	}
	return best
}

// Policy is the share of root visits each move received.
func (n *Node) Policy() map[game.Point]float64 {
	children := n.Children()
	total := 0
	for _, child := range children {
		total += child.Visits()
	}
	policy := make(map[game.Point]float64, len(children))
	if total == 0 {
		return policy
	}
	for _, child := range children {
		policy[child.move] = float64(child.Visits()) / float64(total)
	}
	return policy
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) add(delta float64) {
	for {
		old := f.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}
