package game

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

type Option func(b *Board)

// WithZobrist replaces DefaultZobrist as the hash table of a board and every
// board derived from it.
func WithZobrist(z *Zobrist) Option {
	return func(b *Board) {
		if z != nil {
			b.zobrist = z
		}
	}
}

// WithInvariantChecks verifies the cluster model after every mutation and
// panics with an *InvariantError on the first violation.
func WithInvariantChecks() Option {
	return func(b *Board) {
		b.checked = true
	}
}

// Board is one position. Points are partitioned into clusters (stone chains
// and eyes) which are shared copy-on-write between a board and its clones.
//
// A board is not safe for concurrent mutation. Any number of goroutines may
// read or Clone a board that is no longer being mutated.
type Board struct {
	size    int
	adj     [][]int
	zobrist *Zobrist
	checked bool

	gen      uint64
	shared   atomic.Bool
	owner    []clusterID
	clusters map[clusterID]*cluster
	nextID   clusterID
	captured [3]int
	last     Point

	hash      atomic.Uint64
	canonical atomic.Uint64
	atari     [3]atomic.Int64
	groups    atomic.Pointer[groupIndex]
}

// cached marks a hash slot as filled, since 0 is a valid hash.
const cached = 1 << 32

// NewBoard returns an empty board: every point belongs to one eye.
func NewBoard(size int, options ...Option) *Board {
	if size < 1 || size > MaxSize {
		panic(fmt.Sprintf("board size %d out of range 1..%d", size, MaxSize))
	}
	b := &Board{
		size:     size,
		adj:      adjacency[size],
		zobrist:  DefaultZobrist,
		gen:      nextGeneration(),
		owner:    make([]clusterID, size*size),
		clusters: make(map[clusterID]*cluster),
		last:     Pass,
	}
	for _, option := range options {
		option(b)
	}
	b.reset()
	return b
}

// NewBoardFromStones imports a stone matrix indexed [y][x]. Chains without
// liberties in the matrix are captured as they are put.
func NewBoardFromStones(stones [][]Color, options ...Option) (*Board, error) {
	size := len(stones)
	if size < 1 || size > MaxSize {
		return nil, errors.Errorf("board size %d out of range 1..%d", size, MaxSize)
	}
	for y, row := range stones {
		if len(row) != size {
			return nil, errors.Errorf("row %d has %d points, want %d", y, len(row), size)
		}
	}
	b := NewBoard(size, options...)
	for y, row := range stones {
		for x, c := range row {
			if c == Black || c == White {
				b.Put(Point{X: x, Y: y}, c)
			}
		}
	}
	b.last = Pass
	return b, nil
}

// reset makes every point part of a single eye.
func (b *Board) reset() {
	b.touch()
	b.clusters = make(map[clusterID]*cluster)
	eye := b.newCluster(Empty)
	for i := range b.owner {
		eye.points.add(i)
		b.owner[i] = eye.id
	}
}

// Clone returns a board sharing every cluster with b. Both boards copy a
// shared cluster before their first write to it. Options apply to the clone
// only.
func (b *Board) Clone(options ...Option) *Board {
	b.shared.Store(true)
	c := &Board{
		size:     b.size,
		adj:      b.adj,
		zobrist:  b.zobrist,
		checked:  b.checked,
		gen:      nextGeneration(),
		owner:    slices.Clone(b.owner),
		clusters: make(map[clusterID]*cluster, len(b.clusters)),
		nextID:   b.nextID,
		captured: b.captured,
		last:     b.last,
	}
	for id, cl := range b.clusters {
		c.clusters[id] = cl
	}
	c.hash.Store(b.hash.Load())
	c.canonical.Store(b.canonical.Load())
	for i := range b.atari {
		c.atari[i].Store(b.atari[i].Load())
	}
	c.groups.Store(b.groups.Load())
	if len(options) > 0 {
		for _, option := range options {
			option(c)
		}
		c.hash.Store(0)
		c.canonical.Store(0)
	}
	return c
}

// touch prepares b for a mutation.
func (b *Board) touch() {
	if b.shared.Load() {
		b.gen = nextGeneration()
		b.shared.Store(false)
	}
	b.hash.Store(0)
	b.canonical.Store(0)
	for i := range b.atari {
		b.atari[i].Store(0)
	}
	b.groups.Store(nil)
}

func (b *Board) Size() int { return b.size }

func (b *Board) index(p Point) int { return p.Y*b.size + p.X }

func (b *Board) point(i int) Point { return Point{X: i % b.size, Y: i / b.size} }

func (b *Board) OnBoard(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.size && p.Y < b.size
}

// Stone returns the color at p, Empty for points off the board.
func (b *Board) Stone(p Point) Color {
	if !b.OnBoard(p) {
		return Empty
	}
	return b.clusters[b.owner[b.index(p)]].color
}

// Captured returns how many stones of color c have been captured.
func (b *Board) Captured(c Color) int {
	return b.captured[c]
}

// LastMove is the last point a stone was placed on, or Pass.
func (b *Board) LastMove() Point { return b.last }

func (b *Board) StoneCount() int {
	n := 0
	for _, cl := range b.clusters {
		if cl.isChain() {
			n += cl.size()
		}
	}
	return n
}

// EmptyPoints lists the empty points in row-major order.
func (b *Board) EmptyPoints() []Point {
	points := make([]Point, 0, len(b.owner))
	for i, id := range b.owner {
		if b.clusters[id].color == Empty {
			points = append(points, b.point(i))
		}
	}
	return points
}

// Move places a stone of color c at p. It reports false, leaving the board
// untouched, when p is off the board, occupied, or the move is suicide.
func (b *Board) Move(p Point, c Color) bool {
	return b.Play(p, c) == nil
}

// Play is Move with the reason a move is illegal.
func (b *Board) Play(p Point, c Color) error {
	if c != Black && c != White {
		return errors.Errorf("cannot play %v", c)
	}
	if !b.OnBoard(p) {
		return errors.WithMessagef(ErrOutOfBounds, "%v at %v", c, p)
	}
	i := b.index(p)
	if b.clusters[b.owner[i]].isChain() {
		return errors.WithMessagef(ErrOccupied, "%v at %v", c, p)
	}
	if !b.legal(i, c) {
		return errors.WithMessagef(ErrSuicide, "%v at %v", c, p)
	}
	b.place(i, c)
	b.last = p
	return nil
}

// legal reports whether placing c on the empty point i leaves the placed
// chain with at least one liberty.
func (b *Board) legal(i int, c Color) bool {
	for _, q := range b.adj[i] {
		cl := b.clusters[b.owner[q]]
		switch {
		case cl.color == Empty:
			return true
		case cl.color == c:
			if cl.liberties.count() > 1 {
				return true
			}
		default:
			if cl.liberties.count() == 1 {
				return true
			}
		}
	}
	return false
}

// Put places c at p without legality feedback. Suicide captures the placed
// chain. Putting Empty removes the stone at p. Points off the board are
// ignored.
func (b *Board) Put(p Point, c Color) {
	if !b.OnBoard(p) {
		return
	}
	i := b.index(p)
	current := b.clusters[b.owner[i]].color
	if current == c {
		return
	}
	if current != Empty {
		b.rebuildWithout(i)
	}
	if c != Empty {
		b.place(i, c)
		b.last = p
	}
}

// rebuildWithout recomputes every cluster from the stones on the board minus
// the one at i. Capture counters are kept.
func (b *Board) rebuildWithout(i int) {
	stones := make([]Color, len(b.owner))
	for j, id := range b.owner {
		stones[j] = b.clusters[id].color
	}
	stones[i] = Empty
	b.reset()
	for j, c := range stones {
		if c != Empty {
			b.place(j, c)
		}
	}
	b.verifyIfChecked()
}

// Liberties returns the liberty count of the chain at p, 0 for empty points.
func (b *Board) Liberties(p Point) int {
	if !b.OnBoard(p) {
		return 0
	}
	cl := b.clusters[b.owner[b.index(p)]]
	if !cl.isChain() {
		return 0
	}
	return cl.liberties.count()
}

// ChainSize returns the number of points in the cluster at p.
func (b *Board) ChainSize(p Point) int {
	if !b.OnBoard(p) {
		return 0
	}
	return b.clusters[b.owner[b.index(p)]].size()
}

// Neighbors returns the representative points of the clusters adjacent to
// the cluster at p, in row-major order.
func (b *Board) Neighbors(p Point) []Point {
	if !b.OnBoard(p) {
		return nil
	}
	cl := b.clusters[b.owner[b.index(p)]]
	reps := make([]Point, 0, len(cl.neighbors))
	for id := range cl.neighbors {
		reps = append(reps, b.point(b.clusters[id].rep()))
	}
	slices.SortFunc(reps, comparePoints)
	return reps
}

func comparePoints(a, b Point) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

func (b *Board) ZobristHash() uint32 {
	if v := b.hash.Load(); v != 0 {
		return uint32(v)
	}
	h := b.zobrist.hash(b, Identity)
	b.hash.Store(uint64(h) | cached)
	return h
}

// CanonicalHash is the largest ZobristHash over the 8 symmetries, so every
// symmetric image of a position shares it.
func (b *Board) CanonicalHash() uint32 {
	if v := b.canonical.Load(); v != 0 {
		return uint32(v)
	}
	var h uint32
	for _, s := range Symmetries {
		if v := b.zobrist.hash(b, s); v > h {
			h = v
		}
	}
	b.canonical.Store(uint64(h) | cached)
	return h
}

// Transform returns a new board with every stone moved to its image under s.
func (b *Board) Transform(s Symmetry) *Board {
	t := NewBoard(b.size, WithZobrist(b.zobrist))
	t.checked = b.checked
	for i, id := range b.owner {
		if c := b.clusters[id].color; c != Empty {
			t.place(t.index(s.Apply(b.point(i), b.size)), c)
		}
	}
	t.captured = b.captured
	if b.last != Pass {
		t.last = s.Apply(b.last, b.size)
	}
	return t
}

// EqualUnder reports whether every point of b holds the same stone as its
// image under s on o.
func (b *Board) EqualUnder(o *Board, s Symmetry) bool {
	if b.size != o.size {
		return false
	}
	for i, id := range b.owner {
		p := b.point(i)
		if b.clusters[id].color != o.Stone(s.Apply(p, b.size)) {
			return false
		}
	}
	return true
}

// Equivalent reports whether o is b under some symmetry.
func (b *Board) Equivalent(o *Board) bool {
	if b.size != o.size || b.CanonicalHash() != o.CanonicalHash() {
		return false
	}
	for _, s := range Symmetries {
		if b.EqualUnder(o, s) {
			return true
		}
	}
	return false
}

var adjacency = buildAdjacency()

func buildAdjacency() [][][]int {
	tables := make([][][]int, MaxSize+1)
	for size := 1; size <= MaxSize; size++ {
		table := make([][]int, size*size)
		for i := range table {
			x, y := i%size, i/size
			if y > 0 {
				table[i] = append(table[i], i-size)
			}
			if x > 0 {
				table[i] = append(table[i], i-1)
			}
			if x < size-1 {
				table[i] = append(table[i], i+1)
			}
			if y < size-1 {
				table[i] = append(table[i], i+size)
			}
		}
		tables[size] = table
	}
	return tables
}
