package game

import "golang.org/x/exp/slices"

// Eye describes one empty region. Color is the unique color of the chains
// around it, Empty when it touches both colors or none.
type Eye struct {
	Rep   Point
	Size  int
	Color Color
	Group *Group
}

// Group is a set of chains of one color connected through eyes of that color.
type Group struct {
	Color  Color
	Chains []Point
	Eyes   []Point
}

// IsAlive applies the two-eye rule.
func (g *Group) IsAlive() bool {
	return len(g.Eyes) >= 2
}

type groupIndex struct {
	eyes   map[clusterID]Eye
	chains map[clusterID]*Group
	groups []*Group
}

func (b *Board) eyeColor(cl *cluster) Color {
	color := Empty
	for id := range cl.neighbors {
		c := b.clusters[id].color
		if color != Empty && c != color {
			return Empty
		}
		color = c
	}
	return color
}

// sortedClusters returns the live cluster ids ordered by representative.
func (b *Board) sortedClusters() []clusterID {
	ids := make([]clusterID, 0, len(b.clusters))
	for id := range b.clusters {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(x, y clusterID) int {
		return b.clusters[x].rep() - b.clusters[y].rep()
	})
	return ids
}

func (b *Board) grouping() *groupIndex {
	if g := b.groups.Load(); g != nil {
		return g
	}

	ids := b.sortedClusters()
	parent := make(map[clusterID]clusterID)
	var find func(id clusterID) clusterID
	find = func(id clusterID) clusterID {
		for parent[id] != id {
			parent[id] = parent[parent[id]]
			id = parent[id]
		}
		return id
	}
	for _, id := range ids {
		if b.clusters[id].isChain() {
			parent[id] = id
		}
	}

	colors := make(map[clusterID]Color)
	for _, id := range ids {
		cl := b.clusters[id]
		if cl.isChain() {
			continue
		}
		c := b.eyeColor(cl)
		colors[id] = c
		if c == Empty {
			continue
		}
		var first clusterID = noCluster
		for n := range cl.neighbors {
			if first == noCluster {
				first = n
				continue
			}
			x, y := find(first), find(n)
			if x == y {
				continue
			}
			// The root with the smaller representative survives so groups
			// come out in board order.
			if b.clusters[x].rep() < b.clusters[y].rep() {
				parent[y] = x
			} else {
				parent[x] = y
			}
		}
	}

	index := &groupIndex{
		eyes:   make(map[clusterID]Eye),
		chains: make(map[clusterID]*Group),
	}
	roots := make(map[clusterID]*Group)
	for _, id := range ids {
		cl := b.clusters[id]
		if !cl.isChain() {
			continue
		}
		root := find(id)
		g, ok := roots[root]
		if !ok {
			g = &Group{Color: cl.color}
			roots[root] = g
			index.groups = append(index.groups, g)
		}
		g.Chains = append(g.Chains, b.point(cl.rep()))
		index.chains[id] = g
	}
	for _, id := range ids {
		cl := b.clusters[id]
		if cl.isChain() {
			continue
		}
		eye := Eye{Rep: b.point(cl.rep()), Size: cl.size(), Color: colors[id]}
		if eye.Color != Empty {
			for n := range cl.neighbors {
				eye.Group = index.chains[n]
				break
			}
			eye.Group.Eyes = append(eye.Group.Eyes, eye.Rep)
		}
		index.eyes[id] = eye
	}

	if !b.groups.CompareAndSwap(nil, index) {
		return b.groups.Load()
	}
	return index
}

// EyeAt returns the eye containing p.
func (b *Board) EyeAt(p Point) (Eye, bool) {
	if !b.OnBoard(p) {
		return Eye{}, false
	}
	eye, ok := b.grouping().eyes[b.owner[b.index(p)]]
	return eye, ok
}

// GroupAt returns the group of the chain at p, or the group a single-colored
// eye at p belongs to. It returns nil otherwise.
func (b *Board) GroupAt(p Point) *Group {
	if !b.OnBoard(p) {
		return nil
	}
	index := b.grouping()
	id := b.owner[b.index(p)]
	if g, ok := index.chains[id]; ok {
		return g
	}
	return index.eyes[id].Group
}

// Groups lists every group ordered by its first chain.
func (b *Board) Groups() []*Group {
	return slices.Clone(b.grouping().groups)
}

// IsRealEye reports whether p is a one-point eye of c that the opponent
// cannot break: no opponent stone on a diagonal at the edge, at most one in
// the middle of the board.
func (b *Board) IsRealEye(p Point, c Color) bool {
	if !b.OnBoard(p) {
		return false
	}
	cl := b.clusters[b.owner[b.index(p)]]
	if cl.isChain() || cl.size() != 1 || b.eyeColor(cl) != c {
		return false
	}
	edge, opponent := false, 0
	for _, d := range [4]Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		q := Point{X: p.X + d.X, Y: p.Y + d.Y}
		if !b.OnBoard(q) {
			edge = true
			continue
		}
		if b.Stone(q) == c.Opposite() {
			opponent++
		}
	}
	if edge {
		return opponent == 0
	}
	return opponent <= 1
}

// Miai returns y when two chains of c next to x share exactly the liberties x
// and y: if one of them is taken, the other connects.
func (b *Board) Miai(x Point, c Color) (Point, bool) {
	if !b.OnBoard(x) {
		return Pass, false
	}
	i := b.index(x)
	if b.clusters[b.owner[i]].isChain() {
		return Pass, false
	}
	var chains []clusterID
	for _, q := range b.adj[i] {
		if cl := b.clusters[b.owner[q]]; cl.color == c {
			chains = appendUnique(chains, cl.id)
		}
	}
	best := -1
	for j := 0; j < len(chains); j++ {
		for k := j + 1; k < len(chains); k++ {
			common := b.clusters[chains[j]].liberties
			common.intersect(&b.clusters[chains[k]].liberties)
			if common.count() != 2 || !common.has(i) {
				continue
			}
			common.remove(i)
			if y := common.first(); best < 0 || y < best {
				best = y
			}
		}
	}
	if best < 0 {
		return Pass, false
	}
	return b.point(best), true
}
