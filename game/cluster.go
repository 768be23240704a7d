package game

import "sync/atomic"

type clusterID int32

const noCluster clusterID = -1

type idSet map[clusterID]struct{}

func (s idSet) add(id clusterID)      { s[id] = struct{}{} }
func (s idSet) has(id clusterID) bool { _, ok := s[id]; return ok }

// cluster is either a stone chain (color Black or White) or an eye (a
// maximal empty region, color Empty). Liberties are only maintained for
// chains.
//
// A cluster may be shared by several boards after Clone. Only the board whose
// generation matches gen may write it; any other board copies it first.
type cluster struct {
	id        clusterID
	gen       uint64
	color     Color
	points    pointSet
	neighbors idSet
	liberties pointSet
}

func (c *cluster) isChain() bool { return c.color != Empty }

// rep is the representative point index: the smallest member.
func (c *cluster) rep() int { return c.points.first() }

func (c *cluster) size() int { return c.points.count() }

func (c *cluster) clone(gen uint64) *cluster {
	cp := &cluster{
		id:        c.id,
		gen:       gen,
		color:     c.color,
		points:    c.points,
		liberties: c.liberties,
		neighbors: make(idSet, len(c.neighbors)),
	}
	for id := range c.neighbors {
		cp.neighbors.add(id)
	}
	return cp
}

var generations atomic.Uint64

func nextGeneration() uint64 {
	return generations.Add(1)
}
