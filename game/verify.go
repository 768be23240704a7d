package game

import "fmt"

func (b *Board) verifyIfChecked() {
	if !b.checked {
		return
	}
	if err := b.Verify(); err != nil {
		panic(err)
	}
}

func (b *Board) broken(i int, format string, args ...any) *InvariantError {
	at := Pass
	if i >= 0 {
		at = b.point(i)
	}
	return &InvariantError{At: at, Reason: fmt.Sprintf(format, args...)}
}

// Verify checks the cluster model against the points it covers. It returns
// an *InvariantError for the first inconsistency found.
func (b *Board) Verify() error {
	for i, id := range b.owner {
		if _, ok := b.clusters[id]; !ok {
			return b.broken(i, "owned by missing cluster %d", id)
		}
	}

	for _, id := range b.sortedClusters() {
		cl := b.clusters[id]
		if cl.id != id {
			return b.broken(-1, "cluster stored as %d has id %d", id, cl.id)
		}
		if cl.size() == 0 {
			return b.broken(-1, "cluster %d is empty", id)
		}
		rep := cl.rep()
		if rep >= len(b.owner) {
			return b.broken(-1, "cluster %d holds point index %d", id, rep)
		}
		var err error
		cl.points.each(func(i int) {
			if err == nil && b.owner[i] != id {
				err = b.broken(i, "member of %d owned by %d", id, b.owner[i])
			}
		})
		if err != nil {
			return err
		}
		if pieces := b.components(cl.points); len(pieces) != 1 {
			return b.broken(rep, "cluster %d has %d disconnected parts", id, len(pieces))
		}

		adjacent := b.adjacentClusters(cl)
		for n := range adjacent {
			if !cl.neighbors.has(n) {
				return b.broken(rep, "cluster %d misses neighbor %d", id, n)
			}
		}
		for n := range cl.neighbors {
			other, ok := b.clusters[n]
			switch {
			case !ok:
				return b.broken(rep, "cluster %d lists missing neighbor %d", id, n)
			case !adjacent.has(n):
				return b.broken(rep, "cluster %d lists distant neighbor %d", id, n)
			case !other.neighbors.has(id):
				return b.broken(rep, "neighbor %d does not list %d back", n, id)
			case other.color == cl.color:
				return b.broken(rep, "neighbors %d and %d share color %v", id, n, cl.color)
			}
		}

		if !cl.isChain() {
			if !cl.liberties.empty() {
				return b.broken(rep, "eye %d has liberties", id)
			}
			continue
		}
		var want pointSet
		cl.points.each(func(i int) {
			for _, q := range b.adj[i] {
				if !b.clusters[b.owner[q]].isChain() {
					want.add(q)
				}
			}
		})
		if want != cl.liberties {
			return b.broken(rep, "chain %d has %d liberties, want %d", id, cl.liberties.count(), want.count())
		}
		if want.empty() {
			return b.broken(rep, "chain %d has no liberties", id)
		}
	}
	return nil
}
