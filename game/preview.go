package game

// Effect is what a move would do to the board.
type Effect struct {
	Legal bool
	// Captured is the number of opponent stones removed.
	Captured int
	// Liberties of the chain holding the new stone.
	Liberties int
	// AtariDelta is the change in the mover's stones with one liberty.
	AtariDelta int
}

// Preview computes the Effect of c playing p without mutating b.
func (b *Board) Preview(p Point, c Color) Effect {
	if !b.OnBoard(p) || (c != Black && c != White) {
		return Effect{}
	}
	i := b.index(p)
	if b.clusters[b.owner[i]].isChain() {
		return Effect{}
	}

	var libs, stones, freed pointSet
	var same, taken []clusterID
	stones.add(i)
	for _, q := range b.adj[i] {
		cl := b.clusters[b.owner[q]]
		switch {
		case cl.color == Empty:
			libs.add(q)
		case cl.color == c:
			same = appendUnique(same, cl.id)
		case cl.liberties.count() == 1:
			taken = appendUnique(taken, cl.id)
		}
	}

	effect := Effect{}
	for _, id := range same {
		cl := b.clusters[id]
		stones.union(&cl.points)
		libs.union(&cl.liberties)
		if cl.liberties.count() == 1 {
			effect.AtariDelta -= cl.size()
		}
	}
	for _, id := range taken {
		cl := b.clusters[id]
		freed.union(&cl.points)
		effect.Captured += cl.size()
	}
	libs.remove(i)

	var relieved []clusterID
	freed.each(func(j int) {
		for _, q := range b.adj[j] {
			if stones.has(q) {
				libs.add(j)
				continue
			}
			cl := b.clusters[b.owner[q]]
			if cl.color == c && cl.liberties.count() == 1 {
				relieved = appendUnique(relieved, cl.id)
			}
		}
	})

	effect.Liberties = libs.count()
	if effect.Liberties == 0 {
		return Effect{}
	}
	effect.Legal = true
	if effect.Liberties == 1 {
		effect.AtariDelta += stones.count()
	}
	for _, id := range relieved {
		effect.AtariDelta -= b.clusters[id].size()
	}
	return effect
}
