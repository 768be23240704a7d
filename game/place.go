package game

func (b *Board) newCluster(c Color) *cluster {
	cl := &cluster{id: b.nextID, gen: b.gen, color: c, neighbors: make(idSet)}
	b.nextID++
	b.clusters[cl.id] = cl
	return cl
}

// mutable returns the cluster with the given id, copying it into the arena
// first when it belongs to another board generation.
func (b *Board) mutable(id clusterID) *cluster {
	cl := b.clusters[id]
	if cl.gen != b.gen {
		cl = cl.clone(b.gen)
		b.clusters[id] = cl
	}
	return cl
}

func (b *Board) link(x, y clusterID) {
	if b.clusters[x].neighbors.has(y) {
		return
	}
	b.mutable(x).neighbors.add(y)
	b.mutable(y).neighbors.add(x)
}

func (b *Board) unlink(x, y clusterID) {
	if !b.clusters[x].neighbors.has(y) {
		return
	}
	delete(b.mutable(x).neighbors, y)
	delete(b.mutable(y).neighbors, x)
}

// touches reports whether the chain has a liberty inside the eye.
func (b *Board) touches(chain, eye clusterID) bool {
	cl := b.clusters[chain]
	found := false
	cl.liberties.each(func(i int) {
		if b.owner[i] == eye {
			found = true
		}
	})
	return found
}

// adjacentClusters scans the points of a cluster and collects the ids of
// every other cluster next to them.
func (b *Board) adjacentClusters(cl *cluster) idSet {
	found := make(idSet)
	cl.points.each(func(i int) {
		for _, q := range b.adj[i] {
			if id := b.owner[q]; id != noCluster && id != cl.id {
				found.add(id)
			}
		}
	})
	return found
}

// relink recomputes the neighbor set of a cluster from its points and
// repairs the reverse links.
func (b *Board) relink(id clusterID) {
	cl := b.mutable(id)
	fresh := b.adjacentClusters(cl)
	for n := range cl.neighbors {
		if !fresh.has(n) {
			delete(b.mutable(n).neighbors, id)
		}
	}
	for n := range fresh {
		if !cl.neighbors.has(n) {
			b.mutable(n).neighbors.add(id)
		}
	}
	cl.neighbors = fresh
}

// dissolve removes a cluster that no longer has points.
func (b *Board) dissolve(id clusterID) {
	for n := range b.clusters[id].neighbors {
		delete(b.mutable(n).neighbors, id)
	}
	delete(b.clusters, id)
}

// components splits a point set into its 4-connected pieces with a
// breadth-first search. The piece holding the smallest point comes first.
func (b *Board) components(points pointSet) []pointSet {
	var pieces []pointSet
	remaining := points
	queue := make([]int, 0, remaining.count())
	for !remaining.empty() {
		var piece pointSet
		start := remaining.first()
		remaining.remove(start)
		piece.add(start)
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			for _, q := range b.adj[i] {
				if remaining.has(q) {
					remaining.remove(q)
					piece.add(q)
					queue = append(queue, q)
				}
			}
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// carve takes the point i out of its eye. The eye disappears when i was its
// last point and splits when i was holding two parts of it together.
func (b *Board) carve(i int) {
	id := b.owner[i]
	eye := b.mutable(id)
	eye.points.remove(i)
	b.owner[i] = noCluster
	if eye.points.empty() {
		b.dissolve(id)
		return
	}

	open := 0
	for _, q := range b.adj[i] {
		if b.owner[q] == id {
			open++
		}
	}
	if open >= 2 {
		pieces := b.components(eye.points)
		if len(pieces) > 1 {
			eye.points = pieces[0]
			ids := []clusterID{id}
			for _, piece := range pieces[1:] {
				residue := b.newCluster(Empty)
				residue.points = piece
				piece.each(func(j int) { b.owner[j] = residue.id })
				ids = append(ids, residue.id)
			}
			for _, e := range ids {
				b.relink(e)
			}
			return
		}
	}

	// Chains that only reached the eye through i no longer touch it.
	for _, q := range b.adj[i] {
		n := b.owner[q]
		if n != id && b.clusters[id].neighbors.has(n) && !b.touches(n, id) {
			b.unlink(n, id)
		}
	}
}

// join merges the chain with the given id into dst.
func (b *Board) join(dst *cluster, id clusterID) {
	src := b.clusters[id]
	dst.points.union(&src.points)
	dst.liberties.union(&src.liberties)
	src.points.each(func(j int) { b.owner[j] = dst.id })
	for n := range src.neighbors {
		nb := b.mutable(n)
		delete(nb.neighbors, id)
		nb.neighbors.add(dst.id)
		dst.neighbors.add(n)
	}
	delete(b.clusters, id)
}

// capture turns a chain without liberties into a new eye and returns it.
// The eye inherits the chain's neighbors, which all gain the freed points as
// liberties.
func (b *Board) capture(id clusterID) clusterID {
	chain := b.clusters[id]
	eye := b.newCluster(Empty)
	eye.points = chain.points
	b.captured[chain.color] += chain.size()
	chain.points.each(func(j int) { b.owner[j] = eye.id })
	for n := range chain.neighbors {
		nb := b.mutable(n)
		delete(nb.neighbors, id)
		nb.neighbors.add(eye.id)
		eye.neighbors.add(n)
	}
	chain.points.each(func(j int) {
		for _, q := range b.adj[j] {
			if n := b.owner[q]; n != eye.id && b.clusters[n].isChain() {
				b.mutable(n).liberties.add(j)
			}
		}
	})
	delete(b.clusters, id)
	return eye.id
}

// place puts a stone of color c on the empty point i and resolves captures.
// It reports false when the placed chain had to be captured (suicide).
func (b *Board) place(i int, c Color) bool {
	b.touch()
	defer b.verifyIfChecked()

	for _, q := range b.adj[i] {
		if id := b.owner[q]; b.clusters[id].isChain() {
			b.mutable(id).liberties.remove(i)
		}
	}
	b.carve(i)

	var libs pointSet
	var same, opposite []clusterID
	for _, q := range b.adj[i] {
		id := b.owner[q]
		switch cl := b.clusters[id]; {
		case cl.color == Empty:
			libs.add(q)
		case cl.color == c:
			same = appendUnique(same, id)
		default:
			opposite = appendUnique(opposite, id)
		}
	}

	var chain *cluster
	if len(same) == 0 {
		chain = b.newCluster(c)
	} else {
		chain = b.mutable(same[0])
		for _, id := range same[1:] {
			b.join(chain, id)
		}
	}
	chain.points.add(i)
	chain.liberties.union(&libs)
	chain.liberties.remove(i)
	b.owner[i] = chain.id

	libs.each(func(q int) { b.link(chain.id, b.owner[q]) })
	for _, id := range opposite {
		b.link(chain.id, id)
		if b.clusters[id].liberties.empty() {
			b.capture(id)
		}
	}

	if b.clusters[chain.id].liberties.empty() {
		b.capture(chain.id)
		return false
	}
	return true
}

func appendUnique(ids []clusterID, id clusterID) []clusterID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}
