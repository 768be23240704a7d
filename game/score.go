package game

// ChineseScore counts stones plus surrounded empty regions, positive for
// Black. An eye counts for the color of every chain around it and for nobody
// when it touches both colors or none. When territory is not nil it receives
// +1, -1 or 0 per point, indexed y*size+x.
func (b *Board) ChineseScore(territory []int) int {
	score := 0
	for _, cl := range b.clusters {
		var c Color
		if cl.isChain() {
			c = cl.color
		} else {
			c = b.eyeColor(cl)
		}
		sign := 0
		switch c {
		case Black:
			sign = 1
		case White:
			sign = -1
		}
		score += sign * cl.size()
		if territory != nil {
			cl.points.each(func(i int) { territory[i] = sign })
		}
	}
	return score
}

// AtariCount is the number of stones of c in chains with a single liberty.
func (b *Board) AtariCount(c Color) int {
	if v := b.atari[c].Load(); v != 0 {
		return int(v - 1)
	}
	n := 0
	for _, cl := range b.clusters {
		if cl.color == c && cl.liberties.count() == 1 {
			n += cl.size()
		}
	}
	b.atari[c].Store(int64(n) + 1)
	return n
}
