package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// floodScore scores a position from its stones alone.
func floodScore(b *Board) int {
	size := b.Size()
	seen := make([]bool, size*size)
	score := 0
	for i := range seen {
		p := Point{X: i % size, Y: i / size}
		switch b.Stone(p) {
		case Black:
			score++
			continue
		case White:
			score--
			continue
		}
		if seen[i] {
			continue
		}
		region, touches := 0, map[Color]bool{}
		queue := []Point{p}
		seen[i] = true
		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]
			region++
			for _, d := range []Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				n := Point{X: q.X + d.X, Y: q.Y + d.Y}
				if !b.OnBoard(n) {
					continue
				}
				if c := b.Stone(n); c != Empty {
					touches[c] = true
				} else if j := n.Y*size + n.X; !seen[j] {
					seen[j] = true
					queue = append(queue, n)
				}
			}
		}
		switch {
		case touches[Black] && !touches[White]:
			score += region
		case touches[White] && !touches[Black]:
			score -= region
		}
	}
	return score
}

func TestChineseScore(t *testing.T) {
	t.Run("regions touching both colors count for nobody", func(t *testing.T) {
		b := diagram(t,
			".X.O.",
			".X.O.",
			".X.O.",
			".X.O.",
			".X.O.",
		)
		territory := make([]int, 25)

		require.Equal(t, 0, b.ChineseScore(territory))
		require.Equal(t, []int{1, 1, 0, -1, -1}, territory[:5])
	})

	t.Run("stones and surrounded points count for their color", func(t *testing.T) {
		b := diagram(t,
			".X...",
			"XX...",
			".....",
			"...OO",
			"...O.",
		)

		require.Equal(t, 4-4, b.ChineseScore(nil))
		b.Move(Point{2, 2}, Black)
		require.Equal(t, 1, b.ChineseScore(nil))
	})

	t.Run("the empty board scores zero", func(t *testing.T) {
		require.Equal(t, 0, NewBoard(19).ChineseScore(nil))
	})

	t.Run("cluster scoring matches a flood fill", func(t *testing.T) {
		for seed := uint64(100); seed < 110; seed++ {
			b := randomGame(9, 180, seed, nil)
			require.Equal(t, floodScore(b), b.ChineseScore(nil), "seed %d\n%v", seed, b)
		}
	})
}

func TestAtariCount(t *testing.T) {
	b := diagram(t,
		".X...",
		"XO...",
		".X...",
		".....",
		".....",
	)
	require.Equal(t, 1, b.AtariCount(White))
	require.Equal(t, 0, b.AtariCount(Black))

	t.Run("preview sees the capture and the escape", func(t *testing.T) {
		require.Equal(t, Effect{Legal: true, Captured: 1, Liberties: 4}, b.Preview(Point{2, 1}, Black))
		require.Equal(t, Effect{Legal: true, Liberties: 3, AtariDelta: -1}, b.Preview(Point{2, 1}, White))
		require.Equal(t, Effect{}, b.Preview(Point{1, 1}, Black))
	})

	t.Run("the cache follows moves", func(t *testing.T) {
		c := b.Clone()
		c.Move(Point{2, 1}, White)
		require.Equal(t, 0, c.AtariCount(White))
		require.Equal(t, 1, b.AtariCount(White))
	})
}
