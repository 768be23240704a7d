package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZobristHash(t *testing.T) {
	t.Run("the same position hashes the same however it was reached", func(t *testing.T) {
		a := NewBoard(9)
		a.Move(Point{2, 2}, Black)
		a.Move(Point{6, 6}, White)
		b := NewBoard(9)
		b.Move(Point{6, 6}, White)
		b.Move(Point{2, 2}, Black)

		require.Equal(t, a.ZobristHash(), b.ZobristHash())
		require.NotEqual(t, NewBoard(9).ZobristHash(), a.ZobristHash())
	})

	t.Run("the stone count sits in the high bits", func(t *testing.T) {
		b := randomGame(9, 40, 11, nil)
		require.Equal(t, uint32(b.StoneCount()&countMask), b.ZobristHash()>>hashBits)
	})

	t.Run("tables from the same seed agree", func(t *testing.T) {
		require.Equal(t, NewZobrist(5), NewZobrist(5))
		require.NotEqual(t, NewZobrist(5), NewZobrist(6))
	})

	t.Run("the hash changes with a move and is restored by a clone", func(t *testing.T) {
		b := randomGame(9, 20, 12, nil)
		hash := b.ZobristHash()
		c := b.Clone()
		require.Equal(t, hash, c.ZobristHash())

		c.Move(c.EmptyPoints()[0], Black)

		require.NotEqual(t, hash, c.ZobristHash())
		require.Equal(t, hash, b.ZobristHash())
	})
}

func TestSymmetry(t *testing.T) {
	t.Run("every symmetry is a bijection of the board", func(t *testing.T) {
		for _, s := range Symmetries {
			seen := map[Point]bool{}
			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					q := s.Apply(Point{x, y}, 5)
					require.True(t, q.X >= 0 && q.X < 5 && q.Y >= 0 && q.Y < 5, "%v moves %v off the board", s, Point{x, y})
					seen[q] = true
				}
			}
			require.Len(t, seen, 25, s.String())
		}
	})

	t.Run("four quarter turns are the identity", func(t *testing.T) {
		p := Point{1, 3}
		q := p
		for i := 0; i < 4; i++ {
			q = Rotate90.Apply(q, 7)
		}
		require.Equal(t, p, q)
		require.Equal(t, Rotate180.Apply(p, 7), Rotate90.Apply(Rotate90.Apply(p, 7), 7))
	})

	t.Run("the canonical hash is shared by all eight images", func(t *testing.T) {
		for seed := uint64(20); seed < 25; seed++ {
			b := randomGame(9, 50, seed, nil)
			for _, s := range Symmetries {
				image := b.Transform(s)
				require.Equal(t, b.CanonicalHash(), image.CanonicalHash(), s.String())
				require.True(t, b.EqualUnder(image, s), s.String())
				require.True(t, b.Equivalent(image), s.String())
				require.Equal(t, b.ChineseScore(nil), image.ChineseScore(nil))
				require.NoError(t, image.Verify())
			}
		}
	})

	t.Run("different positions are not equivalent", func(t *testing.T) {
		a := NewBoard(9)
		a.Move(Point{2, 2}, Black)
		b := NewBoard(9)
		b.Move(Point{2, 3}, Black)
		c := NewBoard(9)
		c.Move(Point{6, 6}, Black)

		require.False(t, a.Equivalent(b))
		require.True(t, a.Equivalent(c))
		require.False(t, a.EqualUnder(c, Identity))
		require.False(t, a.Equivalent(NewBoard(7)))
	})
}
