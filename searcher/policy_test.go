package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUCT(t *testing.T) {
	t.Run("a parent needs visits", func(t *testing.T) {
		require.Panics(t, func() { newUCT(CSquared, 0) })
	})

	t.Run("a child needs visits or pending visits", func(t *testing.T) {
		require.Panics(t, func() { newUCT(CSquared, 10).score(0, 0, 0) })
		require.NotPanics(t, func() { newUCT(CSquared, 10).score(0, 0, 1) })
	})

	t.Run("scores the offset mean plus the exploration bonus", func(t *testing.T) {
		got := newUCT(CSquared, 100).score(5, 10, 0)

		expected := 1 + 5.0/10 + math.Sqrt(CSquared*math.Log(100)/10)
		require.InDelta(t, expected, got, 1e-9)
	})

	t.Run("a single parent visit leaves only the mean", func(t *testing.T) {
		require.Equal(t, 1+Loss, newUCT(CSquared, 1).score(Loss, 1, 0))
		require.Equal(t, 1+Win, newUCT(CSquared, 1).score(Win, 1, 0))
	})

	t.Run("pending visits count as losses", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.InDelta(t, policy.score(5+2*Loss, 12, 0), policy.score(5, 10, 2), 1e-9)
		require.Less(t, policy.score(5, 10, 2), policy.score(5, 10, 0))
	})

	t.Run("exploration grows with the parent and shrinks with the child", func(t *testing.T) {
		require.Greater(t, newUCT(CSquared, 1000).score(5, 10, 0), newUCT(CSquared, 100).score(5, 10, 0))
		require.Greater(t, newUCT(CSquared, 100).score(5, 10, 0), newUCT(CSquared, 100).score(10, 20, 0))
	})
}
