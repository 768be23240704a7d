package game

import (
	"fmt"
	"math/bits"
)

// MaxSize is the largest supported board edge.
const MaxSize = 19

type Color int8

const (
	Empty Color = iota
	Black
	White
)

// Opposite swaps Black and White; Empty stays Empty.
func (c Color) Opposite() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Point is a board coordinate. X is the column and Y the row, both from 0.
type Point struct {
	X, Y int
}

// Pass is the sentinel point used for a pass move.
var Pass = Point{X: -1, Y: -1}

// Less orders points row-major.
func (p Point) Less(o Point) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

func (p Point) String() string {
	if p == Pass {
		return "pass"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

const setWords = (MaxSize*MaxSize + 63) / 64

// pointSet is a fixed-size bitset over point indices. It is a value type so
// copying a cluster copies its sets.
type pointSet [setWords]uint64

func (s *pointSet) add(i int)      { s[i>>6] |= 1 << uint(i&63) }
func (s *pointSet) remove(i int)   { s[i>>6] &^= 1 << uint(i&63) }
func (s *pointSet) has(i int) bool { return s[i>>6]&(1<<uint(i&63)) != 0 }

func (s *pointSet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s *pointSet) empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// first returns the smallest index in the set, or -1.
func (s *pointSet) first() int {
	for i, w := range s {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

func (s *pointSet) union(o *pointSet) {
	for i := range s {
		s[i] |= o[i]
	}
}

func (s *pointSet) intersect(o *pointSet) {
	for i := range s {
		s[i] &= o[i]
	}
}

// each calls fn for every index in ascending order.
func (s *pointSet) each(fn func(i int)) {
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(i*64 + b)
			w &= w - 1
		}
	}
}
