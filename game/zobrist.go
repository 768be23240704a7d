package game

import "golang.org/x/exp/rand"

// DefaultSeed seeds DefaultZobrist so hashes are reproducible across runs.
const DefaultSeed = 0x60_1d_5e_ed

const (
	hashBits  = 25
	hashMask  = 1<<hashBits - 1
	countMask = 0x7f
)

// Zobrist holds one random 32-bit value per point of the largest board. It is
// never modified after construction and can be shared by any number of
// boards.
type Zobrist struct {
	values [MaxSize * MaxSize]uint32
}

var DefaultZobrist = NewZobrist(DefaultSeed)

func NewZobrist(seed uint64) *Zobrist {
	r := rand.New(rand.NewSource(seed))
	z := &Zobrist{}
	for i := range z.values {
		z.values[i] = r.Uint32()
	}
	return z
}

func (z *Zobrist) value(p Point) uint32 {
	return z.values[p.Y*MaxSize+p.X]
}

// hash sums the point values of every stone after applying s, adding for
// Black and subtracting for White. The low 25 bits keep the sum and the high
// 7 bits the stone count, so positions of very different density rarely
// collide.
func (z *Zobrist) hash(b *Board, s Symmetry) uint32 {
	var sum uint32
	count := 0
	for i, id := range b.owner {
		c := b.clusters[id].color
		if c == Empty {
			continue
		}
		v := z.value(s.Apply(b.point(i), b.size))
		if c == Black {
			sum += v
		} else {
			sum -= v
		}
		count++
	}
	return sum&hashMask | uint32(count&countMask)<<hashBits
}
