package game

// Symmetry is one of the 8 symmetries of a square board.
type Symmetry uint8

const (
	Identity Symmetry = iota
	Rotate90
	Rotate180
	Rotate270
	FlipX // mirror left-right
	FlipY // mirror top-bottom
	Transpose
	AntiTranspose
)

var Symmetries = [...]Symmetry{
	Identity, Rotate90, Rotate180, Rotate270, FlipX, FlipY, Transpose, AntiTranspose,
}

// Apply maps p onto its image on a board of the given size.
func (s Symmetry) Apply(p Point, size int) Point {
	n := size - 1
	switch s {
	case Rotate90:
		return Point{X: n - p.Y, Y: p.X}
	case Rotate180:
		return Point{X: n - p.X, Y: n - p.Y}
	case Rotate270:
		return Point{X: p.Y, Y: n - p.X}
	case FlipX:
		return Point{X: n - p.X, Y: p.Y}
	case FlipY:
		return Point{X: p.X, Y: n - p.Y}
	case Transpose:
		return Point{X: p.Y, Y: p.X}
	case AntiTranspose:
		return Point{X: n - p.Y, Y: n - p.X}
	default:
		return p
	}
}

func (s Symmetry) String() string {
	return [...]string{
		"identity", "rotate90", "rotate180", "rotate270", "flipX", "flipY", "transpose", "antiTranspose",
	}[s]
}
