package game

import (
	"strings"

	"github.com/pkg/errors"
)

// String draws the board one row per line: X for Black, O for White, . for
// empty points.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			switch b.Stone(Point{X: x, Y: y}) {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseDiagram builds a board from rows drawn like String. B and W are read
// as X and O, spaces are ignored.
func ParseDiagram(rows []string, options ...Option) (*Board, error) {
	stones := make([][]Color, len(rows))
	for y, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		stones[y] = make([]Color, len(row))
		for x, r := range row {
			switch r {
			case '.', '+':
				stones[y][x] = Empty
			case 'X', 'B', 'x':
				stones[y][x] = Black
			case 'O', 'W', 'o':
				stones[y][x] = White
			default:
				return nil, errors.Errorf("row %d: unexpected %q", y, r)
			}
		}
	}
	return NewBoardFromStones(stones, options...)
}
