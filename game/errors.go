package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutOfBounds = errors.New("point is off the board")
	ErrOccupied    = errors.New("point is occupied")
	ErrSuicide     = errors.New("move is suicide")
)

// InvariantError reports a cluster model inconsistency. It always means a
// bug in this package.
type InvariantError struct {
	At     Point
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("cluster invariant broken at %v: %s", e.At, e.Reason)
}
