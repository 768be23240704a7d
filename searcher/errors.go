package searcher

import "github.com/pkg/errors"

// ErrSearchExhausted is returned when a rollout reaches the move ceiling
// without two passes in a row.
var ErrSearchExhausted = errors.New("rollout exceeded the move ceiling")

// ExhaustionPolicy decides what a rollout that reaches the move ceiling
// means.
type ExhaustionPolicy int

const (
	// FailOnExhaustion aborts the search with ErrSearchExhausted.
	FailOnExhaustion ExhaustionPolicy = iota
	// ScoreOnExhaustion scores the truncated game as if it had ended.
	ScoreOnExhaustion
)

func (p ExhaustionPolicy) String() string {
	if p == ScoreOnExhaustion {
		return "score"
	}
	return "fail"
}

// ParseExhaustionPolicy reads the String form of a policy.
func ParseExhaustionPolicy(s string) (ExhaustionPolicy, error) {
	switch s {
	case "", "fail":
		return FailOnExhaustion, nil
	case "score":
		return ScoreOnExhaustion, nil
	default:
		return FailOnExhaustion, errors.Errorf("unknown exhaustion policy %q", s)
	}
}
