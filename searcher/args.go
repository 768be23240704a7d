package searcher

import "goban/game"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// Rewards from the perspective of the player who made a node's move
const (
	Win  = 1.0
	Loss = -Win
	Draw = 0.0
)

// BestChildVisitFraction is the share of the most visited child's visits a
// child needs before its mean value can make it the best move.
const BestChildVisitFraction = 0.5

// RolloutFactor times the number of points caps the length of a rollout.
const RolloutFactor = 3

// VitalPointFunc reports whether c playing p attacks or defends the eye shape
// around p.
type VitalPointFunc func(b *game.Board, p game.Point, c game.Color) bool

// Heuristics weights the static suitability of a move, which biases rollouts
// and orders unvisited children.
type Heuristics struct {
	CaptureWeight  float64 // Per opponent stone captured
	SaveWeight     float64 // Per own stone taken out of atari
	SelfAtariScale float64 // Divides the score per own stone put into atari, 0 disables
	MiaiBonus      float64 // Answering the opponent's miai

	// Eyes of living groups with MinEyeFill < size < MaxEyeSize are never
	// filled. Eyes of unsettled groups smaller than MaxEyeSize are boosted on
	// vital points. A zero MaxEyeSize disables both rules.
	MinEyeFill      int
	MaxEyeSize      int
	VitalPointBoost float64
	VitalPoint      VitalPointFunc

	UnvisitedPriority float64 // Added to the suitability of unvisited children
	PassSuitability   float64
}

func AnyVitalPoint(*game.Board, game.Point, game.Color) bool { return true }

func DefaultHeuristics() Heuristics {
	return Heuristics{
		CaptureWeight:     2,
		SaveWeight:        2,
		SelfAtariScale:    1,
		MiaiBonus:         2,
		MinEyeFill:        1,
		MaxEyeSize:        7,
		VitalPointBoost:   2,
		VitalPoint:        AnyVitalPoint,
		UnvisitedPriority: 1000,
		PassSuitability:   0,
	}
}

// UniformHeuristics ignores tactics: every legal move that does not fill a
// real eye is equally likely.
func UniformHeuristics() Heuristics {
	return Heuristics{
		VitalPoint:        AnyVitalPoint,
		UnvisitedPriority: 1000,
	}
}
