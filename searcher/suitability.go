package searcher

import "goban/game"

// calculateStaticSuitability scores the move p for the player to move at n.
// Zero means the move is never played: illegal, filling a real eye for
// nothing, or filling a mid-sized eye of a living group.
func (n *Node) calculateStaticSuitability(p game.Point) float64 {
	h := n.tree.heuristics
	b := n.Board()
	mover := n.color.Opposite()

	effect := b.Preview(p, mover)
	if !effect.Legal {
		return 0
	}
	saved := -effect.AtariDelta
	if effect.Captured == 0 && saved <= 0 && b.IsRealEye(p, mover) {
		return 0
	}

	s := 1 + h.CaptureWeight*float64(effect.Captured)
	if saved > 0 {
		s += h.SaveWeight * float64(saved)
	} else if saved < 0 && h.SelfAtariScale > 0 {
		s /= h.SelfAtariScale * float64(-saved)
	}
	if miai, ok := n.miaiPoint(); ok && miai == p {
		s += h.MiaiBonus
	}

	if h.MaxEyeSize <= 0 {
		return s
	}
	eye, ok := b.EyeAt(p)
	if !ok || eye.Group == nil {
		return s
	}
	if eye.Group.IsAlive() {
		if h.MinEyeFill < eye.Size && eye.Size < h.MaxEyeSize {
			return 0
		}
		return s / float64(eye.Size)
	}
	if eye.Size < h.MaxEyeSize && h.VitalPoint != nil && h.VitalPoint(b, p, mover) {
		s *= h.VitalPointBoost
	}
	return s
}
