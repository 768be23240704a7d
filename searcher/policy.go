package searcher

import "math"

// uct ranks the visited children of one parent during selection.
type uct struct {
	exploration float64 // c^2 * ln(N)
}

// newUCT prepares the ranking for a parent whose children were visited
// parentVisits times in total, pending visits included.
func newUCT(cSquared float64, parentVisits float64) *uct {
	if parentVisits == 0 {
		panic("cannot compute UCT: parent has 0 visits")
	}
	return &uct{exploration: cSquared * math.Log(parentVisits)}
}

// score is 1 + q/n + sqrt(c^2*ln(N)/n), where each of the pending visits of
// workers still inside the child counts as a loss in both q and n.
func (u *uct) score(reward float64, visits, pending int64) float64 {
	n := float64(visits + pending)
	if n == 0 {
		panic("cannot compute UCT: child has 0 visits")
	}
	q := reward + float64(pending)*Loss
	return 1 + q/n + math.Sqrt(u.exploration/n)
}
