package anthro

// tiebreakEps is the absolute slack under which two components count as tied
// on a float criterion. Kept tight: real torso-vs-arm gaps are orders of
// magnitude larger.
const tiebreakEps = 1e-9

// torsoSelection records which component was chosen and how.
type torsoSelection struct {
	Component Component
	Index     int // rank among the sorted components, 0 = nearest centerline
	Total     int
	// Tiebreak names the deciding criterion when centroid distance alone was
	// ambiguous: "area", "perimeter" or "centroid". Empty when no tie.
	Tiebreak string
}

// selectTorso picks the component representing the anatomical region of
// interest: smallest centroid-to-centerline distance, ties broken in strict
// order by largest hull area, largest hull perimeter, lexicographically
// smallest centroid. Components arrive pre-sorted by exactly that order, so
// selection reduces to taking the head and naming which criterion decided
// against the runner-up.
func selectTorso(comps []Component) torsoSelection {
	sel := torsoSelection{Component: comps[0], Index: 0, Total: len(comps)}
	if len(comps) < 2 {
		return sel
	}

	a, b := comps[0], comps[1]
	if diff(a.CentroidDist, b.CentroidDist) > tiebreakEps {
		return sel
	}
	// Distance tied against the runner-up; report what decided.
	switch {
	case diff(a.HullArea, b.HullArea) > tiebreakEps:
		sel.Tiebreak = "area"
	case diff(a.HullPerimeter, b.HullPerimeter) > tiebreakEps:
		sel.Tiebreak = "perimeter"
	default:
		sel.Tiebreak = "centroid"
	}
	return sel
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
