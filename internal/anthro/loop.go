package anthro

import (
	"hash/fnv"
	"math"
	"sort"
)

// boundaryAttempt is the outcome of running the reconstruction chain on one
// component: either a loop plus the method that produced it, or the failure
// code of the last strategy attempted.
type boundaryAttempt struct {
	Loop     Loop
	Method   string
	AlphaK   int // recorded when an alpha strategy produced the loop
	FailCode string
}

// boundaryStrategy is one named, pure reconstruction step. Strategies grew
// out of an ad hoc conditional chain; keeping them as an ordered table makes
// "which method was attempted and why" an inspectable value.
type boundaryStrategy struct {
	name string
	run  func(pts []Point2D, p Params, alphaK int) (Loop, string)
	// lastResort relaxes the minimum boundary-point validation: the hull
	// approximation is accepted down to a bare triangle.
	lastResort bool
}

var boundaryChain = []boundaryStrategy{
	{name: MethodPolarSort, run: runPolarSort},
	{name: MethodAlphaShape, run: runAlphaShape},
	{name: MethodAlphaShapeWide, run: runAlphaShapeWide},
	{name: MethodClusterTrim, run: runClusterTrim},
	{name: MethodConvexHull, run: runConvexHull, lastResort: true},
}

// reconstructLoop runs the fallback chain over the selected component. The
// first strategy whose output survives validation wins; its name is the
// case's single method tag. alphaK is derived from a stable hash of the case
// identifier so reruns reproduce the same boundary.
func reconstructLoop(comp Component, p Params, caseID string) boundaryAttempt {
	alphaK := alphaKFor(caseID, p)
	att := boundaryAttempt{FailCode: AlphaFailTooFewComponentPoints}
	for _, s := range boundaryChain {
		loop, failCode := runRecovered(s, comp.Points, p, alphaK)
		if failCode != "" {
			att.FailCode = failCode
			continue
		}
		loop = MergeAdjacent(loop, p.MergeEpsilonMeters)
		minPoints := p.MinLoopPoints
		if s.lastResort || minPoints < 3 {
			minPoints = 3
		}
		if len(loop) < minPoints {
			att.FailCode = AlphaFailTooFewBoundaryPoints
			continue
		}
		att.Loop = loop
		att.Method = s.name
		att.FailCode = ""
		if s.name == MethodAlphaShape || s.name == MethodAlphaShapeWide {
			att.AlphaK = alphaK
		}
		return att
	}
	return att
}

// runRecovered executes one strategy, converting a panic into the
// stage-specific exception code. Geometric degeneracy is data, not a crash.
func runRecovered(s boundaryStrategy, pts []Point2D, p Params, alphaK int) (loop Loop, failCode string) {
	defer func() {
		if r := recover(); r != nil {
			loop = nil
			failCode = AlphaFailException
		}
	}()
	return s.run(pts, p, alphaK)
}

// alphaKFor derives the neighbour count for the alpha boundary from a stable
// hash of the case identifier. Deterministic per case, never randomized.
func alphaKFor(caseID string, p Params) int {
	span := p.AlphaKMax - p.AlphaKMin
	if span <= 0 {
		return p.AlphaKMin
	}
	h := fnv.New32a()
	h.Write([]byte(caseID))
	return p.AlphaKMin + int(h.Sum32()%uint32(span+1))
}

//
// Primary: polar-angle ordering.
//

func runPolarSort(pts []Point2D, p Params, _ int) (Loop, string) {
	if len(pts) < p.MinSlicePoints {
		return nil, AlphaFailTooFewSlicePoints
	}
	if len(pts) < p.MinComponentPoints {
		return nil, AlphaFailTooFewComponentPoints
	}
	return Loop(sortByPolarAngle(pts)), ""
}

//
// Fallback 1: k-nearest-neighbour concave boundary.
//

// runAlphaShape walks the outer boundary of the component's k-nearest-
// neighbour graph: from the lowest point, repeatedly take the neighbour with
// the sharpest clockwise turn that does not cross an existing boundary edge.
// Better silhouette fidelity than a convex hull on concave cross-sections.
func runAlphaShape(pts []Point2D, p Params, alphaK int) (Loop, string) {
	if len(pts) < p.MinSlicePoints {
		return nil, AlphaFailTooFewSlicePoints
	}
	uniq := dedupePoints(pts)
	if len(uniq) < p.MinComponentPoints {
		return nil, AlphaFailTooFewComponentPoints
	}

	for k := alphaK; k <= p.AlphaKMax; k++ {
		if loop := concaveHull(uniq, k); len(loop) >= 3 {
			return loop, ""
		}
	}
	return nil, AlphaFailTooFewBoundaryPoints
}

// concaveHull is a Moreira-Santos style k-nearest-neighbour hull. Returns
// nil when the walk cannot close, which the caller treats as a failed
// attempt at this k.
func concaveHull(pts []Point2D, k int) Loop {
	if k >= len(pts) {
		k = len(pts) - 1
	}
	if k < 3 {
		return nil
	}

	start := lowestPoint(pts)
	hull := Loop{start}
	used := map[Point2D]bool{start: true}
	current := start
	prevAngle := 0.0 // walk begins heading along +X

	maxSteps := 4 * len(pts)
	for step := 0; step < maxSteps; step++ {
		if step >= 3 {
			used[start] = false // allow closing back onto the start
		}
		cands := nearestNeighbors(pts, current, k, used)
		if len(cands) == 0 {
			return nil
		}
		sortByTurnAngle(cands, current, prevAngle)

		var next Point2D
		found := false
		for _, cand := range cands {
			if cand == start && step >= 3 {
				next = cand
				found = true
				break
			}
			if !segmentCrossesHull(current, cand, hull) {
				next = cand
				found = true
				break
			}
		}
		if !found {
			return nil
		}
		if next == start {
			return hull
		}
		prevAngle = math.Atan2(current.Y-next.Y, current.X-next.X)
		hull = append(hull, next)
		used[next] = true
		current = next
	}
	return nil
}

func lowestPoint(pts []Point2D) Point2D {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}

// nearestNeighbors returns up to k unused points closest to from, with
// distance ties broken lexicographically for reproducibility.
func nearestNeighbors(pts []Point2D, from Point2D, k int, used map[Point2D]bool) []Point2D {
	cands := make([]Point2D, 0, len(pts))
	for _, p := range pts {
		if p == from || used[p] {
			continue
		}
		cands = append(cands, p)
	}
	sort.Slice(cands, func(i, j int) bool {
		di, dj := cands[i].Dist(from), cands[j].Dist(from)
		if di != dj {
			return di < dj
		}
		return cands[i].Less(cands[j])
	})
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands
}

// sortByTurnAngle orders candidates by descending clockwise turn from the
// previous walk direction, so the walk hugs the outside of the point set.
func sortByTurnAngle(cands []Point2D, current Point2D, prevAngle float64) {
	turn := func(p Point2D) float64 {
		a := math.Atan2(p.Y-current.Y, p.X-current.X) - prevAngle
		for a < 0 {
			a += 2 * math.Pi
		}
		return a
	}
	sort.Slice(cands, func(i, j int) bool {
		ti, tj := turn(cands[i]), turn(cands[j])
		if ti != tj {
			return ti > tj
		}
		return cands[i].Less(cands[j])
	})
}

// segmentCrossesHull reports whether current->cand properly intersects any
// existing boundary edge (shared endpoints excluded).
func segmentCrossesHull(current, cand Point2D, hull Loop) bool {
	for i := 0; i+1 < len(hull); i++ {
		a, b := hull[i], hull[i+1]
		if a == current || b == current || a == cand || b == cand {
			continue
		}
		if segmentsIntersect(current, cand, a, b) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Point2D) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

//
// Fallback 2: graph boundary with an upper-percentile distance threshold.
//

// runAlphaShapeWide marks interior points as those unusually well surrounded
// under a widened proximity threshold (the upper percentile of per-point
// nearest-neighbour spacing), keeps the rest as boundary and orders them by
// polar angle.
func runAlphaShapeWide(pts []Point2D, p Params, alphaK int) (Loop, string) {
	if len(pts) < p.MinSlicePoints {
		return nil, AlphaFailTooFewSlicePoints
	}
	uniq := dedupePoints(pts)
	if len(uniq) < p.MinComponentPoints {
		return nil, AlphaFailTooFewComponentPoints
	}

	eps := neighborSpacingQuantile(uniq, p.WidePercentile)
	if eps <= 0 {
		return nil, AlphaFailTooFewBoundaryPoints
	}
	gi := newGridIndex(uniq, eps)
	degrees := make([]int, len(uniq))
	total := 0
	for i := range uniq {
		degrees[i] = len(gi.neighbors(uniq, i, eps)) - 1
		total += degrees[i]
	}
	avg := float64(total) / float64(len(uniq))

	boundary := make([]Point2D, 0, len(uniq))
	for i, d := range degrees {
		if float64(d) <= avg {
			boundary = append(boundary, uniq[i])
		}
	}
	if len(boundary) < 3 {
		return nil, AlphaFailTooFewBoundaryPoints
	}
	return Loop(sortByPolarAngle(boundary)), ""
}

// neighborSpacingQuantile returns the q-quantile of each point's nearest-
// neighbour distance.
func neighborSpacingQuantile(pts []Point2D, q float64) float64 {
	if len(pts) < 2 {
		return 0
	}
	spacings := make([]float64, 0, len(pts))
	for i, p := range pts {
		best := math.Inf(1)
		for j, o := range pts {
			if i == j {
				continue
			}
			if d := p.Dist(o); d < best {
				best = d
			}
		}
		spacings = append(spacings, best)
	}
	sort.Float64s(spacings)
	idx := int(q * float64(len(spacings)-1))
	return spacings[idx]
}

//
// Fallback 3: density trim, then re-order.
//

// runClusterTrim discards peripheral noise (points with too few neighbours
// within the median spacing scale), keeps the single largest remaining
// cluster and re-attempts polar ordering on the trimmed set.
func runClusterTrim(pts []Point2D, p Params, _ int) (Loop, string) {
	if len(pts) < p.MinSlicePoints {
		return nil, AlphaFailTooFewSlicePoints
	}
	uniq := dedupePoints(pts)
	if len(uniq) < p.MinComponentPoints {
		return nil, AlphaFailTooFewComponentPoints
	}

	// Neighbourhood scale: double the median nearest-neighbour spacing.
	eps := 2 * neighborSpacingQuantile(uniq, 0.5)
	if eps <= 0 {
		return nil, AlphaFailTooFewBoundaryPoints
	}
	gi := newGridIndex(uniq, eps)
	kept := make([]Point2D, 0, len(uniq))
	for i := range uniq {
		if len(gi.neighbors(uniq, i, eps))-1 >= p.TrimMinNeighbors {
			kept = append(kept, uniq[i])
		}
	}
	if len(kept) < 3 {
		return nil, AlphaFailTooFewBoundaryPoints
	}

	comps := SeparateComponents(kept, eps)
	largest := comps[0]
	for _, c := range comps[1:] {
		if len(c.Points) > len(largest.Points) {
			largest = c
		}
	}
	if len(largest.Points) < 3 {
		return nil, AlphaFailTooFewBoundaryPoints
	}
	return Loop(sortByPolarAngle(largest.Points)), ""
}

//
// Last resort: convex hull.
//

// runConvexHull approximates the boundary by the component's convex hull.
// Known to overestimate on concave cross-sections; the driver flags its use
// so the value is never mistaken for a primary result.
func runConvexHull(pts []Point2D, p Params, _ int) (Loop, string) {
	if len(pts) < p.MinSlicePoints {
		return nil, AlphaFailTooFewSlicePoints
	}
	hull := ConvexHull(pts)
	if len(hull) < 3 {
		return nil, AlphaFailTooFewBoundaryPoints
	}
	return Loop(hull), ""
}

// dedupePoints removes exact duplicates, order-independently.
func dedupePoints(pts []Point2D) []Point2D {
	out := make([]Point2D, len(pts))
	copy(out, pts)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	uniq := out[:0]
	for i, p := range out {
		if i == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	return uniq
}
