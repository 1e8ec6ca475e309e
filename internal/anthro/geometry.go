package anthro

import (
	"math"
	"sort"
)

// centroidOf returns the arithmetic mean of a point set. Order-independent.
func centroidOf(points []Point2D) Point2D {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point2D{sx / n, sy / n}
}

// MergeAdjacent drops consecutive loop points closer than eps, including the
// wrap-around pair. Degenerate zero-length edges would otherwise inflate
// iteration counts without changing the geometry.
func MergeAdjacent(loop Loop, eps float64) Loop {
	if len(loop) < 2 {
		return loop
	}
	out := make(Loop, 0, len(loop))
	out = append(out, loop[0])
	for _, p := range loop[1:] {
		if p.Dist(out[len(out)-1]) > eps {
			out = append(out, p)
		}
	}
	// Wrap-around: last point folding onto the first is the same duplicate.
	for len(out) > 1 && out[len(out)-1].Dist(out[0]) <= eps {
		out = out[:len(out)-1]
	}
	return out
}

// Perimeter sums Euclidean edge lengths around the closed loop, wrapping to
// the first point.
func Perimeter(loop Loop) float64 {
	if len(loop) < 2 {
		return 0
	}
	var sum float64
	for i := range loop {
		sum += loop[i].Dist(loop[(i+1)%len(loop)])
	}
	return sum
}

// Area returns the absolute shoelace area of the closed loop.
func Area(loop Loop) float64 {
	if len(loop) < 3 {
		return 0
	}
	var sum float64
	for i := range loop {
		j := (i + 1) % len(loop)
		sum += loop[i].X*loop[j].Y - loop[j].X*loop[i].Y
	}
	return math.Abs(sum) / 2
}

// ConvexHull computes the convex hull via Andrew's monotone chain, returned
// in counter-clockwise order. Input order does not matter: points are sorted
// lexicographically first.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		out := make([]Point2D, len(points))
		copy(out, points)
		sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
		return out
	}

	pts := make([]Point2D, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Less(pts[j]) })

	// Drop exact duplicates so collinear runs cannot stall the chain.
	uniq := pts[:1]
	for _, p := range pts[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	lower := make([]Point2D, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]Point2D, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// sortByPolarAngle orders points by angle around their centroid, with radius
// and then lexicographic position breaking angular ties. Stable under any
// input permutation; correct for star-convex sets, which is the common case
// for body cross-sections.
func sortByPolarAngle(points []Point2D) []Point2D {
	c := centroidOf(points)
	out := make([]Point2D, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool {
		ai := math.Atan2(out[i].Y-c.Y, out[i].X-c.X)
		aj := math.Atan2(out[j].Y-c.Y, out[j].X-c.X)
		if ai != aj {
			return ai < aj
		}
		ri := out[i].Dist(c)
		rj := out[j].Dist(c)
		if ri != rj {
			return ri < rj
		}
		return out[i].Less(out[j])
	})
	return out
}
