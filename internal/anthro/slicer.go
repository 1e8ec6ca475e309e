package anthro

import "sort"

// SliceBand is the subset of a cloud inside one height interval, projected
// to the cross-section plane. Ephemeral: one per candidate height.
type SliceBand struct {
	Height    float64
	Tolerance float64
	Points    []Point2D
}

// SliceAt selects the vertices whose coordinate along axis lies within
// [h-tol, h+tol] and drops the axis coordinate. Only band members are ever
// touched downstream, so per-candidate cost tracks local point density
// rather than total cloud size.
func SliceAt(cloud Cloud, axis AxisEstimate, h, tol float64) SliceBand {
	lo, hi := h-tol, h+tol
	band := SliceBand{Height: h, Tolerance: tol}
	for _, v := range cloud {
		c := v.Coord(axis.Axis)
		if c < lo || c > hi {
			continue
		}
		band.Points = append(band.Points, project(v, axis.Axis))
	}
	// Canonical order: everything downstream accumulates over band points,
	// so sorting here makes results bit-identical under input permutation.
	sort.Slice(band.Points, func(i, j int) bool { return band.Points[i].Less(band.Points[j]) })
	return band
}

// project drops the long-axis coordinate, keeping the remaining two in
// ascending dimension order so the projection is stable for every axis.
func project(v Vertex, axis int) Point2D {
	switch axis {
	case 0:
		return Point2D{v.Y, v.Z}
	case 1:
		return Point2D{v.X, v.Z}
	default:
		return Point2D{v.X, v.Y}
	}
}

// diagonal returns the bounding-box diagonal of the band's points, the base
// length for the relative connectivity threshold.
func (b SliceBand) diagonal() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	min, max := b.Points[0], b.Points[0]
	for _, p := range b.Points {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return Point2D{max.X, max.Y}.Dist(Point2D{min.X, min.Y})
}
