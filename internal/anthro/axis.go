package anthro

// axisNames maps the coordinate dimension index to the tag recorded in
// section IDs.
var axisNames = [3]string{"x", "y", "z"}

// AxisEstimate describes the body's long axis and its extent.
type AxisEstimate struct {
	Axis   int // 0=X, 1=Y, 2=Z
	Min    float64
	Max    float64
	Extent float64
}

// Name returns the axis tag ("x", "y" or "z") used in section IDs.
func (a AxisEstimate) Name() string { return axisNames[a.Axis] }

// EstimateAxis picks the coordinate dimension with the largest extent as the
// body's long axis. Degeneracy (near-zero extent) is the caller's decision:
// the estimate is returned regardless so the chosen axis can still be
// recorded in the failure's section ID.
func EstimateAxis(cloud Cloud) AxisEstimate {
	var mins, maxs [3]float64
	for d := 0; d < 3; d++ {
		mins[d] = cloud[0].Coord(d)
		maxs[d] = mins[d]
	}
	for _, v := range cloud {
		for d := 0; d < 3; d++ {
			c := v.Coord(d)
			if c < mins[d] {
				mins[d] = c
			}
			if c > maxs[d] {
				maxs[d] = c
			}
		}
	}

	best := 0
	for d := 1; d < 3; d++ {
		if maxs[d]-mins[d] > maxs[best]-mins[best] {
			best = d
		}
	}
	return AxisEstimate{
		Axis:   best,
		Min:    mins[best],
		Max:    maxs[best],
		Extent: maxs[best] - mins[best],
	}
}
