package anthro

import (
	"encoding/json"
	"math"
)

// Vertex is a single 3D surface point in meters (site convention: the
// ingestion layer guarantees meter units before the core is called).
type Vertex struct {
	X, Y, Z float64
}

// Cloud is an ordered sequence of vertices. The core never mutates it and
// never depends on its ordering: all downstream processing is positional.
type Cloud []Vertex

// Coord returns the vertex coordinate along the given axis (0=X, 1=Y, 2=Z).
func (v Vertex) Coord(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Point2D is a point in the cross-section plane after the long-axis
// coordinate has been dropped.
type Point2D struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D { return Point2D{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance to q.
func (p Point2D) Dist(q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Less orders points lexicographically by (X, Y). Used for all positional
// tie-breaks so results never depend on input ordering.
func (p Point2D) Less(q Point2D) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Loop is an ordered closed polygon boundary. The last point connects
// implicitly back to the first; adjacent duplicates are merged before
// perimeter and area are computed.
type Loop []Point2D

// Component is a connected subset of a slice's 2D points, with the metrics
// the torso selector ranks on. Hull area and perimeter are computed from the
// component's convex hull so ranking never requires a reconstructed loop.
type Component struct {
	Points        []Point2D
	Centroid      Point2D
	CentroidDist  float64 // distance from Centroid to the slice's overall centroid
	HullArea      float64
	HullPerimeter float64
}

// MeasurementResult is the only object exposed across the module boundary.
// Value is NaN for geometry where the measurement is undefined; that is a
// first-class outcome, not an error.
type MeasurementResult struct {
	Key           Key      `json:"key"`
	Value         float64  `json:"-"`
	SectionID     string   `json:"section_id"`
	MethodTag     string   `json:"method_tag"`
	Warnings      []string `json:"warnings"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// Defined reports whether the measurement produced a value.
func (r MeasurementResult) Defined() bool { return !math.IsNaN(r.Value) }

// MarshalJSON emits circumference_m as null when the value is undefined,
// since NaN is not representable in JSON.
func (r MeasurementResult) MarshalJSON() ([]byte, error) {
	type alias MeasurementResult
	var v *float64
	if !math.IsNaN(r.Value) {
		v = &r.Value
	}
	return json.Marshal(struct {
		alias
		CircumferenceM *float64 `json:"circumference_m"`
	}{alias(r), v})
}

// UnmarshalJSON restores NaN from a null circumference_m.
func (r *MeasurementResult) UnmarshalJSON(data []byte) error {
	type alias MeasurementResult
	aux := struct {
		*alias
		CircumferenceM *float64 `json:"circumference_m"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.CircumferenceM != nil {
		r.Value = *aux.CircumferenceM
	} else {
		r.Value = math.NaN()
	}
	return nil
}
