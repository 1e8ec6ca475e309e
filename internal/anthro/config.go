package anthro

// Defaults for the measurement pipeline. These are empirical tuning values,
// not derived constants; internal/config can override every one of them.
const (
	// DefaultSliceTolFraction sets the slice band half-width as a fraction of
	// the estimated axis extent.
	DefaultSliceTolFraction = 0.01
	// DefaultConnectivityFraction sets the proximity-graph edge threshold as
	// a fraction of the slice bounding-box diagonal.
	DefaultConnectivityFraction = 0.08
	// DefaultMinConnectivityMeters floors the proximity threshold so very
	// tight slices still connect adjacent scan rings.
	DefaultMinConnectivityMeters = 0.01
	// DefaultMinSlicePoints is the minimum band population below which a
	// candidate is degenerate.
	DefaultMinSlicePoints = 3
	// DefaultMinLoopPoints is the minimum boundary size a strategy must
	// produce to be accepted.
	DefaultMinLoopPoints = 8
	// DefaultMinComponentPoints is the minimum component size the boundary
	// strategies will attempt.
	DefaultMinComponentPoints = 3
	// DefaultCandidateHeights is the number of evenly spaced heights the
	// selector evaluates inside a key's region.
	DefaultCandidateHeights = 9
	// DefaultMergeEpsilonMeters merges near-duplicate consecutive loop points
	// before perimeter summation.
	DefaultMergeEpsilonMeters = 1e-6
	// DefaultMinAxisExtentMeters is the extent below which a body is
	// degenerate.
	DefaultMinAxisExtentMeters = 0.01
	// DefaultMaxPlausibleExtentMeters and DefaultMinPlausibleExtentMeters
	// bound a human body in meters; extents outside trigger a unit-scale
	// warning, never a correction.
	DefaultMaxPlausibleExtentMeters = 3.0
	DefaultMinPlausibleExtentMeters = 0.1
	// DefaultAmbiguityRelEps is the relative perimeter distance under which
	// two height candidates count as statistically equidistant from the
	// selection target.
	DefaultAmbiguityRelEps = 0.002
	// DefaultAlphaKMin and DefaultAlphaKMax bound the k-nearest-neighbour
	// parameter the alpha boundary derives per case.
	DefaultAlphaKMin = 5
	DefaultAlphaKMax = 12
	// DefaultWidePercentile is the neighbour-distance percentile the
	// secondary boundary builder uses as its edge threshold.
	DefaultWidePercentile = 0.9
	// DefaultTrimMinNeighbors is the neighbour count below which the
	// cluster/trim strategy discards a point as peripheral noise.
	DefaultTrimMinNeighbors = 2
)

// Params carries every threshold used by a measurement call. Calls never
// read mutable package state, so identical Params give identical results
// across goroutines and processes.
type Params struct {
	SliceTolFraction         float64
	ConnectivityFraction     float64
	MinConnectivityMeters    float64
	MinSlicePoints           int
	MinLoopPoints            int
	MinComponentPoints       int
	CandidateHeights         int
	MergeEpsilonMeters       float64
	MinAxisExtentMeters      float64
	MaxPlausibleExtentMeters float64
	MinPlausibleExtentMeters float64
	AmbiguityRelEps          float64
	AlphaKMin                int
	AlphaKMax                int
	WidePercentile           float64
	TrimMinNeighbors         int

	// Regions overrides the built-in per-key policy table when non-nil.
	Regions map[Key]Policy
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		SliceTolFraction:         DefaultSliceTolFraction,
		ConnectivityFraction:     DefaultConnectivityFraction,
		MinConnectivityMeters:    DefaultMinConnectivityMeters,
		MinSlicePoints:           DefaultMinSlicePoints,
		MinLoopPoints:            DefaultMinLoopPoints,
		MinComponentPoints:       DefaultMinComponentPoints,
		CandidateHeights:         DefaultCandidateHeights,
		MergeEpsilonMeters:       DefaultMergeEpsilonMeters,
		MinAxisExtentMeters:      DefaultMinAxisExtentMeters,
		MaxPlausibleExtentMeters: DefaultMaxPlausibleExtentMeters,
		MinPlausibleExtentMeters: DefaultMinPlausibleExtentMeters,
		AmbiguityRelEps:          DefaultAmbiguityRelEps,
		AlphaKMin:                DefaultAlphaKMin,
		AlphaKMax:                DefaultAlphaKMax,
		WidePercentile:           DefaultWidePercentile,
		TrimMinNeighbors:         DefaultTrimMinNeighbors,
	}
}

// policy returns the effective policy for a key, honouring overrides.
func (p Params) policy(key Key) (Policy, bool) {
	if p.Regions != nil {
		if pol, ok := p.Regions[key]; ok {
			return pol, true
		}
	}
	pol, ok := defaultPolicies[key]
	return pol, ok
}
