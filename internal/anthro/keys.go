package anthro

// Key identifies one of the supported circumference measurements.
type Key string

const (
	KeyNeck      Key = "NECK"
	KeyBust      Key = "BUST"
	KeyUnderbust Key = "UNDERBUST"
	KeyWaist     Key = "WAIST"
	KeyHip       Key = "HIP"
	KeyThigh     Key = "THIGH"
	// KeyChest is the legacy mid-thoracic band kept for back-compat with
	// earlier datasets.
	KeyChest Key = "CHEST"
)

// Keys lists every supported measurement key in canonical order.
var Keys = []Key{KeyNeck, KeyBust, KeyUnderbust, KeyWaist, KeyHip, KeyThigh, KeyChest}

// Valid reports whether k is a known measurement key.
func (k Key) Valid() bool {
	_, ok := defaultPolicies[k]
	return ok
}

// Statistic selects the canonical candidate among a region's valid heights.
type Statistic string

const (
	// StatMedian picks the structurally stable middle perimeter.
	StatMedian Statistic = "median"
	// StatMax picks the volume extremum.
	StatMax Statistic = "max"
	// StatMin picks the narrowest point.
	StatMin Statistic = "min"
)

// Policy is the per-key selection record: a coarse height-fraction band to
// search (fractions of the axis extent measured from its minimum) and the
// statistic applied over candidate perimeters. Region gating is deliberately
// coarse; it never depends on anatomical landmarks or vertex indices.
type Policy struct {
	LowFraction  float64
	HighFraction float64
	Statistic    Statistic
	// ExpectMultiComponent marks regions where limb/torso separation is the
	// normal case (arms beside the upper torso); a single component there is
	// flagged SINGLE_COMPONENT_ONLY.
	ExpectMultiComponent bool
}

// defaultPolicies is the tagged configuration table the selector dispatches
// on. Band placements are empirical fractions of standing height, not
// landmark positions.
var defaultPolicies = map[Key]Policy{
	KeyNeck:      {LowFraction: 0.80, HighFraction: 0.88, Statistic: StatMedian},
	KeyBust:      {LowFraction: 0.68, HighFraction: 0.76, Statistic: StatMax, ExpectMultiComponent: true},
	KeyUnderbust: {LowFraction: 0.62, HighFraction: 0.70, Statistic: StatMedian, ExpectMultiComponent: true},
	KeyChest:     {LowFraction: 0.66, HighFraction: 0.74, Statistic: StatMedian, ExpectMultiComponent: true},
	KeyWaist:     {LowFraction: 0.56, HighFraction: 0.66, Statistic: StatMin, ExpectMultiComponent: true},
	KeyHip:       {LowFraction: 0.46, HighFraction: 0.56, Statistic: StatMax},
	KeyThigh:     {LowFraction: 0.36, HighFraction: 0.46, Statistic: StatMax, ExpectMultiComponent: true},
}
