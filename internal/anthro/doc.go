// Package anthro estimates human-body circumference measurements (neck,
// bust, underbust, waist, hip, thigh) from a 3D surface point cloud, without
// manual landmarking.
//
// The pipeline for one measurement call is strictly layered:
//
//	axis estimation -> cross-section slicing -> connected-component
//	separation -> torso selection -> loop reconstruction (with an ordered
//	fallback chain) -> perimeter computation -> candidate selection
//
// Every call is a pure, synchronous computation over its own data: no I/O,
// no shared mutable state, no package-level configuration. Degenerate or
// ambiguous geometry is reported as data (value=NaN plus a failure reason,
// or warnings) rather than as errors; Go errors are reserved for contract
// violations at the module boundary. Input units are assumed meters by
// contract — suspected wrong scales are warned about, never corrected.
package anthro
