package anthro

import (
	"errors"
	"fmt"
)

// Failure reasons. A failure is terminal for a single measurement call: the
// result carries value=NaN and exactly one of these codes. Failures are data,
// never Go errors.
const (
	// FailDegenerate covers geometry the measurement concept does not apply
	// to: too few vertices, near-zero axis extent, or no candidate height
	// producing a valid loop.
	FailDegenerate = "DEGEN_FAIL"

	// FailTooFewSlicePoints is reported when a slice band thins out below the
	// minimum during fallback diagnostics (the top-level equivalent is
	// FailDegenerate).
	FailTooFewSlicePoints = "TOO_FEW_SLICE_POINTS"
)

// Stage-specific reasons the boundary fallback chain records. Exactly one is
// attached per rejected strategy attempt.
const (
	AlphaFailTooFewSlicePoints     = "ALPHA_FAIL:TOO_FEW_SLICE_POINTS"
	AlphaFailTooFewComponentPoints = "ALPHA_FAIL:TOO_FEW_COMPONENT_POINTS"
	AlphaFailTooFewBoundaryPoints  = "ALPHA_FAIL:TOO_FEW_BOUNDARY_POINTS"
	AlphaFailException             = "ALPHA_FAIL:EXCEPTION"
)

// Warning codes. Warnings are cumulative and never suppressed; no stage may
// remove one appended by an earlier stage.
const (
	WarnSingleComponentOnly     = "SINGLE_COMPONENT_ONLY"
	WarnTorsoTiebreakUsed       = "TORSO_TIEBREAK_USED"
	WarnFallbackHullUsed        = "TORSO_FALLBACK_HULL_USED"
	WarnSingleComponentFallback = "TORSO_SINGLE_COMPONENT_FALLBACK_USED"
	WarnRegionAmbiguous         = "REGION_AMBIGUOUS"
	WarnScaleSuspectLarge       = "UNIT_FAIL:SCALE_SUSPECT_LARGE"
	WarnScaleSuspectSmall       = "UNIT_FAIL:SCALE_SUSPECT_SMALL"
)

// Method tags name the boundary-construction path that produced the value.
const (
	MethodPolarSort      = "polar_sort"
	MethodAlphaShape     = "alpha_shape"
	MethodAlphaShapeWide = "alpha_shape_wide"
	MethodClusterTrim    = "cluster_trim"
	MethodConvexHull     = "single_component_fallback"
)

// Contract violations are the only condition surfaced as a Go error. They
// abort a single call and must never corrupt another call's outcome.
var (
	ErrEmptyCloud   = errors.New("anthro: vertex cloud is nil or empty")
	ErrInvalidValue = errors.New("anthro: vertex cloud contains NaN or Inf coordinates")
	ErrUnknownKey   = errors.New("anthro: unknown measurement key")
)

// contractErr wraps a sentinel with call context.
func contractErr(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
