package anthro

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// candidate is one evaluated height inside a key's search region.
type candidate struct {
	Height    float64
	Perimeter float64
	SectionID string
	Method    string
	Warnings  []string
	FailCode  string // non-empty when the candidate produced no loop
	Loop      Loop
}

func (c candidate) ok() bool { return c.FailCode == "" }

// Measure runs the full pipeline for one measurement key over one vertex
// cloud. The returned error is non-nil only for contract violations
// (nil cloud, non-finite coordinates, unknown key); every geometric outcome,
// including degeneracy, is encoded on the MeasurementResult itself.
//
// Identical cloud + key + params yield an identical result, and the value is
// invariant under permutation of the cloud's points.
func Measure(cloud Cloud, key Key, p Params) (MeasurementResult, error) {
	res, _, err := MeasureSection(cloud, key, p)
	return res, err
}

// MeasureSection is Measure plus the reconstructed loop of the chosen
// section, for callers that render or persist the cross-section geometry.
// The loop is nil whenever the value is undefined.
func MeasureSection(cloud Cloud, key Key, p Params) (MeasurementResult, Loop, error) {
	if cloud == nil {
		return MeasurementResult{}, nil, contractErr(ErrEmptyCloud, "key=%s", key)
	}
	pol, ok := p.policy(key)
	if !ok {
		return MeasurementResult{}, nil, contractErr(ErrUnknownKey, "%q", key)
	}
	for i, v := range cloud {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return MeasurementResult{}, nil, contractErr(ErrInvalidValue, "vertex %d = (%g, %g, %g)", i, v.X, v.Y, v.Z)
		}
	}

	res := MeasurementResult{Key: key, Value: math.NaN()}

	// Degenerate cloud: a defined outcome, not an exception.
	if len(cloud) <= 2 {
		res.SectionID = fmt.Sprintf("key=%s|points=%d", key, len(cloud))
		res.FailureReason = FailDegenerate
		return res, nil, nil
	}

	axis := EstimateAxis(cloud)
	baseID := fmt.Sprintf("axis=%s|key=%s|region=%.3f-%.3f|stat=%s",
		axis.Name(), key, pol.LowFraction, pol.HighFraction, pol.Statistic)

	if axis.Extent < p.MinAxisExtentMeters {
		res.SectionID = baseID + fmt.Sprintf("|extent=%.6f", axis.Extent)
		res.FailureReason = FailDegenerate
		return res, nil, nil
	}

	// Scale suspicion is a warning, never a correction: the value computed
	// below is reported at face value in whatever scale arrived.
	if axis.Extent > p.MaxPlausibleExtentMeters {
		res.Warnings = append(res.Warnings, WarnScaleSuspectLarge)
	} else if axis.Extent < p.MinPlausibleExtentMeters {
		res.Warnings = append(res.Warnings, WarnScaleSuspectSmall)
	}

	tol := p.SliceTolFraction * axis.Extent
	heights := candidateHeights(axis, pol, p.CandidateHeights)
	cands := make([]candidate, 0, len(heights))
	for _, h := range heights {
		cands = append(cands, evaluateCandidate(cloud, axis, pol, key, h, tol, p))
	}

	valid := cands[:0:0]
	lastFail := ""
	for _, c := range cands {
		if c.ok() {
			valid = append(valid, c)
		} else {
			lastFail = c.FailCode
		}
	}

	if len(valid) == 0 {
		res.SectionID = baseID + "|candidates=0/" + fmt.Sprint(len(cands))
		if lastFail != "" {
			res.SectionID += "|last_fail=" + lastFail
		}
		res.FailureReason = FailDegenerate
		return res, nil, nil
	}

	chosen, ambiguous := applyStatistic(valid, pol.Statistic, p.AmbiguityRelEps)
	res.Value = chosen.Perimeter
	res.SectionID = baseID + "|" + chosen.SectionID
	res.MethodTag = chosen.Method
	res.Warnings = append(res.Warnings, chosen.Warnings...)
	if ambiguous {
		res.Warnings = append(res.Warnings, WarnRegionAmbiguous)
	}
	return res, chosen.Loop, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// candidateHeights spaces n heights evenly across the key's region,
// endpoints inclusive.
func candidateHeights(axis AxisEstimate, pol Policy, n int) []float64 {
	lo := axis.Min + pol.LowFraction*axis.Extent
	hi := axis.Min + pol.HighFraction*axis.Extent
	if n < 2 {
		return []float64{(lo + hi) / 2}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// evaluateCandidate runs slice -> separate -> select -> reconstruct ->
// perimeter for a single height. Failures at any stage short-circuit into
// the candidate's FailCode; warnings accumulated along the way survive into
// the result if this candidate is chosen.
func evaluateCandidate(cloud Cloud, axis AxisEstimate, pol Policy, key Key, h, tol float64, p Params) candidate {
	cand := candidate{Height: h}
	sectionID := fmt.Sprintf("h=%.4f|tol=%.4f", h, tol)

	band := SliceAt(cloud, axis, h, tol)
	if len(band.Points) < p.MinSlicePoints {
		cand.FailCode = FailTooFewSlicePoints
		cand.SectionID = sectionID + fmt.Sprintf("|slice_points=%d", len(band.Points))
		return cand
	}

	eps := p.ConnectivityFraction * band.diagonal()
	if eps < p.MinConnectivityMeters {
		eps = p.MinConnectivityMeters
	}
	comps := SeparateComponents(band.Points, eps)

	if len(comps) == 1 && pol.ExpectMultiComponent {
		cand.Warnings = append(cand.Warnings, WarnSingleComponentOnly)
	}

	sel := selectTorso(comps)
	sectionID += fmt.Sprintf("|ncomp=%d", len(comps))
	if sel.Tiebreak != "" {
		cand.Warnings = append(cand.Warnings, WarnTorsoTiebreakUsed)
		sectionID += "|tiebreak=" + sel.Tiebreak
	}

	caseID := fmt.Sprintf("%s|%s|%.4f", key, axis.Name(), h)
	att := reconstructLoop(sel.Component, p, caseID)
	if att.FailCode != "" {
		cand.FailCode = att.FailCode
		cand.SectionID = sectionID
		return cand
	}
	if att.AlphaK > 0 {
		sectionID += fmt.Sprintf("|alpha_k=%d", att.AlphaK)
	}
	if att.Method == MethodConvexHull {
		if len(comps) == 1 {
			cand.Warnings = append(cand.Warnings, WarnSingleComponentFallback)
		} else {
			cand.Warnings = append(cand.Warnings, WarnFallbackHullUsed)
		}
	}

	cand.Perimeter = Perimeter(att.Loop)
	cand.Method = att.Method
	cand.SectionID = sectionID
	cand.Loop = att.Loop
	return cand
}

// applyStatistic picks the canonical candidate for the key's statistic and
// reports whether other candidates were statistically equidistant from the
// selection target. Ties resolve to the lowest height, deterministically.
func applyStatistic(valid []candidate, s Statistic, relEps float64) (candidate, bool) {
	target := selectionTarget(valid, s)

	best := valid[0]
	bestDist := math.Abs(valid[0].Perimeter - target)
	for _, c := range valid[1:] {
		d := math.Abs(c.Perimeter - target)
		if d < bestDist || (d == bestDist && c.Height < best.Height) {
			best, bestDist = c, d
		}
	}

	// Ambiguity: a second candidate within relEps*target of the winner's
	// distance to the target.
	slack := relEps * math.Max(target, 1e-12)
	ambiguous := false
	for _, c := range valid {
		if c.Height == best.Height {
			continue
		}
		if math.Abs(math.Abs(c.Perimeter-target)-bestDist) <= slack {
			ambiguous = true
			break
		}
	}
	return best, ambiguous
}

// selectionTarget maps the statistic to a target perimeter over the valid
// candidates.
func selectionTarget(valid []candidate, s Statistic) float64 {
	perims := make([]float64, len(valid))
	for i, c := range valid {
		perims[i] = c.Perimeter
	}
	sort.Float64s(perims)
	switch s {
	case StatMax:
		return perims[len(perims)-1]
	case StatMin:
		return perims[0]
	default:
		return stat.Quantile(0.5, stat.Empirical, perims, nil)
	}
}
