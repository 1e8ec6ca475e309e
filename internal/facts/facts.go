// Package facts aggregates many MeasurementResults into facts-only batch
// statistics: NaN rates, warning histograms, method usage and perimeter
// summaries. It reports observed outcomes without attaching any pass/fail
// judgment; interpretation belongs to downstream consumers.
package facts

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/anthro.report/internal/anthro"
)

// Summary is the aggregate over one batch of results.
type Summary struct {
	Processed int `json:"processed"`
	Defined   int `json:"defined"`
	Undefined int `json:"undefined"`

	// NaNRate is Undefined / Processed.
	NaNRate float64 `json:"nan_rate"`

	// WarningCounts maps warning code to occurrence count across the batch.
	WarningCounts map[string]int `json:"warning_counts"`

	// MethodUsage maps method tag to the number of cases it produced. The
	// counts sum to Defined: exactly one method per defined case.
	MethodUsage map[string]int `json:"method_usage"`

	// FailureCounts maps failure reason to occurrence count.
	FailureCounts map[string]int `json:"failure_counts"`

	// Perimeter summary over defined values, in meters.
	MeanM   float64 `json:"mean_m"`
	StdDevM float64 `json:"stddev_m"`
	P50M    float64 `json:"p50_m"`
	P95M    float64 `json:"p95_m"`
}

// Aggregate folds a slice of results into a Summary.
func Aggregate(results []anthro.MeasurementResult) Summary {
	s := Summary{
		WarningCounts: make(map[string]int),
		MethodUsage:   make(map[string]int),
		FailureCounts: make(map[string]int),
	}

	var values []float64
	for _, r := range results {
		s.Processed++
		for _, w := range r.Warnings {
			s.WarningCounts[w]++
		}
		if r.Defined() {
			s.Defined++
			s.MethodUsage[r.MethodTag]++
			values = append(values, r.Value)
		} else {
			s.Undefined++
			s.FailureCounts[r.FailureReason]++
		}
	}

	if s.Processed > 0 {
		s.NaNRate = float64(s.Undefined) / float64(s.Processed)
	}
	if len(values) > 0 {
		sort.Float64s(values)
		s.MeanM, s.StdDevM = stat.MeanStdDev(values, nil)
		if len(values) == 1 {
			s.StdDevM = 0
		}
		s.P50M = stat.Quantile(0.50, stat.Empirical, values, nil)
		s.P95M = stat.Quantile(0.95, stat.Empirical, values, nil)
	}
	return s
}

// Merge combines two summaries. Percentiles cannot be merged exactly and are
// taken from the larger side; counts and rates are exact.
func Merge(a, b Summary) Summary {
	out := Summary{
		Processed:     a.Processed + b.Processed,
		Defined:       a.Defined + b.Defined,
		Undefined:     a.Undefined + b.Undefined,
		WarningCounts: mergeCounts(a.WarningCounts, b.WarningCounts),
		MethodUsage:   mergeCounts(a.MethodUsage, b.MethodUsage),
		FailureCounts: mergeCounts(a.FailureCounts, b.FailureCounts),
	}
	if out.Processed > 0 {
		out.NaNRate = float64(out.Undefined) / float64(out.Processed)
	}

	big := a
	if b.Defined > a.Defined {
		big = b
	}
	out.P50M, out.P95M = big.P50M, big.P95M
	out.StdDevM = big.StdDevM
	if total := a.Defined + b.Defined; total > 0 {
		out.MeanM = (a.MeanM*float64(a.Defined) + b.MeanM*float64(b.Defined)) / float64(total)
	}
	return out
}

func mergeCounts(a, b map[string]int) map[string]int {
	out := make(map[string]int, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}
