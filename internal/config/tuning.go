package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/anthro.report/internal/anthro"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for measurement tuning.
// Fields are pointers so a partial JSON file overrides only what it names;
// Params supplies the core defaults for everything else.
type TuningConfig struct {
	// Slicer params
	SliceTolFraction *float64 `json:"slice_tol_fraction,omitempty"`
	MinSlicePoints   *int     `json:"min_slice_points,omitempty"`

	// Component separation params
	ConnectivityFraction  *float64 `json:"connectivity_fraction,omitempty"`
	MinConnectivityMeters *float64 `json:"min_connectivity_meters,omitempty"`

	// Loop reconstruction params
	MinLoopPoints      *int     `json:"min_loop_points,omitempty"`
	MinComponentPoints *int     `json:"min_component_points,omitempty"`
	AlphaKMin          *int     `json:"alpha_k_min,omitempty"`
	AlphaKMax          *int     `json:"alpha_k_max,omitempty"`
	WidePercentile     *float64 `json:"wide_percentile,omitempty"`
	TrimMinNeighbors   *int     `json:"trim_min_neighbors,omitempty"`
	MergeEpsilonMeters *float64 `json:"merge_epsilon_meters,omitempty"`

	// Selector params
	CandidateHeights *int     `json:"candidate_heights,omitempty"`
	AmbiguityRelEps  *float64 `json:"ambiguity_rel_eps,omitempty"`

	// Plausibility bounds (meters)
	MinAxisExtentMeters      *float64 `json:"min_axis_extent_meters,omitempty"`
	MaxPlausibleExtentMeters *float64 `json:"max_plausible_extent_meters,omitempty"`
	MinPlausibleExtentMeters *float64 `json:"min_plausible_extent_meters,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and common parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.SliceTolFraction != nil {
		if *c.SliceTolFraction <= 0 || *c.SliceTolFraction > 0.5 {
			return fmt.Errorf("slice_tol_fraction must be in (0, 0.5], got %f", *c.SliceTolFraction)
		}
	}
	if c.ConnectivityFraction != nil {
		if *c.ConnectivityFraction <= 0 || *c.ConnectivityFraction > 1 {
			return fmt.Errorf("connectivity_fraction must be in (0, 1], got %f", *c.ConnectivityFraction)
		}
	}
	if c.WidePercentile != nil {
		if *c.WidePercentile <= 0 || *c.WidePercentile >= 1 {
			return fmt.Errorf("wide_percentile must be in (0, 1), got %f", *c.WidePercentile)
		}
	}
	if c.MinSlicePoints != nil && *c.MinSlicePoints < 3 {
		return fmt.Errorf("min_slice_points must be at least 3, got %d", *c.MinSlicePoints)
	}
	if c.CandidateHeights != nil && *c.CandidateHeights < 1 {
		return fmt.Errorf("candidate_heights must be positive, got %d", *c.CandidateHeights)
	}
	if c.AlphaKMin != nil && c.AlphaKMax != nil && *c.AlphaKMin > *c.AlphaKMax {
		return fmt.Errorf("alpha_k_min %d exceeds alpha_k_max %d", *c.AlphaKMin, *c.AlphaKMax)
	}
	return nil
}

// Params materializes the tuning into the explicit parameter struct the
// measurement core consumes. Unset fields take the core's defaults.
func (c *TuningConfig) Params() anthro.Params {
	p := anthro.DefaultParams()
	if c.SliceTolFraction != nil {
		p.SliceTolFraction = *c.SliceTolFraction
	}
	if c.MinSlicePoints != nil {
		p.MinSlicePoints = *c.MinSlicePoints
	}
	if c.ConnectivityFraction != nil {
		p.ConnectivityFraction = *c.ConnectivityFraction
	}
	if c.MinConnectivityMeters != nil {
		p.MinConnectivityMeters = *c.MinConnectivityMeters
	}
	if c.MinLoopPoints != nil {
		p.MinLoopPoints = *c.MinLoopPoints
	}
	if c.MinComponentPoints != nil {
		p.MinComponentPoints = *c.MinComponentPoints
	}
	if c.AlphaKMin != nil {
		p.AlphaKMin = *c.AlphaKMin
	}
	if c.AlphaKMax != nil {
		p.AlphaKMax = *c.AlphaKMax
	}
	if c.WidePercentile != nil {
		p.WidePercentile = *c.WidePercentile
	}
	if c.TrimMinNeighbors != nil {
		p.TrimMinNeighbors = *c.TrimMinNeighbors
	}
	if c.MergeEpsilonMeters != nil {
		p.MergeEpsilonMeters = *c.MergeEpsilonMeters
	}
	if c.CandidateHeights != nil {
		p.CandidateHeights = *c.CandidateHeights
	}
	if c.AmbiguityRelEps != nil {
		p.AmbiguityRelEps = *c.AmbiguityRelEps
	}
	if c.MinAxisExtentMeters != nil {
		p.MinAxisExtentMeters = *c.MinAxisExtentMeters
	}
	if c.MaxPlausibleExtentMeters != nil {
		p.MaxPlausibleExtentMeters = *c.MaxPlausibleExtentMeters
	}
	if c.MinPlausibleExtentMeters != nil {
		p.MinPlausibleExtentMeters = *c.MinPlausibleExtentMeters
	}
	return p
}
