// Package units provides shared constants and validation for length units
package units

// Unit constants
const (
	M  = "m"
	CM = "cm"
	MM = "mm"
	IN = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{M, CM, MM, IN}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, cm, mm, in"
}

// ToMeters converts a length from the given source units to meters
// The measurement core consumes meters only; conversion happens at ingestion
func ToMeters(value float64, sourceUnits string) float64 {
	switch sourceUnits {
	case CM:
		return value / 100
	case MM:
		return value / 1000
	case IN:
		return value * 0.0254
	case M:
		return value // no conversion needed
	default:
		return value // default to meters if unknown unit
	}
}

// FromMeters converts a length in meters to the target units for display
func FromMeters(valueM float64, targetUnits string) float64 {
	switch targetUnits {
	case CM:
		return valueM * 100
	case MM:
		return valueM * 1000
	case IN:
		return valueM / 0.0254
	case M:
		return valueM
	default:
		return valueM
	}
}
