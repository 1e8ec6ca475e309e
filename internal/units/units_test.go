package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	for _, u := range ValidUnits {
		assert.True(t, IsValid(u), "unit %s", u)
	}
	assert.False(t, IsValid("ft"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("M"), "units are lowercase")
}

func TestToMeters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ToMeters(1.0, M))
	assert.Equal(t, 1.0, ToMeters(100.0, CM))
	assert.Equal(t, 1.0, ToMeters(1000.0, MM))
	assert.InDelta(t, 0.0254, ToMeters(1.0, IN), 1e-12)
	// Unknown units pass through as meters.
	assert.Equal(t, 7.0, ToMeters(7.0, "parsec"))
}

func TestFromMeters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, FromMeters(1.0, CM))
	assert.Equal(t, 1000.0, FromMeters(1.0, MM))
	assert.InDelta(t, 1.0, FromMeters(0.0254, IN), 1e-12)
	assert.Equal(t, 2.5, FromMeters(2.5, M))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, u := range ValidUnits {
		assert.InDelta(t, 1.234, FromMeters(ToMeters(1.234, u), u), 1e-12, "unit %s", u)
	}
}
