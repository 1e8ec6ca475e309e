package anthro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValid(t *testing.T) {
	t.Parallel()

	for _, k := range Keys {
		assert.True(t, k.Valid(), "key %s", k)
	}
	assert.False(t, Key("ELBOW").Valid())
	assert.False(t, Key("waist").Valid(), "keys are case-sensitive")
	assert.False(t, Key("").Valid())
}

func TestDefaultPolicies(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	for _, k := range Keys {
		pol, ok := p.policy(k)
		require.True(t, ok, "missing policy for %s", k)
		assert.Greater(t, pol.HighFraction, pol.LowFraction, "key %s", k)
		assert.GreaterOrEqual(t, pol.LowFraction, 0.0, "key %s", k)
		assert.LessOrEqual(t, pol.HighFraction, 1.0, "key %s", k)
		switch pol.Statistic {
		case StatMedian, StatMax, StatMin:
		default:
			t.Errorf("key %s has unknown statistic %q", k, pol.Statistic)
		}
	}

	// Anatomical ordering along the body axis: neck above bust above waist
	// above hip above thigh.
	waist, _ := p.policy(KeyWaist)
	hip, _ := p.policy(KeyHip)
	neck, _ := p.policy(KeyNeck)
	thigh, _ := p.policy(KeyThigh)
	assert.Greater(t, neck.LowFraction, waist.LowFraction)
	assert.Greater(t, waist.LowFraction, hip.LowFraction)
	assert.Greater(t, hip.LowFraction, thigh.LowFraction)

	// Statistics follow the anatomy: waist narrows, hip peaks.
	assert.Equal(t, StatMin, waist.Statistic)
	assert.Equal(t, StatMax, hip.Statistic)
}

func TestRegionOverrides(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.Regions = map[Key]Policy{
		KeyWaist: {LowFraction: 0.5, HighFraction: 0.6, Statistic: StatMedian},
	}

	pol, ok := p.policy(KeyWaist)
	require.True(t, ok)
	assert.Equal(t, 0.5, pol.LowFraction)
	assert.Equal(t, StatMedian, pol.Statistic)

	// Other keys keep their built-in policies.
	hip, ok := p.policy(KeyHip)
	require.True(t, ok)
	assert.Equal(t, StatMax, hip.Statistic)
}
