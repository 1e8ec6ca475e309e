package anthro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateAxis(t *testing.T) {
	t.Parallel()

	t.Run("tallest dimension wins", func(t *testing.T) {
		t.Parallel()
		cloud := cylinderCloud(0, 0, 0.15, 1.8, 0.05, 16)
		axis := EstimateAxis(cloud)
		assert.Equal(t, 2, axis.Axis)
		assert.Equal(t, "z", axis.Name())
		assert.InDelta(t, 1.8, axis.Extent, 1e-9)
		assert.InDelta(t, 0.0, axis.Min, 1e-9)
	})

	t.Run("lying down", func(t *testing.T) {
		t.Parallel()
		// Same body, long axis along X.
		var cloud Cloud
		for _, v := range cylinderCloud(0, 0, 0.15, 1.8, 0.05, 16) {
			cloud = append(cloud, Vertex{X: v.Z, Y: v.Y, Z: v.X})
		}
		axis := EstimateAxis(cloud)
		assert.Equal(t, 0, axis.Axis)
		assert.Equal(t, "x", axis.Name())
	})

	t.Run("degenerate extent is reported, not hidden", func(t *testing.T) {
		t.Parallel()
		axis := EstimateAxis(Cloud{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}})
		assert.Zero(t, axis.Extent)
	})
}

func TestSliceAt(t *testing.T) {
	t.Parallel()

	cloud := cylinderCloud(0, 0, 0.1, 1.0, 0.1, 8)
	axis := EstimateAxis(cloud)

	t.Run("band membership", func(t *testing.T) {
		t.Parallel()
		band := SliceAt(cloud, axis, 0.5, 0.05)
		// Exactly one ring of 8 points lies within [0.45, 0.55].
		require.Len(t, band.Points, 8)
	})

	t.Run("wider tolerance catches neighbouring rings", func(t *testing.T) {
		t.Parallel()
		band := SliceAt(cloud, axis, 0.5, 0.15)
		require.Len(t, band.Points, 24)
	})

	t.Run("empty band", func(t *testing.T) {
		t.Parallel()
		band := SliceAt(cloud, axis, 5.0, 0.01)
		assert.Empty(t, band.Points)
		assert.Zero(t, band.diagonal())
	})

	t.Run("points arrive in canonical order", func(t *testing.T) {
		t.Parallel()
		band := SliceAt(cloud, axis, 0.5, 0.05)
		for i := 1; i < len(band.Points); i++ {
			assert.False(t, band.Points[i].Less(band.Points[i-1]))
		}
	})
}

func TestProject(t *testing.T) {
	t.Parallel()

	v := Vertex{1, 2, 3}
	assert.Equal(t, Point2D{2, 3}, project(v, 0))
	assert.Equal(t, Point2D{1, 3}, project(v, 1))
	assert.Equal(t, Point2D{1, 2}, project(v, 2))
}
