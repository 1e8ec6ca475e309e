package anthro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTorso(t *testing.T) {
	t.Parallel()

	t.Run("single component", func(t *testing.T) {
		t.Parallel()
		comps := SeparateComponents(ringPoints(0, 0, 0.1, 32), 0.05)
		sel := selectTorso(comps)
		assert.Equal(t, 0, sel.Index)
		assert.Equal(t, 1, sel.Total)
		assert.Empty(t, sel.Tiebreak)
	})

	t.Run("clear distance winner has no tiebreak", func(t *testing.T) {
		t.Parallel()
		big := ringPoints(0, 0, 0.15, 96)
		small := ringPoints(0.5, 0, 0.05, 32)
		comps := SeparateComponents(append(big, small...), 0.05)
		sel := selectTorso(comps)
		assert.Len(t, sel.Component.Points, 96)
		assert.Equal(t, 2, sel.Total)
		assert.Empty(t, sel.Tiebreak)
	})

	t.Run("distance tie decided by area", func(t *testing.T) {
		t.Parallel()
		// Mirror-image rings of different radius: centroids are equidistant
		// from the overall centroid only if point counts match, so build the
		// tie explicitly.
		comps := []Component{
			{Points: ringPoints(-0.3, 0, 0.15, 64), CentroidDist: 0.3, HullArea: 0.07, HullPerimeter: 0.94},
			{Points: ringPoints(0.3, 0, 0.05, 64), CentroidDist: 0.3, HullArea: 0.008, HullPerimeter: 0.31},
		}
		sel := selectTorso(comps)
		assert.Equal(t, "area", sel.Tiebreak)
		assert.Len(t, sel.Component.Points, 64)
	})

	t.Run("full tie falls through to centroid", func(t *testing.T) {
		t.Parallel()
		comps := []Component{
			{Points: ringPoints(-0.3, 0, 0.1, 64), Centroid: Point2D{-0.3, 0}, CentroidDist: 0.3, HullArea: 0.031, HullPerimeter: 0.628},
			{Points: ringPoints(0.3, 0, 0.1, 64), Centroid: Point2D{0.3, 0}, CentroidDist: 0.3, HullArea: 0.031, HullPerimeter: 0.628},
		}
		sel := selectTorso(comps)
		assert.Equal(t, "centroid", sel.Tiebreak)
	})
}
