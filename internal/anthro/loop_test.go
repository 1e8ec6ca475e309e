package anthro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentFrom(pts []Point2D) Component {
	return Component{Points: pts, Centroid: centroidOf(pts)}
}

func TestReconstructLoop_PrimaryPath(t *testing.T) {
	t.Parallel()

	comp := componentFrom(ringPoints(0, 0, 0.15, 64))
	att := reconstructLoop(comp, DefaultParams(), "case-a|z|1.0000")

	require.Empty(t, att.FailCode)
	assert.Equal(t, MethodPolarSort, att.Method)
	assert.Zero(t, att.AlphaK)
	assert.GreaterOrEqual(t, len(att.Loop), DefaultMinLoopPoints)
	assert.InEpsilon(t, 2*math.Pi*0.15, Perimeter(att.Loop), 0.01)
}

func TestReconstructLoop_LastResortHull(t *testing.T) {
	t.Parallel()

	// Five points: too few for the primary and alpha strategies' loop
	// validation, but enough for the relaxed hull floor.
	comp := componentFrom([]Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 1.5}})
	att := reconstructLoop(comp, DefaultParams(), "case-b|z|1.0000")

	require.Empty(t, att.FailCode)
	assert.Equal(t, MethodConvexHull, att.Method)
	assert.GreaterOrEqual(t, len(att.Loop), 3)
}

func TestReconstructLoop_AllStrategiesFail(t *testing.T) {
	t.Parallel()

	comp := componentFrom([]Point2D{{0, 0}, {1, 1}})
	att := reconstructLoop(comp, DefaultParams(), "case-c|z|1.0000")

	assert.Nil(t, att.Loop)
	assert.Empty(t, att.Method)
	assert.NotEmpty(t, att.FailCode)
}

func TestReconstructLoop_SingleMethodTag(t *testing.T) {
	t.Parallel()

	// Whatever wins, exactly one method is reported and it is one of the
	// chain's names.
	known := map[string]bool{
		MethodPolarSort:      true,
		MethodAlphaShape:     true,
		MethodAlphaShapeWide: true,
		MethodClusterTrim:    true,
		MethodConvexHull:     true,
	}

	comps := []Component{
		componentFrom(ringPoints(0, 0, 0.1, 48)),
		componentFrom([]Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}),
	}
	for _, comp := range comps {
		att := reconstructLoop(comp, DefaultParams(), "case-d|z|0.5000")
		if att.FailCode != "" {
			continue
		}
		assert.True(t, known[att.Method], "unknown method %q", att.Method)
	}
}

func TestAlphaKFor(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	for _, id := range []string{"a", "b", "WAIST|z|1.0420", ""} {
		k := alphaKFor(id, p)
		assert.GreaterOrEqual(t, k, p.AlphaKMin)
		assert.LessOrEqual(t, k, p.AlphaKMax)
	}

	// Stable per identifier.
	assert.Equal(t, alphaKFor("case-x", p), alphaKFor("case-x", p))

	degenerate := p
	degenerate.AlphaKMin, degenerate.AlphaKMax = 7, 7
	assert.Equal(t, 7, alphaKFor("anything", degenerate))
}

func TestConcaveHull_RecoversRing(t *testing.T) {
	t.Parallel()

	pts := ringPoints(0, 0, 0.2, 40)
	loop := concaveHull(pts, 5)
	require.GreaterOrEqual(t, len(loop), 3)
	assert.InEpsilon(t, 2*math.Pi*0.2, Perimeter(loop), 0.05)
}

func TestRunAlphaShapeWide(t *testing.T) {
	t.Parallel()

	loop, code := runAlphaShapeWide(ringPoints(0, 0, 0.15, 64), DefaultParams(), 5)
	require.Empty(t, code)
	// Every ring point has boundary-like degree, so the wide boundary keeps
	// essentially the whole ring.
	assert.GreaterOrEqual(t, len(loop), 8)
}

func TestRunClusterTrim_DropsIsolatedNoise(t *testing.T) {
	t.Parallel()

	pts := append(ringPoints(0, 0, 0.15, 64), Point2D{5, 5})
	loop, code := runClusterTrim(pts, DefaultParams(), 0)
	require.Empty(t, code)
	for _, pt := range loop {
		assert.NotEqual(t, Point2D{5, 5}, pt)
	}
}

func TestNeighborSpacingQuantile(t *testing.T) {
	t.Parallel()

	pts := []Point2D{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	// Every nearest-neighbour distance is 1.
	assert.InDelta(t, 1.0, neighborSpacingQuantile(pts, 0.5), 1e-12)
	assert.Zero(t, neighborSpacingQuantile(pts[:1], 0.5))
}

func TestDedupePoints(t *testing.T) {
	t.Parallel()

	pts := []Point2D{{1, 1}, {0, 0}, {1, 1}, {0, 0}, {2, 2}}
	uniq := dedupePoints(pts)
	assert.Equal(t, []Point2D{{0, 0}, {1, 1}, {2, 2}}, uniq)
}

func TestSegmentsIntersect(t *testing.T) {
	t.Parallel()

	assert.True(t, segmentsIntersect(Point2D{0, 0}, Point2D{1, 1}, Point2D{0, 1}, Point2D{1, 0}))
	assert.False(t, segmentsIntersect(Point2D{0, 0}, Point2D{1, 0}, Point2D{0, 1}, Point2D{1, 1}))
}
