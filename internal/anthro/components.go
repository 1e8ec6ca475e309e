package anthro

import (
	"math"
	"sort"
)

// estimatedPointsPerCell sizes the grid map up front.
const estimatedPointsPerCell = 4

// gridIndex accelerates fixed-radius neighbour queries over slice points
// with a regular grid. Cell size should approximately match the proximity
// threshold so a 3x3 cell neighbourhood covers every candidate.
type gridIndex struct {
	cellSize float64
	grid     map[int64][]int
}

func newGridIndex(points []Point2D, cellSize float64) *gridIndex {
	gi := &gridIndex{
		cellSize: cellSize,
		grid:     make(map[int64][]int, len(points)/estimatedPointsPerCell+1),
	}
	for i, p := range points {
		id := gi.cellID(cellCoord(p.X, cellSize), cellCoord(p.Y, cellSize))
		gi.grid[id] = append(gi.grid[id], i)
	}
	return gi
}

func cellCoord(v, cellSize float64) int64 {
	return int64(math.Floor(v / cellSize))
}

// cellID pairs signed cell coordinates into one key: zigzag to non-negative,
// then Szudzik's pairing function.
func (gi *gridIndex) cellID(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// neighbors returns indices of all points within eps of points[idx],
// including idx itself.
func (gi *gridIndex) neighbors(points []Point2D, idx int, eps float64) []int {
	p := points[idx]
	eps2 := eps * eps
	cx := cellCoord(p.X, gi.cellSize)
	cy := cellCoord(p.Y, gi.cellSize)

	var out []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, cand := range gi.grid[gi.cellID(cx+dx, cy+dy)] {
				q := points[cand]
				ddx := q.X - p.X
				ddy := q.Y - p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					out = append(out, cand)
				}
			}
		}
	}
	return out
}

// unionFind is an arena-indexed disjoint set over point IDs. No pointer
// nodes, no cycles to manage.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]] // path halving
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// SeparateComponents partitions slice points into spatial clusters: an edge
// joins two points within eps, components are the connected sets. Component
// membership depends only on point positions, so any permutation of the
// input yields the same partition. Components are returned ordered by
// centroid distance (nearest first) with positional tie-breaks, ready for
// torso selection.
func SeparateComponents(points []Point2D, eps float64) []Component {
	if len(points) == 0 {
		return nil
	}

	gi := newGridIndex(points, eps)
	uf := newUnionFind(len(points))
	for i := range points {
		for _, j := range gi.neighbors(points, i, eps) {
			if j != i {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]Point2D)
	for i, p := range points {
		root := uf.find(i)
		groups[root] = append(groups[root], p)
	}

	overall := centroidOf(points)
	comps := make([]Component, 0, len(groups))
	for _, pts := range groups {
		c := centroidOf(pts)
		hull := ConvexHull(pts)
		comps = append(comps, Component{
			Points:        pts,
			Centroid:      c,
			CentroidDist:  c.Dist(overall),
			HullArea:      Area(Loop(hull)),
			HullPerimeter: Perimeter(Loop(hull)),
		})
	}

	sort.Slice(comps, func(i, j int) bool {
		if comps[i].CentroidDist != comps[j].CentroidDist {
			return comps[i].CentroidDist < comps[j].CentroidDist
		}
		if comps[i].HullArea != comps[j].HullArea {
			return comps[i].HullArea > comps[j].HullArea
		}
		if comps[i].HullPerimeter != comps[j].HullPerimeter {
			return comps[i].HullPerimeter > comps[j].HullPerimeter
		}
		return comps[i].Centroid.Less(comps[j].Centroid)
	})
	return comps
}
