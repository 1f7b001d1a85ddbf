// Package mesh provides the in-memory meshes inspected by strata: point
// sets, edged curves, polygonal surfaces and polyhedral solids, in 2D or 3D.
//
// Meshes are built once and then only read. Builders compute element
// adjacency and keep one seed element per vertex, edge and facet; the
// incidence queries (PolygonsAroundVertex, PolyhedraAroundEdge, ...) walk
// adjacency from that seed, which is what the manifold inspectors compare
// against a full element scan.
//
// Out-of-range indices are programmer errors and panic.
package mesh

import (
	"fmt"

	"github.com/chazu/strata/pkg/geom"
)

// NoID marks a missing adjacency or seed.
const NoID = -1

// PolygonVertex is a local vertex of a polygon.
type PolygonVertex struct {
	Polygon int
	Vertex  int
}

// PolygonEdge is a local edge of a polygon, from local vertex Edge to the
// next one.
type PolygonEdge struct {
	Polygon int
	Edge    int
}

// PolyhedronVertex is a local vertex of a polyhedron.
type PolyhedronVertex struct {
	Polyhedron int
	Vertex     int
}

// PolyhedronFacet is a local facet of a polyhedron.
type PolyhedronFacet struct {
	Polyhedron int
	Facet      int
}

// PointSet is a set of vertices without elements.
type PointSet struct {
	dim    int
	points []geom.Point
}

// NewPointSet builds a point set. 2D points must have Z == 0.
func NewPointSet(dim int, points []geom.Point) (*PointSet, error) {
	if err := geom.CheckDimension(dim); err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	return &PointSet{dim: dim, points: points}, nil
}

func (m *PointSet) Dimension() int  { return m.dim }
func (m *PointSet) NbVertices() int { return len(m.points) }

// Point returns the position of vertex v.
func (m *PointSet) Point(v int) geom.Point { return m.points[v] }

// Points returns every vertex position. The slice must not be modified.
func (m *PointSet) Points() []geom.Point { return m.points }

func (m *PointSet) checkVertex(v int) error {
	if v < 0 || v >= len(m.points) {
		return fmt.Errorf("vertex %d out of range [0, %d)", v, len(m.points))
	}
	return nil
}

// EdgedCurve is a set of vertices linked by edges.
type EdgedCurve struct {
	PointSet
	edges [][2]int
}

// NewEdgedCurve builds a curve from points and edges given as vertex pairs.
func NewEdgedCurve(dim int, points []geom.Point, edges [][2]int) (*EdgedCurve, error) {
	ps, err := NewPointSet(dim, points)
	if err != nil {
		return nil, err
	}
	c := &EdgedCurve{PointSet: *ps, edges: edges}
	for e, ev := range edges {
		for _, v := range ev {
			if err := c.checkVertex(v); err != nil {
				return nil, fmt.Errorf("mesh: edge %d: %w", e, err)
			}
		}
	}
	return c, nil
}

// NewPolyline builds an open curve through points, or a closed one when
// closed is set.
func NewPolyline(dim int, points []geom.Point, closed bool) (*EdgedCurve, error) {
	var edges [][2]int
	for i := 1; i < len(points); i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	if closed && len(points) > 2 {
		edges = append(edges, [2]int{len(points) - 1, 0})
	}
	return NewEdgedCurve(dim, points, edges)
}

func (c *EdgedCurve) NbEdges() int { return len(c.edges) }

// EdgeVertices returns the two vertices of edge e.
func (c *EdgedCurve) EdgeVertices(e int) [2]int { return c.edges[e] }

// EdgeSegment returns the positions of edge e.
func (c *EdgedCurve) EdgeSegment(e int) geom.Segment {
	ev := c.edges[e]
	return geom.Segment{c.points[ev[0]], c.points[ev[1]]}
}

// edgeKey orders a vertex pair so both directions map to the same key.
func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func containsVertex(vertices []int, v int) bool {
	for _, u := range vertices {
		if u == v {
			return true
		}
	}
	return false
}

func indexOf(vertices []int, v int) int {
	for i, u := range vertices {
		if u == v {
			return i
		}
	}
	return NoID
}
