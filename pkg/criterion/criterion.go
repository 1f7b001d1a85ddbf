// Package criterion implements the single-purpose, read-only mesh
// inspectors: colocation, degeneration, adjacency and manifoldness, plus
// their model-level variants running over every component mesh and over
// the unique-vertex space.
//
// Every inspector is built around one mesh or model and recomputes its
// findings on each call. Findings are returned as issue sets; none of these
// functions fail on structurally valid input.
package criterion

import (
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// VertexSet is the vertex view every mesh offers.
type VertexSet interface {
	Dimension() int
	NbVertices() int
	Point(v int) geom.Point
}

// EdgeSet is a mesh exposing unique edges.
type EdgeSet interface {
	VertexSet
	NbEdges() int
	EdgeVertices(e int) [2]int
}

// PolygonSet is a mesh made of polygons.
type PolygonSet interface {
	VertexSet
	NbPolygons() int
	PolygonVertices(p int) []int
}

// PolyhedronSet is a mesh made of polyhedra.
type PolyhedronSet interface {
	VertexSet
	NbPolyhedra() int
	PolyhedronVertices(p int) []int
}

// SurfaceMesh is what the surface adjacency and manifold inspectors read.
type SurfaceMesh interface {
	EdgeSet
	PolygonSet
	PolygonAdjacent(pe mesh.PolygonEdge) (int, bool)
	PolygonsAroundVertex(v int) []mesh.PolygonVertex
	PolygonsAroundEdge(e int) []int
}

// SolidMesh is what the solid adjacency and manifold inspectors read.
type SolidMesh interface {
	EdgeSet
	PolyhedronSet
	NbPolyhedronFacets(p int) int
	PolyhedronFacetVertices(pf mesh.PolyhedronFacet) []int
	PolyhedronEdges(p int) [][2]int
	PolyhedronAdjacent(pf mesh.PolyhedronFacet) (int, bool)
	PolyhedraAroundVertex(v int) []mesh.PolyhedronVertex
	PolyhedraAroundEdge(e int) []int
	NbFacets() int
	FacetVertices(f int) []int
	PolyhedraAroundFacet(f int) []int
}

var (
	_ SurfaceMesh = (*mesh.Surface)(nil)
	_ SolidMesh   = (*mesh.Solid)(nil)
	_ EdgeSet     = (*mesh.EdgedCurve)(nil)
	_ VertexSet   = (*mesh.PointSet)(nil)
)

type options struct {
	eps    float64
	logger *zap.Logger
}

// Option configures an inspector.
type Option func(*options)

// WithTolerance sets the colocation distance. Non-positive values are
// ignored.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.eps = eps
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{eps: geom.DefaultEpsilon, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
