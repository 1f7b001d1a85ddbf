package criterion

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
)

// SurfaceAdjacency checks that polygon adjacencies are mutual and that
// adjacent polygons traverse their shared edge in opposite directions.
type SurfaceAdjacency struct {
	mesh SurfaceMesh
	opts options
}

func NewSurfaceAdjacency(m SurfaceMesh, opts ...Option) *SurfaceAdjacency {
	return &SurfaceAdjacency{mesh: m, opts: newOptions(opts)}
}

// HasWrongAdjacencies reports whether any polygon edge is wrongly linked.
func (a *SurfaceAdjacency) HasWrongAdjacencies() bool {
	for p := 0; p < a.mesh.NbPolygons(); p++ {
		for e := range a.mesh.PolygonVertices(p) {
			if a.wrong(mesh.PolygonEdge{Polygon: p, Edge: e}) {
				return true
			}
		}
	}
	return false
}

// PolygonEdgesWithWrongAdjacency returns every polygon edge whose adjacent
// polygon does not point back through the reversed edge.
func (a *SurfaceAdjacency) PolygonEdgesWithWrongAdjacency() *issue.Set[mesh.PolygonEdge] {
	set := issue.NewSet[mesh.PolygonEdge]("Polygon edges with wrong adjacencies.")
	for p := 0; p < a.mesh.NbPolygons(); p++ {
		for e := range a.mesh.PolygonVertices(p) {
			pe := mesh.PolygonEdge{Polygon: p, Edge: e}
			if a.wrong(pe) {
				set.Add(pe, fmt.Sprintf("Local edge %d of polygon %d has wrong adjacencies.", e, p))
			}
		}
	}
	a.opts.logger.Debug("surface adjacency inspected", zap.Int("issues", set.Count()))
	return set
}

func (a *SurfaceAdjacency) wrong(pe mesh.PolygonEdge) bool {
	adj, ok := a.mesh.PolygonAdjacent(pe)
	if !ok {
		return false
	}
	pv := a.mesh.PolygonVertices(pe.Polygon)
	v0, v1 := pv[pe.Edge], pv[(pe.Edge+1)%len(pv)]
	qv := a.mesh.PolygonVertices(adj)
	for e := range qv {
		if qv[e] != v1 || qv[(e+1)%len(qv)] != v0 {
			continue
		}
		if back, ok := a.mesh.PolygonAdjacent(mesh.PolygonEdge{Polygon: adj, Edge: e}); ok && back == pe.Polygon {
			return false
		}
	}
	return true
}

// SolidAdjacency checks that polyhedron adjacencies are mutual and that
// adjacent polyhedra see their shared facet with opposite orientations.
type SolidAdjacency struct {
	mesh SolidMesh
	opts options
}

func NewSolidAdjacency(m SolidMesh, opts ...Option) *SolidAdjacency {
	return &SolidAdjacency{mesh: m, opts: newOptions(opts)}
}

// HasWrongAdjacencies reports whether any polyhedron facet is wrongly
// linked.
func (a *SolidAdjacency) HasWrongAdjacencies() bool {
	for p := 0; p < a.mesh.NbPolyhedra(); p++ {
		for f := 0; f < a.mesh.NbPolyhedronFacets(p); f++ {
			if a.wrong(mesh.PolyhedronFacet{Polyhedron: p, Facet: f}) {
				return true
			}
		}
	}
	return false
}

// PolyhedronFacetsWithWrongAdjacency returns every polyhedron facet whose
// adjacent polyhedron does not point back through the reversed facet.
func (a *SolidAdjacency) PolyhedronFacetsWithWrongAdjacency() *issue.Set[mesh.PolyhedronFacet] {
	set := issue.NewSet[mesh.PolyhedronFacet]("Polyhedron facets with wrong adjacencies.")
	for p := 0; p < a.mesh.NbPolyhedra(); p++ {
		for f := 0; f < a.mesh.NbPolyhedronFacets(p); f++ {
			pf := mesh.PolyhedronFacet{Polyhedron: p, Facet: f}
			if a.wrong(pf) {
				set.Add(pf, fmt.Sprintf("Local facet %d of polyhedron %d has wrong adjacencies.", f, p))
			}
		}
	}
	a.opts.logger.Debug("solid adjacency inspected", zap.Int("issues", set.Count()))
	return set
}

func (a *SolidAdjacency) wrong(pf mesh.PolyhedronFacet) bool {
	adj, ok := a.mesh.PolyhedronAdjacent(pf)
	if !ok {
		return false
	}
	facet := a.mesh.PolyhedronFacetVertices(pf)
	for f := 0; f < a.mesh.NbPolyhedronFacets(adj); f++ {
		other := mesh.PolyhedronFacet{Polyhedron: adj, Facet: f}
		if !reversedCycle(facet, a.mesh.PolyhedronFacetVertices(other)) {
			continue
		}
		if back, ok := a.mesh.PolyhedronAdjacent(other); ok && back == pf.Polyhedron {
			return false
		}
	}
	return true
}

// reversedCycle reports whether b lists the vertices of a in the opposite
// rotational order.
func reversedCycle(a, b []int) bool {
	n := len(a)
	if n != len(b) || n == 0 {
		return false
	}
	for k := range b {
		if b[k] != a[0] {
			continue
		}
		match := true
		for i := 1; i < n && match; i++ {
			match = b[(k-i+n)%n] == a[i]
		}
		if match {
			return true
		}
	}
	return false
}
