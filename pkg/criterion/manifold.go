package criterion

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
)

// sameElements reports whether a and b hold the same values with the same
// multiplicities.
func sameElements(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func sortedKey(vertices []int) string {
	s := slices.Clone(vertices)
	slices.Sort(s)
	return fmt.Sprint(s)
}

// SurfaceManifold compares, around every vertex and edge, the polygons
// found by scanning the mesh with those reached by walking adjacencies.
// They differ where the surface is not manifold.
type SurfaceManifold struct {
	mesh SurfaceMesh
	opts options
}

func NewSurfaceManifold(m SurfaceMesh, opts ...Option) *SurfaceManifold {
	return &SurfaceManifold{mesh: m, opts: newOptions(opts)}
}

func (s *SurfaceManifold) IsManifold() bool {
	return s.NonManifoldVertices().Empty() && s.NonManifoldEdges().Empty()
}

// NonManifoldVertices returns the vertices whose polygon fan is not a
// single connected one.
func (s *SurfaceManifold) NonManifoldVertices() *issue.Set[int] {
	set := issue.NewSet[int]("Non manifold vertices.")
	scanned := make([][]int, s.mesh.NbVertices())
	for p := 0; p < s.mesh.NbPolygons(); p++ {
		for _, v := range s.mesh.PolygonVertices(p) {
			scanned[v] = append(scanned[v], p)
		}
	}
	for v := range scanned {
		var stored []int
		for _, pv := range s.mesh.PolygonsAroundVertex(v) {
			stored = append(stored, pv.Polygon)
		}
		if !sameElements(scanned[v], stored) {
			set.Add(v, fmt.Sprintf("Vertex with index %d, at position %s, is not manifold.",
				v, geom.Format(s.mesh.Point(v), s.mesh.Dimension())))
		}
	}
	s.opts.logger.Debug("surface vertex manifold inspected", zap.Int("issues", set.Count()))
	return set
}

// NonManifoldEdges returns the edges shared by more than two polygons.
func (s *SurfaceManifold) NonManifoldEdges() *issue.Set[[2]int] {
	set := issue.NewSet[[2]int]("Non manifold edges.")
	scanned := make(map[[2]int][]int)
	for p := 0; p < s.mesh.NbPolygons(); p++ {
		pv := s.mesh.PolygonVertices(p)
		for e := range pv {
			a, b := pv[e], pv[(e+1)%len(pv)]
			key := [2]int{min(a, b), max(a, b)}
			scanned[key] = append(scanned[key], p)
		}
	}
	for e := 0; e < s.mesh.NbEdges(); e++ {
		ev := s.mesh.EdgeVertices(e)
		if !sameElements(scanned[ev], s.mesh.PolygonsAroundEdge(e)) {
			set.Add(ev, fmt.Sprintf("Edge between vertices %d and %d is not manifold.", ev[0], ev[1]))
		}
	}
	s.opts.logger.Debug("surface edge manifold inspected", zap.Int("issues", set.Count()))
	return set
}

// SolidManifold compares, around every vertex, edge and facet, the
// polyhedra found by scanning the mesh with those reached by walking
// adjacencies.
type SolidManifold struct {
	mesh SolidMesh
	opts options
}

func NewSolidManifold(m SolidMesh, opts ...Option) *SolidManifold {
	return &SolidManifold{mesh: m, opts: newOptions(opts)}
}

func (s *SolidManifold) IsManifold() bool {
	return s.NonManifoldVertices().Empty() &&
		s.NonManifoldEdges().Empty() &&
		s.NonManifoldFacets().Empty()
}

func (s *SolidManifold) NonManifoldVertices() *issue.Set[int] {
	set := issue.NewSet[int]("Non manifold vertices.")
	scanned := make([][]int, s.mesh.NbVertices())
	for p := 0; p < s.mesh.NbPolyhedra(); p++ {
		for _, v := range s.mesh.PolyhedronVertices(p) {
			scanned[v] = append(scanned[v], p)
		}
	}
	for v := range scanned {
		var stored []int
		for _, pv := range s.mesh.PolyhedraAroundVertex(v) {
			stored = append(stored, pv.Polyhedron)
		}
		if !sameElements(scanned[v], stored) {
			set.Add(v, fmt.Sprintf("Vertex with index %d, at position %s, is not manifold.",
				v, geom.Format(s.mesh.Point(v), s.mesh.Dimension())))
		}
	}
	s.opts.logger.Debug("solid vertex manifold inspected", zap.Int("issues", set.Count()))
	return set
}

func (s *SolidManifold) NonManifoldEdges() *issue.Set[[2]int] {
	set := issue.NewSet[[2]int]("Non manifold edges.")
	scanned := make(map[[2]int][]int)
	for p := 0; p < s.mesh.NbPolyhedra(); p++ {
		for _, key := range s.mesh.PolyhedronEdges(p) {
			scanned[key] = append(scanned[key], p)
		}
	}
	for e := 0; e < s.mesh.NbEdges(); e++ {
		ev := s.mesh.EdgeVertices(e)
		if !sameElements(scanned[ev], s.mesh.PolyhedraAroundEdge(e)) {
			set.Add(ev, fmt.Sprintf("Edge between vertices %d and %d is not manifold.", ev[0], ev[1]))
		}
	}
	s.opts.logger.Debug("solid edge manifold inspected", zap.Int("issues", set.Count()))
	return set
}

// NonManifoldFacets returns the facets shared by more than two polyhedra.
func (s *SolidManifold) NonManifoldFacets() *issue.Set[[]int] {
	set := issue.NewSet[[]int]("Non manifold facets.")
	scanned := make(map[string][]int)
	for p := 0; p < s.mesh.NbPolyhedra(); p++ {
		for f := 0; f < s.mesh.NbPolyhedronFacets(p); f++ {
			key := sortedKey(s.mesh.PolyhedronFacetVertices(mesh.PolyhedronFacet{Polyhedron: p, Facet: f}))
			scanned[key] = append(scanned[key], p)
		}
	}
	for f := 0; f < s.mesh.NbFacets(); f++ {
		fv := s.mesh.FacetVertices(f)
		if !sameElements(scanned[sortedKey(fv)], s.mesh.PolyhedraAroundFacet(f)) {
			set.Add(fv, fmt.Sprintf("Facet with vertices %s is not manifold.", geom.FormatIndices(fv)))
		}
	}
	s.opts.logger.Debug("solid facet manifold inspected", zap.Int("issues", set.Count()))
	return set
}
