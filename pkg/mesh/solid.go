package mesh

import (
	"fmt"
	"sort"

	"github.com/chazu/strata/pkg/geom"
)

// Local facet tables per polyhedron type, keyed by vertex count. Every facet
// of a positively oriented polyhedron is listed with the same (inward)
// orientation, so a facet shared by two such polyhedra appears reversed in
// one of them.
var facetTables = map[int][][]int{
	// tetrahedron
	4: {{1, 3, 2}, {0, 2, 3}, {3, 1, 0}, {0, 1, 2}},
	// pyramid: base 0-3, apex 4
	5: {{0, 1, 2, 3}, {0, 4, 1}, {1, 4, 2}, {2, 4, 3}, {3, 4, 0}},
	// prism: bottom 0-2, top 3-5
	6: {{0, 1, 2}, {3, 5, 4}, {0, 3, 4, 1}, {1, 4, 5, 2}, {2, 5, 3, 0}},
	// hexahedron: bottom 0-3, top 4-7
	8: {{0, 1, 2, 3}, {4, 7, 6, 5}, {0, 4, 5, 1}, {1, 5, 6, 2}, {2, 6, 7, 3}, {3, 7, 4, 0}},
}

// facetKey identifies a facet by its sorted vertices, padded with NoID.
type facetKey [4]int

func makeFacetKey(vertices []int) facetKey {
	sorted := append([]int(nil), vertices...)
	sort.Ints(sorted)
	k := facetKey{NoID, NoID, NoID, NoID}
	copy(k[:], sorted)
	return k
}

// Solid is a polyhedral solid made of tetrahedra, pyramids, prisms and
// hexahedra.
type Solid struct {
	PointSet
	polyhedra  [][]int
	adjacents  [][]int
	edges      [][2]int
	edgeIndex  map[[2]int]int
	edgeSeed   []int
	facets     []PolyhedronFacet
	facetIndex map[facetKey]int
	vertexSeed []PolyhedronVertex
}

// NewSolid builds a 3D solid from points and polyhedra given as vertex
// lists. The polyhedron type follows from its vertex count (4, 5, 6 or 8).
func NewSolid(points []geom.Point, polyhedra [][]int) (*Solid, error) {
	ps, err := NewPointSet(3, points)
	if err != nil {
		return nil, err
	}
	s := &Solid{PointSet: *ps, polyhedra: polyhedra}
	for p, pv := range polyhedra {
		if _, ok := facetTables[len(pv)]; !ok {
			return nil, fmt.Errorf("mesh: polyhedron %d has %d vertices, want 4, 5, 6 or 8", p, len(pv))
		}
		for _, v := range pv {
			if err := s.checkVertex(v); err != nil {
				return nil, fmt.Errorf("mesh: polyhedron %d: %w", p, err)
			}
		}
	}
	s.computeFacetsAndAdjacency()
	s.computeEdges()
	s.computeVertexSeeds()
	return s, nil
}

func (s *Solid) computeFacetsAndAdjacency() {
	shared := make(map[facetKey][]PolyhedronFacet)
	s.facetIndex = make(map[facetKey]int)
	s.adjacents = make([][]int, len(s.polyhedra))
	for p := range s.polyhedra {
		nf := s.NbPolyhedronFacets(p)
		s.adjacents[p] = make([]int, nf)
		for f := 0; f < nf; f++ {
			s.adjacents[p][f] = NoID
			pf := PolyhedronFacet{Polyhedron: p, Facet: f}
			key := makeFacetKey(s.PolyhedronFacetVertices(pf))
			shared[key] = append(shared[key], pf)
			if _, ok := s.facetIndex[key]; !ok {
				s.facetIndex[key] = len(s.facets)
				s.facets = append(s.facets, pf)
			}
		}
	}
	for _, pfs := range shared {
		if len(pfs) != 2 {
			continue
		}
		a, b := pfs[0], pfs[1]
		s.adjacents[a.Polyhedron][a.Facet] = b.Polyhedron
		s.adjacents[b.Polyhedron][b.Facet] = a.Polyhedron
	}
}

func (s *Solid) computeEdges() {
	s.edgeIndex = make(map[[2]int]int)
	for p := range s.polyhedra {
		for _, key := range s.PolyhedronEdges(p) {
			if _, ok := s.edgeIndex[key]; ok {
				continue
			}
			s.edgeIndex[key] = len(s.edges)
			s.edges = append(s.edges, key)
			s.edgeSeed = append(s.edgeSeed, p)
		}
	}
}

func (s *Solid) computeVertexSeeds() {
	s.vertexSeed = make([]PolyhedronVertex, len(s.points))
	for v := range s.vertexSeed {
		s.vertexSeed[v] = PolyhedronVertex{Polyhedron: NoID, Vertex: NoID}
	}
	for p, pv := range s.polyhedra {
		for lv, v := range pv {
			if s.vertexSeed[v].Polyhedron == NoID {
				s.vertexSeed[v] = PolyhedronVertex{Polyhedron: p, Vertex: lv}
			}
		}
	}
}

func (s *Solid) NbPolyhedra() int { return len(s.polyhedra) }

// PolyhedronVertices returns the vertices of polyhedron p. The slice must
// not be modified.
func (s *Solid) PolyhedronVertices(p int) []int { return s.polyhedra[p] }

// NbPolyhedronFacets returns the number of facets of polyhedron p.
func (s *Solid) NbPolyhedronFacets(p int) int {
	return len(facetTables[len(s.polyhedra[p])])
}

// PolyhedronFacetVertices returns the mesh vertices of a local facet, in
// facet order.
func (s *Solid) PolyhedronFacetVertices(pf PolyhedronFacet) []int {
	pv := s.polyhedra[pf.Polyhedron]
	local := facetTables[len(pv)][pf.Facet]
	out := make([]int, len(local))
	for i, lv := range local {
		out[i] = pv[lv]
	}
	return out
}

// PolyhedronEdges returns the edges of polyhedron p as sorted vertex pairs,
// each once, in facet order.
func (s *Solid) PolyhedronEdges(p int) [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for f := 0; f < s.NbPolyhedronFacets(p); f++ {
		fv := s.PolyhedronFacetVertices(PolyhedronFacet{Polyhedron: p, Facet: f})
		for i := range fv {
			key := edgeKey(fv[i], fv[(i+1)%len(fv)])
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}

// PolyhedronAdjacent returns the polyhedron across pf, if any.
func (s *Solid) PolyhedronAdjacent(pf PolyhedronFacet) (int, bool) {
	adj := s.adjacents[pf.Polyhedron][pf.Facet]
	return adj, adj != NoID
}

// MustPolyhedronAdjacent returns the polyhedron across pf and panics when
// pf is on the border.
func (s *Solid) MustPolyhedronAdjacent(pf PolyhedronFacet) int {
	adj, ok := s.PolyhedronAdjacent(pf)
	if !ok {
		panic(fmt.Sprintf("mesh: polyhedron %d facet %d is on the border", pf.Polyhedron, pf.Facet))
	}
	return adj
}

// SetPolyhedronAdjacent overrides the adjacency across pf. Use NoID for a
// border facet.
func (s *Solid) SetPolyhedronAdjacent(pf PolyhedronFacet, adj int) {
	s.adjacents[pf.Polyhedron][pf.Facet] = adj
}

// IsFacetOnBorder reports whether pf has no adjacent polyhedron.
func (s *Solid) IsFacetOnBorder(pf PolyhedronFacet) bool {
	_, ok := s.PolyhedronAdjacent(pf)
	return !ok
}

// NbEdges returns the number of unique edges.
func (s *Solid) NbEdges() int { return len(s.edges) }

// EdgeVertices returns the vertices of unique edge e, smallest first.
func (s *Solid) EdgeVertices(e int) [2]int { return s.edges[e] }

// NbFacets returns the number of unique facets.
func (s *Solid) NbFacets() int { return len(s.facets) }

// FacetVertices returns the vertices of unique facet f in the order of the
// first polyhedron listing it.
func (s *Solid) FacetVertices(f int) []int {
	return s.PolyhedronFacetVertices(s.facets[f])
}

// walk collects polyhedra reachable from seed through facets accepted by
// through, keeping only polyhedra accepted by keep.
func (s *Solid) walk(seed int, through func(facet []int) bool, keep func(p int) bool) []int {
	visited := map[int]bool{seed: true}
	queue := []int{seed}
	var out []int
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		out = append(out, p)
		for f := 0; f < s.NbPolyhedronFacets(p); f++ {
			pf := PolyhedronFacet{Polyhedron: p, Facet: f}
			adj, ok := s.PolyhedronAdjacent(pf)
			if !ok || visited[adj] || !through(s.PolyhedronFacetVertices(pf)) || !keep(adj) {
				continue
			}
			visited[adj] = true
			queue = append(queue, adj)
		}
	}
	return out
}

// PolyhedraAroundVertex walks facet adjacency from the vertex's seed
// polyhedron and returns every polyhedron reached that contains v.
func (s *Solid) PolyhedraAroundVertex(v int) []PolyhedronVertex {
	seed := s.vertexSeed[v]
	if seed.Polyhedron == NoID {
		return nil
	}
	hasV := func(vertices []int) bool { return containsVertex(vertices, v) }
	ps := s.walk(seed.Polyhedron, hasV, func(p int) bool { return hasV(s.polyhedra[p]) })
	out := make([]PolyhedronVertex, len(ps))
	for i, p := range ps {
		out[i] = PolyhedronVertex{Polyhedron: p, Vertex: indexOf(s.polyhedra[p], v)}
	}
	return out
}

// PolyhedraAroundEdge walks facet adjacency around unique edge e from its
// seed polyhedron.
func (s *Solid) PolyhedraAroundEdge(e int) []int {
	ev := s.edges[e]
	facetHasEdge := func(facet []int) bool {
		for i := range facet {
			if edgeKey(facet[i], facet[(i+1)%len(facet)]) == ev {
				return true
			}
		}
		return false
	}
	polyhedronHasEdge := func(p int) bool {
		for _, key := range s.PolyhedronEdges(p) {
			if key == ev {
				return true
			}
		}
		return false
	}
	return s.walk(s.edgeSeed[e], facetHasEdge, polyhedronHasEdge)
}

// PolyhedraAroundFacet returns the seed polyhedron of unique facet f and the
// polyhedron adjacent to it across f, if any.
func (s *Solid) PolyhedraAroundFacet(f int) []int {
	seed := s.facets[f]
	out := []int{seed.Polyhedron}
	if adj, ok := s.PolyhedronAdjacent(seed); ok && adj != seed.Polyhedron {
		out = append(out, adj)
	}
	return out
}

// FacetFromVertices returns the unique facet with the given vertices in any
// order.
func (s *Solid) FacetFromVertices(vertices []int) (int, bool) {
	if len(vertices) > 4 {
		return NoID, false
	}
	f, ok := s.facetIndex[makeFacetKey(vertices)]
	return f, ok
}
