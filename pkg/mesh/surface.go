package mesh

import (
	"fmt"

	"github.com/chazu/strata/pkg/geom"
)

// Surface is a polygonal surface. It is triangulated when every polygon has
// three vertices.
type Surface struct {
	PointSet
	polygons   [][]int
	adjacents  [][]int
	edges      [][2]int
	edgeIndex  map[[2]int]int
	edgeSeed   []PolygonEdge
	vertexSeed []PolygonVertex
}

// NewSurface builds a surface from points and polygons given as vertex
// lists. Two polygons sharing an edge, and only two, are made adjacent
// across it regardless of their orientation.
func NewSurface(dim int, points []geom.Point, polygons [][]int) (*Surface, error) {
	ps, err := NewPointSet(dim, points)
	if err != nil {
		return nil, err
	}
	s := &Surface{PointSet: *ps, polygons: polygons}
	for p, pv := range polygons {
		if len(pv) < 3 {
			return nil, fmt.Errorf("mesh: polygon %d has %d vertices, need at least 3", p, len(pv))
		}
		for _, v := range pv {
			if err := s.checkVertex(v); err != nil {
				return nil, fmt.Errorf("mesh: polygon %d: %w", p, err)
			}
		}
	}
	s.computeEdges()
	s.computeAdjacency()
	s.computeVertexSeeds()
	return s, nil
}

func (s *Surface) computeEdges() {
	s.edgeIndex = make(map[[2]int]int)
	for p, pv := range s.polygons {
		for e := range pv {
			key := edgeKey(pv[e], pv[(e+1)%len(pv)])
			if _, ok := s.edgeIndex[key]; ok {
				continue
			}
			s.edgeIndex[key] = len(s.edges)
			s.edges = append(s.edges, key)
			s.edgeSeed = append(s.edgeSeed, PolygonEdge{Polygon: p, Edge: e})
		}
	}
}

func (s *Surface) computeAdjacency() {
	shared := make(map[[2]int][]PolygonEdge)
	s.adjacents = make([][]int, len(s.polygons))
	for p, pv := range s.polygons {
		s.adjacents[p] = make([]int, len(pv))
		for e := range pv {
			s.adjacents[p][e] = NoID
			key := edgeKey(pv[e], pv[(e+1)%len(pv)])
			shared[key] = append(shared[key], PolygonEdge{Polygon: p, Edge: e})
		}
	}
	for _, pes := range shared {
		if len(pes) != 2 {
			continue
		}
		a, b := pes[0], pes[1]
		s.adjacents[a.Polygon][a.Edge] = b.Polygon
		s.adjacents[b.Polygon][b.Edge] = a.Polygon
	}
}

func (s *Surface) computeVertexSeeds() {
	s.vertexSeed = make([]PolygonVertex, len(s.points))
	for v := range s.vertexSeed {
		s.vertexSeed[v] = PolygonVertex{Polygon: NoID, Vertex: NoID}
	}
	for p, pv := range s.polygons {
		for lv, v := range pv {
			if s.vertexSeed[v].Polygon == NoID {
				s.vertexSeed[v] = PolygonVertex{Polygon: p, Vertex: lv}
			}
		}
	}
}

func (s *Surface) NbPolygons() int { return len(s.polygons) }

// NbPolygonVertices returns the number of vertices of polygon p.
func (s *Surface) NbPolygonVertices(p int) int { return len(s.polygons[p]) }

// PolygonVertices returns the vertices of polygon p. The slice must not be
// modified.
func (s *Surface) PolygonVertices(p int) []int { return s.polygons[p] }

// PolygonVertex returns the mesh vertex at a polygon's local vertex.
func (s *Surface) PolygonVertex(pv PolygonVertex) int {
	return s.polygons[pv.Polygon][pv.Vertex]
}

// PolygonEdgeVertices returns the start and end vertices of a polygon edge.
func (s *Surface) PolygonEdgeVertices(pe PolygonEdge) [2]int {
	pv := s.polygons[pe.Polygon]
	return [2]int{pv[pe.Edge], pv[(pe.Edge+1)%len(pv)]}
}

// PolygonAdjacent returns the polygon across pe, if any.
func (s *Surface) PolygonAdjacent(pe PolygonEdge) (int, bool) {
	adj := s.adjacents[pe.Polygon][pe.Edge]
	return adj, adj != NoID
}

// MustPolygonAdjacent returns the polygon across pe and panics when pe is on
// the border.
func (s *Surface) MustPolygonAdjacent(pe PolygonEdge) int {
	adj, ok := s.PolygonAdjacent(pe)
	if !ok {
		panic(fmt.Sprintf("mesh: polygon %d edge %d is on the border", pe.Polygon, pe.Edge))
	}
	return adj
}

// SetPolygonAdjacent overrides the adjacency across pe. Use NoID for a
// border edge.
func (s *Surface) SetPolygonAdjacent(pe PolygonEdge, adj int) {
	s.adjacents[pe.Polygon][pe.Edge] = adj
}

// IsEdgeOnBorder reports whether pe has no adjacent polygon.
func (s *Surface) IsEdgeOnBorder(pe PolygonEdge) bool {
	_, ok := s.PolygonAdjacent(pe)
	return !ok
}

// IsTriangulated reports whether every polygon is a triangle.
func (s *Surface) IsTriangulated() bool {
	for _, pv := range s.polygons {
		if len(pv) != 3 {
			return false
		}
	}
	return true
}

// Triangle returns the positions of polygon p, which must be a triangle.
func (s *Surface) Triangle(p int) geom.Triangle {
	pv := s.polygons[p]
	return geom.Triangle{s.points[pv[0]], s.points[pv[1]], s.points[pv[2]]}
}

// NbEdges returns the number of unique edges.
func (s *Surface) NbEdges() int { return len(s.edges) }

// EdgeVertices returns the vertices of unique edge e, smallest first.
func (s *Surface) EdgeVertices(e int) [2]int { return s.edges[e] }

// EdgeFromVertices returns the unique edge joining a and b.
func (s *Surface) EdgeFromVertices(a, b int) (int, bool) {
	e, ok := s.edgeIndex[edgeKey(a, b)]
	return e, ok
}

// PolygonsAroundVertex walks adjacency from the vertex's seed polygon and
// returns every polygon reached that contains v. An isolated vertex has no
// polygon around it.
func (s *Surface) PolygonsAroundVertex(v int) []PolygonVertex {
	seed := s.vertexSeed[v]
	if seed.Polygon == NoID {
		return nil
	}
	visited := map[int]bool{seed.Polygon: true}
	queue := []int{seed.Polygon}
	var out []PolygonVertex
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		pv := s.polygons[p]
		lv := indexOf(pv, v)
		out = append(out, PolygonVertex{Polygon: p, Vertex: lv})
		prev := (lv + len(pv) - 1) % len(pv)
		for _, e := range []int{lv, prev} {
			adj := s.adjacents[p][e]
			if adj == NoID || visited[adj] || !containsVertex(s.polygons[adj], v) {
				continue
			}
			visited[adj] = true
			queue = append(queue, adj)
		}
	}
	return out
}

// PolygonsAroundEdge returns the seed polygon of unique edge e and the
// polygon adjacent to it across e, if any.
func (s *Surface) PolygonsAroundEdge(e int) []int {
	seed := s.edgeSeed[e]
	out := []int{seed.Polygon}
	if adj, ok := s.PolygonAdjacent(seed); ok && adj != seed.Polygon {
		out = append(out, adj)
	}
	return out
}
