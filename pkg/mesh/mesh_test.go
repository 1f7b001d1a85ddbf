package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/strata/pkg/geom"
)

// squareSurface is two triangles sharing the edge 1-2.
func squareSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := NewSurface(2, []geom.Point{
		geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(0, 1), geom.Pt2(1, 1),
	}, [][]int{{0, 1, 2}, {1, 3, 2}})
	require.NoError(t, err)
	return s
}

// twoTets shares the facet 1-2-3 between two positively oriented tetrahedra.
func twoTets(t *testing.T) *Solid {
	t.Helper()
	s, err := NewSolid([]geom.Point{
		geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0), geom.Pt3(0, 0, 1), geom.Pt3(1, 1, 1),
	}, [][]int{{0, 1, 2, 3}, {1, 2, 3, 4}})
	require.NoError(t, err)
	return s
}

// --- PointSet and EdgedCurve ---

func TestPointSet(t *testing.T) {
	ps, err := NewPointSet(3, []geom.Point{geom.Pt3(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, 3, ps.Dimension())
	assert.Equal(t, 1, ps.NbVertices())
	assert.Equal(t, geom.Pt3(1, 2, 3), ps.Point(0))

	_, err = NewPointSet(1, nil)
	assert.Error(t, err)
}

func TestEdgedCurve(t *testing.T) {
	c, err := NewPolyline(2, []geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(1, 1)}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, c.NbEdges())
	assert.Equal(t, [2]int{2, 0}, c.EdgeVertices(2))
	assert.Equal(t, geom.Segment{geom.Pt2(1, 0), geom.Pt2(1, 1)}, c.EdgeSegment(1))

	_, err = NewEdgedCurve(2, []geom.Point{geom.Pt2(0, 0)}, [][2]int{{0, 1}})
	assert.ErrorContains(t, err, "edge 0")
}

// --- Surface ---

func TestSurfaceAdjacency(t *testing.T) {
	s := squareSurface(t)

	adj, ok := s.PolygonAdjacent(PolygonEdge{Polygon: 0, Edge: 1})
	require.True(t, ok)
	assert.Equal(t, 1, adj)
	assert.Equal(t, 0, s.MustPolygonAdjacent(PolygonEdge{Polygon: 1, Edge: 2}))
	assert.True(t, s.IsEdgeOnBorder(PolygonEdge{Polygon: 0, Edge: 0}))
	assert.Panics(t, func() { s.MustPolygonAdjacent(PolygonEdge{Polygon: 0, Edge: 0}) })
	assert.Equal(t, [2]int{1, 2}, s.PolygonEdgeVertices(PolygonEdge{Polygon: 0, Edge: 1}))
	assert.True(t, s.IsTriangulated())
}

func TestSurfaceEdges(t *testing.T) {
	s := squareSurface(t)
	assert.Equal(t, 5, s.NbEdges())

	e, ok := s.EdgeFromVertices(2, 1)
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 2}, s.EdgeVertices(e))
	assert.ElementsMatch(t, []int{0, 1}, s.PolygonsAroundEdge(e))

	border, ok := s.EdgeFromVertices(0, 1)
	require.True(t, ok)
	assert.Equal(t, []int{0}, s.PolygonsAroundEdge(border))
}

func TestSurfacePolygonsAroundVertex(t *testing.T) {
	s := squareSurface(t)
	assert.ElementsMatch(t, []PolygonVertex{{0, 1}, {1, 0}}, s.PolygonsAroundVertex(1))
	assert.Equal(t, []PolygonVertex{{0, 0}}, s.PolygonsAroundVertex(0))
}

func TestSurfaceBowTieVertexWalksOneFan(t *testing.T) {
	s, err := NewSurface(2, []geom.Point{
		geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(1, 1), geom.Pt2(-1, 0), geom.Pt2(-1, -1),
	}, [][]int{{0, 1, 2}, {0, 3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []PolygonVertex{{0, 0}}, s.PolygonsAroundVertex(0))
}

func TestSurfaceIsolatedVertex(t *testing.T) {
	s, err := NewSurface(2, []geom.Point{
		geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(0, 1), geom.Pt2(5, 5),
	}, [][]int{{0, 1, 2}})
	require.NoError(t, err)
	assert.Nil(t, s.PolygonsAroundVertex(3))
}

func TestNewSurfaceRejectsBadPolygons(t *testing.T) {
	pts := []geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(0, 1)}
	_, err := NewSurface(2, pts, [][]int{{0, 1}})
	assert.ErrorContains(t, err, "at least 3")
	_, err = NewSurface(2, pts, [][]int{{0, 1, 7}})
	assert.ErrorContains(t, err, "out of range")
}

func TestSetPolygonAdjacent(t *testing.T) {
	s := squareSurface(t)
	pe := PolygonEdge{Polygon: 0, Edge: 1}
	s.SetPolygonAdjacent(pe, NoID)
	assert.True(t, s.IsEdgeOnBorder(pe))
}

// --- Solid ---

func TestSolidAdjacency(t *testing.T) {
	s := twoTets(t)
	assert.Equal(t, 2, s.NbPolyhedra())
	assert.Equal(t, 4, s.NbPolyhedronFacets(0))

	shared := PolyhedronFacet{Polyhedron: 0, Facet: 0}
	assert.Equal(t, []int{1, 3, 2}, s.PolyhedronFacetVertices(shared))
	assert.Equal(t, 1, s.MustPolyhedronAdjacent(shared))
	assert.True(t, s.IsFacetOnBorder(PolyhedronFacet{Polyhedron: 0, Facet: 3}))
	assert.Equal(t, 0, s.MustPolyhedronAdjacent(PolyhedronFacet{Polyhedron: 1, Facet: 3}))
}

func TestSolidEdgesAndFacets(t *testing.T) {
	s := twoTets(t)
	assert.Equal(t, 9, s.NbEdges())
	assert.Equal(t, 7, s.NbFacets())
	assert.Len(t, s.PolyhedronEdges(0), 6)

	f, ok := s.FacetFromVertices([]int{3, 2, 1})
	require.True(t, ok)
	assert.ElementsMatch(t, []int{0, 1}, s.PolyhedraAroundFacet(f))
}

func TestSolidIncidenceWalks(t *testing.T) {
	s := twoTets(t)
	assert.ElementsMatch(t, []PolyhedronVertex{{0, 1}, {1, 0}}, s.PolyhedraAroundVertex(1))
	assert.Equal(t, []PolyhedronVertex{{1, 3}}, s.PolyhedraAroundVertex(4))

	for e := 0; e < s.NbEdges(); e++ {
		ev := s.EdgeVertices(e)
		switch ev {
		case [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3}:
			assert.ElementsMatch(t, []int{0, 1}, s.PolyhedraAroundEdge(e), "edge %v", ev)
		default:
			assert.Len(t, s.PolyhedraAroundEdge(e), 1, "edge %v", ev)
		}
	}
}

func TestNewSolidRejectsUnknownType(t *testing.T) {
	_, err := NewSolid([]geom.Point{geom.Pt3(0, 0, 0)}, [][]int{{0, 0, 0}})
	assert.ErrorContains(t, err, "want 4, 5, 6 or 8")
}

func TestHexahedronFacets(t *testing.T) {
	pts := []geom.Point{
		geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(1, 1, 0), geom.Pt3(0, 1, 0),
		geom.Pt3(0, 0, 1), geom.Pt3(1, 0, 1), geom.Pt3(1, 1, 1), geom.Pt3(0, 1, 1),
	}
	s, err := NewSolid(pts, [][]int{{0, 1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)
	assert.Equal(t, 6, s.NbPolyhedronFacets(0))
	assert.Equal(t, 12, s.NbEdges())
	assert.Equal(t, 6, s.NbFacets())
}
