package intersect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

func unitSquare(t *testing.T) *mesh.Surface {
	t.Helper()
	s, err := mesh.NewSurface(2,
		[]geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(0, 1), geom.Pt2(1, 1)},
		[][]int{{0, 1, 2}, {1, 3, 2}})
	require.NoError(t, err)
	return s
}

func polyline(t *testing.T, dim int, pts ...geom.Point) *mesh.EdgedCurve {
	t.Helper()
	c, err := mesh.NewPolyline(dim, pts, false)
	require.NoError(t, err)
	return c
}

// --- Predicates ---

func TestIntersects2D(t *testing.T) {
	tri := geom.Triangle{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(0, 1)}
	tests := []struct {
		name string
		seg  geom.Segment
		want bool
	}{
		{"endpoint inside", geom.Segment{geom.Pt2(0.2, 0.2), geom.Pt2(2, 2)}, true},
		{"crossing", geom.Segment{geom.Pt2(-1, 0.25), geom.Pt2(2, 0.25)}, true},
		{"beyond hypotenuse", geom.Segment{geom.Pt2(0.6, 0.6), geom.Pt2(2, 0.6)}, false},
		{"touching a vertex", geom.Segment{geom.Pt2(1, 0), geom.Pt2(2, 0)}, false},
		{"far away", geom.Segment{geom.Pt2(3, 3), geom.Pt2(4, 3)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects2D(tri, tt.seg, geom.DefaultEpsilon))
		})
	}
}

func TestIntersects3D(t *testing.T) {
	tri := geom.Triangle{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0)}
	tests := []struct {
		name string
		seg  geom.Segment
		want bool
	}{
		{"piercing", geom.Segment{geom.Pt3(0.2, 0.2, -1), geom.Pt3(0.2, 0.2, 1)}, true},
		{"missing", geom.Segment{geom.Pt3(0.8, 0.8, -1), geom.Pt3(0.8, 0.8, 1)}, false},
		{"above", geom.Segment{geom.Pt3(0.2, 0.2, 1), geom.Pt3(0.2, 0.2, 2)}, false},
		{"in plane, inside", geom.Segment{geom.Pt3(0.1, 0.1, 0), geom.Pt3(0.3, 0.1, 0)}, true},
		{"in plane, crossing through", geom.Segment{geom.Pt3(-1, 0.2, 0), geom.Pt3(2, 0.2, 0)}, true},
		{"in plane, beyond hypotenuse", geom.Segment{geom.Pt3(0.6, 0.6, 0), geom.Pt3(2, 0.6, 0)}, false},
		{"in plane, touching a vertex", geom.Segment{geom.Pt3(1, 0, 0), geom.Pt3(2, 0, 0)}, false},
		{"ending on an edge", geom.Segment{geom.Pt3(0.5, 0, 0), geom.Pt3(0.5, 0, 1)}, true},
		{"ending on a vertex", geom.Segment{geom.Pt3(0, 0, 0), geom.Pt3(0, 0, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects3D(tri, tt.seg, geom.DefaultEpsilon))
		})
	}
}

// --- Detector ---

func TestDetector2D(t *testing.T) {
	curve := polyline(t, 2, geom.Pt2(-1, 0.25), geom.Pt2(2, 0.25), geom.Pt2(3, 3), geom.Pt2(4, 3))
	d, err := New(unitSquare(t), curve, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.True(t, d.MeshesHaveIntersections())
	set, err := d.IntersectingElements()
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Triangle: 0, Edge: 0}, {Triangle: 1, Edge: 0}}, set.Subjects())
	assert.Equal(t, []string{
		"Triangle 0 and edge 0 intersect each other.",
		"Triangle 1 and edge 0 intersect each other.",
	}, set.Messages())
	assert.Equal(t, "Triangle edge intersections between triangle.", set.Description())
}

func TestDetectorWorkersAgree(t *testing.T) {
	curve := polyline(t, 2,
		geom.Pt2(-1, 0.1), geom.Pt2(2, 0.2), geom.Pt2(0.5, 2), geom.Pt2(0.5, -1), geom.Pt2(-1, 0.9), geom.Pt2(2, 0.9))
	want := func() []Pair {
		d, err := New(unitSquare(t), curve, WithWorkers(1))
		require.NoError(t, err)
		pairs, err := d.IntersectingPairs()
		require.NoError(t, err)
		return pairs
	}()
	require.NotEmpty(t, want)

	for _, workers := range []int{2, 3, 8, 0} {
		d, err := New(unitSquare(t), curve, WithWorkers(workers))
		require.NoError(t, err)
		got, err := d.IntersectingPairs()
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestFirstHitMatchesExhaustive(t *testing.T) {
	curves := map[string]*mesh.EdgedCurve{
		"crossing":     polyline(t, 2, geom.Pt2(-1, 0.5), geom.Pt2(2, 0.5)),
		"outside":      polyline(t, 2, geom.Pt2(2, 0), geom.Pt2(2, 2), geom.Pt2(3, 3)),
		"box overlaps": polyline(t, 2, geom.Pt2(1.5, -0.5), geom.Pt2(1.5, 0.5)),
	}
	for name, curve := range curves {
		t.Run(name, func(t *testing.T) {
			d, err := New(unitSquare(t), curve)
			require.NoError(t, err)
			set, err := d.IntersectingElements()
			require.NoError(t, err)
			assert.Equal(t, d.MeshesHaveIntersections(), !set.Empty())
		})
	}
}

func TestDetector3D(t *testing.T) {
	s, err := mesh.NewSurface(3,
		[]geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0)},
		[][]int{{0, 1, 2}})
	require.NoError(t, err)
	curve := polyline(t, 3, geom.Pt3(0.2, 0.2, -1), geom.Pt3(0.2, 0.2, 1), geom.Pt3(0.2, 0.2, 2))

	d, err := New(s, curve)
	require.NoError(t, err)
	pairs, err := d.IntersectingPairs()
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Triangle: 0, Edge: 0}}, pairs)
}

func TestDetector3DCoplanarCrossing(t *testing.T) {
	tests := []struct {
		name  string
		tri   []geom.Point
		curve []geom.Point
	}{
		{"xy plane",
			[]geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0)},
			[]geom.Point{geom.Pt3(-1, 0.2, 0), geom.Pt3(2, 0.2, 0)}},
		{"yz plane",
			[]geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(0, 1, 0), geom.Pt3(0, 0, 1)},
			[]geom.Point{geom.Pt3(0, -1, 0.2), geom.Pt3(0, 2, 0.2)}},
		{"xz plane",
			[]geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 0, 1)},
			[]geom.Point{geom.Pt3(0.2, 0, -1), geom.Pt3(0.2, 0, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := mesh.NewSurface(3, tt.tri, [][]int{{0, 1, 2}})
			require.NoError(t, err)

			d, err := New(s, polyline(t, 3, tt.curve...))
			require.NoError(t, err)
			assert.True(t, d.MeshesHaveIntersections())
			pairs, err := d.IntersectingPairs()
			require.NoError(t, err)
			assert.Equal(t, []Pair{{Triangle: 0, Edge: 0}}, pairs)
		})
	}
}

func TestIntersectingPairsWorkerFailure(t *testing.T) {
	d, err := New(unitSquare(t), polyline(t, 2, geom.Pt2(-1, 0.5), geom.Pt2(2, 0.5)), WithWorkers(2))
	require.NoError(t, err)
	d.candidates = append(d.candidates, Pair{Triangle: 99, Edge: 0})

	_, err = d.IntersectingPairs()
	assert.ErrorContains(t, err, "intersect: worker failed")
	_, err = d.IntersectingElements()
	assert.Error(t, err)
}

func TestNewErrors(t *testing.T) {
	_, err := New(unitSquare(t), polyline(t, 3, geom.Pt3(0, 0, 0), geom.Pt3(1, 1, 1)))
	assert.ErrorContains(t, err, "surface is 2D, curve is 3D")

	quad, err := mesh.NewSurface(2,
		[]geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(1, 1), geom.Pt2(0, 1)},
		[][]int{{0, 1, 2, 3}})
	require.NoError(t, err)
	_, err = New(quad, polyline(t, 2, geom.Pt2(0, 0), geom.Pt2(1, 1)))
	assert.ErrorIs(t, err, ErrNotTriangulated)
}
