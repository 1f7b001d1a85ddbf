package geom

import "math"

// Position classifies where a point lies relative to a segment or a triangle.
type Position int

const (
	Outside Position = iota
	Inside
	Vertex0
	Vertex1
	Vertex2
	Edge0 // between vertex 0 and vertex 1
	Edge1 // between vertex 1 and vertex 2
	Edge2 // between vertex 2 and vertex 0
	Parallel
)

var positionNames = map[Position]string{
	Outside:  "outside",
	Inside:   "inside",
	Vertex0:  "vertex0",
	Vertex1:  "vertex1",
	Vertex2:  "vertex2",
	Edge0:    "edge0",
	Edge1:    "edge1",
	Edge2:    "edge2",
	Parallel: "parallel",
}

func (p Position) String() string {
	if s, ok := positionNames[p]; ok {
		return s
	}
	return "unknown"
}

// IsVertex reports whether p is one of the triangle vertex positions.
func (p Position) IsVertex() bool {
	return p == Vertex0 || p == Vertex1 || p == Vertex2
}

// IsEdge reports whether p is one of the triangle edge positions.
func (p Position) IsEdge() bool {
	return p == Edge0 || p == Edge1 || p == Edge2
}

// Segment is an ordered pair of points.
type Segment [2]Point

// Triangle is an ordered triple of points.
type Triangle [3]Point

// normal returns the unit normal of t and false when t is degenerate,
// meaning its smallest height is under eps.
func (t Triangle) normal(eps float64) (Point, bool) {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	area2 := n.Length()
	longest := math.Max(Distance(t[0], t[1]), math.Max(Distance(t[1], t[2]), Distance(t[2], t[0])))
	if longest == 0 || area2/longest <= eps {
		return Point{}, false
	}
	return n.MulScalar(1 / area2), true
}

// DominantAxis returns the axis (0 for X, 1 for Y, 2 for Z) along which
// the normal of t is largest. Dropping it projects t without collapsing it.
func (t Triangle) DominantAxis() int {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	x, y, z := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case z >= x && z >= y:
		return 2
	case y >= x:
		return 1
	}
	return 0
}

// DropAxis projects p onto the coordinate plane orthogonal to axis.
func DropAxis(p Point, axis int) Point {
	switch axis {
	case 0:
		return Pt2(p.Y, p.Z)
	case 1:
		return Pt2(p.Z, p.X)
	}
	return Pt2(p.X, p.Y)
}

// PointTrianglePosition classifies p against t. In 3D the point must lie on
// the triangle plane within eps, otherwise it is Outside. Degenerate
// triangles yield Parallel.
func PointTrianglePosition(p Point, t Triangle, eps float64) Position {
	n, ok := t.normal(eps)
	if !ok {
		return Parallel
	}
	if math.Abs(p.Sub(t[0]).Dot(n)) > eps {
		return Outside
	}
	var onEdge [3]bool
	for i := 0; i < 3; i++ {
		a, b := t[i], t[(i+1)%3]
		e := b.Sub(a)
		side := e.Cross(p.Sub(a)).Dot(n) / e.Length()
		if side < -eps {
			return Outside
		}
		onEdge[i] = side <= eps
	}
	switch {
	case onEdge[0] && onEdge[1] && onEdge[2]:
		return Parallel
	case onEdge[0] && onEdge[1]:
		return Vertex1
	case onEdge[1] && onEdge[2]:
		return Vertex2
	case onEdge[2] && onEdge[0]:
		return Vertex0
	case onEdge[0]:
		return Edge0
	case onEdge[1]:
		return Edge1
	case onEdge[2]:
		return Edge2
	}
	return Inside
}

// side2D returns the signed distance of p to the line through a and b in
// the XY plane, snapped to zero under eps.
func side2D(a, b, p Point, eps float64) float64 {
	e := b.Sub(a)
	l := math.Hypot(e.X, e.Y)
	if l == 0 {
		return 0
	}
	d := (e.X*(p.Y-a.Y) - e.Y*(p.X-a.X)) / l
	if math.Abs(d) <= eps {
		return 0
	}
	return d
}

func sameStrictSide(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// SegmentSegmentDetection classifies the intersection of two 2D segments.
// Each returned position describes where the crossing lies on the
// corresponding segment. Colinear segments yield Parallel for both.
func SegmentSegmentDetection(s0, s1 Segment, eps float64) (Position, Position) {
	a, b := s0[0], s0[1]
	c, d := s1[0], s1[1]
	da := side2D(c, d, a, eps)
	db := side2D(c, d, b, eps)
	dc := side2D(a, b, c, eps)
	dd := side2D(a, b, d, eps)
	if da == 0 && db == 0 && dc == 0 && dd == 0 {
		return Parallel, Parallel
	}
	if sameStrictSide(da, db) || sameStrictSide(dc, dd) {
		return Outside, Outside
	}
	first := Inside
	switch {
	case da == 0:
		first = Vertex0
	case db == 0:
		first = Vertex1
	}
	second := Inside
	switch {
	case dc == 0:
		second = Vertex0
	case dd == 0:
		second = Vertex1
	}
	return first, second
}

// SegmentTriangleDetection classifies the crossing of a 3D segment with a
// triangle. The first position is on the segment (Vertex0, Vertex1 or
// Inside), the second on the triangle. A segment lying in the triangle plane
// yields Parallel for both; a segment not reaching the triangle yields
// Outside for both.
func SegmentTriangleDetection(s Segment, t Triangle, eps float64) (Position, Position) {
	n, ok := t.normal(eps)
	if !ok {
		return Outside, Outside
	}
	d0 := s[0].Sub(t[0]).Dot(n)
	d1 := s[1].Sub(t[0]).Dot(n)
	z0 := math.Abs(d0) <= eps
	z1 := math.Abs(d1) <= eps
	if z0 && z1 {
		return Parallel, Parallel
	}
	if !z0 && !z1 && sameStrictSide(d0, d1) {
		return Outside, Outside
	}
	var (
		x     Point
		first Position
	)
	switch {
	case z0:
		x, first = s[0], Vertex0
	case z1:
		x, first = s[1], Vertex1
	default:
		ratio := d0 / (d0 - d1)
		x, first = s[0].Add(s[1].Sub(s[0]).MulScalar(ratio)), Inside
	}
	second := PointTrianglePosition(x, t, eps)
	if second == Outside || second == Parallel {
		return Outside, Outside
	}
	return first, second
}
