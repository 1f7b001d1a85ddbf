package intersect

import "github.com/chazu/strata/pkg/geom"

func endpointInside(t geom.Triangle, s geom.Segment, eps float64) bool {
	return geom.PointTrianglePosition(s[0], t, eps) == geom.Inside ||
		geom.PointTrianglePosition(s[1], t, eps) == geom.Inside
}

// Intersects2D reports whether segment s crosses the interior of triangle
// t. Touching a triangle vertex or running along an edge is not a crossing.
func Intersects2D(t geom.Triangle, s geom.Segment, eps float64) bool {
	if endpointInside(t, s, eps) {
		return true
	}
	for i := 0; i < 3; i++ {
		first, second := geom.SegmentSegmentDetection(s, geom.Segment{t[i], t[(i+1)%3]}, eps)
		if first == geom.Inside || second == geom.Inside {
			return true
		}
	}
	return false
}

// Intersects3D reports whether segment s crosses triangle t. A segment
// lying in the triangle plane intersects when one of its endpoints is inside
// the triangle or on one of its edges, or when it crosses the triangle in
// that plane.
func Intersects3D(t geom.Triangle, s geom.Segment, eps float64) bool {
	if endpointInside(t, s, eps) {
		return true
	}
	first, second := geom.SegmentTriangleDetection(s, t, eps)
	switch {
	case first == geom.Outside || second == geom.Outside:
		return false
	case first == geom.Parallel:
		for _, p := range s {
			pos := geom.PointTrianglePosition(p, t, eps)
			if pos == geom.Inside || pos.IsEdge() {
				return true
			}
		}
		axis := t.DominantAxis()
		var flat geom.Triangle
		for i, p := range t {
			flat[i] = geom.DropAxis(p, axis)
		}
		return Intersects2D(flat, geom.Segment{geom.DropAxis(s[0], axis), geom.DropAxis(s[1], axis)}, eps)
	case first == geom.Inside:
		return true
	}
	return second == geom.Inside || second.IsEdge()
}
