// Package geom provides the point, box and predicate vocabulary shared by
// the inspectors. Points are sdfx vectors; 2D entities store Z == 0 and
// carry their dimension separately, so one algorithm serves both.
package geom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultEpsilon is the distance under which two points are considered equal.
const DefaultEpsilon = 1e-6

// Point is a position in 2D (Z == 0) or 3D.
type Point = v3.Vec

// Box is an axis-aligned bounding box.
type Box = sdf.Box3

// Pt2 and Pt3 build points.
func Pt2(x, y float64) Point    { return Point{X: x, Y: y} }
func Pt3(x, y, z float64) Point { return Point{X: x, Y: y, Z: z} }

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Length()
}

// InexactEqual reports whether a and b are within eps of each other.
func InexactEqual(a, b Point, eps float64) bool {
	return Distance(a, b) <= eps
}

// BoxOf returns the bounding box of the given points. It panics on an
// empty argument list.
func BoxOf(points ...Point) Box {
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
	}
	return b
}

// Inflate grows b by d on every side.
func Inflate(b Box, d float64) Box {
	off := Point{X: d, Y: d, Z: d}
	return Box{Min: b.Min.Sub(off), Max: b.Max.Add(off)}
}

// Overlap reports whether a and b share at least one point.
func Overlap(a, b Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}

// Format renders p as "[x y]" or "[x y z]" depending on dim.
func Format(p Point, dim int) string {
	coords := []float64{p.X, p.Y, p.Z}
	if dim == 2 {
		coords = coords[:2]
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatIndices renders indices separated by single spaces.
func FormatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// CheckDimension returns an error unless dim is 2 or 3.
func CheckDimension(dim int) error {
	if dim != 2 && dim != 3 {
		return fmt.Errorf("geom: unsupported dimension %d", dim)
	}
	return nil
}
