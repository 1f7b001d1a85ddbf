// Package tessellate turns shape descriptions into inspectable surfaces. A
// shape tree is built into one kernel solid, tessellated into a triangle
// soup, and converted to a mesh.Surface either as is or welded.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/kernel"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/spatial"
)

// ShapeKind identifies a node of a shape tree.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
	ShapeSphere
	ShapeUnion
	ShapeDifference
	ShapeTranslate
)

// Shape is a node of a constructive shape tree. Size holds the primitive
// dimensions (box x y z, cylinder height radius, sphere radius) or the
// translation offset.
type Shape struct {
	Kind     ShapeKind
	Size     [3]float64
	Children []Shape
}

func Box(x, y, z float64) Shape             { return Shape{Kind: ShapeBox, Size: [3]float64{x, y, z}} }
func Cylinder(height, radius float64) Shape { return Shape{Kind: ShapeCylinder, Size: [3]float64{height, radius}} }
func Sphere(radius float64) Shape           { return Shape{Kind: ShapeSphere, Size: [3]float64{radius}} }

// Union joins all given shapes.
func Union(a Shape, rest ...Shape) Shape {
	return Shape{Kind: ShapeUnion, Children: append([]Shape{a}, rest...)}
}

// Difference removes b from a.
func Difference(a, b Shape) Shape {
	return Shape{Kind: ShapeDifference, Children: []Shape{a, b}}
}

// Translate moves s by (x, y, z).
func Translate(s Shape, x, y, z float64) Shape {
	return Shape{Kind: ShapeTranslate, Size: [3]float64{x, y, z}, Children: []Shape{s}}
}

// transformStack accumulates translations during the tree walk.
type transformStack struct {
	translations []geom.Point
}

func (ts *transformStack) push(v geom.Point) { ts.translations = append(ts.translations, v) }
func (ts *transformStack) pop()              { ts.translations = ts.translations[:len(ts.translations)-1] }

func (ts *transformStack) accumulated() geom.Point {
	var sum geom.Point
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// Tessellate builds s with k and returns its triangle soup.
func Tessellate(s Shape, k kernel.Kernel, cells int) (*kernel.Mesh, error) {
	solid, err := walk(k, s, &transformStack{})
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	soup, err := k.ToMesh(solid, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return soup, nil
}

// walk builds the solid of a node. Translations are pushed on the way down
// and applied to each primitive.
func walk(k kernel.Kernel, s Shape, ts *transformStack) (kernel.Solid, error) {
	switch s.Kind {
	case ShapeBox, ShapeCylinder, ShapeSphere:
		return primitive(k, s, ts)

	case ShapeTranslate:
		if len(s.Children) != 1 {
			return nil, fmt.Errorf("translate takes one shape, got %d", len(s.Children))
		}
		ts.push(geom.Pt3(s.Size[0], s.Size[1], s.Size[2]))
		defer ts.pop()
		return walk(k, s.Children[0], ts)

	case ShapeUnion, ShapeDifference:
		if len(s.Children) == 0 || (s.Kind == ShapeDifference && len(s.Children) != 2) {
			return nil, fmt.Errorf("shape kind %d: bad operand count %d", s.Kind, len(s.Children))
		}
		acc, err := walk(k, s.Children[0], ts)
		if err != nil {
			return nil, err
		}
		for _, c := range s.Children[1:] {
			next, err := walk(k, c, ts)
			if err != nil {
				return nil, err
			}
			if s.Kind == ShapeUnion {
				acc = k.Union(acc, next)
			} else {
				acc = k.Difference(acc, next)
			}
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unknown shape kind %d", s.Kind)
}

func primitive(k kernel.Kernel, s Shape, ts *transformStack) (kernel.Solid, error) {
	var solid kernel.Solid
	switch s.Kind {
	case ShapeBox:
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return nil, fmt.Errorf("box size %v must be positive", s.Size)
		}
		solid = k.Box(s.Size[0], s.Size[1], s.Size[2])
	case ShapeCylinder:
		if s.Size[0] <= 0 || s.Size[1] <= 0 {
			return nil, fmt.Errorf("cylinder height %g and radius %g must be positive", s.Size[0], s.Size[1])
		}
		solid = k.Cylinder(s.Size[0], s.Size[1])
	case ShapeSphere:
		if s.Size[0] <= 0 {
			return nil, fmt.Errorf("sphere radius %g must be positive", s.Size[0])
		}
		solid = k.Sphere(s.Size[0])
	}
	if t := ts.accumulated(); t != (geom.Point{}) {
		solid = k.Translate(solid, t.X, t.Y, t.Z)
	}
	return solid, nil
}

var errEmptySoup = errors.New("tessellate: empty triangle soup")

// Surface converts a soup into a 3D triangulated surface keeping every
// soup vertex, so repeated positions stay distinct vertices.
func Surface(soup *kernel.Mesh) (*mesh.Surface, error) {
	if soup.IsEmpty() {
		return nil, errEmptySoup
	}
	pts := make([]geom.Point, soup.VertexCount())
	for v := range pts {
		pts[v] = soup.Point(v)
	}
	tris := make([][]int, soup.TriangleCount())
	for t := range tris {
		tri := soup.Triangle(t)
		tris[t] = tri[:]
	}
	return mesh.NewSurface(3, pts, tris)
}

// Weld converts a soup into a surface whose vertices within eps of each
// other (transitively) are merged. Triangles that collapse onto fewer
// than three distinct vertices are kept; they are what the degeneration
// criterion reports.
func Weld(soup *kernel.Mesh, eps float64) (*mesh.Surface, error) {
	if soup.IsEmpty() {
		return nil, errEmptySoup
	}
	pts := make([]geom.Point, soup.VertexCount())
	for v := range pts {
		pts[v] = soup.Point(v)
	}
	ds := spatial.NewDisjointSet(len(pts))
	for _, pair := range spatial.NewPointIndex(pts, eps).ColocatedPairs() {
		ds.Union(pair[0], pair[1])
	}

	var welded []geom.Point
	index := make(map[int]int)
	remap := make([]int, len(pts))
	for v := range pts {
		root := ds.Find(v)
		w, ok := index[root]
		if !ok {
			w = len(welded)
			index[root] = w
			welded = append(welded, pts[root])
		}
		remap[v] = w
	}

	tris := make([][]int, soup.TriangleCount())
	for t := range tris {
		tri := soup.Triangle(t)
		tris[t] = []int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	return mesh.NewSurface(3, welded, tris)
}
