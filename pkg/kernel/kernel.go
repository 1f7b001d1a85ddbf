// Package kernel defines the solid modeling interface used to generate
// sample meshes. Backends (sdfx) build solids from primitives and boolean
// operations and tessellate them into triangle soups.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and tessellates solids. Primitives are centered on the
// origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates s with cells marching cubes cells along the
	// longest side of its bounding box.
	ToMesh(s Solid, cells int) (*Mesh, error)
}
