package kernel

import "github.com/chazu/strata/pkg/geom"

// Mesh is a triangle soup. All arrays are flat: vertices has 3 floats per
// vertex (x,y,z), indices has 3 entries per triangle. Kernels emit every
// triangle with its own three vertices, so neighbouring triangles repeat
// positions.
type Mesh struct {
	Vertices []float64 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Point returns the position of vertex v.
func (m *Mesh) Point(v int) geom.Point {
	return geom.Pt3(m.Vertices[3*v], m.Vertices[3*v+1], m.Vertices[3*v+2])
}

// Triangle returns the vertices of triangle t.
func (m *Mesh) Triangle(t int) [3]int {
	return [3]int{int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])}
}
