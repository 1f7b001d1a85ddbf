package kernel

import (
	"testing"

	"github.com/chazu/strata/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float64
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float64{1, 2, 3}, 1},
		{"four vertices", []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float64{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
	if got := m.Point(2); got != geom.Pt3(1, 1, 0) {
		t.Errorf("Point(2) = %v", got)
	}
	if got := m.Triangle(1); got != [3]int{2, 3, 0} {
		t.Errorf("Triangle(1) = %v", got)
	}
}
