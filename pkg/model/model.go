// Package model holds multi-component boundary representations: 2D
// Sections and 3D BReps made of corners, lines, surfaces and blocks that
// share a unique-vertex space and a relationship graph.
//
// Models are assembled with a Builder and only read afterwards.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// ComponentType is the kind of a model component.
type ComponentType int

const (
	Corner ComponentType = iota
	Line
	Surface
	Block
)

var componentTypeNames = [...]string{"Corner", "Line", "Surface", "Block"}

func (t ComponentType) String() string {
	if t < Corner || t > Block {
		return fmt.Sprintf("ComponentType(%d)", int(t))
	}
	return componentTypeNames[t]
}

// ComponentTypes lists every component type from lowest to highest
// dimension.
var ComponentTypes = []ComponentType{Corner, Line, Surface, Block}

// ComponentID identifies a component.
type ComponentID struct {
	Type ComponentType
	ID   uuid.UUID
}

func (c ComponentID) String() string {
	return c.Type.String() + " " + c.ID.String()
}

// ComponentMeshVertex is a vertex of one component mesh.
type ComponentMeshVertex struct {
	Component ComponentID
	Vertex    int
}

// VertexMesh is what every component mesh provides.
type VertexMesh interface {
	Dimension() int
	NbVertices() int
	Point(v int) geom.Point
}

// Component is one corner, line, surface or block with its mesh.
type Component struct {
	ID   ComponentID
	Name string
	mesh VertexMesh
}

// Mesh returns the component mesh.
func (c *Component) Mesh() VertexMesh { return c.mesh }

// PointSet returns the mesh of a corner.
func (c *Component) PointSet() *mesh.PointSet { return c.mesh.(*mesh.PointSet) }

// Curve returns the mesh of a line.
func (c *Component) Curve() *mesh.EdgedCurve { return c.mesh.(*mesh.EdgedCurve) }

// Surface returns the mesh of a surface.
func (c *Component) Surface() *mesh.Surface { return c.mesh.(*mesh.Surface) }

// Solid returns the mesh of a block.
func (c *Component) Solid() *mesh.Solid { return c.mesh.(*mesh.Solid) }

// Model is a set of components, their unique vertices and relationships.
type Model struct {
	name       string
	dim        int
	components map[uuid.UUID]*Component
	order      map[ComponentType][]uuid.UUID

	uniqueVertices [][]ComponentMeshVertex
	uniqueOf       map[uuid.UUID][]int

	boundaries map[uuid.UUID][]uuid.UUID
	incidences map[uuid.UUID][]uuid.UUID
	internals  map[uuid.UUID][]uuid.UUID
	embeddings map[uuid.UUID][]uuid.UUID
}

func newModel(name string, dim int) *Model {
	return &Model{
		name:       name,
		dim:        dim,
		components: make(map[uuid.UUID]*Component),
		order:      make(map[ComponentType][]uuid.UUID),
		uniqueOf:   make(map[uuid.UUID][]int),
		boundaries: make(map[uuid.UUID][]uuid.UUID),
		incidences: make(map[uuid.UUID][]uuid.UUID),
		internals:  make(map[uuid.UUID][]uuid.UUID),
		embeddings: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *Model) Name() string   { return m.name }
func (m *Model) Dimension() int { return m.dim }

// Component returns the component with the given id, or nil.
func (m *Model) Component(id uuid.UUID) *Component { return m.components[id] }

// Components returns the components of type t in insertion order.
func (m *Model) Components(t ComponentType) []*Component {
	ids := m.order[t]
	out := make([]*Component, len(ids))
	for i, id := range ids {
		out[i] = m.components[id]
	}
	return out
}

func (m *Model) Corners() []*Component  { return m.Components(Corner) }
func (m *Model) Lines() []*Component    { return m.Components(Line) }
func (m *Model) Surfaces() []*Component { return m.Components(Surface) }
func (m *Model) Blocks() []*Component   { return m.Components(Block) }

// NbComponents returns the number of components of every type.
func (m *Model) NbComponents() int { return len(m.components) }

// NbUniqueVertices returns the size of the unique-vertex space.
func (m *Model) NbUniqueVertices() int { return len(m.uniqueVertices) }

// ComponentMeshVertices returns the component vertices linked to unique
// vertex uv.
func (m *Model) ComponentMeshVertices(uv int) []ComponentMeshVertex {
	return m.uniqueVertices[uv]
}

// UniqueVertex returns the unique vertex a component vertex is linked to.
func (m *Model) UniqueVertex(cmv ComponentMeshVertex) (int, bool) {
	links := m.uniqueOf[cmv.Component.ID]
	if cmv.Vertex < 0 || cmv.Vertex >= len(links) || links[cmv.Vertex] == mesh.NoID {
		return mesh.NoID, false
	}
	return links[cmv.Vertex], true
}

// UniqueVertexComponents returns, without duplicates and in order of
// appearance, the components of type t linked to unique vertex uv.
func (m *Model) UniqueVertexComponents(uv int, t ComponentType) []uuid.UUID {
	var out []uuid.UUID
	for _, cmv := range m.uniqueVertices[uv] {
		if cmv.Component.Type == t && !lo.Contains(out, cmv.Component.ID) {
			out = append(out, cmv.Component.ID)
		}
	}
	return out
}

// UniqueVertexCMVs returns the component vertices of uv whose component
// has type t.
func (m *Model) UniqueVertexCMVs(uv int, t ComponentType) []ComponentMeshVertex {
	return lo.Filter(m.uniqueVertices[uv], func(cmv ComponentMeshVertex, _ int) bool {
		return cmv.Component.Type == t
	})
}

// IsBoundary reports whether a is a boundary of b.
func (m *Model) IsBoundary(a, b uuid.UUID) bool { return lo.Contains(m.boundaries[b], a) }

// IsInternal reports whether a is internal to b.
func (m *Model) IsInternal(a, b uuid.UUID) bool { return lo.Contains(m.internals[b], a) }

// Boundaries returns the components bounding id.
func (m *Model) Boundaries(id uuid.UUID) []uuid.UUID { return m.boundaries[id] }

// Incidences returns the components id is a boundary of.
func (m *Model) Incidences(id uuid.UUID) []uuid.UUID { return m.incidences[id] }

// Internals returns the components internal to id.
func (m *Model) Internals(id uuid.UUID) []uuid.UUID { return m.internals[id] }

// Embeddings returns the components id is internal to.
func (m *Model) Embeddings(id uuid.UUID) []uuid.UUID { return m.embeddings[id] }

func (m *Model) NbIncidences(id uuid.UUID) int { return len(m.incidences[id]) }
func (m *Model) NbEmbeddings(id uuid.UUID) int { return len(m.embeddings[id]) }

// NbEmbeddingSurfaces returns the number of surfaces id is internal to.
func (m *Model) NbEmbeddingSurfaces(id uuid.UUID) int {
	return lo.CountBy(m.embeddings[id], func(e uuid.UUID) bool {
		return m.components[e].ID.Type == Surface
	})
}

// InternalLines returns the lines internal to a surface.
func (m *Model) InternalLines(surface uuid.UUID) []uuid.UUID {
	return lo.Filter(m.internals[surface], func(id uuid.UUID, _ int) bool {
		return m.components[id].ID.Type == Line
	})
}

// Section is a 2D model.
type Section struct{ *Model }

// BRep is a 3D model.
type BRep struct{ *Model }
