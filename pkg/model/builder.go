package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/spatial"
)

// ErrUnknownComponent is returned when a relation names a missing component.
var ErrUnknownComponent = errors.New("model: unknown component")

// allowedBoundaries lists, per child type, the parent types it may bound.
var allowedBoundaries = map[ComponentType]ComponentType{
	Corner:  Line,
	Line:    Surface,
	Surface: Block,
}

// Builder assembles a model. Errors are sticky: the first one is returned
// by Build and later calls are ignored.
type Builder struct {
	m      *Model
	byName map[string]uuid.UUID
	err    error
}

// NewBuilder starts a model of dimension dim (2 for a Section, 3 for a
// BRep).
func NewBuilder(name string, dim int) *Builder {
	b := &Builder{m: newModel(name, dim), byName: make(map[string]uuid.UUID)}
	if err := geom.CheckDimension(dim); err != nil {
		b.err = fmt.Errorf("model: %w", err)
	}
	return b
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error { return b.err }

// Model returns the model under construction.
func (b *Builder) Model() *Model { return b.m }

// ID returns the id of a named component.
func (b *Builder) ID(name string) (uuid.UUID, bool) {
	id, ok := b.byName[name]
	return id, ok
}

func (b *Builder) add(t ComponentType, name string, vm VertexMesh) uuid.UUID {
	if b.err != nil {
		return uuid.Nil
	}
	if name == "" {
		name = fmt.Sprintf("%s_%d", t, len(b.m.order[t]))
	}
	if _, dup := b.byName[name]; dup {
		b.err = fmt.Errorf("model: duplicate component name %q", name)
		return uuid.Nil
	}
	if vm.Dimension() != b.m.dim {
		b.err = fmt.Errorf("model: %s %q has dimension %d, model has %d", t, name, vm.Dimension(), b.m.dim)
		return uuid.Nil
	}
	if t == Block && b.m.dim != 3 {
		b.err = fmt.Errorf("model: block %q in a %dD model", name, b.m.dim)
		return uuid.Nil
	}
	// Ids derive from the model and component names so reports are
	// reproducible across runs.
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.m.name+"/"+name))
	b.byName[name] = id
	b.m.components[id] = &Component{ID: ComponentID{Type: t, ID: id}, Name: name, mesh: vm}
	b.m.order[t] = append(b.m.order[t], id)
	links := make([]int, vm.NbVertices())
	for i := range links {
		links[i] = mesh.NoID
	}
	b.m.uniqueOf[id] = links
	return id
}

func (b *Builder) AddCorner(name string, m *mesh.PointSet) uuid.UUID { return b.add(Corner, name, m) }
func (b *Builder) AddLine(name string, m *mesh.EdgedCurve) uuid.UUID { return b.add(Line, name, m) }
func (b *Builder) AddSurface(name string, m *mesh.Surface) uuid.UUID { return b.add(Surface, name, m) }
func (b *Builder) AddBlock(name string, m *mesh.Solid) uuid.UUID     { return b.add(Block, name, m) }

func (b *Builder) lookup(name string) (*Component, error) {
	id, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownComponent, name)
	}
	return b.m.components[id], nil
}

// AddBoundary records that child is a boundary of parent. Corners bound
// lines, lines bound surfaces and surfaces bound blocks.
func (b *Builder) AddBoundary(child, parent string) {
	if b.err != nil {
		return
	}
	c, err := b.lookup(child)
	if err != nil {
		b.err = err
		return
	}
	p, err := b.lookup(parent)
	if err != nil {
		b.err = err
		return
	}
	if want, ok := allowedBoundaries[c.ID.Type]; !ok || want != p.ID.Type {
		b.err = fmt.Errorf("model: %s %q cannot be boundary of %s %q", c.ID.Type, child, p.ID.Type, parent)
		return
	}
	if b.m.IsBoundary(c.ID.ID, p.ID.ID) {
		return
	}
	b.m.boundaries[p.ID.ID] = append(b.m.boundaries[p.ID.ID], c.ID.ID)
	b.m.incidences[c.ID.ID] = append(b.m.incidences[c.ID.ID], p.ID.ID)
}

// AddInternal records that child is internal to parent, which must be of
// a higher dimension.
func (b *Builder) AddInternal(child, parent string) {
	if b.err != nil {
		return
	}
	c, err := b.lookup(child)
	if err != nil {
		b.err = err
		return
	}
	p, err := b.lookup(parent)
	if err != nil {
		b.err = err
		return
	}
	if c.ID.Type >= p.ID.Type {
		b.err = fmt.Errorf("model: %s %q cannot be internal to %s %q", c.ID.Type, child, p.ID.Type, parent)
		return
	}
	if b.m.IsInternal(c.ID.ID, p.ID.ID) {
		return
	}
	b.m.internals[p.ID.ID] = append(b.m.internals[p.ID.ID], c.ID.ID)
	b.m.embeddings[c.ID.ID] = append(b.m.embeddings[c.ID.ID], p.ID.ID)
}

// SetUniqueVertex links vertex v of the named component to unique vertex uv,
// growing the unique-vertex space as needed and replacing any former link.
func (b *Builder) SetUniqueVertex(component string, v, uv int) {
	if b.err != nil {
		return
	}
	c, err := b.lookup(component)
	if err != nil {
		b.err = err
		return
	}
	if v < 0 || v >= c.mesh.NbVertices() || uv < 0 {
		b.err = fmt.Errorf("model: cannot link vertex %d of %q to unique vertex %d", v, component, uv)
		return
	}
	b.link(ComponentMeshVertex{Component: c.ID, Vertex: v}, uv)
}

func (b *Builder) link(cmv ComponentMeshVertex, uv int) {
	links := b.m.uniqueOf[cmv.Component.ID]
	if old := links[cmv.Vertex]; old != mesh.NoID {
		b.m.uniqueVertices[old] = lo.Without(b.m.uniqueVertices[old], cmv)
	}
	for len(b.m.uniqueVertices) <= uv {
		b.m.uniqueVertices = append(b.m.uniqueVertices, nil)
	}
	b.m.uniqueVertices[uv] = append(b.m.uniqueVertices[uv], cmv)
	links[cmv.Vertex] = uv
}

// WeldUniqueVertices rebuilds the unique-vertex space from positions: every
// component vertex is linked, and vertices within eps of each other
// (transitively) share a unique vertex. Unique vertices are numbered in
// order of first appearance, corners first.
func (b *Builder) WeldUniqueVertices(eps float64) {
	if b.err != nil {
		return
	}
	var (
		cmvs   []ComponentMeshVertex
		points []geom.Point
	)
	for _, t := range ComponentTypes {
		for _, c := range b.m.Components(t) {
			for v := 0; v < c.mesh.NbVertices(); v++ {
				cmvs = append(cmvs, ComponentMeshVertex{Component: c.ID, Vertex: v})
				points = append(points, c.mesh.Point(v))
			}
			links := b.m.uniqueOf[c.ID.ID]
			for i := range links {
				links[i] = mesh.NoID
			}
		}
	}
	b.m.uniqueVertices = nil

	ds := spatial.NewDisjointSet(len(points))
	for _, pair := range spatial.NewPointIndex(points, eps).ColocatedPairs() {
		ds.Union(pair[0], pair[1])
	}
	uvOfRoot := make(map[int]int)
	for i, cmv := range cmvs {
		root := ds.Find(i)
		uv, ok := uvOfRoot[root]
		if !ok {
			uv = len(uvOfRoot)
			uvOfRoot[root] = uv
		}
		b.link(cmv, uv)
	}
}

// Build returns the assembled model.
func (b *Builder) Build() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.m, nil
}

// Section returns the assembled model as a 2D Section.
func (b *Builder) Section() (*Section, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if m.dim != 2 {
		return nil, fmt.Errorf("model: %q is %dD, a section is 2D", m.name, m.dim)
	}
	return &Section{Model: m}, nil
}

// BRep returns the assembled model as a 3D BRep.
func (b *Builder) BRep() (*BRep, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if m.dim != 3 {
		return nil, fmt.Errorf("model: %q is %dD, a brep is 3D", m.name, m.dim)
	}
	return &BRep{Model: m}, nil
}
