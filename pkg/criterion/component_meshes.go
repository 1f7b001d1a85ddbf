package criterion

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
	"github.com/chazu/strata/pkg/spatial"
)

// collect runs check on every component and keeps the non-empty sets,
// prefixing their description with the component they belong to.
func collect[T any](desc string, comps []*model.Component, check func(*model.Component) *issue.Set[T]) *issue.Map[uuid.UUID, T] {
	out := issue.NewMap[uuid.UUID, T](desc)
	for _, c := range comps {
		set := check(c)
		if set.Empty() {
			continue
		}
		set.SetDescription(fmt.Sprintf("%s %s (%s): %s", c.ID.Type, c.Name, c.ID.ID, set.Description()))
		out.Merge(c.ID.ID, set)
	}
	return out
}

func meshed(m *model.Model, types ...model.ComponentType) []*model.Component {
	var out []*model.Component
	for _, t := range types {
		for _, c := range m.Components(t) {
			if c.Mesh().NbVertices() > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

// ComponentMeshesColocation runs the colocation inspector on every line,
// surface and block mesh of a model.
type ComponentMeshesColocation struct {
	model *model.Model
	opts  []Option
}

func NewComponentMeshesColocation(m *model.Model, opts ...Option) *ComponentMeshesColocation {
	return &ComponentMeshesColocation{model: m, opts: opts}
}

func (c *ComponentMeshesColocation) ColocatedPointsGroups() *issue.Map[uuid.UUID, []int] {
	return collect("Component meshes with colocated points.",
		meshed(c.model, model.Line, model.Surface, model.Block),
		func(comp *model.Component) *issue.Set[[]int] {
			return NewColocation(comp.Mesh(), c.opts...).ColocatedPointsGroups()
		})
}

// DegenerationResult groups degenerated elements per component.
type DegenerationResult struct {
	Edges     *issue.Map[uuid.UUID, int]
	Polygons  *issue.Map[uuid.UUID, int]
	Polyhedra *issue.Map[uuid.UUID, int]
}

func (r DegenerationResult) NbIssues() int {
	return r.Edges.Count() + r.Polygons.Count() + r.Polyhedra.Count()
}

func (r DegenerationResult) Render() string {
	if r.NbIssues() == 0 {
		return "No degenerated elements in model component meshes\n"
	}
	var out string
	for _, m := range []*issue.Map[uuid.UUID, int]{r.Edges, r.Polygons, r.Polyhedra} {
		if !m.Empty() {
			out += m.Render()
		}
	}
	return out
}

// ComponentMeshesDegeneration runs the degeneration inspector on every line,
// surface and block mesh of a model.
type ComponentMeshesDegeneration struct {
	model *model.Model
	opts  []Option
}

func NewComponentMeshesDegeneration(m *model.Model, opts ...Option) *ComponentMeshesDegeneration {
	return &ComponentMeshesDegeneration{model: m, opts: opts}
}

func (c *ComponentMeshesDegeneration) Inspect() DegenerationResult {
	degen := func(comp *model.Component) *Degeneration { return NewDegeneration(comp.Mesh(), c.opts...) }
	return DegenerationResult{
		Edges: collect("Component meshes with degenerated edges.",
			meshed(c.model, model.Line, model.Surface, model.Block),
			func(comp *model.Component) *issue.Set[int] { return degen(comp).DegeneratedEdges() }),
		Polygons: collect("Component meshes with degenerated polygons.",
			meshed(c.model, model.Surface),
			func(comp *model.Component) *issue.Set[int] { return degen(comp).DegeneratedPolygons() }),
		Polyhedra: collect("Component meshes with degenerated polyhedra.",
			meshed(c.model, model.Block),
			func(comp *model.Component) *issue.Set[int] { return degen(comp).DegeneratedPolyhedra() }),
	}
}

// ComponentMeshesAdjacency runs the adjacency inspectors on every surface
// and block mesh of a model.
type ComponentMeshesAdjacency struct {
	model *model.Model
	opts  []Option
}

func NewComponentMeshesAdjacency(m *model.Model, opts ...Option) *ComponentMeshesAdjacency {
	return &ComponentMeshesAdjacency{model: m, opts: opts}
}

func (c *ComponentMeshesAdjacency) SurfacesEdgesWithWrongAdjacency() *issue.Map[uuid.UUID, mesh.PolygonEdge] {
	return collect("Surface meshes with wrong adjacencies.", meshed(c.model, model.Surface),
		func(comp *model.Component) *issue.Set[mesh.PolygonEdge] {
			return NewSurfaceAdjacency(comp.Surface(), c.opts...).PolygonEdgesWithWrongAdjacency()
		})
}

func (c *ComponentMeshesAdjacency) BlocksFacetsWithWrongAdjacency() *issue.Map[uuid.UUID, mesh.PolyhedronFacet] {
	return collect("Block meshes with wrong adjacencies.", meshed(c.model, model.Block),
		func(comp *model.Component) *issue.Set[mesh.PolyhedronFacet] {
			return NewSolidAdjacency(comp.Solid(), c.opts...).PolyhedronFacetsWithWrongAdjacency()
		})
}

// ComponentMeshesManifold runs the manifold inspectors on every surface and
// block mesh of a model.
type ComponentMeshesManifold struct {
	model *model.Model
	opts  []Option
}

func NewComponentMeshesManifold(m *model.Model, opts ...Option) *ComponentMeshesManifold {
	return &ComponentMeshesManifold{model: m, opts: opts}
}

func (c *ComponentMeshesManifold) SurfacesNonManifoldVertices() *issue.Map[uuid.UUID, int] {
	return collect("Surface meshes with non manifold vertices.", meshed(c.model, model.Surface),
		func(comp *model.Component) *issue.Set[int] {
			return NewSurfaceManifold(comp.Surface(), c.opts...).NonManifoldVertices()
		})
}

func (c *ComponentMeshesManifold) SurfacesNonManifoldEdges() *issue.Map[uuid.UUID, [2]int] {
	return collect("Surface meshes with non manifold edges.", meshed(c.model, model.Surface),
		func(comp *model.Component) *issue.Set[[2]int] {
			return NewSurfaceManifold(comp.Surface(), c.opts...).NonManifoldEdges()
		})
}

func (c *ComponentMeshesManifold) BlocksNonManifoldVertices() *issue.Map[uuid.UUID, int] {
	return collect("Block meshes with non manifold vertices.", meshed(c.model, model.Block),
		func(comp *model.Component) *issue.Set[int] {
			return NewSolidManifold(comp.Solid(), c.opts...).NonManifoldVertices()
		})
}

func (c *ComponentMeshesManifold) BlocksNonManifoldEdges() *issue.Map[uuid.UUID, [2]int] {
	return collect("Block meshes with non manifold edges.", meshed(c.model, model.Block),
		func(comp *model.Component) *issue.Set[[2]int] {
			return NewSolidManifold(comp.Solid(), c.opts...).NonManifoldEdges()
		})
}

func (c *ComponentMeshesManifold) BlocksNonManifoldFacets() *issue.Map[uuid.UUID, []int] {
	return collect("Block meshes with non manifold facets.", meshed(c.model, model.Block),
		func(comp *model.Component) *issue.Set[[]int] {
			return NewSolidManifold(comp.Solid(), c.opts...).NonManifoldFacets()
		})
}

// UniqueVerticesColocation checks the unique-vertex space of a model: the
// component vertices of one unique vertex must share a position, and two
// unique vertices must not.
type UniqueVerticesColocation struct {
	model *model.Model
	opts  options
}

func NewUniqueVerticesColocation(m *model.Model, opts ...Option) *UniqueVerticesColocation {
	return &UniqueVerticesColocation{model: m, opts: newOptions(opts)}
}

func (u *UniqueVerticesColocation) HasUniqueVerticesLinkedToDifferentPoints() bool {
	return !u.UniqueVerticesLinkedToDifferentPoints().Empty()
}

func (u *UniqueVerticesColocation) HasColocatedUniqueVertices() bool {
	return !u.ColocatedUniqueVerticesGroups().Empty()
}

// UniqueVerticesLinkedToDifferentPoints returns the unique vertices whose
// component vertices are not all at the position of the first one.
func (u *UniqueVerticesColocation) UniqueVerticesLinkedToDifferentPoints() *issue.Set[int] {
	set := issue.NewSet[int]("Unique vertices linked to different points.")
	for uv := 0; uv < u.model.NbUniqueVertices(); uv++ {
		cmvs := u.model.ComponentMeshVertices(uv)
		if len(cmvs) == 0 {
			continue
		}
		ref := u.position(cmvs[0])
		for _, cmv := range cmvs[1:] {
			if !geom.InexactEqual(ref, u.position(cmv), u.opts.eps) {
				set.Add(uv, fmt.Sprintf("Unique vertex with index %d has component mesh vertices which are not on the same position.", uv))
				break
			}
		}
	}
	u.opts.logger.Debug("unique vertices positions inspected", zap.Int("issues", set.Count()))
	return set
}

// ColocatedUniqueVerticesGroups returns the groups of unique vertices
// sharing a position. Unique vertices without component vertices have no
// position and are ignored.
func (u *UniqueVerticesColocation) ColocatedUniqueVerticesGroups() *issue.Set[[]int] {
	set := issue.NewSet[[]int]("Groups of colocated unique vertices.")
	var (
		points []geom.Point
		index  []int
	)
	for uv := 0; uv < u.model.NbUniqueVertices(); uv++ {
		cmvs := u.model.ComponentMeshVertices(uv)
		if len(cmvs) == 0 {
			continue
		}
		points = append(points, u.position(cmvs[0]))
		index = append(index, uv)
	}
	groups := spatial.NewPointIndex(points, u.opts.eps).ColocatedGroups()
	for _, g := range groups {
		uvs := make([]int, len(g))
		for i, local := range g {
			uvs[i] = index[local]
		}
		set.Add(uvs, fmt.Sprintf("Unique vertices with indices %s are colocated at position %s.",
			geom.FormatIndices(uvs), geom.Format(points[g[0]], u.model.Dimension())))
	}
	return set
}

func (u *UniqueVerticesColocation) position(cmv model.ComponentMeshVertex) geom.Point {
	return u.model.Component(cmv.Component.ID).Mesh().Point(cmv.Vertex)
}
