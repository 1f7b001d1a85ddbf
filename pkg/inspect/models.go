package inspect

import (
	"github.com/google/uuid"

	"github.com/chazu/strata/pkg/criterion"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
	"github.com/chazu/strata/pkg/topology"
)

// MeshesResult holds the criterion findings over every component mesh of
// a model, plus the unique-vertex colocation findings. Block fields stay
// nil for sections.
type MeshesResult struct {
	UniqueVerticesLinkedToDifferentPoints *issue.Set[int]
	ColocatedUniqueVerticesGroups         *issue.Set[[]int]
	ColocatedPointsGroups                 *issue.Map[uuid.UUID, []int]
	Degeneration                          *criterion.DegenerationResult
	SurfacesEdgesWithWrongAdjacency       *issue.Map[uuid.UUID, mesh.PolygonEdge]
	BlocksFacetsWithWrongAdjacency        *issue.Map[uuid.UUID, mesh.PolyhedronFacet]
	SurfacesNonManifoldVertices           *issue.Map[uuid.UUID, int]
	SurfacesNonManifoldEdges              *issue.Map[uuid.UUID, [2]int]
	BlocksNonManifoldVertices             *issue.Map[uuid.UUID, int]
	BlocksNonManifoldEdges                *issue.Map[uuid.UUID, [2]int]
	BlocksNonManifoldFacets               *issue.Map[uuid.UUID, []int]
}

func (r MeshesResult) addTo(out *report) {
	addSet(out, "unique_vertices_linked_to_different_points", r.UniqueVerticesLinkedToDifferentPoints)
	addSet(out, "colocated_unique_vertices_groups", r.ColocatedUniqueVerticesGroups)
	addMap(out, "colocated_points_groups", r.ColocatedPointsGroups)
	if d := r.Degeneration; d != nil {
		*out = append(*out, block{render: d.Render, parts: []part{
			{"degenerated_edges", d.Edges},
			{"degenerated_polygons", d.Polygons},
			{"degenerated_polyhedra", d.Polyhedra},
		}})
	}
	addMap(out, "surfaces_edges_with_wrong_adjacency", r.SurfacesEdgesWithWrongAdjacency)
	addMap(out, "blocks_facets_with_wrong_adjacency", r.BlocksFacetsWithWrongAdjacency)
	addMap(out, "surfaces_non_manifold_vertices", r.SurfacesNonManifoldVertices)
	addMap(out, "surfaces_non_manifold_edges", r.SurfacesNonManifoldEdges)
	addMap(out, "blocks_non_manifold_vertices", r.BlocksNonManifoldVertices)
	addMap(out, "blocks_non_manifold_edges", r.BlocksNonManifoldEdges)
	addMap(out, "blocks_non_manifold_facets", r.BlocksNonManifoldFacets)
}

func (r MeshesResult) NbIssues() int {
	var out report
	r.addTo(&out)
	return out.nbIssues()
}

// meshesInspector is shared by the section and BRep inspectors.
type meshesInspector struct {
	*criterion.UniqueVerticesColocation
	*criterion.ComponentMeshesColocation
	*criterion.ComponentMeshesDegeneration
	*criterion.ComponentMeshesAdjacency
	*criterion.ComponentMeshesManifold
}

func newMeshesInspector(m *model.Model, o options) meshesInspector {
	opts := o.criterion()
	return meshesInspector{
		UniqueVerticesColocation:    criterion.NewUniqueVerticesColocation(m, opts...),
		ComponentMeshesColocation:   criterion.NewComponentMeshesColocation(m, opts...),
		ComponentMeshesDegeneration: criterion.NewComponentMeshesDegeneration(m, opts...),
		ComponentMeshesAdjacency:    criterion.NewComponentMeshesAdjacency(m, opts...),
		ComponentMeshesManifold:     criterion.NewComponentMeshesManifold(m, opts...),
	}
}

// inspectMeshes runs the component mesh criteria. Block criteria only run
// when blocks is set.
func (in meshesInspector) inspectMeshes(kind Kind, o options, blocks bool) MeshesResult {
	var res MeshesResult
	o.run(kind, UniqueVertices, func() int {
		res.UniqueVerticesLinkedToDifferentPoints = in.UniqueVerticesLinkedToDifferentPoints()
		res.ColocatedUniqueVerticesGroups = in.ColocatedUniqueVerticesGroups()
		return res.UniqueVerticesLinkedToDifferentPoints.Count() + res.ColocatedUniqueVerticesGroups.Count()
	})
	o.run(kind, Colocation, func() int {
		res.ColocatedPointsGroups = in.ColocatedPointsGroups()
		return res.ColocatedPointsGroups.Count()
	})
	o.run(kind, Degeneration, func() int {
		d := in.ComponentMeshesDegeneration.Inspect()
		res.Degeneration = &d
		return d.NbIssues()
	})
	o.run(kind, Adjacency, func() int {
		res.SurfacesEdgesWithWrongAdjacency = in.SurfacesEdgesWithWrongAdjacency()
		n := res.SurfacesEdgesWithWrongAdjacency.Count()
		if blocks {
			res.BlocksFacetsWithWrongAdjacency = in.BlocksFacetsWithWrongAdjacency()
			n += res.BlocksFacetsWithWrongAdjacency.Count()
		}
		return n
	})
	o.run(kind, Manifold, func() int {
		res.SurfacesNonManifoldVertices = in.SurfacesNonManifoldVertices()
		res.SurfacesNonManifoldEdges = in.SurfacesNonManifoldEdges()
		n := res.SurfacesNonManifoldVertices.Count() + res.SurfacesNonManifoldEdges.Count()
		if blocks {
			res.BlocksNonManifoldVertices = in.BlocksNonManifoldVertices()
			res.BlocksNonManifoldEdges = in.BlocksNonManifoldEdges()
			res.BlocksNonManifoldFacets = in.BlocksNonManifoldFacets()
			n += res.BlocksNonManifoldVertices.Count() +
				res.BlocksNonManifoldEdges.Count() +
				res.BlocksNonManifoldFacets.Count()
		}
		return n
	})
	return res
}

func addCorners(out *report, r topology.CornersResult) {
	*out = append(*out, block{render: r.Render, parts: []part{
		{"corners_not_meshed", r.CornersNotMeshed},
		{"corners_not_linked_to_unique_vertex", r.CornersNotLinkedToUniqueVertex},
		{"unique_vertices_part_of_several_corners", r.UniqueVerticesPartOfSeveralCorners},
		{"unique_vertices_linked_to_not_internal_nor_boundary_corner", r.UniqueVerticesLinkedToNotInternalNorBoundaryCorner},
		{"unique_vertices_linked_to_corner_with_invalid_embeddings", r.UniqueVerticesLinkedToCornerWithInvalidEmbeddings},
	}})
}

func addLines(out *report, r topology.LinesResult) {
	*out = append(*out, block{render: r.Render, parts: []part{
		{"lines_not_meshed", r.LinesNotMeshed},
		{"lines_not_linked_to_unique_vertex", r.LinesNotLinkedToUniqueVertex},
		{"unique_vertices_linked_to_not_internal_nor_boundary_line", r.UniqueVerticesLinkedToNotInternalNorBoundaryLine},
		{"unique_vertices_linked_to_line_with_invalid_embeddings", r.UniqueVerticesLinkedToLineWithInvalidEmbeddings},
		{"unique_vertices_linked_to_single_and_invalid_line", r.UniqueVerticesLinkedToSingleAndInvalidLine},
		{"unique_vertices_linked_to_several_lines_but_not_corner", r.UniqueVerticesLinkedToSeveralLinesButNotCorner},
	}})
}

func addSurfaces(out *report, r topology.SurfacesResult) {
	*out = append(*out, block{render: r.Render, parts: []part{
		{"surfaces_not_meshed", r.SurfacesNotMeshed},
		{"surfaces_not_linked_to_unique_vertex", r.SurfacesNotLinkedToUniqueVertex},
	}})
}

func addBlocks(out *report, r topology.BlocksResult) {
	*out = append(*out, block{render: r.Render, parts: []part{
		{"wrong_block_boundary_surface", r.WrongBlockBoundarySurface},
		{"blocks_not_meshed", r.BlocksNotMeshed},
		{"blocks_not_linked_to_unique_vertex", r.BlocksNotLinkedToUniqueVertex},
		{"unique_vertices_part_of_two_blocks_and_no_boundary_surface", r.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface},
		{"unique_vertices_with_incorrect_block_cmvs_count", r.UniqueVerticesWithIncorrectBlockCMVsCount},
	}})
}

// --- Section ---

type SectionResult struct {
	Meshes   MeshesResult
	Topology *topology.SectionResult
}

func (r SectionResult) report() report {
	var out report
	r.Meshes.addTo(&out)
	if t := r.Topology; t != nil {
		addCorners(&out, t.Corners)
		addLines(&out, t.Lines)
		addSurfaces(&out, t.Surfaces)
	}
	return out
}

func (r SectionResult) NbIssues() int        { return r.report().nbIssues() }
func (r SectionResult) Render() string       { return r.report().render() }
func (SectionResult) InspectionKind() string { return "Section inspection" }
func (r SectionResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// SectionInspector checks the component meshes and the topology of a
// section.
type SectionInspector struct {
	meshesInspector

	Corners  *topology.CornersTopology
	Lines    *topology.LinesTopology
	Surfaces *topology.SurfacesTopology

	opts options
}

func NewSectionInspector(s *model.Section, opts ...Option) *SectionInspector {
	o := newOptions(opts)
	return &SectionInspector{
		meshesInspector: newMeshesInspector(s.Model, o),
		Corners:         topology.NewCornersTopology(s.Model, o.topology()...),
		Lines:           topology.NewLinesTopology(s.Model, o.topology()...),
		Surfaces:        topology.NewSurfacesTopology(s.Model, o.topology()...),
		opts:            o,
	}
}

func (in *SectionInspector) Inspect() SectionResult {
	res := SectionResult{Meshes: in.inspectMeshes(Section, in.opts, false)}
	in.opts.run(Section, Topology, func() int {
		res.Topology = &topology.SectionResult{
			Corners:  in.Corners.Inspect(),
			Lines:    in.Lines.Inspect(),
			Surfaces: in.Surfaces.Inspect(),
		}
		return res.Topology.NbIssues()
	})
	return res
}

// --- BRep ---

type BRepResult struct {
	Meshes   MeshesResult
	Topology *topology.BRepResult
}

func (r BRepResult) report() report {
	var out report
	r.Meshes.addTo(&out)
	if t := r.Topology; t != nil {
		addCorners(&out, t.Corners)
		addLines(&out, t.Lines)
		addSurfaces(&out, t.Surfaces)
		addBlocks(&out, t.Blocks)
	}
	return out
}

func (r BRepResult) NbIssues() int        { return r.report().nbIssues() }
func (r BRepResult) Render() string       { return r.report().render() }
func (BRepResult) InspectionKind() string { return "BRep inspection" }
func (r BRepResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// BRepInspector checks the component meshes and the topology of a BRep.
type BRepInspector struct {
	meshesInspector

	Corners  *topology.CornersTopology
	Lines    *topology.LinesTopology
	Surfaces *topology.SurfacesTopology
	Blocks   *topology.BlocksTopology

	opts options
}

func NewBRepInspector(b *model.BRep, opts ...Option) *BRepInspector {
	o := newOptions(opts)
	return &BRepInspector{
		meshesInspector: newMeshesInspector(b.Model, o),
		Corners:         topology.NewCornersTopology(b.Model, o.topology()...),
		Lines:           topology.NewLinesTopology(b.Model, o.topology()...),
		Surfaces:        topology.NewSurfacesTopology(b.Model, o.topology()...),
		Blocks:          topology.NewBlocksTopology(b, o.topology()...),
		opts:            o,
	}
}

func (in *BRepInspector) Inspect() BRepResult {
	res := BRepResult{Meshes: in.inspectMeshes(BRep, in.opts, true)}
	in.opts.run(BRep, Topology, func() int {
		res.Topology = &topology.BRepResult{
			Corners:  in.Corners.Inspect(),
			Lines:    in.Lines.Inspect(),
			Surfaces: in.Surfaces.Inspect(),
			Blocks:   in.Blocks.Inspect(),
		}
		return res.Topology.NbIssues()
	})
	return res
}
