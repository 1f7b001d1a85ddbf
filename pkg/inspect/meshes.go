package inspect

import (
	"github.com/chazu/strata/pkg/criterion"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
)

// --- PointSet ---

type PointSetResult struct {
	ColocatedPointsGroups *issue.Set[[]int]
}

func (r PointSetResult) report() report {
	var out report
	addSet(&out, "colocated_points_groups", r.ColocatedPointsGroups)
	return out
}

func (r PointSetResult) NbIssues() int        { return r.report().nbIssues() }
func (r PointSetResult) Render() string       { return r.report().render() }
func (PointSetResult) InspectionKind() string { return "PointSet inspection" }
func (r PointSetResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// PointSetInspector checks a point set for colocated points.
type PointSetInspector struct {
	*criterion.Colocation

	kind Kind
	opts options
}

func NewPointSetInspector(m *mesh.PointSet, opts ...Option) *PointSetInspector {
	o := newOptions(opts)
	return &PointSetInspector{
		Colocation: criterion.NewColocation(m, o.criterion()...),
		kind:       kindFor("PointSet", m.Dimension()),
		opts:       o,
	}
}

func (in *PointSetInspector) Inspect() PointSetResult {
	var res PointSetResult
	in.opts.run(in.kind, Colocation, func() int {
		res.ColocatedPointsGroups = in.ColocatedPointsGroups()
		return res.ColocatedPointsGroups.Count()
	})
	return res
}

// --- EdgedCurve ---

type EdgedCurveResult struct {
	ColocatedPointsGroups *issue.Set[[]int]
	DegeneratedEdges      *issue.Set[int]
}

func (r EdgedCurveResult) report() report {
	var out report
	addSet(&out, "colocated_points_groups", r.ColocatedPointsGroups)
	addSet(&out, "degenerated_edges", r.DegeneratedEdges)
	return out
}

func (r EdgedCurveResult) NbIssues() int        { return r.report().nbIssues() }
func (r EdgedCurveResult) Render() string       { return r.report().render() }
func (EdgedCurveResult) InspectionKind() string { return "EdgedCurve inspection" }
func (r EdgedCurveResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// EdgedCurveInspector checks a curve for colocated points and degenerated
// edges.
type EdgedCurveInspector struct {
	*criterion.Colocation
	*criterion.Degeneration

	kind Kind
	opts options
}

func NewEdgedCurveInspector(m *mesh.EdgedCurve, opts ...Option) *EdgedCurveInspector {
	o := newOptions(opts)
	return &EdgedCurveInspector{
		Colocation:   criterion.NewColocation(m, o.criterion()...),
		Degeneration: criterion.NewDegeneration(m, o.criterion()...),
		kind:         kindFor("EdgedCurve", m.Dimension()),
		opts:         o,
	}
}

func (in *EdgedCurveInspector) Inspect() EdgedCurveResult {
	var res EdgedCurveResult
	in.opts.run(in.kind, Colocation, func() int {
		res.ColocatedPointsGroups = in.ColocatedPointsGroups()
		return res.ColocatedPointsGroups.Count()
	})
	in.opts.run(in.kind, Degeneration, func() int {
		res.DegeneratedEdges = in.DegeneratedEdges()
		return res.DegeneratedEdges.Count()
	})
	return res
}

// --- Surface ---

type SurfaceResult struct {
	PolygonEdgesWithWrongAdjacency *issue.Set[mesh.PolygonEdge]
	ColocatedPointsGroups          *issue.Set[[]int]
	DegeneratedEdges               *issue.Set[int]
	DegeneratedPolygons            *issue.Set[int]
	NonManifoldVertices            *issue.Set[int]
	NonManifoldEdges               *issue.Set[[2]int]
}

func (r SurfaceResult) report() report {
	var out report
	addSet(&out, "polygon_edges_with_wrong_adjacency", r.PolygonEdgesWithWrongAdjacency)
	addSet(&out, "colocated_points_groups", r.ColocatedPointsGroups)
	addSet(&out, "degenerated_edges", r.DegeneratedEdges)
	addSet(&out, "degenerated_polygons", r.DegeneratedPolygons)
	addSet(&out, "non_manifold_vertices", r.NonManifoldVertices)
	addSet(&out, "non_manifold_edges", r.NonManifoldEdges)
	return out
}

func (r SurfaceResult) NbIssues() int        { return r.report().nbIssues() }
func (r SurfaceResult) Render() string       { return r.report().render() }
func (SurfaceResult) InspectionKind() string { return "Surface inspection" }
func (r SurfaceResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// SurfaceInspector runs the adjacency, colocation, degeneration and
// manifold criteria on a surface.
type SurfaceInspector struct {
	*criterion.SurfaceAdjacency
	*criterion.Colocation
	*criterion.Degeneration
	*criterion.SurfaceManifold

	kind Kind
	opts options
}

func NewSurfaceInspector(m *mesh.Surface, opts ...Option) *SurfaceInspector {
	o := newOptions(opts)
	return &SurfaceInspector{
		SurfaceAdjacency: criterion.NewSurfaceAdjacency(m, o.criterion()...),
		Colocation:       criterion.NewColocation(m, o.criterion()...),
		Degeneration:     criterion.NewDegeneration(m, o.criterion()...),
		SurfaceManifold:  criterion.NewSurfaceManifold(m, o.criterion()...),
		kind:             kindFor("Surface", m.Dimension()),
		opts:             o,
	}
}

func (in *SurfaceInspector) Inspect() SurfaceResult {
	var res SurfaceResult
	in.opts.run(in.kind, Adjacency, func() int {
		res.PolygonEdgesWithWrongAdjacency = in.PolygonEdgesWithWrongAdjacency()
		return res.PolygonEdgesWithWrongAdjacency.Count()
	})
	in.opts.run(in.kind, Colocation, func() int {
		res.ColocatedPointsGroups = in.ColocatedPointsGroups()
		return res.ColocatedPointsGroups.Count()
	})
	in.opts.run(in.kind, Degeneration, func() int {
		res.DegeneratedEdges = in.DegeneratedEdges()
		res.DegeneratedPolygons = in.DegeneratedPolygons()
		return res.DegeneratedEdges.Count() + res.DegeneratedPolygons.Count()
	})
	in.opts.run(in.kind, Manifold, func() int {
		res.NonManifoldVertices = in.NonManifoldVertices()
		res.NonManifoldEdges = in.NonManifoldEdges()
		return res.NonManifoldVertices.Count() + res.NonManifoldEdges.Count()
	})
	return res
}

// --- Solid ---

type SolidResult struct {
	PolyhedronFacetsWithWrongAdjacency *issue.Set[mesh.PolyhedronFacet]
	ColocatedPointsGroups              *issue.Set[[]int]
	DegeneratedEdges                   *issue.Set[int]
	DegeneratedPolyhedra               *issue.Set[int]
	NonManifoldVertices                *issue.Set[int]
	NonManifoldEdges                   *issue.Set[[2]int]
	NonManifoldFacets                  *issue.Set[[]int]
}

func (r SolidResult) report() report {
	var out report
	addSet(&out, "polyhedron_facets_with_wrong_adjacency", r.PolyhedronFacetsWithWrongAdjacency)
	addSet(&out, "colocated_points_groups", r.ColocatedPointsGroups)
	addSet(&out, "degenerated_edges", r.DegeneratedEdges)
	addSet(&out, "degenerated_polyhedra", r.DegeneratedPolyhedra)
	addSet(&out, "non_manifold_vertices", r.NonManifoldVertices)
	addSet(&out, "non_manifold_edges", r.NonManifoldEdges)
	addSet(&out, "non_manifold_facets", r.NonManifoldFacets)
	return out
}

func (r SolidResult) NbIssues() int        { return r.report().nbIssues() }
func (r SolidResult) Render() string       { return r.report().render() }
func (SolidResult) InspectionKind() string { return "Solid inspection" }
func (r SolidResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// SolidInspector runs the adjacency, colocation, degeneration and manifold
// criteria on a solid.
type SolidInspector struct {
	*criterion.SolidAdjacency
	*criterion.Colocation
	*criterion.Degeneration
	*criterion.SolidManifold

	opts options
}

func NewSolidInspector(m *mesh.Solid, opts ...Option) *SolidInspector {
	o := newOptions(opts)
	return &SolidInspector{
		SolidAdjacency: criterion.NewSolidAdjacency(m, o.criterion()...),
		Colocation:     criterion.NewColocation(m, o.criterion()...),
		Degeneration:   criterion.NewDegeneration(m, o.criterion()...),
		SolidManifold:  criterion.NewSolidManifold(m, o.criterion()...),
		opts:           o,
	}
}

func (in *SolidInspector) Inspect() SolidResult {
	var res SolidResult
	in.opts.run(Solid3D, Adjacency, func() int {
		res.PolyhedronFacetsWithWrongAdjacency = in.PolyhedronFacetsWithWrongAdjacency()
		return res.PolyhedronFacetsWithWrongAdjacency.Count()
	})
	in.opts.run(Solid3D, Colocation, func() int {
		res.ColocatedPointsGroups = in.ColocatedPointsGroups()
		return res.ColocatedPointsGroups.Count()
	})
	in.opts.run(Solid3D, Degeneration, func() int {
		res.DegeneratedEdges = in.DegeneratedEdges()
		res.DegeneratedPolyhedra = in.DegeneratedPolyhedra()
		return res.DegeneratedEdges.Count() + res.DegeneratedPolyhedra.Count()
	})
	in.opts.run(Solid3D, Manifold, func() int {
		res.NonManifoldVertices = in.NonManifoldVertices()
		res.NonManifoldEdges = in.NonManifoldEdges()
		res.NonManifoldFacets = in.NonManifoldFacets()
		return res.NonManifoldVertices.Count() + res.NonManifoldEdges.Count() + res.NonManifoldFacets.Count()
	})
	return res
}
