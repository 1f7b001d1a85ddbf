package inspect

import (
	"fmt"

	"github.com/chazu/strata/pkg/intersect"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
)

// IntersectionsResult lists the triangles of a surface crossed by the
// edges of a curve.
type IntersectionsResult struct {
	IntersectingElements *issue.Set[intersect.Pair]
}

func (r IntersectionsResult) report() report {
	var out report
	addSet(&out, "intersecting_elements", r.IntersectingElements)
	return out
}

func (r IntersectionsResult) NbIssues() int        { return r.report().nbIssues() }
func (r IntersectionsResult) Render() string       { return r.report().render() }
func (IntersectionsResult) InspectionKind() string { return "Surface curve intersections inspection" }
func (r IntersectionsResult) Summary() Summary     { return r.report().summary(r.InspectionKind()) }

// SurfaceCurveIntersections runs the exhaustive intersection search
// between a triangulated surface and a curve of the same dimension.
func SurfaceCurveIntersections(surface *mesh.Surface, curve *mesh.EdgedCurve, opts ...Option) (IntersectionsResult, error) {
	o := newOptions(opts)
	d, err := intersect.New(surface, curve, o.intersect()...)
	if err != nil {
		return IntersectionsResult{}, fmt.Errorf("inspect: %w", err)
	}
	set, err := d.IntersectingElements()
	if err != nil {
		return IntersectionsResult{}, fmt.Errorf("inspect: %w", err)
	}
	return IntersectionsResult{IntersectingElements: set}, nil
}
