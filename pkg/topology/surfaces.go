package topology

import (
	"github.com/google/uuid"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/model"
)

// SurfacesResult holds the findings of SurfacesTopology.Inspect.
type SurfacesResult struct {
	SurfacesNotMeshed               *issue.Set[uuid.UUID]
	SurfacesNotLinkedToUniqueVertex *issue.Map[uuid.UUID, int]
}

func (r SurfacesResult) NbIssues() int {
	return r.SurfacesNotMeshed.Count() + r.SurfacesNotLinkedToUniqueVertex.Count()
}

func (r SurfacesResult) Render() string {
	var out renderer
	out.add(r.SurfacesNotMeshed, r.SurfacesNotLinkedToUniqueVertex)
	return out.or("No issues with surfaces topology")
}

func (SurfacesResult) InspectionKind() string { return "Surfaces topology inspection" }

// SurfacesTopology checks that every surface is meshed and linked to the
// unique-vertex space.
type SurfacesTopology struct {
	model *model.Model
	opts  options
}

func NewSurfacesTopology(m *model.Model, opts ...Option) *SurfacesTopology {
	return &SurfacesTopology{model: m, opts: newOptions(opts)}
}

func surfaceIsMeshed(c *model.Component) bool {
	s := c.Surface()
	return s.NbVertices() != 0 && s.NbPolygons() != 0
}

func (t *SurfacesTopology) Inspect() SurfacesResult {
	var res SurfacesResult
	res.SurfacesNotMeshed, res.SurfacesNotLinkedToUniqueVertex = meshAndLinks(t.model, model.Surface, surfaceIsMeshed)
	return res
}
