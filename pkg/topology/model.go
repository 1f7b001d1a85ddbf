package topology

import (
	"strings"

	"github.com/chazu/strata/pkg/model"
)

// SectionResult gathers the topology findings of a section.
type SectionResult struct {
	Corners  CornersResult
	Lines    LinesResult
	Surfaces SurfacesResult
}

func (r SectionResult) NbIssues() int {
	return r.Corners.NbIssues() + r.Lines.NbIssues() + r.Surfaces.NbIssues()
}

func (r SectionResult) Render() string {
	return strings.Join([]string{r.Corners.Render(), r.Lines.Render(), r.Surfaces.Render()}, "")
}

func (SectionResult) InspectionKind() string { return "Section topology inspection" }

// InspectSection runs the corner, line and surface checks of a section.
func InspectSection(s *model.Section, opts ...Option) SectionResult {
	return SectionResult{
		Corners:  NewCornersTopology(s.Model, opts...).Inspect(),
		Lines:    NewLinesTopology(s.Model, opts...).Inspect(),
		Surfaces: NewSurfacesTopology(s.Model, opts...).Inspect(),
	}
}

// BRepResult gathers the topology findings of a BRep.
type BRepResult struct {
	Corners  CornersResult
	Lines    LinesResult
	Surfaces SurfacesResult
	Blocks   BlocksResult
}

func (r BRepResult) NbIssues() int {
	return r.Corners.NbIssues() + r.Lines.NbIssues() + r.Surfaces.NbIssues() + r.Blocks.NbIssues()
}

func (r BRepResult) Render() string {
	return strings.Join([]string{r.Corners.Render(), r.Lines.Render(), r.Surfaces.Render(), r.Blocks.Render()}, "")
}

func (BRepResult) InspectionKind() string { return "BRep topology inspection" }

// InspectBRep runs the corner, line, surface and block checks of a BRep.
func InspectBRep(b *model.BRep, opts ...Option) BRepResult {
	return BRepResult{
		Corners:  NewCornersTopology(b.Model, opts...).Inspect(),
		Lines:    NewLinesTopology(b.Model, opts...).Inspect(),
		Surfaces: NewSurfacesTopology(b.Model, opts...).Inspect(),
		Blocks:   NewBlocksTopology(b, opts...).Inspect(),
	}
}
