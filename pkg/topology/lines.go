package topology

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/model"
)

// LinesResult holds the findings of LinesTopology.Inspect. The per-vertex
// sets are only filled for sections.
type LinesResult struct {
	LinesNotMeshed                                   *issue.Set[uuid.UUID]
	LinesNotLinkedToUniqueVertex                     *issue.Map[uuid.UUID, int]
	UniqueVerticesLinkedToNotInternalNorBoundaryLine *issue.Set[int]
	UniqueVerticesLinkedToLineWithInvalidEmbeddings  *issue.Set[int]
	UniqueVerticesLinkedToSingleAndInvalidLine       *issue.Set[int]
	UniqueVerticesLinkedToSeveralLinesButNotCorner   *issue.Set[int]
}

func (r LinesResult) NbIssues() int {
	return r.LinesNotMeshed.Count() +
		r.LinesNotLinkedToUniqueVertex.Count() +
		r.UniqueVerticesLinkedToNotInternalNorBoundaryLine.Count() +
		r.UniqueVerticesLinkedToLineWithInvalidEmbeddings.Count() +
		r.UniqueVerticesLinkedToSingleAndInvalidLine.Count() +
		r.UniqueVerticesLinkedToSeveralLinesButNotCorner.Count()
}

func (r LinesResult) Render() string {
	var out renderer
	out.add(
		r.LinesNotMeshed,
		r.LinesNotLinkedToUniqueVertex,
		r.UniqueVerticesLinkedToNotInternalNorBoundaryLine,
		r.UniqueVerticesLinkedToLineWithInvalidEmbeddings,
		r.UniqueVerticesLinkedToSingleAndInvalidLine,
		r.UniqueVerticesLinkedToSeveralLinesButNotCorner,
	)
	return out.or("No issues with lines topology")
}

func (LinesResult) InspectionKind() string { return "Lines topology inspection" }

// LinesTopology checks the lines of a model. Every model gets the meshed
// and linked checks; sections also get the per-vertex line checks.
type LinesTopology struct {
	model *model.Model
	opts  options
}

func NewLinesTopology(m *model.Model, opts ...Option) *LinesTopology {
	return &LinesTopology{model: m, opts: newOptions(opts)}
}

func lineIsMeshed(c *model.Component) bool {
	l := c.Curve()
	return l.NbVertices() != 0 && l.NbEdges() != 0
}

// IsValid reports whether unique vertex uv passes every per-vertex line
// check.
func (t *LinesTopology) IsValid(uv int) bool {
	for _, check := range []func(int) (string, bool){
		t.NotInternalNorBoundaryLine,
		t.LineWithInvalidEmbeddings,
		t.SingleAndInvalidLine,
		t.SeveralLinesButNotCorner,
	} {
		if _, bad := check(uv); bad {
			return false
		}
	}
	return true
}

// NotInternalNorBoundaryLine flags a unique vertex on a line which neither
// bounds nor is embedded in anything.
func (t *LinesTopology) NotInternalNorBoundaryLine(uv int) (string, bool) {
	m := t.model
	for _, line := range m.UniqueVertexComponents(uv, model.Line) {
		if m.NbEmbeddings(line) < 1 && m.NbIncidences(line) < 1 {
			return fmt.Sprintf("Unique vertex with index %d is part of line %s, which is neither boundary nor internal.", uv, line), true
		}
	}
	return "", false
}

// LineWithInvalidEmbeddings flags a unique vertex on an internal line that
// is embedded in several components, or that is also a boundary.
func (t *LinesTopology) LineWithInvalidEmbeddings(uv int) (string, bool) {
	m := t.model
	for _, line := range m.UniqueVertexComponents(uv, model.Line) {
		embeddings := m.NbEmbeddings(line)
		if embeddings == 0 {
			continue
		}
		if incidences := m.NbIncidences(line); incidences > 0 || embeddings > 1 {
			return fmt.Sprintf("Unique vertex with index %d is part of line %s, which is internal to %d component(s) and boundary of %d component(s).",
				uv, line, embeddings, incidences), true
		}
	}
	return "", false
}

// SingleAndInvalidLine checks a unique vertex lying on exactly one line.
// The vertex is in at most two surfaces. An internal line must be internal
// to the only surface containing the vertex; any other line must bound
// every surface containing the vertex.
func (t *LinesTopology) SingleAndInvalidLine(uv int) (string, bool) {
	m := t.model
	lines := m.UniqueVertexComponents(uv, model.Line)
	if len(lines) != 1 {
		return "", false
	}
	line := lines[0]
	surfaces := m.UniqueVertexComponents(uv, model.Surface)
	if len(surfaces) > 2 {
		return fmt.Sprintf("Unique vertex with index %d is part of only one line, %s, but is part of %d surfaces (should be at most 2).",
			uv, line, len(surfaces)), true
	}
	if m.NbEmbeddings(line) > 0 {
		if len(surfaces) != 1 || !m.IsInternal(line, surfaces[0]) {
			return fmt.Sprintf("Unique vertex with index %d is part of only one line, %s, which is internal, and of %d surface(s) (should be exactly one surface the line is internal to).",
				uv, line, len(surfaces)), true
		}
		return "", false
	}
	for _, surface := range surfaces {
		if !m.IsBoundary(line, surface) {
			return fmt.Sprintf("Unique vertex with index %d is part of only one line, %s, which is not boundary of surface %s containing the vertex.",
				uv, line, surface), true
		}
	}
	return "", false
}

// SeveralLinesButNotCorner flags a unique vertex where lines meet without
// a corner.
func (t *LinesTopology) SeveralLinesButNotCorner(uv int) (string, bool) {
	m := t.model
	lines := m.UniqueVertexComponents(uv, model.Line)
	if len(lines) < 2 || len(m.UniqueVertexComponents(uv, model.Corner)) > 0 {
		return "", false
	}
	return fmt.Sprintf("Unique vertex with index %d is part of %d lines but is not a corner.", uv, len(lines)), true
}

// Inspect runs every line check.
func (t *LinesTopology) Inspect() LinesResult {
	m := t.model
	res := LinesResult{
		UniqueVerticesLinkedToNotInternalNorBoundaryLine: issue.NewSet[int](
			"Indices of unique vertices linked to line without boundary nor internal status."),
		UniqueVerticesLinkedToLineWithInvalidEmbeddings: issue.NewSet[int](
			"Indices of unique vertices linked to a line with invalid internal topology."),
		UniqueVerticesLinkedToSingleAndInvalidLine: issue.NewSet[int](
			"Indices of unique vertices linked to only one line and this single line is invalid."),
		UniqueVerticesLinkedToSeveralLinesButNotCorner: issue.NewSet[int](
			"Indices of unique vertices linked to several lines but not linked to a corner."),
	}
	res.LinesNotMeshed, res.LinesNotLinkedToUniqueVertex = meshAndLinks(m, model.Line, lineIsMeshed)

	if m.Dimension() == 2 {
		checks := []struct {
			run func(int) (string, bool)
			set *issue.Set[int]
		}{
			{t.NotInternalNorBoundaryLine, res.UniqueVerticesLinkedToNotInternalNorBoundaryLine},
			{t.LineWithInvalidEmbeddings, res.UniqueVerticesLinkedToLineWithInvalidEmbeddings},
			{t.SingleAndInvalidLine, res.UniqueVerticesLinkedToSingleAndInvalidLine},
			{t.SeveralLinesButNotCorner, res.UniqueVerticesLinkedToSeveralLinesButNotCorner},
		}
		for uv := 0; uv < m.NbUniqueVertices(); uv++ {
			for _, c := range checks {
				if msg, bad := c.run(uv); bad {
					c.set.Add(uv, msg)
				}
			}
		}
	}
	t.opts.logger.Debug("lines topology inspected",
		zap.Int("lines", len(m.Lines())),
		zap.Int("issues", res.NbIssues()))
	return res
}
