package topology

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/model"
)

// CornersResult holds the findings of CornersTopology.Inspect.
type CornersResult struct {
	CornersNotMeshed                                   *issue.Set[uuid.UUID]
	CornersNotLinkedToUniqueVertex                     *issue.Map[uuid.UUID, int]
	UniqueVerticesPartOfSeveralCorners                 *issue.Set[int]
	UniqueVerticesLinkedToNotInternalNorBoundaryCorner *issue.Set[int]
	UniqueVerticesLinkedToCornerWithInvalidEmbeddings  *issue.Set[int]
}

func (r CornersResult) NbIssues() int {
	return r.CornersNotMeshed.Count() +
		r.CornersNotLinkedToUniqueVertex.Count() +
		r.UniqueVerticesPartOfSeveralCorners.Count() +
		r.UniqueVerticesLinkedToNotInternalNorBoundaryCorner.Count() +
		r.UniqueVerticesLinkedToCornerWithInvalidEmbeddings.Count()
}

func (r CornersResult) Render() string {
	var out renderer
	out.add(
		r.CornersNotMeshed,
		r.CornersNotLinkedToUniqueVertex,
		r.UniqueVerticesPartOfSeveralCorners,
		r.UniqueVerticesLinkedToNotInternalNorBoundaryCorner,
		r.UniqueVerticesLinkedToCornerWithInvalidEmbeddings,
	)
	return out.or("No issues with corners topology")
}

func (CornersResult) InspectionKind() string { return "Corners topology inspection" }

// CornersTopology checks the corners of a section or a BRep.
type CornersTopology struct {
	model *model.Model
	opts  options
}

func NewCornersTopology(m *model.Model, opts ...Option) *CornersTopology {
	return &CornersTopology{model: m, opts: newOptions(opts)}
}

func cornerIsMeshed(c *model.Component) bool {
	return c.Mesh().NbVertices() != 0
}

func (t *CornersTopology) IsValid(uv int) bool {
	for _, check := range []func(int) (string, bool){
		t.PartOfSeveralCorners,
		t.NotInternalNorBoundaryCorner,
		t.CornerWithInvalidEmbeddings,
	} {
		if _, bad := check(uv); bad {
			return false
		}
	}
	return true
}

func (t *CornersTopology) PartOfSeveralCorners(uv int) (string, bool) {
	if n := len(t.model.UniqueVertexComponents(uv, model.Corner)); n > 1 {
		return fmt.Sprintf("Unique vertex with index %d is part of %d corners.", uv, n), true
	}
	return "", false
}

// NotInternalNorBoundaryCorner flags a unique vertex on a corner bounding
// no line and embedded in nothing.
func (t *CornersTopology) NotInternalNorBoundaryCorner(uv int) (string, bool) {
	m := t.model
	for _, corner := range m.UniqueVertexComponents(uv, model.Corner) {
		if m.NbEmbeddings(corner) < 1 && m.NbIncidences(corner) < 1 {
			return fmt.Sprintf("Unique vertex with index %d is part of corner %s, which is neither boundary nor internal.", uv, corner), true
		}
	}
	return "", false
}

// CornerWithInvalidEmbeddings flags a unique vertex on an internal corner
// embedded in several components, or also bounding a line.
func (t *CornersTopology) CornerWithInvalidEmbeddings(uv int) (string, bool) {
	m := t.model
	for _, corner := range m.UniqueVertexComponents(uv, model.Corner) {
		embeddings := m.NbEmbeddings(corner)
		if embeddings == 0 {
			continue
		}
		if incidences := m.NbIncidences(corner); incidences > 0 || embeddings > 1 {
			return fmt.Sprintf("Unique vertex with index %d is part of corner %s, which is internal to %d component(s) and boundary of %d component(s).",
				uv, corner, embeddings, incidences), true
		}
	}
	return "", false
}

func (t *CornersTopology) Inspect() CornersResult {
	m := t.model
	res := CornersResult{
		UniqueVerticesPartOfSeveralCorners: issue.NewSet[int](
			"Indices of unique vertices part of several corners."),
		UniqueVerticesLinkedToNotInternalNorBoundaryCorner: issue.NewSet[int](
			"Indices of unique vertices linked to corner without boundary nor internal status."),
		UniqueVerticesLinkedToCornerWithInvalidEmbeddings: issue.NewSet[int](
			"Indices of unique vertices linked to a corner with invalid internal topology."),
	}
	res.CornersNotMeshed, res.CornersNotLinkedToUniqueVertex = meshAndLinks(m, model.Corner, cornerIsMeshed)

	for uv := 0; uv < m.NbUniqueVertices(); uv++ {
		if msg, bad := t.PartOfSeveralCorners(uv); bad {
			res.UniqueVerticesPartOfSeveralCorners.Add(uv, msg)
		}
		if msg, bad := t.NotInternalNorBoundaryCorner(uv); bad {
			res.UniqueVerticesLinkedToNotInternalNorBoundaryCorner.Add(uv, msg)
		}
		if msg, bad := t.CornerWithInvalidEmbeddings(uv); bad {
			res.UniqueVerticesLinkedToCornerWithInvalidEmbeddings.Add(uv, msg)
		}
	}
	t.opts.logger.Debug("corners topology inspected",
		zap.Int("corners", len(m.Corners())),
		zap.Int("issues", res.NbIssues()))
	return res
}
