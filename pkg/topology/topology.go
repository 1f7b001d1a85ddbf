// Package topology checks that the components of a model agree with each
// other through their shared unique vertices: which blocks, surfaces,
// lines and corners meet at a vertex, and how many component vertices each
// of them contributes there.
//
// Every check is a pure function of the model's relationships and
// unique-vertex space. Findings are issue sets; nothing here returns an
// error.
package topology

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/model"
)

type options struct {
	logger *zap.Logger
}

// Option configures a topology checker.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// verticesNotLinked returns the vertices of c that map to no unique vertex.
func verticesNotLinked(m *model.Model, c *model.Component) *issue.Set[int] {
	set := issue.NewSet[int](fmt.Sprintf("%s %s", c.ID.Type, c.ID.ID))
	for v := 0; v < c.Mesh().NbVertices(); v++ {
		cmv := model.ComponentMeshVertex{Component: c.ID, Vertex: v}
		if _, ok := m.UniqueVertex(cmv); !ok {
			set.Add(v, fmt.Sprintf("Vertex with index %d of %s %s is not linked to a unique vertex.", v, c.ID.Type, c.ID.ID))
		}
	}
	return set
}

// meshAndLinks runs the meshed and linked checks over every component of
// type t. isMeshed decides whether a component mesh is usable; unusable
// components are not checked for links.
func meshAndLinks(m *model.Model, t model.ComponentType, isMeshed func(*model.Component) bool) (*issue.Set[uuid.UUID], *issue.Map[uuid.UUID, int]) {
	name := strings.ToLower(t.String())
	notMeshed := issue.NewSet[uuid.UUID](fmt.Sprintf("uuids of %ss without mesh.", name))
	notLinked := issue.NewMap[uuid.UUID, int](fmt.Sprintf("%s vertices not linked to a unique vertex.", t))
	for _, c := range m.Components(t) {
		if !isMeshed(c) {
			notMeshed.Add(c.ID.ID, fmt.Sprintf("%s %s is not meshed.", t, c.ID.ID))
			continue
		}
		if set := verticesNotLinked(m, c); !set.Empty() {
			notLinked.Merge(c.ID.ID, set)
		}
	}
	return notMeshed, notLinked
}

// renderer concatenates the renderings of non-empty issue collections.
type renderer struct {
	b strings.Builder
}

type rendered interface {
	Empty() bool
	Render() string
}

func (r *renderer) add(parts ...rendered) {
	for _, p := range parts {
		if !p.Empty() {
			r.b.WriteString(p.Render())
		}
	}
}

func (r *renderer) or(fallback string) string {
	if r.b.Len() == 0 {
		return fallback + "\n"
	}
	return r.b.String()
}
