package criterion

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/spatial"
)

// Colocation finds groups of vertices sharing a position.
type Colocation struct {
	mesh VertexSet
	opts options
}

// NewColocation inspects the vertices of m.
func NewColocation(m VertexSet, opts ...Option) *Colocation {
	return &Colocation{mesh: m, opts: newOptions(opts)}
}

func (c *Colocation) points() []geom.Point {
	pts := make([]geom.Point, c.mesh.NbVertices())
	for v := range pts {
		pts[v] = c.mesh.Point(v)
	}
	return pts
}

// HasColocatedPoints reports whether two vertices share a position.
func (c *Colocation) HasColocatedPoints() bool {
	pts := c.points()
	ix := spatial.NewPointIndex(pts, c.opts.eps)
	for _, p := range pts {
		if len(ix.Near(p)) > 1 {
			return true
		}
	}
	return false
}

// ColocatedPointsGroups returns one issue per group of transitively
// colocated vertices, ordered by smallest vertex index.
func (c *Colocation) ColocatedPointsGroups() *issue.Set[[]int] {
	set := issue.NewSet[[]int]("Colocated points groups.")
	pts := c.points()
	groups := spatial.NewPointIndex(pts, c.opts.eps).ColocatedGroups()
	for _, g := range groups {
		set.Add(g, fmt.Sprintf("Vertices with indices %s are colocated at position %s.",
			geom.FormatIndices(g), geom.Format(pts[g[0]], c.mesh.Dimension())))
	}
	c.opts.logger.Debug("colocation inspected",
		zap.Int("vertices", len(pts)), zap.Int("groups", set.Count()))
	return set
}
