package criterion

import (
	"fmt"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/issue"
)

// Degeneration finds elements whose vertices collapse onto each other. It
// checks whichever of edges, polygons and polyhedra the mesh provides.
type Degeneration struct {
	mesh VertexSet
	opts options
}

// NewDegeneration inspects the elements of m.
func NewDegeneration(m VertexSet, opts ...Option) *Degeneration {
	return &Degeneration{mesh: m, opts: newOptions(opts)}
}

func (d *Degeneration) colocated(a, b int) bool {
	return geom.InexactEqual(d.mesh.Point(a), d.mesh.Point(b), d.opts.eps)
}

// anyColocated reports whether two of the given vertices are colocated.
func (d *Degeneration) anyColocated(vertices []int) bool {
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if d.colocated(vertices[i], vertices[j]) {
				return true
			}
		}
	}
	return false
}

// HasDegeneratedElements reports whether any edge, polygon or polyhedron
// is degenerated.
func (d *Degeneration) HasDegeneratedElements() bool {
	return !d.DegeneratedEdges().Empty() ||
		!d.DegeneratedPolygons().Empty() ||
		!d.DegeneratedPolyhedra().Empty()
}

// DegeneratedEdges returns the edges whose two vertices are colocated.
func (d *Degeneration) DegeneratedEdges() *issue.Set[int] {
	set := issue.NewSet[int]("Degenerated edges.")
	edges, ok := d.mesh.(EdgeSet)
	if !ok {
		return set
	}
	for e := 0; e < edges.NbEdges(); e++ {
		ev := edges.EdgeVertices(e)
		if d.colocated(ev[0], ev[1]) {
			set.Add(e, fmt.Sprintf("Edge with index %d, at position %s, is degenerated.",
				e, geom.Format(d.mesh.Point(ev[0]), d.mesh.Dimension())))
		}
	}
	return set
}

// DegeneratedPolygons returns the polygons having two colocated vertices.
func (d *Degeneration) DegeneratedPolygons() *issue.Set[int] {
	set := issue.NewSet[int]("Degenerated polygons.")
	polygons, ok := d.mesh.(PolygonSet)
	if !ok {
		return set
	}
	for p := 0; p < polygons.NbPolygons(); p++ {
		if d.anyColocated(polygons.PolygonVertices(p)) {
			set.Add(p, fmt.Sprintf("Polygon with index %d is degenerated.", p))
		}
	}
	return set
}

// DegeneratedPolyhedra returns the polyhedra having two colocated vertices.
func (d *Degeneration) DegeneratedPolyhedra() *issue.Set[int] {
	set := issue.NewSet[int]("Degenerated polyhedra.")
	polyhedra, ok := d.mesh.(PolyhedronSet)
	if !ok {
		return set
	}
	for p := 0; p < polyhedra.NbPolyhedra(); p++ {
		if d.anyColocated(polyhedra.PolyhedronVertices(p)) {
			set.Add(p, fmt.Sprintf("Polyhedron with index %d is degenerated.", p))
		}
	}
	return set
}
