package loader

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	dxfdoc "github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// polyline is a DXF polyline reduced to its positions.
type polyline struct {
	points []geom.Point
	closed bool
}

func readDXF(path string, _ options) (Loaded, error) {
	file, err := os.Open(path)
	if err != nil {
		return Loaded{}, err
	}
	defer file.Close()

	doc, err := dxfdoc.DxfDocumentFromStream(file)
	if err != nil {
		return Loaded{}, err
	}

	pls := polylines(doc.Entities.Entities)
	type named struct {
		name string
		pls  []polyline
	}
	var blocks []named
	for name, block := range doc.Blocks {
		blocks = append(blocks, named{name: fmt.Sprint(name), pls: polylines(block.Entities)})
	}
	slices.SortFunc(blocks, func(a, b named) int { return strings.Compare(a.name, b.name) })
	for _, b := range blocks {
		pls = append(pls, b.pls...)
	}

	c, err := curveFromPolylines(pls)
	return Loaded{Curve: c}, err
}

// polylines extracts POLYLINE and LWPOLYLINE entities in file order.
func polylines[E any](ents []E) []polyline {
	var out []polyline
	for _, e := range ents {
		switch pl := any(e).(type) {
		case *entities.Polyline:
			var p polyline
			for _, v := range pl.Vertices {
				p.points = append(p.points, geom.Pt3(v.Location.X, v.Location.Y, v.Location.Z))
			}
			out = append(out, p)
		case *entities.LWPolyline:
			p := polyline{closed: pl.Closed}
			for _, v := range pl.Points {
				p.points = append(p.points, geom.Pt2(v.Point.X, v.Point.Y))
			}
			out = append(out, p)
		}
	}
	return out
}

// curveFromPolylines joins polylines into one curve, welding shared
// endpoints. The curve is 2D when every z is zero. A polyline whose last
// point repeats the first is closed.
func curveFromPolylines(pls []polyline) (*mesh.EdgedCurve, error) {
	if len(pls) == 0 {
		return nil, errors.New("no polylines")
	}
	dim := 2
	for _, p := range pls {
		for _, q := range p.points {
			if q.Z != 0 {
				dim = 3
			}
		}
	}

	w := newWelder()
	var edges [][2]int
	for _, p := range pls {
		pts := p.points
		closed := p.closed
		if len(pts) > 2 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
			closed = true
		}
		ids := make([]int, len(pts))
		for i, q := range pts {
			ids[i] = w.add(q)
		}
		for i := 1; i < len(ids); i++ {
			edges = append(edges, [2]int{ids[i-1], ids[i]})
		}
		if closed && len(ids) > 2 {
			edges = append(edges, [2]int{ids[len(ids)-1], ids[0]})
		}
	}
	return mesh.NewEdgedCurve(dim, w.points, edges)
}
