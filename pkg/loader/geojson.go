package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

func readGeoJSON(path string, _ options) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Loaded{}, err
	}
	return fromFeatureCollection(fc)
}

// fromFeatureCollection keeps the highest-dimensional geometry present:
// polygons make a surface, else line strings make a curve, else points
// make a point set. Polygon holes are ignored.
func fromFeatureCollection(fc *geojson.FeatureCollection) (Loaded, error) {
	var (
		polygons []orb.Polygon
		lines    []orb.LineString
		pts      []orb.Point
	)
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			pts = append(pts, g)
		case orb.MultiPoint:
			pts = append(pts, g...)
		case orb.LineString:
			lines = append(lines, g)
		case orb.MultiLineString:
			lines = append(lines, g...)
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		default:
			return Loaded{}, fmt.Errorf("feature %d: unsupported geometry %T", i, f.Geometry)
		}
	}

	switch {
	case len(polygons) > 0:
		s, err := surfaceFromPolygons(polygons)
		return Loaded{Surface: s}, err
	case len(lines) > 0:
		c, err := curveFromLineStrings(lines)
		return Loaded{Curve: c}, err
	case len(pts) > 0:
		// Points are not welded: colocated points are what a point set
		// inspection reports.
		out := make([]geom.Point, len(pts))
		for i, p := range pts {
			out[i] = geom.Pt2(p[0], p[1])
		}
		ps, err := mesh.NewPointSet(2, out)
		return Loaded{PointSet: ps}, err
	}
	return Loaded{}, errors.New("no geometry")
}

func surfaceFromPolygons(polygons []orb.Polygon) (*mesh.Surface, error) {
	w := newWelder()
	var polys [][]int
	for i, p := range polygons {
		if len(p) == 0 {
			return nil, fmt.Errorf("polygon %d has no ring", i)
		}
		ring := p[0]
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		poly := make([]int, len(ring))
		for j, q := range ring {
			poly[j] = w.add(geom.Pt2(q[0], q[1]))
		}
		polys = append(polys, poly)
	}
	return mesh.NewSurface(2, w.points, polys)
}

func curveFromLineStrings(lines []orb.LineString) (*mesh.EdgedCurve, error) {
	w := newWelder()
	var edges [][2]int
	for _, l := range lines {
		for j := 1; j < len(l); j++ {
			a := w.add(geom.Pt2(l[j-1][0], l[j-1][1]))
			b := w.add(geom.Pt2(l[j][0], l[j][1]))
			edges = append(edges, [2]int{a, b})
		}
	}
	return mesh.NewEdgedCurve(2, w.points, edges)
}
