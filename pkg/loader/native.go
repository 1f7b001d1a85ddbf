package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
)

// Native document kinds.
const (
	KindPointSet   = "point_set"
	KindEdgedCurve = "edged_curve"
	KindSurface    = "surface"
	KindSolid      = "solid"
	KindSection    = "section"
	KindBRep       = "brep"
)

// element is a mesh: a vertex list and the elements over it. Curves take
// explicit edges or, without them, a polyline through the vertices.
type element struct {
	Vertices  [][]float64 `yaml:"vertices"`
	Edges     [][2]int    `yaml:"edges"`
	Closed    bool        `yaml:"closed"`
	Polygons  [][]int     `yaml:"polygons"`
	Polyhedra [][]int     `yaml:"polyhedra"`
}

type component struct {
	Name    string `yaml:"name"`
	element `yaml:",inline"`
}

type link struct {
	Component    string `yaml:"component"`
	Vertex       int    `yaml:"vertex"`
	UniqueVertex int    `yaml:"unique_vertex"`
}

// document is the native file layout. JSON files use the same keys.
type document struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Dimension int    `yaml:"dimension"`
	element   `yaml:",inline"`

	Corners        []component `yaml:"corners"`
	Lines          []component `yaml:"lines"`
	Surfaces       []component `yaml:"surfaces"`
	Blocks         []component `yaml:"blocks"`
	Boundaries     [][2]string `yaml:"boundaries"`
	Internals      [][2]string `yaml:"internals"`
	UniqueVertices []link      `yaml:"unique_vertices"`
	Weld           float64     `yaml:"weld"`
}

func readNative(path string, o options) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return decodeNative(data, name, o)
}

func decodeNative(data []byte, name string, o options) (Loaded, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Loaded{}, errors.New("empty document")
		}
		return Loaded{}, err
	}
	if doc.Name == "" {
		doc.Name = name
	}
	dim, err := doc.dimension()
	if err != nil {
		return Loaded{}, err
	}

	switch doc.Kind {
	case KindPointSet:
		pts, err := points(doc.Vertices, dim)
		if err != nil {
			return Loaded{}, err
		}
		ps, err := mesh.NewPointSet(dim, pts)
		return Loaded{PointSet: ps}, err
	case KindEdgedCurve:
		c, err := doc.curve(dim)
		return Loaded{Curve: c}, err
	case KindSurface:
		s, err := doc.surface(dim)
		return Loaded{Surface: s}, err
	case KindSolid:
		s, err := doc.solid()
		return Loaded{Solid: s}, err
	case KindSection, KindBRep:
		m, err := doc.model(dim, o.eps)
		if err != nil {
			return Loaded{}, err
		}
		return fromModel(m)
	case "":
		return Loaded{}, errors.New("missing kind")
	}
	return Loaded{}, fmt.Errorf("unknown kind %q", doc.Kind)
}

// dimension resolves the document dimension: models and solids fix it,
// other meshes default to the length of the first vertex.
func (d *document) dimension() (int, error) {
	var fixed int
	switch d.Kind {
	case KindSection:
		fixed = 2
	case KindBRep, KindSolid:
		fixed = 3
	}
	switch {
	case fixed != 0 && d.Dimension != 0 && d.Dimension != fixed:
		return 0, fmt.Errorf("a %s has dimension %d, got %d", d.Kind, fixed, d.Dimension)
	case fixed != 0:
		return fixed, nil
	case d.Dimension != 0:
		return d.Dimension, geom.CheckDimension(d.Dimension)
	case len(d.Vertices) > 0:
		return len(d.Vertices[0]), geom.CheckDimension(len(d.Vertices[0]))
	}
	return 0, errors.New("missing dimension")
}

func points(raw [][]float64, dim int) ([]geom.Point, error) {
	pts := make([]geom.Point, len(raw))
	for i, c := range raw {
		if len(c) != dim {
			return nil, fmt.Errorf("vertex %d has %d coordinates, want %d", i, len(c), dim)
		}
		if dim == 2 {
			pts[i] = geom.Pt2(c[0], c[1])
		} else {
			pts[i] = geom.Pt3(c[0], c[1], c[2])
		}
	}
	return pts, nil
}

func (e element) curve(dim int) (*mesh.EdgedCurve, error) {
	pts, err := points(e.Vertices, dim)
	if err != nil {
		return nil, err
	}
	if len(e.Edges) == 0 {
		return mesh.NewPolyline(dim, pts, e.Closed)
	}
	return mesh.NewEdgedCurve(dim, pts, e.Edges)
}

func (e element) surface(dim int) (*mesh.Surface, error) {
	pts, err := points(e.Vertices, dim)
	if err != nil {
		return nil, err
	}
	return mesh.NewSurface(dim, pts, e.Polygons)
}

func (e element) solid() (*mesh.Solid, error) {
	pts, err := points(e.Vertices, 3)
	if err != nil {
		return nil, err
	}
	return mesh.NewSolid(pts, e.Polyhedra)
}

func (d *document) model(dim int, eps float64) (*model.Model, error) {
	b := model.NewBuilder(d.Name, dim)
	for _, c := range d.Corners {
		pts, err := points(c.Vertices, dim)
		if err != nil {
			return nil, fmt.Errorf("corner %q: %w", c.Name, err)
		}
		ps, err := mesh.NewPointSet(dim, pts)
		if err != nil {
			return nil, fmt.Errorf("corner %q: %w", c.Name, err)
		}
		b.AddCorner(c.Name, ps)
	}
	for _, c := range d.Lines {
		curve, err := c.curve(dim)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", c.Name, err)
		}
		b.AddLine(c.Name, curve)
	}
	for _, c := range d.Surfaces {
		s, err := c.surface(dim)
		if err != nil {
			return nil, fmt.Errorf("surface %q: %w", c.Name, err)
		}
		b.AddSurface(c.Name, s)
	}
	for _, c := range d.Blocks {
		s, err := c.solid()
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", c.Name, err)
		}
		b.AddBlock(c.Name, s)
	}
	for _, r := range d.Boundaries {
		b.AddBoundary(r[0], r[1])
	}
	for _, r := range d.Internals {
		b.AddInternal(r[0], r[1])
	}

	switch {
	case len(d.UniqueVertices) > 0:
		for _, l := range d.UniqueVertices {
			b.SetUniqueVertex(l.Component, l.Vertex, l.UniqueVertex)
		}
	case d.Weld > 0:
		b.WeldUniqueVertices(d.Weld)
	default:
		b.WeldUniqueVertices(eps)
	}
	return b.Build()
}
