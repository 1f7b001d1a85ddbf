package engine

import (
	"errors"
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/model"
)

var errNoModel = errors.New(`script declares no model; start with (section "name") or (brep "name")`)

// script is the state the builtins fill while a source file runs.
//
// Unique vertices come either from (weld eps) or from explicit
// (unique-vertex ...) links, never both. A script with neither is welded
// at geom.DefaultEpsilon.
type script struct {
	b        *model.Builder
	dim      int
	weld     float64
	welded   bool
	explicit bool
}

func (s *script) declare(kind, name string, dim int) error {
	if s.b != nil {
		return fmt.Errorf("%s: model %q already declared", kind, s.b.Model().Name())
	}
	s.b = model.NewBuilder(name, dim)
	s.dim = dim
	return s.b.Err()
}

func (s *script) require(fn string) error {
	if s.b == nil {
		return fmt.Errorf("%s: %w", fn, errNoModel)
	}
	return nil
}

// component reports the builder error left by the last Add call, if any.
func (s *script) component(kind, name string) (zygo.Sexp, error) {
	if err := s.b.Err(); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
	}
	return &sexpComponent{kind: kind, name: name}, nil
}

// points reads vertex arguments. With shared set, a vertex value given
// several times maps to one mesh vertex; order lists the mesh vertex of
// every argument.
func (s *script) points(fn string, args []zygo.Sexp, shared bool) (pts []geom.Point, order []int, err error) {
	if err := s.require(fn); err != nil {
		return nil, nil, err
	}
	seen := make(map[*sexpVertex]int)
	for i, a := range args {
		v, err := toVertex(a)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: vertex %d: %w", fn, i, err)
		}
		if v.dim != s.dim {
			return nil, nil, fmt.Errorf("%s: vertex %d has %d coordinates in a %dD model", fn, i, v.dim, s.dim)
		}
		if idx, ok := seen[v]; ok && shared {
			order = append(order, idx)
			continue
		}
		seen[v] = len(pts)
		order = append(order, len(pts))
		pts = append(pts, v.p)
	}
	return pts, order, nil
}

// elements reads the name, :vertices and the element lists stored under
// key for surfaces and blocks.
func (s *script) elements(fn, key string, args []zygo.Sexp) (string, []geom.Point, [][]int, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return "", nil, nil, fmt.Errorf("%s requires a name", fn)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s: name: %w", fn, err)
	}
	raw, ok := pa.kw["vertices"]
	if !ok {
		return "", nil, nil, fmt.Errorf("%s %q: missing :vertices", fn, name)
	}
	items, err := sexpListToSlice(raw)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s %q: vertices: %w", fn, name, err)
	}
	pts, _, err := s.points(fn, items, false)
	if err != nil {
		return "", nil, nil, err
	}
	raw, ok = pa.kw[key]
	if !ok {
		return "", nil, nil, fmt.Errorf("%s %q: missing :%s", fn, name, key)
	}
	elems, err := toIndexLists(raw)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s %q: %s: %w", fn, name, key, err)
	}
	return name, pts, elems, nil
}

func (s *script) setWeld(eps float64) error {
	if err := s.require("weld"); err != nil {
		return err
	}
	if s.explicit {
		return fmt.Errorf("weld: unique vertices are already linked explicitly")
	}
	if eps < 0 {
		return fmt.Errorf("weld: tolerance must not be negative, got %g", eps)
	}
	s.weld, s.welded = eps, true
	return nil
}

func (s *script) setUniqueVertex(component string, v, uv int) error {
	if err := s.require("unique-vertex"); err != nil {
		return err
	}
	if s.welded {
		return fmt.Errorf("unique-vertex: the model is welded")
	}
	s.explicit = true
	s.b.SetUniqueVertex(component, v, uv)
	if err := s.b.Err(); err != nil {
		return fmt.Errorf("unique-vertex: %w", err)
	}
	return nil
}

// finish links unique vertices and returns the model.
func (s *script) finish() (*model.Model, error) {
	if s.b == nil {
		return nil, errNoModel
	}
	switch {
	case s.welded:
		s.b.WeldUniqueVertices(s.weld)
	case !s.explicit:
		s.b.WeldUniqueVertices(geom.DefaultEpsilon)
	}
	return s.b.Build()
}
