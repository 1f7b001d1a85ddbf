package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms model script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Comment conversion: ; and ;; line comments become // comments.
//
//  2. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  3. Kebab-case to underscore: unique-vertex -> unique_vertex
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters, so the
		// minus operator and negative literals survive.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVertex is a position returned by `vertex`. Passing the same value
// twice to `line` reuses the curve vertex.
type sexpVertex struct {
	p   geom.Point
	dim int
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	if v.dim == 2 {
		return fmt.Sprintf("(vertex %g %g)", v.p.X, v.p.Y)
	}
	return fmt.Sprintf("(vertex %g %g %g)", v.p.X, v.p.Y, v.p.Z)
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpComponent names a declared component so relations can take either
// the value or its name.
type sexpComponent struct {
	kind string
	name string
}

func (c *sexpComponent) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", c.kind, c.name)
}
func (c *sexpComponent) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toName accepts a component value or a plain name.
func toName(s zygo.Sexp) (string, error) {
	if c, ok := s.(*sexpComponent); ok {
		return c.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected component or name: %w", err)
	}
	return name, nil
}

func toVertex(s zygo.Sexp) (*sexpVertex, error) {
	if v, ok := s.(*sexpVertex); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected vertex, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toIndexLists reads (list (list 0 1 2) ...) into element vertex lists.
func toIndexLists(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][]int, 0, len(items))
	for i, item := range items {
		elems, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		indices := make([]int, len(elems))
		for j, e := range elems {
			if indices[j], err = toInt(e); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		out = append(out, indices)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the model DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *script) {

	// -----------------------------------------------------------------------
	// (section "name") / (brep "name")
	// -----------------------------------------------------------------------
	declare := func(kind string, dim int) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a name argument", kind)
			}
			modelName, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", kind, err)
			}
			if err := s.declare(kind, modelName, dim); err != nil {
				return zygo.SexpNull, err
			}
			return &sexpComponent{kind: kind, name: modelName}, nil
		}
	}
	env.AddFunction("section", declare("section", 2))
	env.AddFunction("brep", declare("brep", 3))

	// -----------------------------------------------------------------------
	// (vertex 1 2) / (vertex 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vertex requires 2 or 3 coordinates, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: coordinate %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVertex{p: geom.Pt3(c[0], c[1], c[2]), dim: len(args)}, nil
	})

	// -----------------------------------------------------------------------
	// (corner "c0" v)
	// -----------------------------------------------------------------------
	env.AddFunction("corner", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("corner requires a name and a vertex")
		}
		cname, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner: name: %w", err)
		}
		pts, _, err := s.points("corner", args[1:], false)
		if err != nil {
			return zygo.SexpNull, err
		}
		ps, err := mesh.NewPointSet(s.dim, pts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner %q: %w", cname, err)
		}
		s.b.AddCorner(cname, ps)
		return s.component("corner", cname)
	})

	// -----------------------------------------------------------------------
	// (line "l0" a b c a)
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("line requires a name and at least 2 vertices")
		}
		lname, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: name: %w", err)
		}
		pts, order, err := s.points("line", args[1:], true)
		if err != nil {
			return zygo.SexpNull, err
		}
		edges := make([][2]int, 0, len(order)-1)
		for i := 1; i < len(order); i++ {
			edges = append(edges, [2]int{order[i-1], order[i]})
		}
		curve, err := mesh.NewEdgedCurve(s.dim, pts, edges)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line %q: %w", lname, err)
		}
		s.b.AddLine(lname, curve)
		return s.component("line", lname)
	})

	// -----------------------------------------------------------------------
	// (surface "s0" :vertices (list a b c) :polygons (list (list 0 1 2)))
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sname, pts, elems, err := s.elements("surface", "polygons", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		surf, err := mesh.NewSurface(s.dim, pts, elems)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface %q: %w", sname, err)
		}
		s.b.AddSurface(sname, surf)
		return s.component("surface", sname)
	})

	// -----------------------------------------------------------------------
	// (block "b0" :vertices (list ...) :polyhedra (list (list 0 1 2 3)))
	// -----------------------------------------------------------------------
	env.AddFunction("block", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		bname, pts, elems, err := s.elements("block", "polyhedra", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if s.dim != 3 {
			return zygo.SexpNull, fmt.Errorf("block %q: blocks belong to a brep", bname)
		}
		solid, err := mesh.NewSolid(pts, elems)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("block %q: %w", bname, err)
		}
		s.b.AddBlock(bname, solid)
		return s.component("block", bname)
	})

	// -----------------------------------------------------------------------
	// (boundary "c0" "l0") / (internal "l1" "s0")
	// -----------------------------------------------------------------------
	relation := func(kind string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a child and a parent", kind)
			}
			if err := s.require(kind); err != nil {
				return zygo.SexpNull, err
			}
			child, err := toName(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: child: %w", kind, err)
			}
			parent, err := toName(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: parent: %w", kind, err)
			}
			if kind == "boundary" {
				s.b.AddBoundary(child, parent)
			} else {
				s.b.AddInternal(child, parent)
			}
			if err := s.b.Err(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			return zygo.SexpNull, nil
		}
	}
	env.AddFunction("boundary", relation("boundary"))
	env.AddFunction("internal", relation("internal"))

	// -----------------------------------------------------------------------
	// (weld 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("weld", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("weld requires a tolerance")
		}
		eps, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("weld: %w", err)
		}
		if err := s.setWeld(eps); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (unique-vertex "l0" 1 4)
	//
	// Registered as "unique_vertex"; the preprocessor rewrites the
	// hyphenated form.
	// -----------------------------------------------------------------------
	env.AddFunction("unique_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("unique-vertex requires a component, a vertex and a unique vertex")
		}
		comp, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unique-vertex: component: %w", err)
		}
		v, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unique-vertex: vertex: %w", err)
		}
		uv, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unique-vertex: unique vertex: %w", err)
		}
		if err := s.setUniqueVertex(comp, v, uv); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}
