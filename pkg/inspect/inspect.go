// Package inspect composes the criterion and topology checkers into one
// inspector per mesh or model kind. Which criteria apply to a kind is fixed
// by Criteria; callers may skip some of them with WithSkip.
package inspect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/criterion"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/intersect"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
	"github.com/chazu/strata/pkg/topology"
)

// ErrUnsupportedTarget is returned by Inspect for values that are neither a
// mesh nor a model.
var ErrUnsupportedTarget = errors.New("inspect: unsupported target")

// Kind is a mesh or model kind together with its dimension.
type Kind string

const (
	PointSet2D   Kind = "PointSet2D"
	PointSet3D   Kind = "PointSet3D"
	EdgedCurve2D Kind = "EdgedCurve2D"
	EdgedCurve3D Kind = "EdgedCurve3D"
	Surface2D    Kind = "Surface2D"
	Surface3D    Kind = "Surface3D"
	Solid3D      Kind = "Solid3D"
	Section      Kind = "Section"
	BRep         Kind = "BRep"
)

// Criterion names one family of checks.
type Criterion string

const (
	Colocation     Criterion = "colocation"
	Degeneration   Criterion = "degeneration"
	Adjacency      Criterion = "adjacency"
	Manifold       Criterion = "manifold"
	UniqueVertices Criterion = "unique_vertices"
	Topology       Criterion = "topology"
)

// AllCriteria lists every criterion name.
var AllCriteria = []Criterion{Colocation, Degeneration, Adjacency, Manifold, UniqueVertices, Topology}

var criteria = map[Kind][]Criterion{
	PointSet2D:   {Colocation},
	PointSet3D:   {Colocation},
	EdgedCurve2D: {Colocation, Degeneration},
	EdgedCurve3D: {Colocation, Degeneration},
	Surface2D:    {Adjacency, Colocation, Degeneration, Manifold},
	Surface3D:    {Adjacency, Colocation, Degeneration, Manifold},
	Solid3D:      {Adjacency, Colocation, Degeneration, Manifold},
	Section:      {UniqueVertices, Colocation, Degeneration, Adjacency, Manifold, Topology},
	BRep:         {UniqueVertices, Colocation, Degeneration, Adjacency, Manifold, Topology},
}

// Criteria returns the criteria applicable to kind, in the order the
// inspector runs them.
func Criteria(kind Kind) []Criterion {
	return slices.Clone(criteria[kind])
}

// ParseCriteria converts names such as "adjacency" into criteria. Names
// are case-insensitive; unknown names are an error.
func ParseCriteria(names []string) ([]Criterion, error) {
	var out []Criterion
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		c := Criterion(name)
		if !lo.Contains(AllCriteria, c) {
			return nil, fmt.Errorf("inspect: unknown criterion %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}

func kindFor(base string, dim int) Kind {
	return Kind(fmt.Sprintf("%s%dD", base, dim))
}

// KindOf returns the kind of a mesh or model.
func KindOf(target any) (Kind, error) {
	switch t := target.(type) {
	case *mesh.Solid:
		return Solid3D, nil
	case *mesh.Surface:
		return kindFor("Surface", t.Dimension()), nil
	case *mesh.EdgedCurve:
		return kindFor("EdgedCurve", t.Dimension()), nil
	case *mesh.PointSet:
		return kindFor("PointSet", t.Dimension()), nil
	case *model.Section:
		return Section, nil
	case *model.BRep:
		return BRep, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
}

type options struct {
	eps     float64
	workers int
	logger  *zap.Logger
	skip    []Criterion
}

// Option configures an inspector.
type Option func(*options)

// WithTolerance sets the colocation and intersection tolerance.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.eps = eps
		}
	}
}

// WithWorkers bounds the parallel intersection search.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSkip disables criteria. Their result fields stay nil and they are
// left out of the rendering.
func WithSkip(c ...Criterion) Option {
	return func(o *options) { o.skip = append(o.skip, c...) }
}

func newOptions(opts []Option) options {
	o := options{eps: geom.DefaultEpsilon, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) enabled(c Criterion) bool {
	return !lo.Contains(o.skip, c)
}

func (o options) criterion() []criterion.Option {
	return []criterion.Option{criterion.WithTolerance(o.eps), criterion.WithLogger(o.logger)}
}

func (o options) topology() []topology.Option {
	return []topology.Option{topology.WithLogger(o.logger)}
}

func (o options) intersect() []intersect.Option {
	return []intersect.Option{
		intersect.WithTolerance(o.eps),
		intersect.WithWorkers(o.workers),
		intersect.WithLogger(o.logger),
	}
}

// run calls check when c is applicable to kind and not skipped.
func (o options) run(kind Kind, c Criterion, check func() int) {
	log := o.logger.With(zap.String("kind", string(kind)), zap.String("criterion", string(c)))
	if !o.enabled(c) {
		log.Debug("criterion skipped")
		return
	}
	start := time.Now()
	n := check()
	log.Debug("criterion inspected", zap.Int("issues", n), zap.Duration("elapsed", time.Since(start)))
}

// Result is what every inspector returns.
type Result interface {
	NbIssues() int
	Render() string
	InspectionKind() string
	Summary() Summary
}

var (
	_ Result = PointSetResult{}
	_ Result = EdgedCurveResult{}
	_ Result = SurfaceResult{}
	_ Result = SolidResult{}
	_ Result = SectionResult{}
	_ Result = BRepResult{}
)

// Inspect runs the aggregate inspection matching the type of target, which
// must be one of the mesh types or a Section or BRep.
func Inspect(target any, opts ...Option) (Result, error) {
	switch t := target.(type) {
	case *mesh.Solid:
		return NewSolidInspector(t, opts...).Inspect(), nil
	case *mesh.Surface:
		return NewSurfaceInspector(t, opts...).Inspect(), nil
	case *mesh.EdgedCurve:
		return NewEdgedCurveInspector(t, opts...).Inspect(), nil
	case *mesh.PointSet:
		return NewPointSetInspector(t, opts...).Inspect(), nil
	case *model.Section:
		return NewSectionInspector(t, opts...).Inspect(), nil
	case *model.BRep:
		return NewBRepInspector(t, opts...).Inspect(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
}
