// Package intersect detects intersections between a triangulated surface
// and an edged curve sharing its dimension.
//
// Both meshes are indexed in an AABB tree over their primitives. Pairs of
// overlapping boxes are then tested exactly, either until the first hit or
// exhaustively on a bounded pool of goroutines.
package intersect

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/spatial"
)

// ErrNotTriangulated is returned when the surface has a non-triangular
// polygon.
var ErrNotTriangulated = errors.New("intersect: surface is not triangulated")

// Pair is a triangle of the surface and an edge of the curve.
type Pair struct {
	Triangle int
	Edge     int
}

type options struct {
	eps     float64
	workers int
	logger  *zap.Logger
}

// Option configures a Detector.
type Option func(*options)

// WithTolerance sets the distance under which primitives touch.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.eps = eps
		}
	}
}

// WithWorkers bounds the goroutines used by IntersectingElements. Values
// below one mean GOMAXPROCS.
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

// Detector finds the triangle/edge pairs of a surface and a curve that
// intersect.
type Detector struct {
	surface    *mesh.Surface
	curve      *mesh.EdgedCurve
	candidates []Pair
	opts       options
}

// New indexes surface and curve. It fails when their dimensions differ or
// when the surface is not triangulated.
func New(surface *mesh.Surface, curve *mesh.EdgedCurve, opts ...Option) (*Detector, error) {
	o := options{eps: geom.DefaultEpsilon, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if surface.Dimension() != curve.Dimension() {
		return nil, fmt.Errorf("intersect: surface is %dD, curve is %dD", surface.Dimension(), curve.Dimension())
	}
	if !surface.IsTriangulated() {
		return nil, ErrNotTriangulated
	}

	triangles := make([]geom.Box, surface.NbPolygons())
	for p := range triangles {
		t := surface.Triangle(p)
		triangles[p] = geom.BoxOf(t[0], t[1], t[2])
	}
	segments := make([]geom.Box, curve.NbEdges())
	for e := range segments {
		s := curve.EdgeSegment(e)
		segments[e] = geom.BoxOf(s[0], s[1])
	}
	triTree, err := spatial.NewBoxTree(triangles, o.eps)
	if err != nil {
		return nil, fmt.Errorf("intersect: index triangles: %w", err)
	}
	segTree, err := spatial.NewBoxTree(segments, o.eps)
	if err != nil {
		return nil, fmt.Errorf("intersect: index edges: %w", err)
	}

	d := &Detector{surface: surface, curve: curve, opts: o}
	for _, p := range spatial.OverlappingPairs(triTree, segTree) {
		d.candidates = append(d.candidates, Pair{Triangle: p[0], Edge: p[1]})
	}
	o.logger.Debug("intersection candidates",
		zap.Int("triangles", len(triangles)),
		zap.Int("edges", len(segments)),
		zap.Int("candidates", len(d.candidates)))
	return d, nil
}

// NbCandidates returns the number of pairs whose boxes overlap.
func (d *Detector) NbCandidates() int { return len(d.candidates) }

// MeshesHaveIntersections reports whether any triangle intersects any
// edge. It stops at the first intersecting pair.
func (d *Detector) MeshesHaveIntersections() bool {
	for _, p := range d.candidates {
		if d.intersects(p) {
			return true
		}
	}
	return false
}

// IntersectingPairs returns every intersecting pair sorted by triangle then
// edge. A worker that panics, e.g. on a hand-built candidate out of range,
// fails the search instead of the process.
func (d *Detector) IntersectingPairs() ([]Pair, error) {
	var (
		mu  sync.Mutex
		out []Pair
		g   errgroup.Group
	)
	g.SetLimit(d.opts.workers)
	chunk := (len(d.candidates) + d.opts.workers - 1) / d.opts.workers
	for start := 0; start < len(d.candidates); start += chunk {
		part := d.candidates[start:min(start+chunk, len(d.candidates))]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("intersect: worker failed: %v", r)
				}
			}()
			var hits []Pair
			for _, p := range part {
				if d.intersects(p) {
					hits = append(hits, p)
				}
			}
			mu.Lock()
			out = append(out, hits...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Triangle != out[j].Triangle {
			return out[i].Triangle < out[j].Triangle
		}
		return out[i].Edge < out[j].Edge
	})
	return out, nil
}

// IntersectingElements returns one issue per intersecting pair.
func (d *Detector) IntersectingElements() (*issue.Set[Pair], error) {
	pairs, err := d.IntersectingPairs()
	if err != nil {
		return nil, err
	}
	set := issue.NewSet[Pair]("Triangle edge intersections between triangle.")
	for _, p := range pairs {
		set.Add(p, fmt.Sprintf("Triangle %d and edge %d intersect each other.", p.Triangle, p.Edge))
	}
	d.opts.logger.Debug("intersections inspected", zap.Int("issues", set.Count()))
	return set, nil
}

func (d *Detector) intersects(p Pair) bool {
	t := d.surface.Triangle(p.Triangle)
	s := d.curve.EdgeSegment(p.Edge)
	if d.surface.Dimension() == 2 {
		return Intersects2D(t, s, d.opts.eps)
	}
	return Intersects3D(t, s, d.opts.eps)
}
