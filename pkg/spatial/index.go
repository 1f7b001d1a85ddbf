// Package spatial wraps an R-tree (github.com/dhconnelly/rtreego) into the
// two indexes the inspectors need: a point index answering "which points lie
// within tolerance of this one", and a box tree answering "which primitives
// have overlapping bounding boxes". It also provides the union-find used to
// merge colocated pairs into groups.
package spatial

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/strata/pkg/geom"
)

const (
	treeDim      = 3
	minChildren  = 8
	maxChildren  = 32
	minTolerance = 1e-12
)

// item is an indexed primitive stored in the R-tree.
type item struct {
	index int
	rect  rtreego.Rect
}

func (it *item) Bounds() rtreego.Rect { return it.rect }

func toRTreePoint(p geom.Point) rtreego.Point {
	return rtreego.Point{p.X, p.Y, p.Z}
}

// PointIndex finds points within a distance tolerance of each other.
type PointIndex struct {
	tree   *rtreego.Rtree
	points []geom.Point
	eps    float64
}

// NewPointIndex indexes points with the given distance tolerance.
func NewPointIndex(points []geom.Point, eps float64) *PointIndex {
	if eps < minTolerance {
		eps = minTolerance
	}
	ix := &PointIndex{
		tree:   rtreego.NewTree(treeDim, minChildren, maxChildren),
		points: points,
		eps:    eps,
	}
	for i, p := range points {
		ix.tree.Insert(&item{index: i, rect: toRTreePoint(p).ToRect(eps)})
	}
	return ix
}

// Len returns the number of indexed points.
func (ix *PointIndex) Len() int { return len(ix.points) }

// Near returns, in ascending order, the indices of the points within
// tolerance of p.
func (ix *PointIndex) Near(p geom.Point) []int {
	hits := ix.tree.SearchIntersect(toRTreePoint(p).ToRect(ix.eps))
	var out []int
	for _, h := range hits {
		it := h.(*item)
		if geom.InexactEqual(ix.points[it.index], p, ix.eps) {
			out = append(out, it.index)
		}
	}
	sort.Ints(out)
	return out
}

// ColocatedPairs returns every unordered pair (i < j) of points within
// tolerance of each other.
func (ix *PointIndex) ColocatedPairs() [][2]int {
	var pairs [][2]int
	for i, p := range ix.points {
		for _, j := range ix.Near(p) {
			if j > i {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// ColocatedGroups merges colocated pairs transitively and returns every
// group of two or more points.
func (ix *PointIndex) ColocatedGroups() [][]int {
	ds := NewDisjointSet(len(ix.points))
	for _, pair := range ix.ColocatedPairs() {
		ds.Union(pair[0], pair[1])
	}
	return ds.Groups(2)
}

// BoxTree is an AABB tree over the bounding boxes of indexed primitives.
type BoxTree struct {
	tree  *rtreego.Rtree
	boxes []geom.Box
	pad   float64
}

func boxRect(b geom.Box, pad float64) (rtreego.Rect, error) {
	b = geom.Inflate(b, pad)
	size := b.Max.Sub(b.Min)
	return rtreego.NewRect(toRTreePoint(b.Min), []float64{size.X, size.Y, size.Z})
}

// NewBoxTree indexes boxes, each grown by pad so flat boxes stay valid.
func NewBoxTree(boxes []geom.Box, pad float64) (*BoxTree, error) {
	if pad < minTolerance {
		pad = minTolerance
	}
	t := &BoxTree{
		tree:  rtreego.NewTree(treeDim, minChildren, maxChildren),
		boxes: boxes,
		pad:   pad,
	}
	for i, b := range boxes {
		r, err := boxRect(b, pad)
		if err != nil {
			return nil, fmt.Errorf("spatial: box %d: %w", i, err)
		}
		t.tree.Insert(&item{index: i, rect: r})
	}
	return t, nil
}

// Len returns the number of indexed boxes.
func (t *BoxTree) Len() int { return len(t.boxes) }

// Box returns the i-th indexed box.
func (t *BoxTree) Box(i int) geom.Box { return t.boxes[i] }

// Overlapping returns, in ascending order, the indices of the boxes
// overlapping b.
func (t *BoxTree) Overlapping(b geom.Box) []int {
	r, err := boxRect(b, t.pad)
	if err != nil {
		return nil
	}
	hits := t.tree.SearchIntersect(r)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*item).index)
	}
	sort.Ints(out)
	return out
}

// OverlappingPairs returns every pair (i in a, j in b) whose boxes overlap.
// The smaller tree drives the queries against the larger one. Pairs are
// sorted by (i, j).
func OverlappingPairs(a, b *BoxTree) [][2]int {
	var pairs [][2]int
	if a.Len() <= b.Len() {
		for i, box := range a.boxes {
			for _, j := range b.Overlapping(box) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	} else {
		for j, box := range b.boxes {
			for _, i := range a.Overlapping(box) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	sort.Slice(pairs, func(x, y int) bool {
		if pairs[x][0] != pairs[y][0] {
			return pairs[x][0] < pairs[y][0]
		}
		return pairs[x][1] < pairs[y][1]
	})
	return pairs
}
