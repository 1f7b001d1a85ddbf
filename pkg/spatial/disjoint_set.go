package spatial

import "sort"

// DisjointSet is a union-find over the integers [0, n) with path compression
// and union by rank.
type DisjointSet struct {
	parent []int
	rank   []int
}

// NewDisjointSet returns n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	d := &DisjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

// Len returns the number of elements.
func (d *DisjointSet) Len() int { return len(d.parent) }

// Find returns the representative of i's set.
func (d *DisjointSet) Find(i int) int {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		next := d.parent[i]
		d.parent[i] = root
		i = next
	}
	return root
}

// Union merges the sets of a and b and reports whether they were distinct.
func (d *DisjointSet) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}

// Groups returns every set with at least minSize members. Members are
// ascending and groups are ordered by their smallest member.
func (d *DisjointSet) Groups(minSize int) [][]int {
	byRoot := make(map[int][]int)
	var roots []int
	for i := range d.parent {
		r := d.Find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	var out [][]int
	for _, r := range roots {
		if g := byRoot[r]; len(g) >= minSize {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
