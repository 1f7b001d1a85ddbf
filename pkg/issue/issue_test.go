package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Set ---

func TestSetKeepsInsertionOrderAndDuplicates(t *testing.T) {
	s := NewSet[int]("Degenerated edges.")
	s.Add(3, "edge 3")
	s.Add(1, "edge 1")
	s.Add(3, "edge 3")

	require.Equal(t, 3, s.Count())
	assert.Equal(t, []int{3, 1, 3}, s.Subjects())
	assert.Equal(t, []string{"edge 3", "edge 1", "edge 3"}, s.Messages())
	assert.False(t, s.Empty())
}

func TestSetRender(t *testing.T) {
	s := NewSet[int]("Header")
	s.Add(0, "first")
	s.Add(1, "second")
	assert.Equal(t, "Header\n  - first\n  - second\n", s.Render())
}

func TestSetRenderEmpty(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"with description", "Header", "Header\n  No issues.\n"},
		{"without description", "", "  No issues.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSet[string](tt.desc).Render())
		})
	}
}

func TestNilSetIsEmpty(t *testing.T) {
	var s *Set[int]
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Empty())
	assert.Nil(t, s.Issues())
	assert.Equal(t, "", s.Description())
}

// --- Map ---

func TestMapMergeAggregates(t *testing.T) {
	m := NewMap[string, int]("Per component")

	a := NewSet[int]("Component a")
	a.Add(1, "a1")
	b := NewSet[int]("Component b")
	b.Add(2, "b2")
	b.Add(3, "b3")
	more := NewSet[int]("ignored")
	more.Add(4, "a4")

	m.Merge("a", a)
	m.Merge("b", b)
	m.Merge("a", more)

	require.Equal(t, 4, m.Count())
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, "Component a", m.Get("a").Description())
	assert.Equal(t, []string{"a1", "a4", "b2", "b3"}, m.Messages())
	assert.Nil(t, m.Get("missing"))
}

func TestMapRender(t *testing.T) {
	m := NewMap[string, int]("Header")
	assert.Equal(t, "Header\n  No issues.\n", m.Render())

	s := NewSet[int]("Block x")
	s.Add(0, "vertex 0")
	m.Merge("x", s)
	assert.Equal(t, "Header\nBlock x\n  - vertex 0\n", m.Render())
}
