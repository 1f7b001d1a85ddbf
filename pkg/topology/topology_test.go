package topology

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
)

var tetPoints = []geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0), geom.Pt3(0, 0, 1)}

func tetSolid(t *testing.T, extra ...geom.Point) *mesh.Solid {
	t.Helper()
	s, err := mesh.NewSolid(append(append([]geom.Point(nil), tetPoints...), extra...), [][]int{{0, 1, 2, 3}})
	require.NoError(t, err)
	return s
}

func tetSurface(t *testing.T) *mesh.Surface {
	t.Helper()
	s, err := mesh.NewSurface(3, tetPoints, [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}})
	require.NoError(t, err)
	return s
}

func buildBRep(t *testing.T, b *model.Builder) *model.BRep {
	t.Helper()
	b.WeldUniqueVertices(geom.DefaultEpsilon)
	brep, err := b.BRep()
	require.NoError(t, err)
	return brep
}

// --- Blocks ---

func TestSingleClosedBlockIsValid(t *testing.T) {
	b := model.NewBuilder("tet", 3)
	b.AddSurface("s0", tetSurface(t))
	b.AddBlock("b0", tetSolid(t))
	b.AddBoundary("s0", "b0")
	brep := buildBRep(t, b)

	topo := NewBlocksTopology(brep, WithLogger(zaptest.NewLogger(t)))
	for uv := 0; uv < brep.NbUniqueVertices(); uv++ {
		assert.True(t, topo.IsValid(uv), "unique vertex %d", uv)
	}
	res := InspectBRep(brep)
	assert.Zero(t, res.NbIssues())
	assert.Equal(t, "No issues with blocks topology\n", res.Blocks.Render())
	assert.Equal(t, "Blocks topology inspection", res.Blocks.InspectionKind())
}

func TestBlockCMVsCountWithoutInternalSurface(t *testing.T) {
	b := model.NewBuilder("tet", 3)
	b.AddSurface("s0", tetSurface(t))
	block := b.AddBlock("b0", tetSolid(t, geom.Pt3(0, 0, 0)))
	b.AddBoundary("s0", "b0")
	brep := buildBRep(t, b)

	msg, bad := NewBlocksTopology(brep).BlockCMVsCountIsIncorrect(0)
	require.True(t, bad)
	assert.Equal(t, fmt.Sprintf("Unique vertex with index 0 is part of the block %s and none of its internal surfaces but has 2 block component mesh vertices (should be 1).", block), msg)

	res := NewBlocksTopology(brep).Inspect()
	assert.Equal(t, []int{0}, res.UniqueVerticesWithIncorrectBlockCMVsCount.Subjects())
	assert.Contains(t, res.Render(), msg)
}

func cornerLineBRep(t *testing.T, extra ...geom.Point) (*model.BRep, uuid.UUID) {
	t.Helper()
	c0, err := mesh.NewPointSet(3, []geom.Point{geom.Pt3(0, 0, 0)})
	require.NoError(t, err)
	c1, err := mesh.NewPointSet(3, []geom.Point{geom.Pt3(1, 0, 0)})
	require.NoError(t, err)
	l0, err := mesh.NewPolyline(3, []geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(1, 0, 0)}, false)
	require.NoError(t, err)

	b := model.NewBuilder("corner", 3)
	b.AddCorner("c0", c0)
	b.AddCorner("c1", c1)
	b.AddLine("l0", l0)
	b.AddSurface("s0", tetSurface(t))
	block := b.AddBlock("b0", tetSolid(t, extra...))
	b.AddBoundary("c0", "l0")
	b.AddBoundary("c1", "l0")
	b.AddBoundary("l0", "s0")
	b.AddBoundary("s0", "b0")
	return buildBRep(t, b), block
}

func TestBlockCMVsCountAtCorner(t *testing.T) {
	brep, _ := cornerLineBRep(t)
	topo := NewBlocksTopology(brep)
	for uv := 0; uv < brep.NbUniqueVertices(); uv++ {
		_, bad := topo.BlockCMVsCountIsIncorrect(uv)
		assert.False(t, bad, "unique vertex %d", uv)
	}

	brep, block := cornerLineBRep(t, geom.Pt3(0, 0, 0))
	msg, bad := NewBlocksTopology(brep).BlockCMVsCountIsIncorrect(0)
	require.True(t, bad)
	assert.Equal(t, fmt.Sprintf("Unique vertex with index 0 is part of block %s and exactly one corner and one line but has 2 block component mesh vertices (should be 1).", block), msg)
}

func TestBlockCMVsCountWithInternalSurface(t *testing.T) {
	inner, err := mesh.NewSurface(3,
		[]geom.Point{geom.Pt3(0, 0, 0), geom.Pt3(0.2, 0.1, 0.1), geom.Pt3(0.1, 0.2, 0.1)},
		[][]int{{0, 1, 2}})
	require.NoError(t, err)

	b := model.NewBuilder("internal", 3)
	b.AddSurface("s0", tetSurface(t))
	b.AddSurface("inner", inner)
	block := b.AddBlock("b0", tetSolid(t))
	b.AddBoundary("s0", "b0")
	b.AddInternal("inner", "b0")
	brep := buildBRep(t, b)

	// One internal surface and no free line predict two block vertices.
	msg, bad := NewBlocksTopology(brep).BlockCMVsCountIsIncorrect(0)
	require.True(t, bad)
	assert.Equal(t, fmt.Sprintf("Unique vertex with index 0 is part of the block %s, has 1 internal surface(s) component mesh vertices (CMVs), has 1 boundary surface(s) CMVs, and has 0 free line(s) CMVs, with 1 block CMVs (should be 2).", block), msg)
}

func twoTetBlocks(t *testing.T, shared bool) *model.BRep {
	t.Helper()
	upper, err := mesh.NewSolid(
		[]geom.Point{geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0), geom.Pt3(0, 0, 1), geom.Pt3(1, 1, 1)},
		[][]int{{0, 1, 2, 3}})
	require.NoError(t, err)

	b := model.NewBuilder("two blocks", 3)
	b.AddBlock("b0", tetSolid(t))
	b.AddBlock("b1", upper)
	if shared {
		face, err := mesh.NewSurface(3,
			[]geom.Point{geom.Pt3(1, 0, 0), geom.Pt3(0, 1, 0), geom.Pt3(0, 0, 1)},
			[][]int{{0, 1, 2}})
		require.NoError(t, err)
		b.AddSurface("face", face)
		b.AddBoundary("face", "b0")
		b.AddBoundary("face", "b1")
	}
	return buildBRep(t, b)
}

func TestPartOfTwoBlocksAndNoBoundarySurface(t *testing.T) {
	res := NewBlocksTopology(twoTetBlocks(t, false)).Inspect()
	set := res.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface
	assert.Equal(t, []int{1, 2, 3}, set.Subjects())
	assert.Equal(t, "Unique vertex with index 1 is part of two blocks, but not of a surface boundary to the two blocks, nor of a line boundary to one of the blocks incident surfaces.", set.Messages()[0])
	assert.True(t, res.UniqueVerticesWithIncorrectBlockCMVsCount.Empty())

	res = NewBlocksTopology(twoTetBlocks(t, true)).Inspect()
	assert.True(t, res.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface.Empty())
}

func TestWrongBlockBoundarySurface(t *testing.T) {
	emptyLine := func() *mesh.EdgedCurve {
		l, err := mesh.NewPolyline(3, nil, false)
		require.NoError(t, err)
		return l
	}
	emptySurface := func() *mesh.Surface {
		s, err := mesh.NewSurface(3, nil, nil)
		require.NoError(t, err)
		return s
	}
	solid, err := mesh.NewSolid(nil, nil)
	require.NoError(t, err)

	b := model.NewBuilder("missing incidence", 3)
	b.AddLine("l0", emptyLine())
	b.AddLine("l1", emptyLine())
	s0 := b.AddSurface("s0", emptySurface())
	b.AddSurface("s1", emptySurface())
	block := b.AddBlock("b0", solid)
	b.AddBoundary("l0", "s0")
	b.AddBoundary("l0", "s1")
	b.AddBoundary("l1", "s0")
	b.AddBoundary("s0", "b0")
	b.AddBoundary("s1", "b0")
	brep, err := b.BRep()
	require.NoError(t, err)

	res := NewBlocksTopology(brep).Inspect()
	assert.Equal(t, []uuid.UUID{s0}, res.WrongBlockBoundarySurface.Subjects())
	assert.Equal(t, fmt.Sprintf("Surface %s should not be boundary of Block %s : it has a boundary line not incident to any other block boundary surface.", s0, block),
		res.WrongBlockBoundarySurface.Messages()[0])
	assert.Equal(t, []string{fmt.Sprintf("Block %s is not meshed.", block)}, res.BlocksNotMeshed.Messages())
	assert.True(t, res.BlocksNotLinkedToUniqueVertex.Empty())
}

// --- Lines ---

type sectionOptions struct {
	skipCorner string
	extra      func(t *testing.T, b *model.Builder)
}

// squareSection is the unit square bounded by four lines meeting at four
// corners.
func squareSection(t *testing.T, o sectionOptions) *model.Section {
	t.Helper()
	pts := []geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0), geom.Pt2(1, 1), geom.Pt2(0, 1)}
	surf, err := mesh.NewSurface(2, pts, [][]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)

	b := model.NewBuilder("square", 2)
	b.AddSurface("s0", surf)
	for i := range pts {
		line, err := mesh.NewPolyline(2, []geom.Point{pts[i], pts[(i+1)%4]}, false)
		require.NoError(t, err)
		name := fmt.Sprintf("l%d", i)
		b.AddLine(name, line)
		b.AddBoundary(name, "s0")
	}
	for i, p := range pts {
		name := fmt.Sprintf("c%d", i)
		if name == o.skipCorner {
			continue
		}
		corner, err := mesh.NewPointSet(2, []geom.Point{p})
		require.NoError(t, err)
		b.AddCorner(name, corner)
		b.AddBoundary(name, fmt.Sprintf("l%d", i))
		b.AddBoundary(name, fmt.Sprintf("l%d", (i+3)%4))
	}
	if o.extra != nil {
		o.extra(t, b)
	}
	b.WeldUniqueVertices(geom.DefaultEpsilon)
	s, err := b.Section()
	require.NoError(t, err)
	return s
}

func addSegment(t *testing.T, b *model.Builder, name string, from, to geom.Point) {
	t.Helper()
	line, err := mesh.NewPolyline(2, []geom.Point{from, to}, false)
	require.NoError(t, err)
	b.AddLine(name, line)
}

func TestSquareSectionIsValid(t *testing.T) {
	s := squareSection(t, sectionOptions{})
	res := InspectSection(s, WithLogger(zaptest.NewLogger(t)))
	assert.Zero(t, res.NbIssues(), res.Render())
	assert.Contains(t, res.Render(), "No issues with lines topology")

	lines := NewLinesTopology(s.Model)
	for uv := 0; uv < s.NbUniqueVertices(); uv++ {
		assert.True(t, lines.IsValid(uv))
	}
}

func TestLinesTopology(t *testing.T) {
	pick := func(r LinesResult, which string) []int {
		switch which {
		case "free":
			return r.UniqueVerticesLinkedToNotInternalNorBoundaryLine.Subjects()
		case "embeddings":
			return r.UniqueVerticesLinkedToLineWithInvalidEmbeddings.Subjects()
		case "single":
			return r.UniqueVerticesLinkedToSingleAndInvalidLine.Subjects()
		case "corner":
			return r.UniqueVerticesLinkedToSeveralLinesButNotCorner.Subjects()
		}
		return nil
	}
	tests := []struct {
		name  string
		opts  sectionOptions
		which string
		count int
		total int
	}{
		{"dangling line", sectionOptions{extra: func(t *testing.T, b *model.Builder) {
			addSegment(t, b, "l4", geom.Pt2(0.2, 0.2), geom.Pt2(0.4, 0.4))
		}}, "free", 2, 2},
		{"internal line outside its surface mesh", sectionOptions{extra: func(t *testing.T, b *model.Builder) {
			addSegment(t, b, "l4", geom.Pt2(0.2, 0.2), geom.Pt2(0.4, 0.4))
			b.AddInternal("l4", "s0")
		}}, "single", 2, 2},
		{"internal and boundary line", sectionOptions{extra: func(t *testing.T, b *model.Builder) {
			addSegment(t, b, "l4", geom.Pt2(0.2, 0.2), geom.Pt2(0.4, 0.4))
			b.AddInternal("l4", "s0")
			b.AddBoundary("l4", "s0")
		}}, "embeddings", 2, 4},
		{"lines meeting without corner", sectionOptions{skipCorner: "c1"}, "corner", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewLinesTopology(squareSection(t, tt.opts).Model).Inspect()
			assert.Len(t, pick(res, tt.which), tt.count)
			assert.Equal(t, tt.total, res.NbIssues(), res.Render())
		})
	}
}

func TestSeveralLinesButNotCornerMessage(t *testing.T) {
	s := squareSection(t, sectionOptions{skipCorner: "c1"})
	lines := NewLinesTopology(s.Model)
	var found []string
	for uv := 0; uv < s.NbUniqueVertices(); uv++ {
		if msg, bad := lines.SeveralLinesButNotCorner(uv); bad {
			found = append(found, msg)
			assert.False(t, lines.IsValid(uv))
		}
	}
	require.Len(t, found, 1)
	assert.Contains(t, found[0], "is part of 2 lines but is not a corner.")
}

func TestLinesNotMeshedNorLinked(t *testing.T) {
	empty, err := mesh.NewPolyline(2, nil, false)
	require.NoError(t, err)
	line, err := mesh.NewPolyline(2, []geom.Point{geom.Pt2(0, 0), geom.Pt2(1, 0)}, false)
	require.NoError(t, err)

	b := model.NewBuilder("partial", 2)
	unmeshed := b.AddLine("empty", empty)
	linked := b.AddLine("l0", line)
	b.SetUniqueVertex("l0", 0, 0)
	m, err := b.Build()
	require.NoError(t, err)

	res := NewLinesTopology(m).Inspect()
	assert.Equal(t, []uuid.UUID{unmeshed}, res.LinesNotMeshed.Subjects())
	assert.Equal(t, "uuids of lines without mesh.", res.LinesNotMeshed.Description())
	require.Equal(t, []uuid.UUID{linked}, res.LinesNotLinkedToUniqueVertex.Keys())
	assert.Equal(t, []string{fmt.Sprintf("Vertex with index 1 of Line %s is not linked to a unique vertex.", linked)},
		res.LinesNotLinkedToUniqueVertex.Get(linked).Messages())
}

// --- Corners ---

func TestCornersTopology(t *testing.T) {
	s := squareSection(t, sectionOptions{extra: func(t *testing.T, b *model.Builder) {
		lone, err := mesh.NewPointSet(2, []geom.Point{geom.Pt2(5, 5)})
		require.NoError(t, err)
		b.AddCorner("lone", lone)
		twin, err := mesh.NewPointSet(2, []geom.Point{geom.Pt2(0, 0)})
		require.NoError(t, err)
		b.AddCorner("twin", twin)
		b.AddBoundary("twin", "l0")
	}})

	res := NewCornersTopology(s.Model).Inspect()
	assert.Equal(t, 1, res.UniqueVerticesPartOfSeveralCorners.Count())
	assert.Contains(t, res.UniqueVerticesPartOfSeveralCorners.Messages()[0], "is part of 2 corners.")
	assert.Equal(t, 1, res.UniqueVerticesLinkedToNotInternalNorBoundaryCorner.Count())
	assert.True(t, res.UniqueVerticesLinkedToCornerWithInvalidEmbeddings.Empty())
	assert.Equal(t, "Corners topology inspection", res.InspectionKind())
}
