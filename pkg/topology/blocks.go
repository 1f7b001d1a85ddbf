package topology

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/issue"
	"github.com/chazu/strata/pkg/model"
)

// BlocksResult holds the findings of BlocksTopology.Inspect.
type BlocksResult struct {
	WrongBlockBoundarySurface                          *issue.Set[uuid.UUID]
	BlocksNotMeshed                                    *issue.Set[uuid.UUID]
	BlocksNotLinkedToUniqueVertex                      *issue.Map[uuid.UUID, int]
	UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface  *issue.Set[int]
	UniqueVerticesWithIncorrectBlockCMVsCount          *issue.Set[int]
}

func (r BlocksResult) NbIssues() int {
	return r.WrongBlockBoundarySurface.Count() +
		r.BlocksNotMeshed.Count() +
		r.BlocksNotLinkedToUniqueVertex.Count() +
		r.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface.Count() +
		r.UniqueVerticesWithIncorrectBlockCMVsCount.Count()
}

func (r BlocksResult) Render() string {
	var out renderer
	out.add(
		r.WrongBlockBoundarySurface,
		r.BlocksNotMeshed,
		r.BlocksNotLinkedToUniqueVertex,
		r.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface,
		r.UniqueVerticesWithIncorrectBlockCMVsCount,
	)
	return out.or("No issues with blocks topology")
}

func (BlocksResult) InspectionKind() string { return "Blocks topology inspection" }

// BlocksTopology checks the blocks of a BRep against the surfaces, lines
// and corners they share unique vertices with.
type BlocksTopology struct {
	brep *model.BRep
	opts options
}

func NewBlocksTopology(b *model.BRep, opts ...Option) *BlocksTopology {
	return &BlocksTopology{brep: b, opts: newOptions(opts)}
}

func blockIsMeshed(c *model.Component) bool {
	s := c.Solid()
	return s.NbVertices() != 0 && s.NbPolyhedra() != 0
}

// IsValid reports whether unique vertex uv passes every per-vertex block
// check.
func (t *BlocksTopology) IsValid(uv int) bool {
	if _, bad := t.PartOfTwoBlocksAndNoBoundarySurface(uv); bad {
		return false
	}
	_, bad := t.BlockCMVsCountIsIncorrect(uv)
	return !bad
}

// PartOfTwoBlocksAndNoBoundarySurface flags a unique vertex shared by
// exactly two blocks when no surface at the vertex separates them, and no
// line at the vertex bounds a surface of either block.
func (t *BlocksTopology) PartOfTwoBlocksAndNoBoundarySurface(uv int) (string, bool) {
	m := t.brep.Model
	blocks := m.UniqueVertexComponents(uv, model.Block)
	if len(blocks) != 2 {
		return "", false
	}
	bounds := func(surface uuid.UUID) bool {
		return m.IsBoundary(surface, blocks[0]) || m.IsBoundary(surface, blocks[1])
	}
	lines := m.UniqueVertexCMVs(uv, model.Line)
	for _, s := range m.UniqueVertexCMVs(uv, model.Surface) {
		surface := s.Component.ID
		if m.IsBoundary(surface, blocks[0]) && m.IsBoundary(surface, blocks[1]) {
			return "", false
		}
		for _, l := range lines {
			if m.IsBoundary(l.Component.ID, surface) && bounds(surface) {
				return "", false
			}
		}
	}
	return fmt.Sprintf("Unique vertex with index %d is part of two blocks, but not of a surface boundary to the two blocks, nor of a line boundary to one of the blocks incident surfaces.", uv), true
}

// onBlockBoundary reports whether line bounds, or is internal to, one of
// the boundary surfaces of block.
func (t *BlocksTopology) onBlockBoundary(line, block uuid.UUID) bool {
	m := t.brep.Model
	return lo.SomeBy(m.Boundaries(block), func(surface uuid.UUID) bool {
		return m.IsBoundary(line, surface) || lo.Contains(m.InternalLines(surface), line)
	})
}

// BlockCMVsCountIsIncorrect compares, for every block at unique vertex uv,
// the number of block component vertices with the number predicted from
// the surfaces, lines and corners meeting there. The first mismatching
// block is described.
func (t *BlocksTopology) BlockCMVsCountIsIncorrect(uv int) (string, bool) {
	m := t.brep.Model
	blockCMVs := m.UniqueVertexCMVs(uv, model.Block)
	surfaceCMVs := m.UniqueVertexCMVs(uv, model.Surface)
	lineCMVs := m.UniqueVertexCMVs(uv, model.Line)
	corners := len(m.UniqueVertexCMVs(uv, model.Corner))

	for _, block := range m.UniqueVertexComponents(uv, model.Block) {
		blocks := lo.CountBy(blockCMVs, func(c model.ComponentMeshVertex) bool {
			return c.Component.ID == block
		})
		internalSurfaces := lo.CountBy(surfaceCMVs, func(c model.ComponentMeshVertex) bool {
			return m.IsInternal(c.Component.ID, block)
		})
		boundarySurfaces := lo.CountBy(surfaceCMVs, func(c model.ComponentMeshVertex) bool {
			return m.IsBoundary(c.Component.ID, block)
		})
		boundaryLines := lo.CountBy(lineCMVs, func(c model.ComponentMeshVertex) bool {
			return t.onBlockBoundary(c.Component.ID, block)
		})
		freeLines := lo.CountBy(lineCMVs, func(c model.ComponentMeshVertex) bool {
			return m.NbIncidences(c.Component.ID) == 1 && m.NbEmbeddingSurfaces(c.Component.ID) == 0
		})

		if corners == 1 && internalSurfaces == 0 {
			if boundaryLines == 1 {
				if blocks != 1 {
					return fmt.Sprintf("Unique vertex with index %d is part of block %s and exactly one corner and one line but has %d block component mesh vertices (should be 1).",
						uv, block, blocks), true
				}
				continue
			}
			predicted := boundarySurfaces + corners - boundaryLines
			if blocks != predicted {
				return fmt.Sprintf("Unique vertex with index %d is part of the block %s, and of a corner, and of no internal line, and of %d boundary surface(s), and of %d line(s) on block boundaries, with %d block component mesh vertices (should be %d).",
					uv, block, boundarySurfaces, boundaryLines, blocks, predicted), true
			}
			continue
		}

		if internalSurfaces == 0 {
			predicted := 1
			if boundaryLines != 0 {
				predicted = boundarySurfaces / 2
			}
			if blocks != predicted {
				return fmt.Sprintf("Unique vertex with index %d is part of the block %s and none of its internal surfaces but has %d block component mesh vertices (should be %d).",
					uv, block, blocks, predicted), true
			}
			continue
		}

		predicted := 1
		if internalSurfaces >= freeLines+1 {
			predicted = internalSurfaces - freeLines
		}
		if internalSurfaces-freeLines == 1 {
			predicted++
		}
		if boundarySurfaces > 1 && corners == 0 {
			predicted += (boundarySurfaces - 2) / 2
		}
		if blocks != predicted {
			return fmt.Sprintf("Unique vertex with index %d is part of the block %s, has %d internal surface(s) component mesh vertices (CMVs), has %d boundary surface(s) CMVs, and has %d free line(s) CMVs, with %d block CMVs (should be %d).",
				uv, block, internalSurfaces, boundarySurfaces, freeLines, blocks, predicted), true
		}
	}
	return "", false
}

// surfaceShouldNotBound reports whether one of the boundary lines of
// surface is incident to no other boundary surface of the same block.
func (t *BlocksTopology) surfaceShouldNotBound(surface uuid.UUID, blockBoundaries []uuid.UUID) bool {
	m := t.brep.Model
	return lo.SomeBy(m.Boundaries(surface), func(line uuid.UUID) bool {
		return !lo.SomeBy(m.Incidences(line), func(other uuid.UUID) bool {
			return other != surface && lo.Contains(blockBoundaries, other)
		})
	})
}

// Inspect runs every block check.
func (t *BlocksTopology) Inspect() BlocksResult {
	m := t.brep.Model
	res := BlocksResult{
		WrongBlockBoundarySurface: issue.NewSet[uuid.UUID]("uuids of surfaces which should not be boundary of a block."),
		UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface: issue.NewSet[int](
			"Indices of unique vertices part of two blocks and of no surface boundary to both."),
		UniqueVerticesWithIncorrectBlockCMVsCount: issue.NewSet[int](
			"Indices of unique vertices with an incorrect number of block component mesh vertices."),
	}
	res.BlocksNotMeshed, res.BlocksNotLinkedToUniqueVertex = meshAndLinks(m, model.Block, blockIsMeshed)

	for uv := 0; uv < m.NbUniqueVertices(); uv++ {
		if msg, bad := t.PartOfTwoBlocksAndNoBoundarySurface(uv); bad {
			res.UniqueVerticesPartOfTwoBlocksAndNoBoundarySurface.Add(uv, msg)
		}
		if msg, bad := t.BlockCMVsCountIsIncorrect(uv); bad {
			res.UniqueVerticesWithIncorrectBlockCMVsCount.Add(uv, msg)
		}
	}

	for _, block := range m.Blocks() {
		boundaries := m.Boundaries(block.ID.ID)
		for _, surface := range boundaries {
			if t.surfaceShouldNotBound(surface, boundaries) {
				res.WrongBlockBoundarySurface.Add(surface, fmt.Sprintf(
					"Surface %s should not be boundary of Block %s : it has a boundary line not incident to any other block boundary surface.",
					surface, block.ID.ID))
			}
		}
	}
	t.opts.logger.Debug("blocks topology inspected",
		zap.Int("blocks", len(m.Blocks())),
		zap.Int("unique_vertices", m.NbUniqueVertices()),
		zap.Int("issues", res.NbIssues()))
	return res
}
