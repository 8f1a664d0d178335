package physics

import "sort"

// SpatialHash is a uniform grid broad phase with preallocated
// [][]BodyID cells and a reusable scratch buffer. It bins on
// fixed-point (X, Z) only - body Y (height) is ignored for binning,
// since the simulation is effectively 2.5D.
//
// Candidate pairs are all within-cell pairs plus pairs drawn from
// neighboring cells, emitted in (min, max) id order. Only the four
// "forward" neighbor directions (E, NE, N, NW) are visited from each
// cell, so every unordered pair of neighboring cells is considered
// exactly once - no downstream cell-pair dedup is required, since the
// (i<j) rejection test already applies at the pair level.
type SpatialHash struct {
	cellSize    int64 // raw Q16.16 units
	cells       map[cellKey][]BodyID
	pairScratch []Pair
}

type cellKey struct{ cx, cz int32 }

// Pair is a broad-phase candidate in (min, max) id order.
type Pair struct {
	A, B BodyID
}

func NewSpatialHash(cellSize int64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]BodyID),
	}
}

func (h *SpatialHash) Clear() {
	for k := range h.cells {
		delete(h.cells, k)
	}
}

func (h *SpatialHash) cellOf(rawX, rawZ int64) cellKey {
	return cellKey{
		cx: int32(floorDiv(rawX, h.cellSize)),
		cz: int32(floorDiv(rawZ, h.cellSize)),
	}
}

// floorDiv performs floor division for possibly-negative numerators,
// matching floor(position/cell) exactly (Go's / truncates toward zero).
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Insert bins a non-Static body by floor(position/cellSize) on X/Z.
func (h *SpatialHash) Insert(b *Body) {
	key := h.cellOf(int64(b.Position.X.Raw()), int64(b.Position.Z.Raw()))
	h.cells[key] = append(h.cells[key], b.ID)
}

// forwardNeighbors visits each unordered pair of adjacent cells
// exactly once when applied from every occupied cell.
var forwardNeighbors = [4][2]int32{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// Pairs returns every candidate pair in (min, max) id order.
func (h *SpatialHash) Pairs() []Pair {
	h.pairScratch = h.pairScratch[:0]

	for key, ids := range h.cells {
		h.pairScratch = appendWithinCellPairs(h.pairScratch, ids)

		for _, off := range forwardNeighbors {
			nk := cellKey{cx: key.cx + off[0], cz: key.cz + off[1]}
			other, ok := h.cells[nk]
			if !ok {
				continue
			}
			h.pairScratch = appendCrossCellPairs(h.pairScratch, ids, other)
		}
	}

	// Map iteration order is randomized by the runtime; sort so that
	// pair order - and therefore resolution order - is reproducible
	// across runs with identical body state.
	sort.Slice(h.pairScratch, func(i, j int) bool {
		if h.pairScratch[i].A != h.pairScratch[j].A {
			return h.pairScratch[i].A < h.pairScratch[j].A
		}
		return h.pairScratch[i].B < h.pairScratch[j].B
	})

	return h.pairScratch
}

func appendWithinCellPairs(out []Pair, ids []BodyID) []Pair {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, orderedPair(ids[i], ids[j]))
		}
	}
	return out
}

func appendCrossCellPairs(out []Pair, a, b []BodyID) []Pair {
	for _, ai := range a {
		for _, bi := range b {
			out = append(out, orderedPair(ai, bi))
		}
	}
	return out
}

func orderedPair(a, b BodyID) Pair {
	if a < b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}
