package physics

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
)

func newTestBody(id BodyID, x, z float64) *Body {
	b := NewBody(id, Dynamic, fixedpoint.Vec3FromFloat64(x, 0, z), fixedpoint.One)
	b.ID = id
	return b
}

func testCellSize() int64 {
	return int64(fixedpoint.FromFloat64(0.2).Raw())
}

func TestSpatialHashSameCellPairs(t *testing.T) {
	h := NewSpatialHash(testCellSize())
	a := newTestBody(1, 0.01, 0.01)
	b := newTestBody(2, 0.05, 0.05)
	h.Insert(a)
	h.Insert(b)

	pairs := h.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].A != 1 || pairs[0].B != 2 {
		t.Errorf("expected ordered pair (1,2), got (%d,%d)", pairs[0].A, pairs[0].B)
	}
}

func TestSpatialHashNeighborCellPairs(t *testing.T) {
	h := NewSpatialHash(testCellSize())
	// Two bodies in adjacent cells along X.
	a := newTestBody(5, 0.1, 0.1)
	b := newTestBody(3, 0.3, 0.1)
	h.Insert(a)
	h.Insert(b)

	pairs := h.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("expected 1 cross-cell pair, got %d", len(pairs))
	}
	if pairs[0].A != 3 || pairs[0].B != 5 {
		t.Errorf("expected ordered pair (3,5), got (%d,%d)", pairs[0].A, pairs[0].B)
	}
}

func TestSpatialHashFarBodiesNoPair(t *testing.T) {
	h := NewSpatialHash(testCellSize())
	a := newTestBody(1, 0, 0)
	b := newTestBody(2, 10, 10)
	h.Insert(a)
	h.Insert(b)

	if pairs := h.Pairs(); len(pairs) != 0 {
		t.Errorf("expected no pairs for far-apart bodies, got %d", len(pairs))
	}
}

func TestSpatialHashClear(t *testing.T) {
	h := NewSpatialHash(testCellSize())
	h.Insert(newTestBody(1, 0, 0))
	h.Clear()
	h.Insert(newTestBody(2, 0, 0))

	pairs := h.Pairs()
	if len(pairs) != 0 {
		t.Errorf("expected no pairs after clear + single insert, got %d", len(pairs))
	}
}

func TestFloorDivNegative(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{-1, 5, -1},
		{-5, 5, -1},
		{-6, 5, -2},
		{4, 5, 0},
		{5, 5, 1},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
