package wolf

import (
	"github.com/norendren/go-fov/fov"
)

// Occluders supplies opacity/bounds for line-of-sight queries. The
// coordinator owns one grid per arena; wolves never mutate it.
type Occluders interface {
	InBounds(x, y int) bool
	IsOpaque(x, y int) bool
}

// gridAdapter satisfies go-fov's GridMap interface (InBounds/IsOpaque)
// by delegating to an Occluders implementation, letting callers supply
// any occupancy source (static arena geometry, a navmesh grid) without
// this package depending on its concrete type.
type gridAdapter struct {
	occ Occluders
}

func (g gridAdapter) InBounds(x, y int) bool { return g.occ.InBounds(x, y) }
func (g gridAdapter) IsOpaque(x, y int) bool { return g.occ.IsOpaque(x, y) }

// HasLineOfSight reports whether (fromX,fromY) can see (toX,toY)
// through the given occluder grid within radius cells, using go-fov's
// shadowcasting field of view (grounded on the Afromullet-TinkerRogue
// style GridMap adapter pattern retrieved for this package).
func HasLineOfSight(occ Occluders, fromX, fromY, toX, toY, radius int) bool {
	grid := gridAdapter{occ: occ}
	view := fov.New()
	view.Compute(grid, fromX, fromY, radius)
	return view.IsVisible(toX, toY)
}
