package pack

import (
	"strconv"

	"github.com/fightclub-sim/wolfden/internal/game/spatial"
)

// scoreboard ranks wolf ids by a float score using a skip-list
// leaderboard (internal/game/spatial/skiplist.go), keyed by
// stringified wolf ids. Rank order is a pure function of the
// inserted (score, key) pairs — the skip list's random level choices
// only affect internal node height, never query results, so ranking
// stays deterministic across runs despite the underlying structure's
// use of math/rand for balancing.
type scoreboard struct {
	list *spatial.SkipList
}

func newScoreboard() *scoreboard {
	return &scoreboard{list: spatial.NewSkipList()}
}

func (s *scoreboard) insert(id uint32, score float64) {
	s.list.Insert(strconv.FormatUint(uint64(id), 10), score)
}

// top returns the id with the highest score (rank 1). Ties are broken
// by the skip list's key ordering, so the result does not depend on
// insertion order.
func (s *scoreboard) top() (uint32, bool) {
	entry := s.list.GetByRank(1)
	if entry == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(entry.Key, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// rank returns the 1-indexed rank of a wolf id, or 0 if not present.
func (s *scoreboard) rank(id uint32) int {
	return s.list.GetRank(strconv.FormatUint(uint64(id), 10))
}

// topN returns up to n ids in descending-score order.
func (s *scoreboard) topN(n int) []uint32 {
	entries := s.list.GetRange(1, n)
	out := make([]uint32, 0, len(entries))
	for _, e := range entries {
		id, err := strconv.ParseUint(e.Key, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, uint32(id))
	}
	return out
}
