package pack

import (
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

// ArbitrateAttackers ranks every wolf currently requesting Attack by
// (attack_range - distance, aggression) — closer and more aggressive
// wolves rank higher — and returns the ids allowed to keep attacking
// once more wolves are gate-eligible than the shared concurrent-
// attacker budget allows. Callers should redirect any
// requesting wolf absent from the returned set to Strafe via a pack
// command, same as a wolf whose own should_attack gate rejected it.
func ArbitrateAttackers(requesting []*wolf.Wolf, playerPosition fixedpoint.Vec3, attackRange fixedpoint.Fixed, maxConcurrentAttackers int) map[uint32]bool {
	allowed := make(map[uint32]bool, len(requesting))
	if maxConcurrentAttackers <= 0 || len(requesting) == 0 {
		return allowed
	}
	if len(requesting) <= maxConcurrentAttackers {
		for _, w := range requesting {
			allowed[w.ID] = true
		}
		return allowed
	}

	sb := newScoreboard()
	for _, w := range requesting {
		dist := playerPosition.Sub(w.Position).Length()
		closeness := attackRange.Sub(dist)
		// Scale closeness well above aggression's [0,1] range so it
		// always dominates the comparison; aggression only breaks
		// near-ties in distance.
		score := closeness.ToFloat64()*1000.0 + w.Personality.Aggression.ToFloat64()
		sb.insert(w.ID, score)
	}

	for _, id := range sb.topN(maxConcurrentAttackers) {
		allowed[id] = true
	}
	return allowed
}
