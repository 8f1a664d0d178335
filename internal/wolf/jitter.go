package wolf

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// jitterFor derives a deterministic per-wolf duration jitter in
// [-maxJitter, +maxJitter] from the wolf's id, via a small
// multiply-xorshift integer hash. math/rand is deliberately not used:
// state duration is simulation-affecting and must reproduce
// byte-identically given the same wolf id.
func jitterFor(id uint32, salt uint32) fixedpoint.Fixed {
	x := id*2654435761 + salt*40503
	x ^= x >> 13
	x *= 0x85ebca6b
	x ^= x >> 16

	// Map the top 16 bits to [-1, 1) then scale by maxJitter.
	signed := int32(x>>16) - (1 << 15)
	unit := fixedpoint.FromRaw(signed) // already Q16.16-ish in [-0.5,0.5) range
	return unit.Mul(maxJitter).Mul(fixedpoint.FromInt(2))
}
