package coordinator

import (
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/physics"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

var (
	baseCollisionDamage       = fixedpoint.FromFloat64(5.0)
	playerWolfCooldown        = fixedpoint.FromFloat64(0.5)
	wolfWolfCooldown          = fixedpoint.FromFloat64(0.4)
	blockValidDotThreshold    = fixedpoint.FromFloat64(0.5)
	blockDamageMultiplier     = fixedpoint.FromFloat64(0.2)
	blockStaminaCost          = fixedpoint.FromFloat64(0.1)
	impulseDamageScale        = fixedpoint.FromFloat64(3.0)
)

// routeCollisionEvents resolves one attacker/victim pair per event the
// physics step produced this tick: applies damage to the player and
// sets collision cooldowns on the wolves involved.
func (c *Coordinator) routeCollisionEvents() {
	for _, ev := range c.World.Events.Data() {
		c.routeOne(ev)
	}
}

func (c *Coordinator) routeOne(ev physics.CollisionEvent) {
	playerInvolved := ev.A == physics.PlayerBodyID || ev.B == physics.PlayerBodyID
	if playerInvolved {
		otherID := ev.A
		if ev.A == physics.PlayerBodyID {
			otherID = ev.B
		}
		if rec := c.wolfByBody(otherID); rec != nil {
			c.resolvePlayerWolfCollision(rec, ev)
		}
		return
	}

	wolfA := c.wolfByBody(ev.A)
	wolfB := c.wolfByBody(ev.B)
	if wolfA != nil && wolfB != nil {
		if wolfA.w.CollisionCooldown <= 0 {
			wolfA.w.CollisionCooldown = wolfWolfCooldown
		}
		if wolfB.w.CollisionCooldown <= 0 {
			wolfB.w.CollisionCooldown = wolfWolfCooldown
		}
	}
	// Any other body-kind combination (arms, environment) is ignored by
	// the coordinator - physics has already applied separation/impulse.
}

func (c *Coordinator) resolvePlayerWolfCollision(rec *wolfRecord, ev physics.CollisionEvent) {
	if rec.w.CollisionCooldown > 0 {
		return
	}
	rec.w.CollisionCooldown = playerWolfCooldown

	damage := baseCollisionDamage
	if rec.w.State == wolf.Attack {
		damage = rec.w.Damage
	} else {
		damage = fixedpoint.FromFloat64(float64(ev.Impulse)).Mul(impulseDamageScale)
	}

	if c.Block.Active {
		direction := rec.w.Position.Sub(c.Player.Position).Normalized()
		dot := c.Player.Facing.Dot(direction)
		if dot.Cmp(blockValidDotThreshold) >= 0 {
			damage = damage.Mul(blockDamageMultiplier)
			c.Player.Stamina = fixedpoint.Max(0, c.Player.Stamina-blockStaminaCost)
		}
	}

	c.Player.HP = fixedpoint.Clamp(c.Player.HP-damage.Div(fixedpoint.FromInt(c.Player.MaxHP)), 0, fixedpoint.One)
	rec.w.SuccessfulAttacks++
}

// wolfByBody resolves a physics body id to its wolf record, or nil if
// the body belongs to something else (player, arm, environment) or no
// longer exists. Linear in the wolf count, which is bounded by
// ResourceLimits.MaxWolves - small enough that a dedicated index would
// only add bookkeeping a single-mutator-per-tick model doesn't need.
func (c *Coordinator) wolfByBody(id physics.BodyID) *wolfRecord {
	for _, rec := range c.wolves {
		if rec.bodyID == id {
			return rec
		}
	}
	return nil
}
