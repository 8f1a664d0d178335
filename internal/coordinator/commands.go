package coordinator

import (
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/pack"
	"github.com/fightclub-sim/wolfden/internal/physics"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

// SpawnWolf creates a wolf agent and its mirrored physics body. It is
// a no-op once MaxWolves is reached - a resource limit reports failure
// through the bool return, not an error, since the core has no
// error-propagation path.
func (c *Coordinator) SpawnWolf(x, y float64, wolfType wolf.WolfType) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.wolves) >= c.limits.MaxWolves {
		return 0, false
	}

	pos := fixedpoint.Vec3FromFloat64(x, 0, y)
	id := c.nextWolfID
	c.nextWolfID++

	w := wolf.New(id, wolfType, pos, fixedpoint.FromFloat64(100))

	body := physics.NewBody(0, physics.Dynamic, pos, fixedpoint.FromFloat64(10))
	body.Layer = physics.LayerWolf
	bodyID := c.World.Store.CreateBody(physics.Dynamic, body)

	c.wolves[id] = &wolfRecord{w: w, bodyID: bodyID}
	c.wolfOrder = append(c.wolfOrder, id)
	return id, true
}

// RemoveWolf destroys a wolf agent and its physics body. No-op if the
// id does not exist.
func (c *Coordinator) RemoveWolf(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.wolves[id]
	if !ok {
		return
	}
	c.World.Store.DestroyBody(rec.bodyID)
	delete(c.wolves, id)
	for i, existing := range c.wolfOrder {
		if existing == id {
			c.wolfOrder = append(c.wolfOrder[:i], c.wolfOrder[i+1:]...)
			break
		}
	}
	for _, rec := range c.packs {
		rec.p.WolfIDs = removeUint32(rec.p.WolfIDs, id)
	}
}

func removeUint32(ids []uint32, target uint32) []uint32 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// CreatePack groups existing wolf ids into a new pack planner and
// assigns their initial roles. No-op (returns false)
// once MaxPacks is reached.
func (c *Coordinator) CreatePack(wolfIDs []uint32) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.packs) >= c.limits.MaxPacks {
		return 0, false
	}

	id := c.nextPackID
	c.nextPackID++

	p := pack.New(id, wolfIDs)
	members := make([]*wolf.Wolf, 0, len(wolfIDs))
	for _, wid := range wolfIDs {
		if rec, ok := c.wolves[wid]; ok {
			members = append(members, rec.w)
			rec.w.PackID = id
		}
	}
	p.AssignRoles(members)

	c.packs[id] = &packRecord{p: p}
	c.packOrder = append(c.packOrder, id)
	return id, true
}

// DamageWolf applies a direct damage/knockback command to a wolf -
// this is how the host's own player-attack hit detection (outside
// physics collision events) wounds a wolf, since collision routing
// only ever damages the player. No-op if the id does not exist.
func (c *Coordinator) DamageWolf(id uint32, amount float64, knockbackX, knockbackY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.wolves[id]
	if !ok {
		return
	}
	rec.w.HP = fixedpoint.Max(0, rec.w.HP-fixedpoint.FromFloat64(amount))

	if body := c.World.Store.Get(rec.bodyID); body != nil {
		body.ApplyImpulse(fixedpoint.Vec3FromFloat64(knockbackX, 0, knockbackY))
	}
}

// BeginBashCharge starts the shoulder-bash charge-up; a no-op (reports
// false) if another ability already owns the player's action state.
// Most hosts will drive bash through the Bash input flag instead, but
// this gives a scripted caller the same programmatic surface as the
// other abilities.
func (c *Coordinator) BeginBashCharge() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Player.BashBeginCharge()
}

// ReleaseBash fires a charging bash; a no-op if bash is not currently
// charging.
func (c *Coordinator) ReleaseBash() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Player.BashRelease()
}

// OnBashHit reports a landed shoulder-bash strike - this is how the
// host's own bash-hitbox detection extends the active window and
// refunds stamina, mirroring how DamageWolf reports player-on-wolf
// damage from outside the physics collision path.
func (c *Coordinator) OnBashHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Player.BashOnHit()
}

// BeginBerserkerCharge starts a fixed-duration hyperarmored charge
// along the player's current facing; a no-op (reports false) if
// another ability already owns the player's action state.
func (c *Coordinator) BeginBerserkerCharge() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Player.ChargeBegin()
}

// ExecuteFlowDash commits to a flow-dash toward (x, y), or along the
// player's facing if both are zero; a no-op (reports false) if another
// ability is active or stamina is insufficient.
func (c *Coordinator) ExecuteFlowDash(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Player.DashBegin(fixedpoint.Vec3FromFloat64(x, 0, y))
}

// OnDashHit applies a landed flow-dash strike's damage to a wolf - the
// host detects the dash hitbox overlap and reports it here, the same
// host-detects/core-applies split DamageWolf uses for ordinary attacks.
// No-op if the wolf id does not exist.
func (c *Coordinator) OnDashHit(wolfID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.wolves[wolfID]
	if !ok {
		return
	}
	damage := c.Player.DashOnHit()
	rec.w.HP = fixedpoint.Max(0, rec.w.HP-damage)
}

// ApplyImpulse, SetVelocity and SetPosition are thin pass-throughs to
// the physics body store; each is a no-op if
// the body id does not exist.
func (c *Coordinator) ApplyImpulse(bodyID physics.BodyID, impulse fixedpoint.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if body := c.World.Store.Get(bodyID); body != nil {
		body.ApplyImpulse(impulse)
	}
}

func (c *Coordinator) SetVelocity(bodyID physics.BodyID, velocity fixedpoint.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if body := c.World.Store.Get(bodyID); body != nil {
		body.SetVelocity(velocity)
	}
}

func (c *Coordinator) SetPosition(bodyID physics.BodyID, position fixedpoint.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if body := c.World.Store.Get(bodyID); body != nil {
		body.Position = position
		body.Wake()
	}
}

// SetLeftTarget and SetRightTarget latch the hand targets the next
// Tick's arm Step call will servo toward.
func (c *Coordinator) SetLeftTarget(x, y, z float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftTarget = fixedpoint.Vec3FromFloat64(x, y, z)
}

func (c *Coordinator) SetRightTarget(x, y, z float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rightTarget = fixedpoint.Vec3FromFloat64(x, y, z)
}
