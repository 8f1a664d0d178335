package wolf

import (
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/game/spatial"
)

// approachLongRangeThreshold is the distance beyond which Approach
// blends in flow-field navigation instead of a straight-line heading.
var (
	approachLongRangeThreshold = fixedpoint.FromFloat64(6.0)
	flowFieldBlendDirect       = fixedpoint.FromFloat64(0.4)
	flowFieldBlendField        = fixedpoint.FromFloat64(0.6)
)

// AttackGateReason records why should_attack rejected a gate, for
// observability diagnostic counters.
type AttackGateReason int

const (
	GatePassed AttackGateReason = iota
	GateFacing
	GateLineOfSight
	GateThreatBudget
)

// Diagnostics accumulates rejected-gate counts for observability; it
// never feeds back into simulation state.
type Diagnostics struct {
	FacingRejections       int
	LineOfSightRejections  int
	ThreatBudgetRejections int
}

func (d *Diagnostics) record(reason AttackGateReason) {
	switch reason {
	case GateFacing:
		d.FacingRejections++
	case GateLineOfSight:
		d.LineOfSightRejections++
	case GateThreatBudget:
		d.ThreatBudgetRejections++
	}
}

// Memory holds what the wolf remembers about its last known target
// sighting and the player's recent combat habits, used while the
// player is briefly out of detection range and to bias attack timing.
type Memory struct {
	HasLastKnown bool
	LastKnown    fixedpoint.Vec3

	LastBlockTime        fixedpoint.Fixed
	LastRollTime         fixedpoint.Fixed
	BlockCount           int
	PreferredAttackAngle fixedpoint.Fixed
}

// Personality bundles the four stable scalars that bias a wolf's
// behavior and, via the pack planner, its assigned role. They are set
// once at spawn and do not change during play.
type Personality struct {
	Aggression   fixedpoint.Fixed
	Intelligence fixedpoint.Fixed
	Coordination fixedpoint.Fixed
	Awareness    fixedpoint.Fixed
}

// Wolf is one wolf agent's full behavioral state.
type Wolf struct {
	ID   uint32
	Type WolfType

	Position fixedpoint.Vec3
	Velocity fixedpoint.Vec3
	Facing   fixedpoint.Vec3

	HP, MaxHP fixedpoint.Fixed
	Morale    fixedpoint.Fixed
	Emotion   Emotion

	// BaseSpeed is this wolf's own move speed, read by the pack planner's Skirmisher
	// ranking and used in place of a single shared tunable so per-wolf
	// (or per-difficulty) speed variation is possible.
	BaseSpeed fixedpoint.Fixed

	Personality Personality

	State          State
	StateTimer     fixedpoint.Fixed
	DecisionTimer  fixedpoint.Fixed
	HPAtStateEntry fixedpoint.Fixed

	PackID              int
	PackIndex           int
	PackCommandReceived bool
	PackCommandedState  State
	PackTargetPosition  fixedpoint.Vec3
	HasPackTarget       bool

	Memory      Memory
	Diagnostics Diagnostics

	// Damage is the hit applied to the player when this wolf's body
	// collides with the player's while the wolf is in Attack; otherwise the coordinator falls back to
	// a flat base hit or an impulse-scaled one.
	Damage fixedpoint.Fixed

	// CollisionCooldown suppresses repeat collision-routed damage for a
	// short window after a hit. Decremented by the coordinator each tick.
	CollisionCooldown fixedpoint.Fixed

	SuccessfulAttacks int
	FailedAttacks     int

	strafeSign fixedpoint.Fixed // +1 or -1, flips each Strafe entry for variety
}

// New builds a wolf at full health, standing Idle, with neutral
// personality scalars (callers may overwrite Personality after
// construction — the pack planner reads it to assign roles).
func New(id uint32, wolfType WolfType, position fixedpoint.Vec3, maxHP fixedpoint.Fixed) *Wolf {
	return &Wolf{
		ID:         id,
		Type:       wolfType,
		Position:   position,
		Facing:     fixedpoint.NewVec3(fixedpoint.One, 0, 0),
		HP:         maxHP,
		MaxHP:      maxHP,
		Morale:     fixedpoint.One,
		BaseSpeed:  fixedpoint.FromFloat64(3.0),
		Personality: Personality{
			Aggression:   fixedpoint.FromFloat64(0.5),
			Intelligence: fixedpoint.FromFloat64(0.5),
			Coordination: fixedpoint.FromFloat64(0.5),
			Awareness:    fixedpoint.FromFloat64(0.5),
		},
		State:      Idle,
		StateTimer: durationFor(Idle, Neutral, jitterFor(id, uint32(Idle))),
		PackID:     -1,
		Damage:     fixedpoint.FromFloat64(8.0),
		strafeSign: fixedpoint.One,
	}
}

// Context bundles the per-tick external state a wolf's update needs:
// where the player is, how many wolves are currently attacking, and a
// line-of-sight query.
type Context struct {
	PlayerPosition      fixedpoint.Vec3
	PlayerAlive         bool
	ConcurrentAttackers int
	MaxConcurrentAttackers int
	Occluders           Occluders
	ToCell              func(fixedpoint.Vec3) (int, int)
	DamageTakenSinceEntry fixedpoint.Fixed

	// ApproachFlowField, when set, is used to blend in long-range
	// navigation for the Approach state. The
	// coordinator owns the field and regenerates it when the target
	// moves meaningfully; wolves only read it.
	ApproachFlowField *spatial.FlowField

	// FlowFieldOriginOffset shifts a wolf's world position into the
	// flow field's non-negative grid space; it must match whatever
	// offset the coordinator used when it called Generate.
	FlowFieldOriginOffset float64
}

// Update runs one full per-wolf tick: AI -> physics -> emotion ->
// memory -> spatial awareness.
func (w *Wolf) Update(dt fixedpoint.Fixed, tunables Tunables, ctx Context) {
	if w.CollisionCooldown > 0 {
		w.CollisionCooldown = w.CollisionCooldown - dt
		if w.CollisionCooldown < 0 {
			w.CollisionCooldown = 0
		}
	}
	w.updateAI(dt, tunables, ctx)
	w.updatePhysics(dt, tunables, ctx)
	w.updateEmotion(tunables)
	w.updateMemory(ctx)
}

func (w *Wolf) distanceToPlayer(ctx Context) fixedpoint.Fixed {
	return ctx.PlayerPosition.Sub(w.Position).Length()
}

func (w *Wolf) updateAI(dt fixedpoint.Fixed, t Tunables, ctx Context) {
	w.StateTimer = w.StateTimer - dt
	w.DecisionTimer = w.DecisionTimer - dt

	// Interrupts bypass the decision gate and always win.
	if interruptState, fired := w.interruptState(t, ctx); fired {
		w.DecisionTimer = t.DecisionPeriod
		w.enterState(interruptState, t)
		return
	}

	if w.StateTimer > 0 || w.DecisionTimer > 0 {
		return
	}
	w.DecisionTimer = t.DecisionPeriod

	next := w.evaluate(t, ctx)
	if next != w.State {
		w.enterState(next, t)
	}
}

// interruptState evaluates the four interrupts in priority order;
// they bypass the decision gate and always win.
func (w *Wolf) interruptState(t Tunables, ctx Context) (State, bool) {
	if w.HP.Cmp(w.MaxHP.Mul(t.InterruptHPFraction)) < 0 {
		return Retreat, w.State != Retreat
	}
	if w.PackCommandReceived {
		w.PackCommandReceived = false
		return w.PackCommandedState, true
	}
	if w.distanceToPlayer(ctx).Cmp(t.AttackRange.Mul(fixedpoint.FromFloat64(0.6))) < 0 {
		return Attack, w.State != Attack
	}
	if ctx.DamageTakenSinceEntry.Cmp(t.DamageInterruptThreshold) > 0 {
		return Recover, w.State != Recover
	}
	return w.State, false
}

// evaluate runs normal (non-interrupt) state evaluation.
func (w *Wolf) evaluate(t Tunables, ctx Context) State {
	dist := w.distanceToPlayer(ctx)

	if dist.Cmp(t.DetectionRange) > 0 {
		if w.State == Patrol {
			return Patrol
		}
		return Idle
	}

	if w.HP.Cmp(w.MaxHP.Mul(t.RetreatHPFraction)) < 0 && w.Morale.Cmp(t.RetreatMoraleThreshold) < 0 {
		return Retreat
	}

	if preferred, ok := w.typePreferredState(t, ctx, dist); ok {
		return preferred
	}

	return w.hysteresisState(t, ctx, dist)
}

func (w *Wolf) typePreferredState(t Tunables, ctx Context, dist fixedpoint.Fixed) (State, bool) {
	switch w.Type {
	case Alpha:
		return Approach, true
	case Scout:
		return Strafe, true
	case Hunter:
		if reason := w.shouldAttack(t, ctx); reason == GatePassed {
			return Attack, true
		}
		return Strafe, true
	default:
		return Idle, false
	}
}

func (w *Wolf) hysteresisState(t Tunables, ctx Context, dist fixedpoint.Fixed) State {
	if dist.Cmp(t.AttackRange.Mul(t.AttackEnterMult)) < 0 {
		if reason := w.shouldAttack(t, ctx); reason == GatePassed {
			return Attack
		}
		return Strafe
	}

	if (w.State == Attack || w.State == Strafe) && dist.Cmp(t.AttackRange.Mul(t.AttackExitMult)) < 0 {
		return Strafe
	}

	if dist.Cmp(t.DetectionRange.Mul(t.ApproachEnterMult)) < 0 {
		return Approach
	}
	if w.State == Approach && dist.Cmp(t.DetectionRange.Mul(t.ApproachExitMult)) < 0 {
		return Approach
	}

	return Alert
}

// shouldAttack applies the facing/LOS/threat-budget gate, recording
// diagnostics for whichever check rejects.
func (w *Wolf) shouldAttack(t Tunables, ctx Context) AttackGateReason {
	toPlayer := ctx.PlayerPosition.Sub(w.Position).Normalized()
	facingDot := w.Facing.Dot(toPlayer)
	if facingDot.Cmp(t.AttackFacingCosThreshold) < 0 {
		w.Diagnostics.record(GateFacing)
		return GateFacing
	}

	if ctx.Occluders != nil && ctx.ToCell != nil {
		fx, fy := ctx.ToCell(w.Position)
		tx, ty := ctx.ToCell(ctx.PlayerPosition)
		radius := int(t.DetectionRange.ToFloat64()) + 1
		if !HasLineOfSight(ctx.Occluders, fx, fy, tx, ty, radius) {
			w.Diagnostics.record(GateLineOfSight)
			return GateLineOfSight
		}
	}

	maxAttackers := t.MaxConcurrentAttackers
	if ctx.MaxConcurrentAttackers > 0 {
		maxAttackers = ctx.MaxConcurrentAttackers
	}
	if ctx.ConcurrentAttackers >= maxAttackers {
		w.Diagnostics.record(GateThreatBudget)
		return GateThreatBudget
	}

	return GatePassed
}

func (w *Wolf) enterState(next State, t Tunables) {
	w.State = next
	w.StateTimer = durationFor(next, w.Emotion, jitterFor(w.ID, uint32(next)))
	w.HPAtStateEntry = w.HP
	if next == Strafe {
		w.strafeSign = w.strafeSign.Neg()
	}
}

// updatePhysics moves the wolf toward the player (or pack target) and
// integrates velocity with wolf friction.
func (w *Wolf) updatePhysics(dt fixedpoint.Fixed, t Tunables, ctx Context) {
	target := ctx.PlayerPosition
	if w.HasPackTarget {
		target = w.PackTargetPosition
	}

	toTarget := target.Sub(w.Position)
	if !toTarget.IsZero() {
		w.Facing = toTarget.Normalized()
	}

	var desired fixedpoint.Vec3
	switch w.State {
	case Strafe:
		tangent := fixedpoint.NewVec3(w.Facing.Z.Neg(), 0, w.Facing.X).Scale(w.strafeSign)
		desired = tangent.Scale(w.BaseSpeed)
	case Approach, Alert, Patrol:
		heading := w.Facing
		if w.State == Approach && ctx.ApproachFlowField != nil && toTarget.Length().Cmp(approachLongRangeThreshold) > 0 {
			// The field is generated over a grid with its origin at the
			// world's minimum corner (coordinator.flowFieldOrigin), so
			// positions are shifted into grid space the same way here.
			px, _, pz := w.Position.ToFloat64()
			fx, fz := ctx.ApproachFlowField.Lookup(px+ctx.FlowFieldOriginOffset, pz+ctx.FlowFieldOriginOffset)
			flowDir := fixedpoint.Vec3FromFloat64(float64(fx), 0, float64(fz))
			if !flowDir.IsZero() {
				blend := w.Facing.Scale(flowFieldBlendDirect).Add(flowDir.Scale(flowFieldBlendField)).Normalized()
				if !blend.IsZero() {
					heading = blend
				}
			}
		}
		desired = heading.Scale(w.BaseSpeed)
	case Retreat:
		desired = w.Facing.Scale(w.BaseSpeed.Neg())
	default:
		desired = fixedpoint.Vec3Zero
	}

	w.Velocity = w.Velocity.Add(desired.Sub(w.Velocity).Scale(dt.Mul(t.WolfFriction)))
	w.Position = w.Position.Add(w.Velocity.Scale(dt))
}

func (w *Wolf) updateEmotion(t Tunables) {
	hpFraction := w.HP.Div(w.MaxHP)
	switch {
	case hpFraction.Cmp(t.RetreatHPFraction) < 0:
		w.Emotion = Fearful
	case w.Morale.Cmp(fixedpoint.FromFloat64(0.8)) > 0 && hpFraction.Cmp(fixedpoint.FromFloat64(0.6)) > 0:
		w.Emotion = Confident
	case hpFraction.Cmp(fixedpoint.FromFloat64(0.15)) < 0:
		w.Emotion = Desperate
	default:
		w.Emotion = Neutral
	}
}

func (w *Wolf) updateMemory(ctx Context) {
	if ctx.PlayerAlive {
		w.Memory.HasLastKnown = true
		w.Memory.LastKnown = ctx.PlayerPosition
	}
}

// DamageSinceEntry reports HP lost since the current state began,
// which the coordinator feeds back in as Context.DamageTakenSinceEntry
// next tick.
func (w *Wolf) DamageSinceEntry() fixedpoint.Fixed {
	return w.HPAtStateEntry - w.HP
}

// IsAttacking reports whether this wolf currently counts against the
// pack's concurrent-attacker budget.
func (w *Wolf) IsAttacking() bool {
	return w.State == Attack
}
