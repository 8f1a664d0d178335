// Package player implements the human-controlled agent: kinematic
// movement with input-aware friction, stamina/health bookkeeping, and
// the three mutually-exclusive abilities (bash, charge, dash).
package player

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

const (
	moveSpeed           = 2.0
	accelerationPerAxis = 16.0
	reverseAccelFactor  = 2.5
	inputFrictionK      = 1.5
	idleFrictionK       = 8.0
	velocitySnapEpsilon = 5e-4

	staminaRegenPerSecond = 0.4
	maxStamina            = 1.0

	bashMaxCharge       = 1.0
	bashMinCharge       = 0.15
	bashChargedMoveMult = 0.5
	bashActiveDuration  = 0.6
	bashBaseForce       = 10.0
	bashStaminaCost     = 0.3
	bashHitExtend       = 0.1
	bashHitRefund       = 0.1
	bashHitboxOffset    = 0.04
	bashHitboxRadius    = 0.05

	chargeDuration      = 2.0
	chargeSpeedMult     = 2.5
	chargeStaminaDrain  = 0.25

	dashDistance        = 0.2
	dashDuration        = 0.15
	dashMaxCombo        = 3
	dashComboMultiplier = 0.15
	dashComboRefund     = 0.05
	dashStaminaCost     = 0.1
	dashBaseDamage      = 6.0
	dashCancelWindow    = 0.3

	jumpVelocity           = 3.5
	jumpGravity            = 9.8
	groundedHeightThreshold = 0.3
)

var (
	moveSpeedFixed           = fixedpoint.FromFloat64(moveSpeed)
	accelerationFixed        = fixedpoint.FromFloat64(accelerationPerAxis)
	reverseAccelFixed        = fixedpoint.FromFloat64(reverseAccelFactor)
	inputFrictionKFixed      = fixedpoint.FromFloat64(inputFrictionK)
	idleFrictionKFixed       = fixedpoint.FromFloat64(idleFrictionK)
	velocitySnapEpsilonFixed = fixedpoint.FromFloat64(velocitySnapEpsilon)
	minInputMagnitudeSq      = fixedpoint.FromFloat64(1e-6)
	facingUpdateThreshold    = fixedpoint.FromFloat64(0.1)
	zero, one                = fixedpoint.Zero, fixedpoint.One
)

// AbilityKind tags which ability, if any, currently owns the player's
// action state. The three abilities are mutually exclusive by design.
type AbilityKind int

const (
	AbilityNone AbilityKind = iota
	AbilityBash
	AbilityCharge
	AbilityDash
)

// BashPhase is shoulder-bash's internal state.
type BashPhase int

const (
	BashIdle BashPhase = iota
	BashCharging
	BashActive
)

// BashState tracks the charged-dash ability.
type BashState struct {
	Phase      BashPhase
	ChargeTime fixedpoint.Fixed
	Timer      fixedpoint.Fixed
}

// ChargeState tracks the berserker-charge ability.
type ChargeState struct {
	Active   bool
	Timer    fixedpoint.Fixed
	Facing   fixedpoint.Vec3
}

// DashState tracks the flow-dash ability.
type DashState struct {
	Active      bool
	Timer       fixedpoint.Fixed
	Start       fixedpoint.Vec3
	Target      fixedpoint.Vec3
	ComboLevel  int
	CancelOpen  bool
	CancelTimer fixedpoint.Fixed
}

// Player is the controllable agent's full kinematic and resource
// state, a flat field-heavy struct rather than a component-entity
// system.
type Player struct {
	Position fixedpoint.Vec3
	Velocity fixedpoint.Vec3
	Facing   fixedpoint.Vec3

	Stamina fixedpoint.Fixed
	HP      fixedpoint.Fixed // [0,1]
	MaxHP   int
	Health  int // round(HP * MaxHP), kept redundantly for integer-facing queries

	Active AbilityKind
	Bash   BashState
	Charge ChargeState
	Dash   DashState

	JumpCount       int
	OnGround        bool
	TouchingWall    bool
	LastInput       fixedpoint.Vec3
	SpeedMultiplier fixedpoint.Fixed
}

// New builds a player at the given position with full resources.
func New(position fixedpoint.Vec3, maxHP int) *Player {
	return &Player{
		Position: position,
		Facing:   fixedpoint.NewVec3(one, 0, 0),
		Stamina:  fixedpoint.FromFloat64(maxStamina),
		HP:       one,
		MaxHP:    maxHP,
		Health:   maxHP,
		OnGround: true,
	}
}

// Update advances movement, stamina, vertical kinematics, and
// whichever ability is active, for one fixed tick of length dt
// (seconds, fixed-point).
func (p *Player) Update(dt fixedpoint.Fixed, input fixedpoint.Vec3, speedMultiplier fixedpoint.Fixed) {
	p.LastInput = input
	p.SpeedMultiplier = speedMultiplier
	p.regenStamina(dt)
	p.move(dt, input, speedMultiplier)
	p.updateVertical(dt)
	p.syncHealth()
}

// Grounded reports whether the player is within the pos-y heuristic
// ground-contact threshold - the same pos_y > 0.3 rule used elsewhere,
// pending unification with true skeleton foot-contact.
func (p *Player) Grounded() bool {
	return p.Position.Y.Cmp(fixedpoint.FromFloat64(groundedHeightThreshold)) <= 0
}

// Jump launches the player upward if it is not already airborne.
// Airborne is tracked by a nonzero vertical velocity rather than the
// Grounded heuristic, so a jump's ascent/descent can't be restarted
// mid-air even while pos_y briefly dips back under the threshold.
func (p *Player) Jump() bool {
	if p.Velocity.Y != 0 {
		return false
	}
	p.Velocity.Y = fixedpoint.FromFloat64(jumpVelocity)
	p.JumpCount++
	return true
}

// updateVertical integrates jump height under constant gravity,
// landing (and zeroing vertical velocity) at ground level.
func (p *Player) updateVertical(dt fixedpoint.Fixed) {
	p.Position.Y = p.Position.Y + p.Velocity.Y.Mul(dt)
	p.Velocity.Y = p.Velocity.Y - fixedpoint.FromFloat64(jumpGravity).Mul(dt)
	if p.Position.Y <= 0 {
		p.Position.Y = 0
		p.Velocity.Y = 0
	}
	p.OnGround = p.Grounded()
}

func (p *Player) regenStamina(dt fixedpoint.Fixed) {
	p.Stamina = p.Stamina + fixedpoint.FromFloat64(staminaRegenPerSecond).Mul(dt)
	if p.Stamina.Cmp(fixedpoint.FromFloat64(maxStamina)) > 0 {
		p.Stamina = fixedpoint.FromFloat64(maxStamina)
	}
}

func (p *Player) syncHealth() {
	scaled := p.HP.Mul(fixedpoint.FromInt(p.MaxHP))
	p.Health = int(scaled.ToFloat64() + 0.5)
}

func (p *Player) move(dt fixedpoint.Fixed, input fixedpoint.Vec3, speedMultiplier fixedpoint.Fixed) {
	inputMagSq := input.LengthSquared()

	if inputMagSq.Cmp(minInputMagnitudeSq) <= 0 {
		if p.Active != AbilityBash {
			p.Velocity.X = 0
			p.Velocity.Z = 0
		}
		return
	}

	if inputMagSq.Sqrt().Cmp(facingUpdateThreshold) > 0 {
		p.Facing = input.Normalized()
	}

	target := input.Scale(moveSpeedFixed.Mul(speedMultiplier))
	p.Velocity.X = lerpAxisToward(p.Velocity.X, target.X, dt)
	p.Velocity.Z = lerpAxisToward(p.Velocity.Z, target.Z, dt)

	p.Position.X = p.Position.X + p.Velocity.X.Mul(dt)
	p.Position.Z = p.Position.Z + p.Velocity.Z.Mul(dt)
	p.Position.X = fixedpoint.Clamp(p.Position.X, zero, one)
	p.Position.Z = fixedpoint.Clamp(p.Position.Z, zero, one)
	p.TouchingWall = p.Position.X == zero || p.Position.X == one || p.Position.Z == zero || p.Position.Z == one

	p.applyFriction(dt, true)
}

// lerpAxisToward moves v toward target at accelerationPerAxis per
// second, using reverseAccelFixed instead when the move would reverse
// the axis's sign.
func lerpAxisToward(v, target, dt fixedpoint.Fixed) fixedpoint.Fixed {
	accel := accelerationFixed
	if (v > 0 && target < 0) || (v < 0 && target > 0) {
		accel = accelerationFixed.Mul(reverseAccelFixed)
	}
	step := accel.Mul(dt)
	diff := target - v
	if diff.Abs().Cmp(step) <= 0 {
		return target
	}
	if diff > 0 {
		return v + step
	}
	return v - step
}

// applyFriction applies input-aware exponential damping to the
// horizontal axes only: vel *= 1/(1 + k*dt), snapping to zero below
// the drift epsilon. Vertical velocity is jump/gravity-owned and
// never damped here.
func (p *Player) applyFriction(dt fixedpoint.Fixed, inputHeld bool) {
	k := idleFrictionKFixed
	if inputHeld {
		k = inputFrictionKFixed
	}
	denom := one + k.Mul(dt)
	factor := one.Div(denom)

	p.Velocity.X = p.Velocity.X.Mul(factor)
	p.Velocity.Z = p.Velocity.Z.Mul(factor)

	if p.Velocity.X.Abs().Cmp(velocitySnapEpsilonFixed) < 0 {
		p.Velocity.X = 0
	}
	if p.Velocity.Z.Abs().Cmp(velocitySnapEpsilonFixed) < 0 {
		p.Velocity.Z = 0
	}
}
