package player

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

var (
	bashMaxChargeFixed       = fixedpoint.FromFloat64(bashMaxCharge)
	bashMinChargeFixed       = fixedpoint.FromFloat64(bashMinCharge)
	bashChargedMoveMultFixed = fixedpoint.FromFloat64(bashChargedMoveMult)
	bashActiveDurationFixed  = fixedpoint.FromFloat64(bashActiveDuration)
	bashBaseForceFixed       = fixedpoint.FromFloat64(bashBaseForce)
	bashStaminaCostFixed     = fixedpoint.FromFloat64(bashStaminaCost)
	bashHitExtendFixed       = fixedpoint.FromFloat64(bashHitExtend)
	bashHitRefundFixed       = fixedpoint.FromFloat64(bashHitRefund)
	bashImpulseScale         = fixedpoint.FromFloat64(0.1)

	chargeDurationFixed     = fixedpoint.FromFloat64(chargeDuration)
	chargeSpeedMultFixed    = fixedpoint.FromFloat64(chargeSpeedMult)
	chargeStaminaDrainFixed = fixedpoint.FromFloat64(chargeStaminaDrain)

	dashDistanceFixed        = fixedpoint.FromFloat64(dashDistance)
	dashDurationFixed        = fixedpoint.FromFloat64(dashDuration)
	dashComboMultiplierFixed = fixedpoint.FromFloat64(dashComboMultiplier)
	dashComboRefundFixed     = fixedpoint.FromFloat64(dashComboRefund)
	dashStaminaCostFixed     = fixedpoint.FromFloat64(dashStaminaCost)
	dashBaseDamageFixed      = fixedpoint.FromFloat64(dashBaseDamage)
	dashCancelWindowFixed    = fixedpoint.FromFloat64(dashCancelWindow)
)

// canStart reports whether the named ability may begin: all three are
// mutually exclusive by design.
func (p *Player) canStart(kind AbilityKind) bool {
	return p.Active == AbilityNone || p.Active == kind
}

// --- Shoulder-bash ---

// BashBeginCharge transitions Idle -> Charging if no other ability is
// active.
func (p *Player) BashBeginCharge() bool {
	if !p.canStart(AbilityBash) || p.Bash.Phase != BashIdle {
		return false
	}
	p.Active = AbilityBash
	p.Bash.Phase = BashCharging
	p.Bash.ChargeTime = 0
	return true
}

// BashTickCharge accumulates charge time while held, capped at
// bashMaxCharge, and scales movement to half speed while charging.
func (p *Player) BashTickCharge(dt fixedpoint.Fixed) fixedpoint.Fixed {
	if p.Bash.Phase != BashCharging {
		return one
	}
	p.Bash.ChargeTime = p.Bash.ChargeTime + dt
	if p.Bash.ChargeTime.Cmp(bashMaxChargeFixed) > 0 {
		p.Bash.ChargeTime = bashMaxChargeFixed
	}
	return bashChargedMoveMultFixed
}

// BashRelease resolves a charge release: below bashMinCharge cancels
// for free; at or above it, applies a facing-aligned impulse scaled
// by charge time and consumes stamina.
func (p *Player) BashRelease() {
	if p.Bash.Phase != BashCharging {
		return
	}
	charge := p.Bash.ChargeTime
	if charge.Cmp(bashMinChargeFixed) < 0 {
		p.bashCancel()
		return
	}

	multiplier := one + charge
	impulse := p.Facing.Scale(bashBaseForceFixed.Mul(multiplier).Mul(bashImpulseScale))
	p.Velocity = p.Velocity.Add(impulse)

	p.Stamina = p.Stamina - bashStaminaCostFixed.Mul(multiplier)
	if p.Stamina < 0 {
		p.Stamina = 0
	}

	p.Bash.Phase = BashActive
	p.Bash.Timer = bashActiveDurationFixed
}

func (p *Player) bashCancel() {
	p.Bash.Phase = BashIdle
	p.Bash.ChargeTime = 0
	p.Active = AbilityNone
}

// BashTickActive advances the active hitbox window; returns to Idle
// on expiry.
func (p *Player) BashTickActive(dt fixedpoint.Fixed) {
	if p.Bash.Phase != BashActive {
		return
	}
	p.Bash.Timer = p.Bash.Timer - dt
	if p.Bash.Timer <= 0 {
		p.Bash.Phase = BashIdle
		p.Bash.ChargeTime = 0
		p.Active = AbilityNone
	}
}

// BashOnHit extends the active window and refunds a sliver of
// stamina.
func (p *Player) BashOnHit() {
	if p.Bash.Phase != BashActive {
		return
	}
	p.Bash.Timer = p.Bash.Timer + bashHitExtendFixed
	p.Stamina = p.Stamina + bashHitRefundFixed
	if p.Stamina.Cmp(fixedpoint.FromFloat64(maxStamina)) > 0 {
		p.Stamina = fixedpoint.FromFloat64(maxStamina)
	}
}

// BashHitboxCenter returns the bash hitbox's world-space circle
// center: offset bashHitboxOffset in front of the player.
func (p *Player) BashHitboxCenter() fixedpoint.Vec3 {
	return p.Position.Add(p.Facing.Scale(fixedpoint.FromFloat64(bashHitboxOffset)))
}

// --- Berserker-charge ---

// ChargeBegin starts a fixed-duration, hyperarmored charge along the
// player's current facing.
func (p *Player) ChargeBegin() bool {
	if !p.canStart(AbilityCharge) || p.Charge.Active {
		return false
	}
	p.Active = AbilityCharge
	p.Charge.Active = true
	p.Charge.Timer = chargeDurationFixed
	p.Charge.Facing = p.Facing
	p.Velocity = p.Charge.Facing.Scale(moveSpeedFixed.Mul(chargeSpeedMultFixed))
	return true
}

// ChargeTick maintains charge speed, drains stamina, and ends the
// ability on duration expiry or stamina exhaustion.
func (p *Player) ChargeTick(dt fixedpoint.Fixed) {
	if !p.Charge.Active {
		return
	}

	target := chargeSpeedMultFixed.Mul(moveSpeedFixed)
	if speed := p.Velocity.Length(); speed.Cmp(target) < 0 {
		accel := p.Charge.Facing.Scale(accelerationFixed.Mul(dt))
		p.Velocity = p.Velocity.Add(accel)
	}

	p.Charge.Timer = p.Charge.Timer - dt
	p.Stamina = p.Stamina - chargeStaminaDrainFixed.Mul(dt)
	if p.Stamina < 0 {
		p.Stamina = 0
	}

	if p.Charge.Timer <= 0 || p.Stamina <= 0 {
		p.chargeEnd()
	}
}

func (p *Player) chargeEnd() {
	p.Charge.Active = false
	p.Active = AbilityNone
}

// HasHyperarmor reports whether the player currently ignores
// staggering hits (berserker-charge grants this for its duration).
func (p *Player) HasHyperarmor() bool {
	return p.Charge.Active
}

// --- Flow-dash ---

// DashBegin commits to a target dashDistance world units along
// direction (or the player's facing if direction is the zero vector).
// Costs dashStaminaCost up front; fails if stamina is insufficient.
func (p *Player) DashBegin(direction fixedpoint.Vec3) bool {
	if !p.canStart(AbilityDash) || p.Dash.Active {
		return false
	}
	if p.Stamina.Cmp(dashStaminaCostFixed) < 0 {
		return false
	}
	dir := direction
	if dir.IsZero() {
		dir = p.Facing
	} else {
		dir = dir.Normalized()
	}

	p.Stamina = p.Stamina - dashStaminaCostFixed

	p.Active = AbilityDash
	p.Dash.Active = true
	p.Dash.Timer = 0
	p.Dash.Start = p.Position
	p.Dash.Target = clampToUnitBox(p.Position.Add(dir.Scale(dashDistanceFixed)))
	return true
}

func clampToUnitBox(v fixedpoint.Vec3) fixedpoint.Vec3 {
	v.X = fixedpoint.Clamp(v.X, zero, one)
	v.Z = fixedpoint.Clamp(v.Z, zero, one)
	return v
}

// DashTick interpolates position over dashDuration with a cubic
// ease-out curve, with i-frames active for the whole dash. Once the
// dash lands, counts down the cancel window and closes it on expiry.
func (p *Player) DashTick(dt fixedpoint.Fixed) {
	if !p.Dash.Active {
		if p.Dash.CancelOpen {
			p.Dash.CancelTimer = p.Dash.CancelTimer - dt
			if p.Dash.CancelTimer <= 0 {
				p.DashCloseCancelWindow()
			}
		}
		return
	}
	p.Dash.Timer = p.Dash.Timer + dt
	t := fixedpoint.Clamp(p.Dash.Timer.Div(dashDurationFixed), 0, one)
	eased := cubicEaseOut(t)
	p.Position = p.Dash.Start.Lerp(p.Dash.Target, eased)

	if t == one {
		p.dashEnd()
	}
}

func cubicEaseOut(t fixedpoint.Fixed) fixedpoint.Fixed {
	inv := one - t
	cubed := inv.Mul(inv).Mul(inv)
	return one - cubed
}

func (p *Player) dashEnd() {
	p.Dash.Active = false
	p.Dash.CancelOpen = true
	p.Dash.CancelTimer = dashCancelWindowFixed
}

// IsInvulnerable reports whether the player currently has i-frames
// (active for the duration of a flow-dash).
func (p *Player) IsInvulnerable() bool {
	return p.Dash.Active
}

// DashOnHit returns the damage this dash lands - dashBaseDamage scaled
// by 1+comboLevel*dashComboMultiplier - and, while the cancel window
// is open, advances the combo level up to dashMaxCombo and refunds a
// sliver of stamina.
func (p *Player) DashOnHit() fixedpoint.Fixed {
	if p.Dash.CancelOpen && p.Dash.ComboLevel < dashMaxCombo {
		p.Dash.ComboLevel++
		p.Stamina = p.Stamina + dashComboRefundFixed
		if p.Stamina.Cmp(fixedpoint.FromFloat64(maxStamina)) > 0 {
			p.Stamina = fixedpoint.FromFloat64(maxStamina)
		}
	}
	multiplier := one + fixedpoint.FromInt(p.Dash.ComboLevel).Mul(dashComboMultiplierFixed)
	return dashBaseDamageFixed.Mul(multiplier)
}

// DashCloseCancelWindow ends the ability once the cancel opportunity
// has passed without a follow-up dash.
func (p *Player) DashCloseCancelWindow() {
	p.Dash.CancelOpen = false
	p.Dash.ComboLevel = 0
	p.Active = AbilityNone
}
