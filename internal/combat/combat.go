// Package combat implements three orthogonal state machines that
// govern melee combat — Attack, Roll and Block — plus the combo
// window and counter-attack window. Each FSM is driven by fixed-point
// timers instead of tick counts, so replay stays byte-identical
// regardless of tick rate.
package combat

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// AttackPhase is the attack FSM's current state.
type AttackPhase int

const (
	AttackIdle AttackPhase = iota
	AttackWindup
	AttackActive
	AttackRecovery
)

// AttackKind selects the stamina cost and combo-reset behavior of an
// attack.
type AttackKind int

const (
	AttackLight AttackKind = iota
	AttackHeavy
	AttackSpecial
)

// RollPhase is the roll FSM's current state.
type RollPhase int

const (
	RollIdle RollPhase = iota
	RollActive
	RollCooldown
)

// HitOutcome is what incoming-attack resolution produces.
type HitOutcome int

const (
	HitMiss HitOutcome = iota
	HitPerfectParry
	HitBlocked
	HitLanded
)

var (
	windupDuration    = fixedpoint.FromFloat64(0.3)
	activeDuration    = fixedpoint.FromFloat64(0.2)
	recoveryDuration  = fixedpoint.FromFloat64(0.4)
	lightStaminaCost  = fixedpoint.FromFloat64(0.15)
	heavyStaminaCost  = fixedpoint.FromFloat64(0.25)
	specialStaminaCost = fixedpoint.FromFloat64(0.4)

	rollActiveDuration   = fixedpoint.FromFloat64(0.6)
	rollCooldownDuration = fixedpoint.FromFloat64(1.0)
	rollStaminaCost      = fixedpoint.FromFloat64(0.2)

	blockStaminaDrainPerSecond = fixedpoint.FromFloat64(0.1)
	blockStaminaFloor          = fixedpoint.FromFloat64(0.01)
	parryWindow                = fixedpoint.FromFloat64(0.2)
	counterWindow              = fixedpoint.FromFloat64(0.5)

	comboDefaultWindow = fixedpoint.FromFloat64(0.6)
)

// ComboDefinition is a weapon's combo table: a hit cap, a chain
// window and a per-hit damage scale.
type ComboDefinition struct {
	MaxHits     int
	Window      fixedpoint.Fixed
	DamageScale []fixedpoint.Fixed
}

// DefaultUnarmedCombo is the fists-equivalent combo table.
func DefaultUnarmedCombo() ComboDefinition {
	return ComboDefinition{
		MaxHits: 4,
		Window:  comboDefaultWindow,
		DamageScale: []fixedpoint.Fixed{
			fixedpoint.FromFloat64(1.0),
			fixedpoint.FromFloat64(1.1),
			fixedpoint.FromFloat64(1.2),
			fixedpoint.FromFloat64(1.5),
		},
	}
}

// Combo tracks chained-hit state: how many hits have landed in the
// current chain and how long the window has left to run.
type Combo struct {
	Count  int
	Window fixedpoint.Fixed
}

// RegisterHit advances the combo and returns the damage multiplier
// for this hit, resetting the chain if the window had lapsed.
func (c *Combo) RegisterHit(def ComboDefinition) fixedpoint.Fixed {
	if c.Window > 0 && c.Count < def.MaxHits {
		c.Count++
	} else {
		c.Count = 1
	}
	c.Window = def.Window

	idx := c.Count - 1
	if idx >= 0 && idx < len(def.DamageScale) {
		return def.DamageScale[idx]
	}
	return fixedpoint.One
}

// Tick decays the combo window, resetting the chain on expiry.
func (c *Combo) Tick(dt fixedpoint.Fixed) {
	if c.Window <= 0 {
		return
	}
	c.Window = c.Window - dt
	if c.Window <= 0 {
		c.Window = 0
		c.Count = 0
	}
}

// Attack is the attack FSM.
type Attack struct {
	Phase      AttackPhase
	Timer      fixedpoint.Fixed
	Kind       AttackKind
	Hyperarmor bool
}

// Begin transitions Idle -> Windup, charging the kind-dependent
// stamina cost up front. Returns false (no transition) if not Idle or
// stamina is insufficient.
func (a *Attack) Begin(kind AttackKind, stamina fixedpoint.Fixed) (fixedpoint.Fixed, bool) {
	if a.Phase != AttackIdle {
		return stamina, false
	}
	cost := attackCost(kind)
	if stamina.Cmp(cost) < 0 {
		return stamina, false
	}

	a.Phase = AttackWindup
	a.Timer = windupDuration
	a.Kind = kind
	a.Hyperarmor = kind == AttackSpecial
	return stamina - cost, true
}

func attackCost(kind AttackKind) fixedpoint.Fixed {
	switch kind {
	case AttackHeavy:
		return heavyStaminaCost
	case AttackSpecial:
		return specialStaminaCost
	default:
		return lightStaminaCost
	}
}

// Feint cancels a Windup back to Idle early with no refund; a no-op
// outside Windup.
func (a *Attack) Feint() bool {
	if a.Phase != AttackWindup {
		return false
	}
	a.Phase = AttackIdle
	a.Timer = 0
	a.Hyperarmor = false
	return true
}

// Tick advances the FSM's phase timer, resetting combo on a heavy
// attack's Windup->Active transition.
func (a *Attack) Tick(dt fixedpoint.Fixed, combo *Combo) {
	if a.Phase == AttackIdle {
		return
	}
	a.Timer = a.Timer - dt
	if a.Timer > 0 {
		return
	}

	switch a.Phase {
	case AttackWindup:
		a.Phase = AttackActive
		a.Timer = activeDuration
		if a.Kind == AttackHeavy {
			combo.Count = 0
			combo.Window = 0
		}
	case AttackActive:
		a.Phase = AttackRecovery
		a.Timer = recoveryDuration
		a.Hyperarmor = false
	case AttackRecovery:
		a.Phase = AttackIdle
		a.Timer = 0
	}
}

// Roll is the roll FSM.
type Roll struct {
	Phase RollPhase
	Timer fixedpoint.Fixed
}

// Begin transitions Idle -> Active, consuming stamina, if not on
// cooldown and stamina allows it.
func (r *Roll) Begin(stamina fixedpoint.Fixed) (fixedpoint.Fixed, bool) {
	if r.Phase != RollIdle {
		return stamina, false
	}
	if stamina.Cmp(rollStaminaCost) < 0 {
		return stamina, false
	}
	r.Phase = RollActive
	r.Timer = rollActiveDuration
	return stamina - rollStaminaCost, true
}

// Tick advances the roll FSM.
func (r *Roll) Tick(dt fixedpoint.Fixed) {
	if r.Phase == RollIdle {
		return
	}
	r.Timer = r.Timer - dt
	if r.Timer > 0 {
		return
	}
	switch r.Phase {
	case RollActive:
		r.Phase = RollCooldown
		r.Timer = rollCooldownDuration
	case RollCooldown:
		r.Phase = RollIdle
		r.Timer = 0
	}
}

// IsInvulnerable reports whether the roll currently grants i-frames.
func (r *Roll) IsInvulnerable() bool {
	return r.Phase == RollActive
}

// Block is a flag-plus-timestamp defensive stance.
type Block struct {
	Active    bool
	Elapsed   fixedpoint.Fixed
	Counter   fixedpoint.Fixed // remaining counter-attack window, 0 if none
}

// Start begins blocking.
func (b *Block) Start() {
	b.Active = true
	b.Elapsed = 0
}

// Stop ends blocking.
func (b *Block) Stop() {
	b.Active = false
}

// Tick drains stamina while blocking, auto-stopping below the floor,
// and decays any open counter window.
func (b *Block) Tick(dt fixedpoint.Fixed, stamina fixedpoint.Fixed) fixedpoint.Fixed {
	if b.Counter > 0 {
		b.Counter = b.Counter - dt
		if b.Counter < 0 {
			b.Counter = 0
		}
	}
	if !b.Active {
		return stamina
	}
	b.Elapsed = b.Elapsed + dt
	stamina = stamina - blockStaminaDrainPerSecond.Mul(dt)
	if stamina.Cmp(blockStaminaFloor) < 0 {
		stamina = 0
		b.Active = false
	}
	return stamina
}

// ResolveIncoming applies the defensive priority order: invulnerable
// beats parry beats block beats a clean hit. A perfect parry opens the
// counter-attack window and returns a parry strength that decays
// linearly over the parry window.
func (b *Block) ResolveIncoming(invulnerable bool) (HitOutcome, fixedpoint.Fixed) {
	if invulnerable {
		return HitMiss, 0
	}
	if b.Active && b.Elapsed.Cmp(parryWindow) <= 0 {
		b.Counter = counterWindow
		strength := fixedpoint.One - b.Elapsed.Div(parryWindow)
		return HitPerfectParry, strength
	}
	if b.Active {
		return HitBlocked, 0
	}
	return HitLanded, 0
}

// HasCounterWindow reports whether a counter-attack is currently
// available following a perfect parry.
func (b *Block) HasCounterWindow() bool {
	return b.Counter > 0
}
