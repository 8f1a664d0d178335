// Package wolf implements the wolf agent: an eight-state FSM with
// interrupts, emotion/jitter-modulated state durations, memory,
// spatial awareness, line-of-sight gated attacks, and a concurrent-
// attacker budget. It is a distance-bucketed FSM with a flow-field
// assist, the same shape used for bot navigation generally.
package wolf

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// State is one of the wolf's eight behavior states.
type State int

const (
	Idle State = iota
	Patrol
	Alert
	Approach
	Strafe
	Attack
	Retreat
	Recover
	stateCount
)

// WolfType biases a wolf's preferred state.
type WolfType int

const (
	Generic WolfType = iota
	Alpha
	Scout
	Hunter
)

// Emotion scales state durations.
type Emotion int

const (
	Neutral Emotion = iota
	Confident
	Fearful
	Desperate
)

var baseDuration = [stateCount]fixedpoint.Fixed{
	Idle:     fixedpoint.FromFloat64(2.0),
	Patrol:   fixedpoint.FromFloat64(4.0),
	Alert:    fixedpoint.FromFloat64(1.0),
	Approach: fixedpoint.FromFloat64(3.0),
	Strafe:   fixedpoint.FromFloat64(2.0),
	Attack:   fixedpoint.FromFloat64(0.8), // windup+execute+recover
	Retreat:  fixedpoint.FromFloat64(2.0),
	Recover:  fixedpoint.FromFloat64(1.0),
}

var (
	confidentRecoverMult = fixedpoint.FromFloat64(0.8)
	fearfulStrafeMult    = fixedpoint.FromFloat64(1.3)
	desperateAttackMult  = fixedpoint.FromFloat64(0.9)
	maxJitter            = fixedpoint.FromFloat64(0.02)
)

// durationFor applies the emotion multiplier and per-wolf jitter to a
// state's base duration.
func durationFor(state State, emotion Emotion, jitter fixedpoint.Fixed) fixedpoint.Fixed {
	d := baseDuration[state]

	switch {
	case emotion == Confident && state == Recover:
		d = d.Mul(confidentRecoverMult)
	case emotion == Fearful && state == Strafe:
		d = d.Mul(fearfulStrafeMult)
	case emotion == Desperate && state == Attack:
		d = d.Mul(desperateAttackMult)
	}

	return d.Mul(fixedpoint.One + jitter)
}

// Tunables bundles the numeric thresholds (exact meters/seconds) left
// to the implementation's discretion. Defaults are documented in
// DESIGN.md.
type Tunables struct {
	DetectionRange fixedpoint.Fixed
	AttackRange    fixedpoint.Fixed

	AttackEnterMult fixedpoint.Fixed
	AttackExitMult  fixedpoint.Fixed
	ApproachEnterMult fixedpoint.Fixed
	ApproachExitMult  fixedpoint.Fixed

	RetreatHPFraction   fixedpoint.Fixed
	RetreatMoraleThreshold fixedpoint.Fixed
	InterruptHPFraction fixedpoint.Fixed

	AttackFacingCosThreshold fixedpoint.Fixed
	DamageInterruptThreshold fixedpoint.Fixed
	MaxConcurrentAttackers   int

	DecisionPeriod fixedpoint.Fixed

	WolfFriction fixedpoint.Fixed
	MoveSpeed    fixedpoint.Fixed
}

// DefaultTunables returns the reference constant set.
func DefaultTunables() Tunables {
	return Tunables{
		DetectionRange:           fixedpoint.FromFloat64(12.0),
		AttackRange:              fixedpoint.FromFloat64(1.2),
		AttackEnterMult:          fixedpoint.FromFloat64(1.0),
		AttackExitMult:           fixedpoint.FromFloat64(1.5),
		ApproachEnterMult:        fixedpoint.FromFloat64(0.6),
		ApproachExitMult:         fixedpoint.FromFloat64(0.75),
		RetreatHPFraction:        fixedpoint.FromFloat64(0.3),
		RetreatMoraleThreshold:   fixedpoint.FromFloat64(0.4),
		InterruptHPFraction:      fixedpoint.FromFloat64(0.3),
		AttackFacingCosThreshold: fixedpoint.FromFloat64(0.5),
		DamageInterruptThreshold: fixedpoint.FromFloat64(0.2),
		MaxConcurrentAttackers:   2,
		DecisionPeriod:           fixedpoint.FromFloat64(0.15),
		WolfFriction:             fixedpoint.FromFloat64(12.0),
		MoveSpeed:                fixedpoint.FromFloat64(3.0),
	}
}
