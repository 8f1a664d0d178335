// Package physics implements the deterministic rigid-body simulator:
// bodies, broad/narrow-phase collision, constraints, force fields and
// the fixed-step driver.
package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// BodyID identifies a rigid body. 0 is reserved for the player and
// 0xFFFFFFFF is the ground sentinel used in collision events; real
// bodies are allocated 1..N monotonically.
type BodyID uint32

const (
	PlayerBodyID BodyID = 0
	GroundBodyID BodyID = 0xFFFFFFFF
)

// Kind classifies how a body participates in simulation.
type Kind uint8

const (
	Dynamic Kind = iota
	Kinematic
	Static
)

// Layer is a bitmask used for collision filtering.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerPlayer
	LayerWolf
	LayerArm
	LayerEnvironment
)

// Body is a single rigid-body record. It is never held by reference
// outside the Store - external code holds BodyIDs and looks the body
// up each time.
type Body struct {
	ID   BodyID
	Kind Kind

	Position     fixedpoint.Vec3
	Velocity     fixedpoint.Vec3
	Acceleration fixedpoint.Vec3

	Mass        fixedpoint.Fixed
	InverseMass fixedpoint.Fixed

	Friction    fixedpoint.Fixed
	Restitution fixedpoint.Fixed
	Drag        fixedpoint.Fixed
	Radius      fixedpoint.Fixed

	Layer Layer
	Mask  Layer

	Sleeping          bool
	SleepThreshold    fixedpoint.Fixed
	SleepAccumulator  int64 // microseconds
}

// NewBody builds a body with the given kind and mass, computing
// InverseMass so constraint solvers never redivide. Static bodies and
// zero-mass bodies get InverseMass == 0.
func NewBody(id BodyID, kind Kind, position fixedpoint.Vec3, mass fixedpoint.Fixed) *Body {
	b := &Body{
		ID:             id,
		Kind:           kind,
		Position:       position,
		Mass:           mass,
		Friction:       fixedpoint.FromFloat64(0.5),
		Restitution:    fixedpoint.FromFloat64(0.15),
		Drag:           fixedpoint.One,
		Radius:         fixedpoint.FromFloat64(0.05),
		Layer:          LayerDefault,
		Mask:           LayerDefault | LayerPlayer | LayerWolf | LayerArm | LayerEnvironment,
		SleepThreshold: fixedpoint.FromFloat64(0.01),
	}
	if kind == Static || mass <= 0 {
		b.InverseMass = 0
	} else {
		b.InverseMass = fixedpoint.One.Div(mass)
	}
	return b
}

// ShouldSimulate reports whether this body should be advanced this
// step. Static bodies never simulate; sleeping Dynamic
// bodies never simulate; Dynamic bodies otherwise always do; Kinematic
// bodies only simulate while moving so manual placements don't burn
// cycles but still let knockback decay.
func (b *Body) ShouldSimulate() bool {
	switch b.Kind {
	case Static:
		return false
	case Dynamic:
		return !b.Sleeping
	case Kinematic:
		return !b.Velocity.IsZero()
	default:
		return false
	}
}

// ShouldCollide reports whether this body participates in narrow
// phase this step.
func (b *Body) ShouldCollide() bool {
	if b.Kind == Static {
		return false
	}
	if b.Kind == Dynamic && b.Sleeping {
		return false
	}
	return true
}

// Wake clears the sleep flag and resets the sleep accumulator. Any
// external force/impulse/velocity-set must call this.
func (b *Body) Wake() {
	b.Sleeping = false
	b.SleepAccumulator = 0
}

// ApplyImpulse adds an instantaneous velocity change scaled by inverse
// mass, and wakes the body.
func (b *Body) ApplyImpulse(impulse fixedpoint.Vec3) {
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InverseMass))
	b.Wake()
}

// SetVelocity overwrites velocity directly and wakes the body.
func (b *Body) SetVelocity(v fixedpoint.Vec3) {
	b.Velocity = v
	b.Wake()
}

// updateSleep advances the sleep accumulator by dtMicros and puts the
// body to sleep once it has been slow for over 1,000,000 accumulated
// microseconds. Only Dynamic bodies sleep.
func (b *Body) updateSleep(dtMicros int64) {
	if b.Kind != Dynamic || b.Sleeping {
		return
	}

	speedSq := b.Velocity.LengthSquared()
	thresholdSq := b.SleepThreshold.Mul(b.SleepThreshold)

	if speedSq.Cmp(thresholdSq) < 0 {
		b.SleepAccumulator += dtMicros
		if b.SleepAccumulator > 1_000_000 {
			b.Sleeping = true
			b.Velocity = fixedpoint.Vec3Zero
			b.Acceleration = fixedpoint.Vec3Zero
		}
	} else {
		b.SleepAccumulator = 0
	}
}
