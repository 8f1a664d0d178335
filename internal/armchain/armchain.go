// Package armchain implements the player's two arm chains (anchor,
// upper, forearm, hand) as PD-servoed constraint chains that reach
// toward gameplay-supplied targets.
package armchain

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// Side selects which arm a chain belongs to.
type Side int

const (
	Left Side = iota
	Right
)

// segment names one of the four bodies in a chain.
type segment int

const (
	anchor segment = iota
	upper
	forearm
	hand
	segmentCount
)

var (
	kp             = fixedpoint.FromFloat64(200)
	kd             = fixedpoint.FromFloat64(12)
	forceClip      = fixedpoint.FromFloat64(500)
	handSeparationSq = fixedpoint.FromFloat64(0.05 * 0.05)
	upperRest      = fixedpoint.FromFloat64(0.18)
	forearmRest    = fixedpoint.FromFloat64(0.16)
	handRest       = fixedpoint.FromFloat64(0.10)
	anchorUpperRest = fixedpoint.FromFloat64(0.02)
)

// bone is an internal rest-length constraint between two segments of
// the SAME chain (the six constraints functional spec §4.10 names:
// anchor-upper, upper-forearm, forearm-hand per side... doubled for
// both sides is 6 total, plus the cross-chain hand separation below).
type bone struct {
	a, b       segment
	restLength fixedpoint.Fixed
}

var chainBones = []bone{
	{anchor, upper, anchorUpperRest},
	{upper, forearm, upperRest},
	{forearm, hand, forearmRest},
}

// Chain is one arm: an anchor that tracks the shoulder kinematically,
// and three dynamic segments pulled toward a target by a clamped PD
// force.
type Chain struct {
	Side Side

	Position [segmentCount]fixedpoint.Vec3
	Velocity [segmentCount]fixedpoint.Vec3

	Target fixedpoint.Vec3
}

// NewChain builds a chain resting at the given shoulder position.
func NewChain(side Side, shoulder fixedpoint.Vec3) *Chain {
	c := &Chain{Side: side}
	c.Position[anchor] = shoulder
	c.Position[upper] = shoulder.Add(fixedpoint.NewVec3(0, -upperRest, 0))
	c.Position[forearm] = c.Position[upper].Add(fixedpoint.NewVec3(0, -forearmRest, 0))
	c.Position[hand] = c.Position[forearm].Add(fixedpoint.NewVec3(0, -handRest, 0))
	c.Target = c.Position[hand]
	return c
}

// Manager owns both arm chains and runs them in lockstep each tick.
type Manager struct {
	Left  *Chain
	Right *Chain
}

// NewManager installs a chain per side anchored at the given shoulder
// positions.
func NewManager(leftShoulder, rightShoulder fixedpoint.Vec3) *Manager {
	return &Manager{
		Left:  NewChain(Left, leftShoulder),
		Right: NewChain(Right, rightShoulder),
	}
}

// SetTargets updates both hand targets. Gameplay provides these in
// the normalized world box; z is accepted but ignored - it is simply
// stored, since nothing downstream reads Chain.Target.Z.
func (m *Manager) SetTargets(left, right fixedpoint.Vec3) {
	m.Left.Target = left
	m.Right.Target = right
}

// Step moves both anchors to the current shoulder positions, applies
// the clamped PD servo at each hand, solves the chain constraints, and
// finally resolves mutual hand separation.
func (m *Manager) Step(dt fixedpoint.Fixed, leftShoulder, rightShoulder fixedpoint.Vec3) {
	m.Left.Position[anchor] = leftShoulder
	m.Right.Position[anchor] = rightShoulder

	m.Left.applyServo(dt)
	m.Right.applyServo(dt)

	m.Left.solveBones()
	m.Right.solveBones()

	m.resolveHandSeparation()
}

func (c *Chain) applyServo(dt fixedpoint.Fixed) {
	toTarget := c.Target.Sub(c.Position[hand])
	force := toTarget.Scale(kp).Sub(c.Velocity[hand].Scale(kd))

	// The clip test runs on force/magScale: squaring a force above
	// ~181 directly would overflow Q16.16.
	magScale := fixedpoint.FromInt(4096)
	scaled := toTarget.Scale(kp.Div(magScale)).Sub(c.Velocity[hand].Scale(kd.Div(magScale)))
	if mag := scaled.Length(); mag.Cmp(forceClip.Div(magScale)) > 0 && mag > 0 {
		force = scaled.Scale(forceClip.Div(magScale).Div(mag)).Scale(magScale)
	}

	c.Velocity[hand] = c.Velocity[hand].Add(force.Scale(dt))
	c.Position[hand] = c.Position[hand].Add(c.Velocity[hand].Scale(dt))
}

// solveBones runs one PBD pass pulling upper/forearm toward their
// rest lengths from the (kinematic) anchor down to the servoed hand.
func (c *Chain) solveBones() {
	for _, b := range chainBones {
		c.solveBone(b)
	}
}

func (c *Chain) solveBone(b bone) {
	delta := c.Position[b.b].Sub(c.Position[b.a])
	distSq := delta.LengthSquared()
	if distSq <= 0 {
		return
	}
	dist := distSq.Sqrt()
	diff := dist - b.restLength
	normal := delta.Scale(fixedpoint.One.Div(dist))

	// The anchor is kinematic (tracks the shoulder); every other
	// segment is free, so a correction at segment a only ever applies
	// when a is not the anchor.
	if b.a == anchor {
		c.Position[b.b] = c.Position[b.b].Sub(normal.Scale(diff))
		return
	}
	half := diff.Mul(fixedpoint.Half)
	c.Position[b.a] = c.Position[b.a].Add(normal.Scale(half))
	c.Position[b.b] = c.Position[b.b].Sub(normal.Scale(half))
}

// resolveHandSeparation pushes the two hands apart, half the overlap
// each, PBD-style, if they've drifted within the mutual-collision
// radius; only the hand positions move, their velocities are left
// unchanged.
func (m *Manager) resolveHandSeparation() {
	lh, rh := m.Left.Position[hand], m.Right.Position[hand]
	delta := rh.Sub(lh)
	distSq := delta.LengthSquared()
	if distSq >= handSeparationSq || distSq <= 0 {
		return
	}

	dist := distSq.Sqrt()
	overlap := handSeparationSq.Sqrt() - dist
	normal := delta.Scale(fixedpoint.One.Div(dist))
	half := overlap.Mul(fixedpoint.Half)

	m.Left.Position[hand] = lh.Sub(normal.Scale(half))
	m.Right.Position[hand] = rh.Add(normal.Scale(half))
}

// HandPosition returns the current world position of a chain's hand,
// the point gameplay reads back for hit detection.
func (c *Chain) HandPosition() fixedpoint.Vec3 {
	return c.Position[hand]
}
