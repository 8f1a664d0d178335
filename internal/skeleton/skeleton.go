// Package skeleton implements the 26-joint Verlet-integrated player
// rig: bone-length constraints, per-side ground contact and three
// balance strategies applied in increasing order of disturbance.
package skeleton

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// JointID names one of the skeleton's 26 joints.
type JointID int

const (
	Pelvis JointID = iota
	SpineLower
	SpineMid
	SpineUpper
	Neck
	Head
	LeftShoulder
	RightShoulder
	LeftCollar
	RightCollar
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftToe
	RightToe
	LeftRib
	RightRib
	LeftKneeCap
	RightKneeCap
	LeftFootArch
	RightFootArch
	jointCount
)

// JointCount is the fixed joint tally the functional spec names.
const JointCount = int(jointCount)

// Side selects a leg/arm half for the per-side operations.
type Side int

const (
	Left Side = iota
	Right
)

var (
	damping        = fixedpoint.FromFloat64(0.95)
	gravityAccel   = fixedpoint.FromFloat64(9.8)
	minDt          = fixedpoint.FromFloat64(1.0 / 240.0)
	maxDt          = fixedpoint.FromFloat64(1.0 / 30.0)
	groundFriction = fixedpoint.FromFloat64(0.85)
	groundAbsorb   = fixedpoint.FromFloat64(0.2)
	ankleOffsetBand = fixedpoint.FromFloat64(0.015)
	steppingBand    = fixedpoint.FromFloat64(0.05)
	ankleFlexibility = fixedpoint.FromFloat64(0.8)
	ankleEchoFactor  = fixedpoint.FromFloat64(0.3)
	hipStrength      = fixedpoint.FromFloat64(0.6)
	steppingFactor   = fixedpoint.FromFloat64(0.1)
	kneeLockFactor   = fixedpoint.FromFloat64(0.15)
	qualityDivisor   = fixedpoint.FromFloat64(0.1)
)

// spineWeights mirror functional spec §4.9 step 7's Hip strategy
// weights, in joint order Pelvis..Head.
var spineChain = [6]JointID{Pelvis, SpineLower, SpineMid, SpineUpper, Neck, Head}
var spineWeights = [6]fixedpoint.Fixed{
	fixedpoint.FromFloat64(1.0),
	fixedpoint.FromFloat64(0.8),
	fixedpoint.FromFloat64(0.6),
	fixedpoint.FromFloat64(0.4),
	fixedpoint.FromFloat64(0.2),
	fixedpoint.FromFloat64(0.1),
}

// Bone is a rest-length constraint between two joints.
type Bone struct {
	A, B       JointID
	RestLength fixedpoint.Fixed
}

// Skeleton is the full Verlet rig for one player.
type Skeleton struct {
	Position [JointCount]fixedpoint.Vec3
	Previous [JointCount]fixedpoint.Vec3
	Fixed    [JointCount]bool

	Bones []Bone

	leftGrounded, rightGrounded bool
	lateralOffset               fixedpoint.Fixed
	quality                      fixedpoint.Fixed
}

// New builds a skeleton standing upright, centered at origin, with
// the default bone set (30 constraints) wired.
func New() *Skeleton {
	s := &Skeleton{Bones: defaultBones()}
	s.standUpright()
	for i := 0; i < JointCount; i++ {
		s.Previous[i] = s.Position[i]
	}
	return s
}

func defaultBones() []Bone {
	rest := func(v float64) fixedpoint.Fixed { return fixedpoint.FromFloat64(v) }
	return []Bone{
		{Pelvis, SpineLower, rest(0.12)},
		{SpineLower, SpineMid, rest(0.12)},
		{SpineMid, SpineUpper, rest(0.12)},
		{SpineUpper, Neck, rest(0.10)},
		{Neck, Head, rest(0.10)},
		{Pelvis, LeftHip, rest(0.10)},
		{Pelvis, RightHip, rest(0.10)},
		{LeftHip, LeftKnee, rest(0.22)},
		{RightHip, RightKnee, rest(0.22)},
		{LeftKnee, LeftAnkle, rest(0.22)},
		{RightKnee, RightAnkle, rest(0.22)},
		{LeftAnkle, LeftHeel, rest(0.05)},
		{RightAnkle, RightHeel, rest(0.05)},
		{LeftAnkle, LeftToe, rest(0.12)},
		{RightAnkle, RightToe, rest(0.12)},
		{LeftHeel, LeftToe, rest(0.15)},
		{RightHeel, RightToe, rest(0.15)},
		{SpineUpper, LeftShoulder, rest(0.18)},
		{SpineUpper, RightShoulder, rest(0.18)},
		{LeftShoulder, LeftCollar, rest(0.06)},
		{RightShoulder, RightCollar, rest(0.06)},
		{SpineMid, LeftRib, rest(0.14)},
		{SpineMid, RightRib, rest(0.14)},
		{LeftKnee, LeftKneeCap, rest(0.03)},
		{RightKnee, RightKneeCap, rest(0.03)},
		{LeftAnkle, LeftFootArch, rest(0.05)},
		{RightAnkle, RightFootArch, rest(0.05)},
		{Pelvis, LeftKnee, rest(0.30)},
		{Pelvis, RightKnee, rest(0.30)},
		{LeftHip, RightHip, rest(0.20)},
	}
}

func (s *Skeleton) standUpright() {
	set := func(j JointID, x, y, z float64) {
		s.Position[j] = fixedpoint.Vec3FromFloat64(x, y, z)
	}
	set(Pelvis, 0, 1.0, 0)
	set(SpineLower, 0, 1.12, 0)
	set(SpineMid, 0, 1.24, 0)
	set(SpineUpper, 0, 1.36, 0)
	set(Neck, 0, 1.46, 0)
	set(Head, 0, 1.56, 0)
	set(LeftShoulder, -0.18, 1.36, 0)
	set(RightShoulder, 0.18, 1.36, 0)
	set(LeftCollar, -0.22, 1.38, 0)
	set(RightCollar, 0.22, 1.38, 0)
	set(LeftHip, -0.10, 0.98, 0)
	set(RightHip, 0.10, 0.98, 0)
	set(LeftKnee, -0.10, 0.56, 0)
	set(RightKnee, 0.10, 0.56, 0)
	set(LeftAnkle, -0.10, 0.10, 0)
	set(RightAnkle, 0.10, 0.10, 0)
	set(LeftHeel, -0.10, 0.02, -0.04)
	set(RightHeel, 0.10, 0.02, -0.04)
	set(LeftToe, -0.10, 0.02, 0.10)
	set(RightToe, 0.10, 0.02, 0.10)
	set(LeftRib, -0.08, 1.24, 0.05)
	set(RightRib, 0.08, 1.24, 0.05)
	set(LeftKneeCap, -0.10, 0.58, 0.03)
	set(RightKneeCap, 0.10, 0.58, 0.03)
	set(LeftFootArch, -0.10, 0.02, 0.03)
	set(RightFootArch, 0.10, 0.02, 0.03)
}

// Step advances the skeleton one simulation frame.
func (s *Skeleton) Step(dtSeconds fixedpoint.Fixed) {
	dt := fixedpoint.Clamp(dtSeconds, minDt, maxDt)

	s.applyGravity(dt)
	s.verletIntegrate()
	s.solveBones(5)
	s.applyGroundPlane()
	offset := s.computeLateralOffset()
	s.applyBalanceStrategies(offset)
	s.solveBones(2)

	absOffset := offset.Abs()
	s.quality = fixedpoint.Clamp(fixedpoint.One-absOffset.Div(qualityDivisor), 0, fixedpoint.One)
}

func (s *Skeleton) applyGravity(dt fixedpoint.Fixed) {
	dtSq := dt.Mul(dt)
	delta := gravityAccel.Mul(dtSq)
	for i := 0; i < JointCount; i++ {
		if s.Fixed[i] {
			continue
		}
		s.Position[i].Y = s.Position[i].Y - delta
	}
}

func (s *Skeleton) verletIntegrate() {
	for i := 0; i < JointCount; i++ {
		if s.Fixed[i] {
			s.Previous[i] = s.Position[i]
			continue
		}
		cur := s.Position[i]
		prev := s.Previous[i]
		next := cur.Scale(fixedpoint.FromInt(2)).Sub(prev.Scale(damping))
		s.Previous[i] = cur
		s.Position[i] = next
	}
}

// solveBones runs `iterations` PBD passes over every bone constraint.
func (s *Skeleton) solveBones(iterations int) {
	for iter := 0; iter < iterations; iter++ {
		for _, bone := range s.Bones {
			s.solveBone(bone)
		}
	}
}

func (s *Skeleton) solveBone(bone Bone) {
	a, b := bone.A, bone.B
	delta := s.Position[b].Sub(s.Position[a])
	distSq := delta.LengthSquared()
	if distSq <= 0 {
		return
	}
	dist := distSq.Sqrt()
	diff := dist - bone.RestLength
	if diff.Abs() == 0 {
		return
	}
	normal := delta.Scale(fixedpoint.One.Div(dist))

	aMovable, bMovable := !s.Fixed[a], !s.Fixed[b]
	switch {
	case aMovable && bMovable:
		half := diff.Mul(fixedpoint.Half)
		s.Position[a] = s.Position[a].Add(normal.Scale(half))
		s.Position[b] = s.Position[b].Sub(normal.Scale(half))
	case aMovable:
		s.Position[a] = s.Position[a].Add(normal.Scale(diff))
	case bMovable:
		s.Position[b] = s.Position[b].Sub(normal.Scale(diff))
	}
}

type footJoints struct {
	ankle, heel, toe JointID
}

func (s *Skeleton) footJoints(side Side) footJoints {
	if side == Left {
		return footJoints{LeftAnkle, LeftHeel, LeftToe}
	}
	return footJoints{RightAnkle, RightHeel, RightToe}
}

// applyGroundPlane resolves heel/toe contact with tangential friction
// and vertical absorption, updating per-side grounded flags.
func (s *Skeleton) applyGroundPlane() {
	s.leftGrounded = s.resolveFootGround(Left)
	s.rightGrounded = s.resolveFootGround(Right)
}

func (s *Skeleton) resolveFootGround(side Side) bool {
	fj := s.footJoints(side)
	grounded := false
	for _, j := range []JointID{fj.heel, fj.toe} {
		if s.Position[j].Y >= 0 {
			continue
		}
		grounded = true
		velocity := s.Position[j].Sub(s.Previous[j])
		velocity.X = velocity.X.Mul(groundFriction)
		velocity.Z = velocity.Z.Mul(groundFriction)
		velocity.Y = velocity.Y.Mul(groundAbsorb)

		s.Position[j].Y = 0
		s.Previous[j] = s.Position[j].Sub(velocity)
	}
	return grounded
}

// computeLateralOffset returns the center-of-mass's lateral (x)
// distance from the support centroid (mean of grounded foot triples,
// equally weighted when both feet are grounded).
func (s *Skeleton) computeLateralOffset() fixedpoint.Fixed {
	com := s.centerOfMass()

	var support fixedpoint.Vec3
	count := 0
	if s.leftGrounded {
		support = support.Add(s.footCentroid(Left))
		count++
	}
	if s.rightGrounded {
		support = support.Add(s.footCentroid(Right))
		count++
	}
	if count == 0 {
		s.lateralOffset = 0
		return 0
	}
	support = support.Scale(fixedpoint.One.Div(fixedpoint.FromInt(count)))

	offset := com.X - support.X
	s.lateralOffset = offset
	return offset
}

func (s *Skeleton) footCentroid(side Side) fixedpoint.Vec3 {
	fj := s.footJoints(side)
	sum := s.Position[fj.ankle].Add(s.Position[fj.heel]).Add(s.Position[fj.toe])
	return sum.Scale(fixedpoint.One.Div(fixedpoint.FromInt(3)))
}

func (s *Skeleton) centerOfMass() fixedpoint.Vec3 {
	var sum fixedpoint.Vec3
	for i := 0; i < JointCount; i++ {
		sum = sum.Add(s.Position[i])
	}
	return sum.Scale(fixedpoint.One.Div(fixedpoint.FromInt(JointCount)))
}

// applyBalanceStrategies runs Ankle, Hip and Stepping in order of
// increasing disturbance, then knee lock.
func (s *Skeleton) applyBalanceStrategies(offset fixedpoint.Fixed) {
	absOffset := offset.Abs()

	if absOffset.Cmp(ankleOffsetBand) < 0 {
		s.applyAnkleStrategy(offset)
	}

	s.applyHipStrategy(offset)

	if absOffset.Cmp(steppingBand) > 0 && s.leftGrounded && s.rightGrounded {
		s.applySteppingStrategy(offset)
	}

	s.applyKneeLock()
}

func (s *Skeleton) applyAnkleStrategy(offset fixedpoint.Fixed) {
	push := offset.Neg().Mul(ankleFlexibility).Mul(fixedpoint.FromFloat64(0.8))
	echo := push.Mul(ankleEchoFactor)
	for _, side := range []Side{Left, Right} {
		fj := s.footJoints(side)
		s.Position[fj.ankle].X = s.Position[fj.ankle].X + push
		s.Position[fj.heel].X = s.Position[fj.heel].X - echo
		s.Position[fj.toe].X = s.Position[fj.toe].X - echo
	}
}

func (s *Skeleton) applyHipStrategy(offset fixedpoint.Fixed) {
	push := offset.Neg().Mul(hipStrength)
	for i, j := range spineChain {
		if s.Fixed[j] {
			continue
		}
		weighted := push.Mul(spineWeights[i])
		s.Position[j].X = s.Position[j].X + weighted
	}
}

func (s *Skeleton) applySteppingStrategy(offset fixedpoint.Fixed) {
	shift := offset.Mul(steppingFactor)
	trailing := Right
	if offset > 0 {
		trailing = Left
	}
	fj := s.footJoints(trailing)
	s.Position[fj.ankle].X = s.Position[fj.ankle].X + shift
	s.Position[fj.heel].X = s.Position[fj.heel].X + shift
	s.Position[fj.toe].X = s.Position[fj.toe].X + shift
}

// applyKneeLock pulls each knee toward its ankle's x for stability.
func (s *Skeleton) applyKneeLock() {
	s.lockKnee(LeftKnee, LeftAnkle)
	s.lockKnee(RightKnee, RightAnkle)
}

func (s *Skeleton) lockKnee(knee, ankle JointID) {
	diff := s.Position[ankle].X - s.Position[knee].X
	s.Position[knee].X = s.Position[knee].X + diff.Mul(kneeLockFactor)
}

// SyncPelvis moves the pelvis (and its previous position, to avoid a
// velocity spike) to the player's world position each tick.
func (s *Skeleton) SyncPelvis(position fixedpoint.Vec3) {
	delta := position.Sub(s.Position[Pelvis])
	s.Position[Pelvis] = position
	s.Previous[Pelvis] = s.Previous[Pelvis].Add(delta)
}

// Quality returns clamp(1 - |offset|/0.1, 0, 1).
func (s *Skeleton) Quality() fixedpoint.Fixed { return s.quality }

// LateralOffset returns the most recently computed lateral offset.
func (s *Skeleton) LateralOffset() fixedpoint.Fixed { return s.lateralOffset }

// Grounded reports whether the given side's foot is in contact.
func (s *Skeleton) Grounded(side Side) bool {
	if side == Left {
		return s.leftGrounded
	}
	return s.rightGrounded
}

// JointPosition returns a joint's current world position.
func (s *Skeleton) JointPosition(j JointID) fixedpoint.Vec3 {
	return s.Position[j]
}
