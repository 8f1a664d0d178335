package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

var (
	distEpsilon    = fixedpoint.FromFloat64(1e-4)
	distEpsilonSq  = distEpsilon.Mul(distEpsilon)
	singularityNudge = fixedpoint.FromFloat64(0.005)
)

// DistanceConstraint pins two bodies to a rest length with the given
// stiffness in [0,1].
type DistanceConstraint struct {
	A, B       BodyID
	RestLength fixedpoint.Fixed
	Stiffness  fixedpoint.Fixed
}

// DistanceRangeConstraint clamps the distance between two bodies to
// [Min, Max]; either bound may be zero to disable it.
type DistanceRangeConstraint struct {
	A, B     BodyID
	Min, Max fixedpoint.Fixed
	Stiffness fixedpoint.Fixed
}

// SolveDistance runs one PBD iteration of a distance constraint,
// looking bodies up through the store. Kinematic/Static
// bodies contribute zero inverse mass so they are effectively pinned.
func SolveDistance(store *Store, c DistanceConstraint) {
	a := store.Get(c.A)
	b := store.Get(c.B)
	if a == nil || b == nil {
		return
	}
	solveLengthConstraint(a, b, c.RestLength, c.Stiffness)
}

// SolveDistanceRange runs one PBD iteration of a range constraint: the
// target is Max if dist > Max (and Max > 0), Min if dist < Min (and
// Min > 0), otherwise the constraint is satisfied and skipped.
func SolveDistanceRange(store *Store, c DistanceRangeConstraint) {
	a := store.Get(c.A)
	b := store.Get(c.B)
	if a == nil || b == nil {
		return
	}

	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSquared()
	if distSq.Cmp(distEpsilonSq) < 0 {
		return
	}
	dist := distSq.Sqrt()

	var target fixedpoint.Fixed
	switch {
	case c.Max > 0 && dist.Cmp(c.Max) > 0:
		target = c.Max
	case c.Min > 0 && dist.Cmp(c.Min) < 0:
		target = c.Min
	default:
		return
	}

	applyLengthCorrection(a, b, delta, dist, target, c.Stiffness)
}

func solveLengthConstraint(a, b *Body, restLength, stiffness fixedpoint.Fixed) {
	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSquared()
	if distSq.Cmp(distEpsilonSq) <= 0 {
		// Singularity: nudge apart along X to break the degenerate case.
		a.Position.X = a.Position.X - singularityNudge
		b.Position.X = b.Position.X + singularityNudge
		a.Wake()
		b.Wake()
		return
	}
	dist := distSq.Sqrt()
	diff := dist - restLength
	if diff.Abs().Cmp(distEpsilon) < 0 {
		return
	}

	applyLengthCorrection(a, b, delta, dist, restLength, stiffness)
}

func applyLengthCorrection(a, b *Body, delta fixedpoint.Vec3, dist, target, stiffness fixedpoint.Fixed) {
	diff := dist - target
	normal := delta.Scale(fixedpoint.One.Div(dist))
	magnitude := diff.Mul(stiffness)

	totalInvMass := a.InverseMass + b.InverseMass
	if totalInvMass <= 0 {
		return
	}

	aShare := magnitude.Mul(a.InverseMass.Div(totalInvMass))
	bShare := magnitude.Mul(b.InverseMass.Div(totalInvMass))

	a.Position = a.Position.Add(normal.Scale(aShare))
	b.Position = b.Position.Sub(normal.Scale(bShare))

	a.Wake()
	b.Wake()
}

// SolveDistanceConstraints runs `iterations` passes over every
// constraint in order. Each SolveDistance call resolves its two body
// ids through the store's own O(1) map lookup, so no separate index
// is built here.
func SolveDistanceConstraints(store *Store, constraints []DistanceConstraint, iterations int) {
	for i := 0; i < iterations; i++ {
		for _, c := range constraints {
			SolveDistance(store, c)
		}
	}
}

// SolveDistanceRangeConstraints runs `iterations` passes over every
// range constraint.
func SolveDistanceRangeConstraints(store *Store, constraints []DistanceRangeConstraint, iterations int) {
	for i := 0; i < iterations; i++ {
		for _, c := range constraints {
			SolveDistanceRange(store, c)
		}
	}
}
