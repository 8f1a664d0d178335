package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

var (
	minRadius        = fixedpoint.FromFloat64(1e-3)
	maxPairDistSq    = fixedpoint.FromInt(1_000_000)
	baseSeparation   = fixedpoint.FromFloat64(0.004)
	equalMassSep     = fixedpoint.FromFloat64(0.008)
	equalMassBand    = fixedpoint.FromFloat64(0.25)
	normalRestitution = fixedpoint.FromFloat64(0.15)
	equalRestitution  = fixedpoint.FromFloat64(0.05)

	groundRestitution = fixedpoint.FromFloat64(-0.3)
	groundFriction    = fixedpoint.FromFloat64(0.7)
)

// ResolvePair runs sphere-sphere narrow phase on one candidate pair
//, mutating both bodies and returning the emitted event
// (or false if the pair didn't actually overlap / was rejected).
func ResolvePair(a, b *Body) (CollisionEvent, bool) {
	if a.Radius.Cmp(minRadius) < 0 || b.Radius.Cmp(minRadius) < 0 {
		return CollisionEvent{}, false
	}

	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSquared()
	if distSq.Cmp(maxPairDistSq) > 0 {
		return CollisionEvent{}, false
	}

	radiusSum := a.Radius + b.Radius
	radiusSumSq := radiusSum.Mul(radiusSum)
	if distSq <= 0 || distSq.Cmp(radiusSumSq) >= 0 {
		return CollisionEvent{}, false
	}

	a.Wake()
	b.Wake()

	dist := distSq.Sqrt()
	normal := delta.Scale(fixedpoint.One.Div(dist))

	overlap := radiusSum - dist
	separation := baseSeparation
	if massesNearEqual(a.Mass, b.Mass) {
		separation = equalMassSep
	}
	correctionMag := overlap + separation

	totalInvMass := a.InverseMass + b.InverseMass
	if totalInvMass > 0 {
		aShare := correctionMag.Mul(a.InverseMass.Div(totalInvMass))
		bShare := correctionMag.Mul(b.InverseMass.Div(totalInvMass))
		a.Position = a.Position.Sub(normal.Scale(aShare))
		b.Position = b.Position.Add(normal.Scale(bShare))
	}

	relVel := b.Velocity.Sub(a.Velocity)
	velAlongNormal := relVel.Dot(normal)

	impulseMag := fixedpoint.Zero
	if velAlongNormal < 0 && totalInvMass > 0 {
		restitution := normalRestitution
		if massesNearEqual(a.Mass, b.Mass) {
			restitution = equalRestitution
		}
		j := -(fixedpoint.One + restitution).Mul(velAlongNormal)
		j = j.Div(totalInvMass)
		impulseMag = j
		impulse := normal.Scale(j)
		a.Velocity = a.Velocity.Sub(impulse.Scale(a.InverseMass))
		b.Velocity = b.Velocity.Add(impulse.Scale(b.InverseMass))
	}

	contact := a.Position.Add(normal.Scale(a.Radius))
	nx, ny, nz := normal.ToFloat64()
	px, py, pz := contact.ToFloat64()

	return CollisionEvent{
		A:       a.ID,
		B:       b.ID,
		Normal:  [3]float32{float32(nx), float32(ny), float32(nz)},
		Point:   [3]float32{float32(px), float32(py), float32(pz)},
		Impulse: float32(impulseMag.ToFloat64()),
	}, true
}

func massesNearEqual(a, b fixedpoint.Fixed) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	diff := (a - b).Abs()
	band := fixedpoint.Max(a, b).Mul(equalMassBand)
	return diff.Cmp(band) <= 0
}

// ResolveGroundPlane applies the ground-plane pass to a single
// non-Static, non-sleeping body, returning the emitted
// event (or false if the body wasn't touching the ground).
func ResolveGroundPlane(b *Body) (CollisionEvent, bool) {
	if b.Kind == Static || (b.Kind == Dynamic && b.Sleeping) {
		return CollisionEvent{}, false
	}

	floor := b.Position.Y - b.Radius
	if floor >= 0 {
		return CollisionEvent{}, false
	}

	b.Position.Y = b.Radius

	if b.Velocity.Y < 0 {
		b.Velocity.Y = b.Velocity.Y.Mul(groundRestitution)
		b.Velocity.X = b.Velocity.X.Mul(groundFriction)
		b.Velocity.Z = b.Velocity.Z.Mul(groundFriction)
	}

	px, py, pz := b.Position.ToFloat64()
	return CollisionEvent{
		A:       b.ID,
		B:       GroundBodyID,
		Normal:  [3]float32{0, 1, 0},
		Point:   [3]float32{float32(px), float32(py), float32(pz)},
		Impulse: 0,
	}, true
}

// LayersCanCollide applies the layer-mask test: A.mask & B.layer and
// B.mask & A.layer must both be non-zero.
func LayersCanCollide(a, b *Body) bool {
	return (a.Mask&b.Layer) != 0 && (b.Mask&a.Layer) != 0
}
