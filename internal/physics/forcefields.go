package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// FieldKind selects how a ForceField pushes bodies.
type FieldKind uint8

const (
	FieldAttract FieldKind = iota
	FieldRepel
	FieldWind
)

// ForceField applies a constant-falloff acceleration to every
// non-sleeping body within reach every step, before integration.
// For Attract and Repel a positive Radius is a hard cutoff: bodies
// farther away are not affected. Wind ignores Radius.
type ForceField struct {
	Kind      FieldKind
	Position  fixedpoint.Vec3 // ignored for Wind
	Direction fixedpoint.Vec3 // normalized, used only for Wind
	Radius    fixedpoint.Fixed
	Strength  fixedpoint.Fixed
}

// Apply accumulates this field's contribution into the body's
// acceleration, scaled by inverse mass so heavier bodies accelerate
// less. Sleeping and Static bodies are untouched.
func (f ForceField) Apply(b *Body) {
	if b.Kind == Static || (b.Kind == Dynamic && b.Sleeping) {
		return
	}

	var dir fixedpoint.Vec3
	switch f.Kind {
	case FieldWind:
		dir = f.Direction
	case FieldAttract, FieldRepel:
		delta := f.Position.Sub(b.Position)
		if f.Radius > 0 && delta.LengthSquared().Cmp(f.Radius.Mul(f.Radius)) > 0 {
			return
		}
		dir = delta.Normalized()
		if f.Kind == FieldRepel {
			dir = dir.Negate()
		}
	default:
		return
	}

	accel := dir.Scale(f.Strength.Mul(b.InverseMass))
	b.Acceleration = b.Acceleration.Add(accel)
}

// ApplyForceFields runs every field against every simulating body in
// store order.
func ApplyForceFields(store *Store, fields []ForceField) {
	store.Each(func(b *Body) {
		if !b.ShouldSimulate() {
			return
		}
		for _, f := range fields {
			f.Apply(b)
		}
	})
}
