package physics

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
)

func TestForceFieldAttractPullsTowardPosition(t *testing.T) {
	b := NewBody(1, Dynamic, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.One)
	field := ForceField{
		Kind:     FieldAttract,
		Position: fixedpoint.Vec3Zero,
		Strength: fixedpoint.One,
	}
	field.Apply(b)

	if b.Acceleration.X >= 0 {
		t.Errorf("expected attract field to accelerate body toward origin (negative X), got %v", b.Acceleration.X.ToFloat64())
	}
}

func TestForceFieldRepelPushesAway(t *testing.T) {
	b := NewBody(1, Dynamic, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.One)
	field := ForceField{
		Kind:     FieldRepel,
		Position: fixedpoint.Vec3Zero,
		Strength: fixedpoint.One,
	}
	field.Apply(b)

	if b.Acceleration.X <= 0 {
		t.Errorf("expected repel field to accelerate body away from origin (positive X), got %v", b.Acceleration.X.ToFloat64())
	}
}

func TestForceFieldWindUsesDirectionOnly(t *testing.T) {
	b := NewBody(1, Dynamic, fixedpoint.Vec3FromFloat64(100, 0, 100), fixedpoint.One)
	field := ForceField{
		Kind:      FieldWind,
		Direction: fixedpoint.NewVec3(fixedpoint.One, 0, 0),
		Strength:  fixedpoint.One,
	}
	field.Apply(b)

	if b.Acceleration.X.ToFloat64() <= 0 {
		t.Errorf("expected wind to accelerate along its direction regardless of position")
	}
}

func TestForceFieldRespectsRadius(t *testing.T) {
	b := NewBody(1, Dynamic, fixedpoint.Vec3FromFloat64(100, 0, 0), fixedpoint.One)
	field := ForceField{
		Kind:     FieldAttract,
		Position: fixedpoint.Vec3Zero,
		Radius:   fixedpoint.FromFloat64(1),
		Strength: fixedpoint.One,
	}
	field.Apply(b)

	if !b.Acceleration.IsZero() {
		t.Errorf("expected out-of-radius body to be unaffected, got %v", b.Acceleration)
	}
}

func TestForceFieldSkipsSleepingAndStatic(t *testing.T) {
	sleeping := NewBody(1, Dynamic, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.One)
	sleeping.Sleeping = true
	static := NewBody(2, Static, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.One)

	field := ForceField{Kind: FieldAttract, Position: fixedpoint.Vec3Zero, Strength: fixedpoint.One}
	field.Apply(sleeping)
	field.Apply(static)

	if !sleeping.Acceleration.IsZero() || !static.Acceleration.IsZero() {
		t.Errorf("expected sleeping/static bodies to be untouched by force fields")
	}
}

func TestApplyForceFieldsScalesByInverseMass(t *testing.T) {
	s := NewStore()
	lightID := s.CreateBody(Dynamic, NewBody(0, Dynamic, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.FromFloat64(1)))
	heavyID := s.CreateBody(Dynamic, NewBody(0, Dynamic, fixedpoint.Vec3FromFloat64(5, 0, 0), fixedpoint.FromFloat64(10)))

	fields := []ForceField{{Kind: FieldRepel, Position: fixedpoint.Vec3Zero, Strength: fixedpoint.One}}
	ApplyForceFields(s, fields)

	light := s.Get(lightID).Acceleration.Length().ToFloat64()
	heavy := s.Get(heavyID).Acceleration.Length().ToFloat64()
	if light <= heavy {
		t.Errorf("expected lighter body to accelerate more: light=%f heavy=%f", light, heavy)
	}
}
