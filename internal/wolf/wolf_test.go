package wolf

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/game/spatial"
)

func baseContext(playerPos fixedpoint.Vec3) Context {
	return Context{
		PlayerPosition:         playerPos,
		PlayerAlive:            true,
		MaxConcurrentAttackers: 2,
	}
}

func TestNewWolfStartsIdle(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	if w.State != Idle {
		t.Errorf("expected new wolf to start Idle, got %v", w.State)
	}
}

func TestRetreatInterruptBeatsEverything(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.HP = fixedpoint.FromFloat64(10) // below 30% of 100
	w.State = Attack

	tunables := DefaultTunables()
	ctx := baseContext(fixedpoint.Vec3FromFloat64(0.5, 0, 0))
	w.Update(fixedpoint.FromFloat64(1.0/60.0), tunables, ctx)

	if w.State != Retreat {
		t.Errorf("expected low-HP interrupt to force Retreat, got %v", w.State)
	}
}

func TestAttackInterruptOnCloseRange(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	tunables := DefaultTunables()
	// Well within attack_range * 0.6
	close := fixedpoint.Vec3FromFloat64(tunables.AttackRange.ToFloat64()*0.3, 0, 0)
	ctx := baseContext(close)

	w.Update(fixedpoint.FromFloat64(1.0/60.0), tunables, ctx)

	if w.State != Attack {
		t.Errorf("expected close-range interrupt to force Attack, got %v", w.State)
	}
}

func TestDistantWolfGoesIdleOrPatrol(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.StateTimer = 0
	w.DecisionTimer = 0
	tunables := DefaultTunables()
	far := fixedpoint.Vec3FromFloat64(tunables.DetectionRange.ToFloat64()*5, 0, 0)
	ctx := baseContext(far)

	w.Update(fixedpoint.FromFloat64(1.0/60.0), tunables, ctx)

	if w.State != Idle {
		t.Errorf("expected far-away wolf to settle to Idle, got %v", w.State)
	}
}

func TestShouldAttackRejectsBadFacing(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.Facing = fixedpoint.NewVec3(0, 0, fixedpoint.One) // facing perpendicular to player
	tunables := DefaultTunables()
	ctx := baseContext(fixedpoint.Vec3FromFloat64(1, 0, 0))

	reason := w.shouldAttack(tunables, ctx)
	if reason != GateFacing {
		t.Errorf("expected facing gate to reject, got %v", reason)
	}
	if w.Diagnostics.FacingRejections != 1 {
		t.Errorf("expected facing rejection counted, got %d", w.Diagnostics.FacingRejections)
	}
}

func TestShouldAttackRejectsAtThreatBudget(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.Facing = fixedpoint.NewVec3(fixedpoint.One, 0, 0)
	tunables := DefaultTunables()
	ctx := baseContext(fixedpoint.Vec3FromFloat64(1, 0, 0))
	ctx.ConcurrentAttackers = 2
	ctx.MaxConcurrentAttackers = 2

	reason := w.shouldAttack(tunables, ctx)
	if reason != GateThreatBudget {
		t.Errorf("expected threat-budget gate to reject, got %v", reason)
	}
}

func TestEmotionTracksHealth(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.HP = fixedpoint.FromFloat64(10)
	tunables := DefaultTunables()
	w.updateEmotion(tunables)
	if w.Emotion != Fearful {
		t.Errorf("expected low HP to produce Fearful emotion, got %v", w.Emotion)
	}
}

func TestMemoryRecordsLastKnownPosition(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	pos := fixedpoint.Vec3FromFloat64(3, 0, 4)
	ctx := baseContext(pos)
	w.updateMemory(ctx)

	if !w.Memory.HasLastKnown || w.Memory.LastKnown != pos {
		t.Errorf("expected memory to record last known player position")
	}
}

func TestJitterIsDeterministicPerID(t *testing.T) {
	a := jitterFor(42, uint32(Idle))
	b := jitterFor(42, uint32(Idle))
	c := jitterFor(43, uint32(Idle))
	if a != b {
		t.Errorf("expected jitter to be deterministic for the same id/salt")
	}
	if a == c {
		t.Errorf("expected different ids to (almost always) produce different jitter")
	}
	if a.Abs().Cmp(maxJitter) > 0 {
		t.Errorf("expected jitter magnitude bounded by maxJitter, got %f", a.ToFloat64())
	}
}

func TestApproachUsesFlowFieldAtLongRange(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.State = Approach
	w.StateTimer = fixedpoint.FromFloat64(10)
	w.DecisionTimer = fixedpoint.FromFloat64(10)

	field := spatial.NewFlowField(20, 20, 1.0)
	field.Generate(10, 0) // goal off to +X, opposite of the player's actual position

	ctx := baseContext(fixedpoint.Vec3FromFloat64(0, 0, -8)) // player far off on -Z
	ctx.ApproachFlowField = field

	tunables := DefaultTunables()
	w.updatePhysics(fixedpoint.FromFloat64(1.0/60.0), tunables, ctx)

	// With the flow field pointing toward +X and blended against the
	// direct -Z heading, the resulting velocity should pick up some +X
	// component rather than moving purely along -Z.
	if w.Velocity.X <= 0 {
		t.Errorf("expected flow-field blending to introduce a +X velocity component, got %+v", w.Velocity)
	}
}

func TestPackCommandOverridesNormalEvaluation(t *testing.T) {
	w := New(1, Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.PackCommandReceived = true
	w.PackCommandedState = Retreat

	tunables := DefaultTunables()
	ctx := baseContext(fixedpoint.Vec3FromFloat64(0.5, 0, 0))
	w.Update(fixedpoint.FromFloat64(1.0/60.0), tunables, ctx)

	if w.State != Retreat {
		t.Errorf("expected pack command to set state to Retreat, got %v", w.State)
	}
	if w.PackCommandReceived {
		t.Errorf("expected pack command flag consumed after honoring it")
	}
}
