package player

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
)

func newTestPlayer() *Player {
	return New(fixedpoint.Vec3FromFloat64(0.5, 0, 0.5), 100)
}

func TestMoveZeroInputZeroesVelocity(t *testing.T) {
	p := newTestPlayer()
	p.Velocity = fixedpoint.Vec3FromFloat64(1, 0, 1)
	p.Update(fixedpoint.FromFloat64(1.0/60.0), fixedpoint.Vec3Zero, fixedpoint.One)
	if !p.Velocity.IsZero() {
		t.Errorf("expected velocity zeroed with no input, got %v", p.Velocity)
	}
}

func TestMoveTowardsTargetVelocity(t *testing.T) {
	p := newTestPlayer()
	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	input := fixedpoint.NewVec3(fixedpoint.One, 0, 0)
	for i := 0; i < 30; i++ {
		p.Update(dt, input, fixedpoint.One)
	}
	if p.Velocity.X.ToFloat64() <= 0 {
		t.Errorf("expected positive X velocity after sustained input, got %f", p.Velocity.X.ToFloat64())
	}
}

func TestPositionClampedToUnitBox(t *testing.T) {
	p := newTestPlayer()
	p.Position = fixedpoint.Vec3FromFloat64(0.999, 0, 0.999)
	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	input := fixedpoint.NewVec3(fixedpoint.One, 0, fixedpoint.One)
	for i := 0; i < 60; i++ {
		p.Update(dt, input, fixedpoint.One)
	}
	if p.Position.X.ToFloat64() > 1.0001 || p.Position.Z.ToFloat64() > 1.0001 {
		t.Errorf("expected position clamped to [0,1]^2, got %v", p.Position)
	}
}

func TestStaminaRegenCapped(t *testing.T) {
	p := newTestPlayer()
	p.Stamina = fixedpoint.FromFloat64(0.5)
	for i := 0; i < 600; i++ {
		p.Update(fixedpoint.FromFloat64(1.0/60.0), fixedpoint.Vec3Zero, fixedpoint.One)
	}
	if p.Stamina.ToFloat64() > 1.0001 {
		t.Errorf("expected stamina capped at 1.0, got %f", p.Stamina.ToFloat64())
	}
}

func TestHealthSyncsFromHP(t *testing.T) {
	p := newTestPlayer()
	p.HP = fixedpoint.FromFloat64(0.5)
	p.Update(fixedpoint.FromFloat64(1.0/60.0), fixedpoint.Vec3Zero, fixedpoint.One)
	if p.Health != 50 {
		t.Errorf("expected health synced to round(hp*maxHP)=50, got %d", p.Health)
	}
}

func TestBashMinChargeCancelsForFree(t *testing.T) {
	p := newTestPlayer()
	stamina := p.Stamina
	p.BashBeginCharge()
	p.BashTickCharge(fixedpoint.FromFloat64(0.05)) // below bashMinCharge
	p.BashRelease()

	if p.Bash.Phase != BashIdle {
		t.Errorf("expected cancel to return to Idle")
	}
	if p.Active != AbilityNone {
		t.Errorf("expected ability slot freed after cancel")
	}
	if p.Stamina != stamina {
		t.Errorf("expected no stamina cost on cancel")
	}
}

func TestBashReleaseAboveMinConsumesStaminaAndImpulses(t *testing.T) {
	p := newTestPlayer()
	p.Facing = fixedpoint.NewVec3(fixedpoint.One, 0, 0)
	p.BashBeginCharge()
	for i := 0; i < 30; i++ {
		p.BashTickCharge(fixedpoint.FromFloat64(1.0 / 60.0))
	}
	startStamina := p.Stamina
	p.BashRelease()

	if p.Bash.Phase != BashActive {
		t.Errorf("expected bash to enter Active phase")
	}
	if p.Velocity.X.ToFloat64() <= 0 {
		t.Errorf("expected forward impulse along facing")
	}
	if p.Stamina >= startStamina {
		t.Errorf("expected stamina consumed on release")
	}
}

func TestAbilitiesAreMutuallyExclusive(t *testing.T) {
	p := newTestPlayer()
	if !p.BashBeginCharge() {
		t.Fatalf("expected bash to start cleanly")
	}
	if p.ChargeBegin() {
		t.Errorf("expected charge to be rejected while bash is active")
	}
	if p.DashBegin(fixedpoint.Vec3Zero) {
		t.Errorf("expected dash to be rejected while bash is active")
	}
}

func TestChargeGrantsHyperarmorAndEndsOnDuration(t *testing.T) {
	p := newTestPlayer()
	p.ChargeBegin()
	if !p.HasHyperarmor() {
		t.Fatalf("expected hyperarmor while charging")
	}
	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	for i := 0; i < 200; i++ {
		p.ChargeTick(dt)
	}
	if p.HasHyperarmor() {
		t.Errorf("expected charge to end after its duration")
	}
	if p.Active != AbilityNone {
		t.Errorf("expected ability slot freed after charge ends")
	}
}

func TestDashReachesTargetAndGrantsInvulnerability(t *testing.T) {
	p := newTestPlayer()
	p.Facing = fixedpoint.NewVec3(fixedpoint.One, 0, 0)
	p.DashBegin(fixedpoint.Vec3Zero)
	if !p.IsInvulnerable() {
		t.Fatalf("expected i-frames active during dash")
	}

	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		p.DashTick(dt)
	}

	if p.IsInvulnerable() {
		t.Errorf("expected dash to end and drop invulnerability")
	}
	dist := p.Position.Sub(p.Dash.Start).Length().ToFloat64()
	if dist < 0.18 {
		t.Errorf("expected dash to travel close to its configured distance, got %f", dist)
	}
}

func TestDashComboScalesWithLevel(t *testing.T) {
	p := newTestPlayer()
	p.DashBegin(fixedpoint.NewVec3(fixedpoint.One, 0, 0))
	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		p.DashTick(dt)
	}

	damage1 := p.DashOnHit()
	if p.Dash.ComboLevel != 1 {
		t.Fatalf("expected combo level 1 after first hit, got %d", p.Dash.ComboLevel)
	}
	damage2 := p.DashOnHit()
	if damage2.Cmp(damage1) <= 0 {
		t.Errorf("expected damage to increase with combo level")
	}
}

func TestDashBeginConsumesStamina(t *testing.T) {
	p := newTestPlayer()
	start := p.Stamina
	if !p.DashBegin(fixedpoint.NewVec3(fixedpoint.One, 0, 0)) {
		t.Fatalf("expected dash to start cleanly")
	}
	if p.Stamina >= start {
		t.Errorf("expected stamina consumed on dash begin")
	}
}

func TestJumpRisesAndLandsBackOnGround(t *testing.T) {
	p := newTestPlayer()
	if !p.OnGround {
		t.Fatalf("expected player to start on the ground")
	}
	if !p.Jump() {
		t.Fatalf("expected jump to succeed from the ground")
	}
	if p.JumpCount != 1 {
		t.Errorf("expected jump count 1, got %d", p.JumpCount)
	}
	if p.Jump() {
		t.Errorf("expected a second jump to be rejected while airborne")
	}

	dt := fixedpoint.FromFloat64(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		p.Update(dt, fixedpoint.Vec3Zero, fixedpoint.One)
	}
	if !p.OnGround {
		t.Errorf("expected player to land back on the ground")
	}
	if p.Velocity.Y != 0 {
		t.Errorf("expected vertical velocity to zero out on landing, got %v", p.Velocity.Y)
	}
}

func TestTouchingWallAtWorldBounds(t *testing.T) {
	p := newTestPlayer()
	p.Position = fixedpoint.Vec3FromFloat64(0.999, 0, 0.5)
	p.Update(fixedpoint.FromFloat64(1.0/60.0), fixedpoint.NewVec3(fixedpoint.One, 0, 0), fixedpoint.One)
	if !p.TouchingWall {
		t.Errorf("expected touching-wall flag set at the world boundary")
	}
}
