package combat

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
)

func TestAttackFullCycle(t *testing.T) {
	a := &Attack{}
	combo := &Combo{}
	stamina := fixedpoint.One

	stamina, ok := a.Begin(AttackLight, stamina)
	if !ok {
		t.Fatalf("expected light attack to begin")
	}
	if a.Phase != AttackWindup {
		t.Fatalf("expected Windup phase")
	}

	dt := fixedpoint.FromFloat64(0.3)
	a.Tick(dt, combo)
	if a.Phase != AttackActive {
		t.Fatalf("expected Active phase after windup elapses, got %v", a.Phase)
	}

	a.Tick(fixedpoint.FromFloat64(0.2), combo)
	if a.Phase != AttackRecovery {
		t.Fatalf("expected Recovery phase after active elapses, got %v", a.Phase)
	}

	a.Tick(fixedpoint.FromFloat64(0.4), combo)
	if a.Phase != AttackIdle {
		t.Fatalf("expected Idle phase after recovery elapses, got %v", a.Phase)
	}
	_ = stamina
}

func TestAttackInsufficientStaminaRejected(t *testing.T) {
	a := &Attack{}
	_, ok := a.Begin(AttackSpecial, fixedpoint.FromFloat64(0.1))
	if ok {
		t.Errorf("expected special attack to be rejected with insufficient stamina")
	}
}

func TestHeavyAttackResetsCombo(t *testing.T) {
	a := &Attack{}
	combo := &Combo{Count: 3, Window: fixedpoint.FromFloat64(0.5)}
	a.Begin(AttackHeavy, fixedpoint.One)
	a.Tick(fixedpoint.FromFloat64(0.3), combo)

	if combo.Count != 0 || combo.Window != 0 {
		t.Errorf("expected heavy attack to reset combo, got count=%d window=%v", combo.Count, combo.Window)
	}
}

func TestFeintOnlyValidDuringWindup(t *testing.T) {
	a := &Attack{}
	if a.Feint() {
		t.Errorf("expected feint to fail from Idle")
	}
	a.Begin(AttackLight, fixedpoint.One)
	if !a.Feint() {
		t.Errorf("expected feint to succeed during Windup")
	}
	if a.Phase != AttackIdle {
		t.Errorf("expected feint to return to Idle")
	}
}

func TestSpecialAttackSetsHyperarmor(t *testing.T) {
	a := &Attack{}
	a.Begin(AttackSpecial, fixedpoint.One)
	if !a.Hyperarmor {
		t.Errorf("expected special attack to set hyperarmor during windup/active")
	}
	combo := &Combo{}
	a.Tick(fixedpoint.FromFloat64(0.3), combo) // -> Active
	if !a.Hyperarmor {
		t.Errorf("expected hyperarmor to persist through Active")
	}
	a.Tick(fixedpoint.FromFloat64(0.2), combo) // -> Recovery
	if a.Hyperarmor {
		t.Errorf("expected hyperarmor dropped at end of Active")
	}
}

func TestRollFullCycle(t *testing.T) {
	r := &Roll{}
	stamina, ok := r.Begin(fixedpoint.One)
	if !ok || r.Phase != RollActive {
		t.Fatalf("expected roll to begin into Active")
	}
	if !r.IsInvulnerable() {
		t.Errorf("expected invulnerability during Active")
	}

	r.Tick(fixedpoint.FromFloat64(0.6))
	if r.Phase != RollCooldown {
		t.Fatalf("expected Cooldown phase after active elapses, got %v", r.Phase)
	}
	if r.IsInvulnerable() {
		t.Errorf("expected no invulnerability during cooldown")
	}

	r.Tick(fixedpoint.FromFloat64(1.0))
	if r.Phase != RollIdle {
		t.Fatalf("expected Idle after cooldown elapses, got %v", r.Phase)
	}
	_ = stamina
}

func TestRollRejectedWhileNotIdle(t *testing.T) {
	r := &Roll{}
	r.Begin(fixedpoint.One)
	if _, ok := r.Begin(fixedpoint.One); ok {
		t.Errorf("expected roll to reject re-entry while Active")
	}
}

func TestBlockPerfectParryOpensCounterWindow(t *testing.T) {
	b := &Block{}
	b.Start()
	outcome, strength := b.ResolveIncoming(false)
	if outcome != HitPerfectParry {
		t.Fatalf("expected perfect parry immediately after block start, got %v", outcome)
	}
	if strength.ToFloat64() < 0.99 {
		t.Errorf("expected near-full parry strength at t=0, got %f", strength.ToFloat64())
	}
	if !b.HasCounterWindow() {
		t.Errorf("expected counter window open after perfect parry")
	}
}

func TestBlockLateBlockIsJustBlocked(t *testing.T) {
	b := &Block{}
	b.Start()
	b.Tick(fixedpoint.FromFloat64(0.3), fixedpoint.One) // past 0.2s parry window
	outcome, _ := b.ResolveIncoming(false)
	if outcome != HitBlocked {
		t.Errorf("expected Blocked outcome past the parry window, got %v", outcome)
	}
}

func TestBlockInvulnerableBeatsEverything(t *testing.T) {
	b := &Block{}
	b.Start()
	outcome, _ := b.ResolveIncoming(true)
	if outcome != HitMiss {
		t.Errorf("expected invulnerability to produce Miss regardless of block state, got %v", outcome)
	}
}

func TestBlockNoBlockIsHit(t *testing.T) {
	b := &Block{}
	outcome, _ := b.ResolveIncoming(false)
	if outcome != HitLanded {
		t.Errorf("expected Hit when not blocking or invulnerable, got %v", outcome)
	}
}

func TestBlockStaminaDrainStopsAtFloor(t *testing.T) {
	b := &Block{}
	b.Start()
	stamina := fixedpoint.FromFloat64(0.005)
	stamina = b.Tick(fixedpoint.FromFloat64(1.0/60.0), stamina)
	if b.Active {
		t.Errorf("expected block to auto-stop once stamina drops below floor")
	}
	if stamina != 0 {
		t.Errorf("expected stamina clamped to zero, got %f", stamina.ToFloat64())
	}
}

func TestComboRegisterHitScalesDamage(t *testing.T) {
	c := &Combo{}
	def := DefaultUnarmedCombo()
	m1 := c.RegisterHit(def)
	c.Window = def.Window
	m2 := c.RegisterHit(def)
	if m2.Cmp(m1) <= 0 {
		t.Errorf("expected damage scale to increase across a combo chain")
	}
}

func TestComboWindowExpiryResetsChain(t *testing.T) {
	c := &Combo{Count: 2, Window: fixedpoint.FromFloat64(0.05)}
	c.Tick(fixedpoint.FromFloat64(0.1))
	if c.Count != 0 {
		t.Errorf("expected combo reset once window expires, got count=%d", c.Count)
	}
}
