package coordinator

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/physics"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c := New(DefaultResourceLimits())
	c.Initialize(42, 0)
	return c
}

func TestNewCoordinatorStartsAtRest(t *testing.T) {
	c := newTestCoordinator(t)
	if c.TickCount() != 0 {
		t.Fatalf("expected tick count 0, got %d", c.TickCount())
	}
	counts := c.QueryCounts()
	if counts.Wolves != 0 || counts.Packs != 0 {
		t.Fatalf("expected an empty world, got %+v", counts)
	}
	if counts.Bodies != 1 {
		t.Fatalf("expected exactly the player body, got %d", counts.Bodies)
	}
}

func TestTickAdvancesGameTimeAndTickCount(t *testing.T) {
	c := newTestCoordinator(t)
	c.Tick(1.0 / 60.0)
	c.Tick(1.0 / 60.0)

	if c.TickCount() != 2 {
		t.Fatalf("expected tick count 2, got %d", c.TickCount())
	}
	if gt := c.GameTime(); gt <= 0 {
		t.Fatalf("expected positive game time, got %f", gt)
	}
}

func TestSpawnWolfRespectsMaxWolves(t *testing.T) {
	c := New(ResourceLimits{MaxWolves: 1, MaxPacks: 1, MaxBodies: 8})
	c.Initialize(1, 0)

	if _, ok := c.SpawnWolf(1, 1, wolf.Generic); !ok {
		t.Fatalf("expected the first spawn to succeed")
	}
	if _, ok := c.SpawnWolf(2, 2, wolf.Generic); ok {
		t.Fatalf("expected the second spawn to be rejected at MaxWolves")
	}
	if counts := c.QueryCounts(); counts.Wolves != 1 {
		t.Fatalf("expected exactly 1 wolf, got %d", counts.Wolves)
	}
}

func TestPlayerMovesTowardInputOverTicks(t *testing.T) {
	c := newTestCoordinator(t)
	c.SetPlayerInput(PlayerInput{X: 1, Y: 0})

	start := c.QueryPlayer().Position
	for i := 0; i < 30; i++ {
		c.Tick(1.0 / 60.0)
	}
	end := c.QueryPlayer().Position

	if end.X.Cmp(start.X) <= 0 {
		t.Errorf("expected the player to move in +X after sustained +X input, start=%+v end=%+v", start, end)
	}
}

func TestBlockedCollisionReducesDamageAndDrainsStamina(t *testing.T) {
	c := newTestCoordinator(t)
	id, ok := c.SpawnWolf(0.05, 0, wolf.Generic)
	if !ok {
		t.Fatalf("expected spawn to succeed")
	}
	rec := c.wolves[id]
	rec.w.State = wolf.Attack
	rec.w.Damage = fixedpoint.FromFloat64(20)

	c.Block.Start()
	c.Player.Facing = fixedpoint.NewVec3(fixedpoint.One, 0, 0) // facing +X, wolf is at +X

	hpBefore := c.Player.HP
	staminaBefore := c.Player.Stamina

	c.routeOne(physics.CollisionEvent{A: physics.PlayerBodyID, B: rec.bodyID})

	lost := hpBefore - c.Player.HP
	maxLoss := rec.w.Damage.Div(fixedpoint.FromInt(c.Player.MaxHP)).Mul(blockDamageMultiplier)
	if lost.Cmp(maxLoss) > 0 {
		t.Errorf("expected blocked damage to be <= %v, lost %v", maxLoss, lost)
	}
	if c.Player.Stamina >= staminaBefore {
		t.Errorf("expected a valid block to drain stamina")
	}
}

func TestUnblockedWolfAttackAppliesWolfDamage(t *testing.T) {
	c := newTestCoordinator(t)
	id, _ := c.SpawnWolf(0.05, 0, wolf.Generic)
	rec := c.wolves[id]
	rec.w.State = wolf.Attack
	rec.w.Damage = fixedpoint.FromFloat64(20)

	hpBefore := c.Player.HP
	c.routeOne(physics.CollisionEvent{A: physics.PlayerBodyID, B: rec.bodyID})

	expectedLoss := rec.w.Damage.Div(fixedpoint.FromInt(c.Player.MaxHP))
	lost := hpBefore - c.Player.HP
	if lost != expectedLoss {
		t.Errorf("expected hp loss %v, got %v", expectedLoss, lost)
	}
	if rec.w.SuccessfulAttacks != 1 {
		t.Errorf("expected the wolf's successful-attack counter to increment, got %d", rec.w.SuccessfulAttacks)
	}
	if rec.w.CollisionCooldown <= 0 {
		t.Errorf("expected a collision cooldown to be set after the hit")
	}
}

func TestWolfWolfCollisionSetsCooldownWithoutDamage(t *testing.T) {
	c := newTestCoordinator(t)
	id1, _ := c.SpawnWolf(0, 0, wolf.Generic)
	id2, _ := c.SpawnWolf(0.1, 0, wolf.Generic)
	rec1, rec2 := c.wolves[id1], c.wolves[id2]

	hp1, hp2 := rec1.w.HP, rec2.w.HP
	c.routeOne(physics.CollisionEvent{A: rec1.bodyID, B: rec2.bodyID})

	if rec1.w.HP != hp1 || rec2.w.HP != hp2 {
		t.Errorf("expected wolf-vs-wolf collisions to deal no damage")
	}
	if rec1.w.CollisionCooldown <= 0 || rec2.w.CollisionCooldown <= 0 {
		t.Errorf("expected both wolves to get a collision cooldown")
	}
}

func TestCollisionCooldownSuppressesRepeatDamage(t *testing.T) {
	c := newTestCoordinator(t)
	id, _ := c.SpawnWolf(0.05, 0, wolf.Generic)
	rec := c.wolves[id]
	rec.w.State = wolf.Attack

	c.routeOne(physics.CollisionEvent{A: physics.PlayerBodyID, B: rec.bodyID})
	hpAfterFirst := c.Player.HP
	c.routeOne(physics.CollisionEvent{A: physics.PlayerBodyID, B: rec.bodyID})

	if c.Player.HP != hpAfterFirst {
		t.Errorf("expected the cooldown to suppress a second hit in the same tick")
	}
}

func TestCreatePackAssignsRoles(t *testing.T) {
	c := newTestCoordinator(t)
	id1, _ := c.SpawnWolf(0, 0, wolf.Generic)
	id2, _ := c.SpawnWolf(1, 0, wolf.Generic)

	packID, ok := c.CreatePack([]uint32{id1, id2})
	if !ok {
		t.Fatalf("expected pack creation to succeed")
	}
	if counts := c.QueryCounts(); counts.Packs != 1 {
		t.Fatalf("expected 1 pack, got %d", counts.Packs)
	}
	if c.wolves[id1].w.PackID != packID {
		t.Errorf("expected wolf 1's PackID to be set to the new pack")
	}
}

func TestRemoveWolfClearsItFromItsPack(t *testing.T) {
	c := newTestCoordinator(t)
	id1, _ := c.SpawnWolf(0, 0, wolf.Generic)
	id2, _ := c.SpawnWolf(1, 0, wolf.Generic)
	packID, _ := c.CreatePack([]uint32{id1, id2})

	c.RemoveWolf(id1)

	rec := c.packs[packID]
	for _, id := range rec.p.WolfIDs {
		if id == id1 {
			t.Fatalf("expected wolf 1 to be removed from the pack's id list")
		}
	}
}

func TestDamageWolfAppliesAmountAndKnockback(t *testing.T) {
	c := newTestCoordinator(t)
	id, _ := c.SpawnWolf(0, 0, wolf.Generic)
	rec := c.wolves[id]
	hpBefore := rec.w.HP

	c.DamageWolf(id, 15, 1, 0)

	if rec.w.HP.Cmp(hpBefore) >= 0 {
		t.Errorf("expected DamageWolf to reduce hp")
	}
	body := c.World.Store.Get(rec.bodyID)
	if body.Velocity.X <= 0 {
		t.Errorf("expected knockback to add +X velocity, got %+v", body.Velocity)
	}
}

func TestResetClearsWolvesAndPacks(t *testing.T) {
	c := newTestCoordinator(t)
	id1, _ := c.SpawnWolf(0, 0, wolf.Generic)
	c.CreatePack([]uint32{id1})

	c.Reset(7)

	counts := c.QueryCounts()
	if counts.Wolves != 0 || counts.Packs != 0 {
		t.Fatalf("expected Reset to clear wolves and packs, got %+v", counts)
	}
}
