package pack

import (
	"testing"

	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

func newTestWolf(id uint32, aggression, coordination, speed, awareness float64) *wolf.Wolf {
	w := wolf.New(id, wolf.Generic, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(100))
	w.Personality.Aggression = fixedpoint.FromFloat64(aggression)
	w.Personality.Coordination = fixedpoint.FromFloat64(coordination)
	w.Personality.Awareness = fixedpoint.FromFloat64(awareness)
	w.BaseSpeed = fixedpoint.FromFloat64(speed)
	return w
}

func TestScoreboardRanksDescendingByScore(t *testing.T) {
	sb := newScoreboard()
	sb.insert(1, 10)
	sb.insert(2, 30)
	sb.insert(3, 20)

	top, ok := sb.top()
	if !ok || top != 2 {
		t.Fatalf("expected id 2 to rank first, got %d (ok=%v)", top, ok)
	}
	if r := sb.rank(3); r != 2 {
		t.Errorf("expected id 3 to rank 2nd, got %d", r)
	}
}

func TestAssignRolesPicksDistinctTopScorers(t *testing.T) {
	wolves := []*wolf.Wolf{
		newTestWolf(1, 0.9, 0.2, 2.0, 0.1), // highest aggression -> Bruiser
		newTestWolf(2, 0.3, 0.9, 2.0, 0.1), // highest coordination -> Leader
		newTestWolf(3, 0.3, 0.2, 5.0, 0.1), // fastest -> Skirmisher
		newTestWolf(4, 0.3, 0.2, 2.0, 0.9), // most aware -> Scout
		newTestWolf(5, 0.1, 0.1, 1.0, 0.1), // leftover -> Support
	}
	ids := make([]uint32, len(wolves))
	for i, w := range wolves {
		ids[i] = w.ID
	}

	p := New(1, ids)
	p.AssignRoles(wolves)

	cases := map[uint32]Role{1: RoleBruiser, 2: RoleLeader, 3: RoleSkirmisher, 4: RoleScout, 5: RoleSupport}
	for id, want := range cases {
		if got := p.RoleOf(id); got != want {
			t.Errorf("wolf %d: expected role %v, got %v", id, want, got)
		}
	}
	if p.LeaderIndex != 1 {
		t.Errorf("expected leader index 1 (wolf id 2), got %d", p.LeaderIndex)
	}
}

func TestAssignRolesDoesNotDoubleAssignATopScorerAcrossBoards(t *testing.T) {
	// Wolf 1 tops every board; it should only take the first role in
	// priority order (Bruiser), leaving the others to runners-up.
	wolves := []*wolf.Wolf{
		newTestWolf(1, 0.9, 0.9, 9.0, 0.9),
		newTestWolf(2, 0.5, 0.5, 5.0, 0.5),
		newTestWolf(3, 0.4, 0.4, 4.0, 0.4),
	}
	ids := []uint32{1, 2, 3}
	p := New(1, ids)
	p.AssignRoles(wolves)

	if p.RoleOf(1) != RoleBruiser {
		t.Errorf("expected wolf 1 (top of every board) to get the first role, Bruiser, got %v", p.RoleOf(1))
	}
	if p.RoleOf(2) == RoleBruiser {
		t.Errorf("wolf 2 should not also be Bruiser")
	}
}

func TestChoosePlanRetreatsOnLowMorale(t *testing.T) {
	wolves := []*wolf.Wolf{newTestWolf(1, 0.5, 0.5, 3.0, 0.5)}
	wolves[0].Morale = fixedpoint.FromFloat64(0.1)

	p := New(1, []uint32{1})
	ctx := Context{PlayerPosition: fixedpoint.Vec3Zero, MaxConcurrentAttackers: 2}
	p.Update(fixedpoint.FromFloat64(0.1), wolves, ctx)

	if p.Plan != PlanRetreat {
		t.Errorf("expected low-morale pack to choose Retreat, got %v", p.Plan)
	}
}

func TestExecutePincerGivesNonLeadersDistinctTargets(t *testing.T) {
	wolves := []*wolf.Wolf{
		newTestWolf(1, 0.1, 0.9, 3.0, 0.1), // becomes Leader (highest coordination)
		newTestWolf(2, 0.5, 0.2, 3.0, 0.3), // highest aggression -> Bruiser
		newTestWolf(3, 0.4, 0.2, 3.0, 0.3),
	}
	wolves[0].Position = fixedpoint.Vec3FromFloat64(0, 0, -1)
	ids := []uint32{1, 2, 3}

	p := New(1, ids)
	p.AssignRoles(wolves)
	p.Plan = PlanPincer
	p.PlanTimer = fixedpoint.FromFloat64(5.0)

	ctx := Context{PlayerPosition: fixedpoint.Vec3FromFloat64(0, 0, 5), MaxConcurrentAttackers: 2}
	p.execute(wolves, ctx)

	if !wolves[1].HasPackTarget || !wolves[2].HasPackTarget {
		t.Fatalf("expected non-leader wolves to receive pack targets")
	}
	if wolves[1].PackTargetPosition == wolves[2].PackTargetPosition {
		t.Errorf("expected pincer to send the two flankers to distinct positions")
	}
}

func TestExecuteCommitOrdersAttack(t *testing.T) {
	wolves := []*wolf.Wolf{
		newTestWolf(1, 0.9, 0.2, 3.0, 0.3),
		newTestWolf(2, 0.3, 0.9, 3.0, 0.3), // Leader, skipped
	}
	ids := []uint32{1, 2}
	p := New(1, ids)
	p.AssignRoles(wolves)
	p.Plan = PlanCommit

	ctx := Context{PlayerPosition: fixedpoint.Vec3Zero, MaxConcurrentAttackers: 2}
	p.execute(wolves, ctx)

	if !wolves[0].PackCommandReceived || wolves[0].PackCommandedState != wolf.Attack {
		t.Errorf("expected non-leader wolf to be commanded to Attack under Commit")
	}
	if wolves[1].PackCommandReceived {
		t.Errorf("expected the leader to be left alone by pack commands")
	}
}

func TestArbitrateAttackersRespectsBudget(t *testing.T) {
	wolves := []*wolf.Wolf{
		newTestWolf(1, 0.9, 0.5, 3.0, 0.5),
		newTestWolf(2, 0.2, 0.5, 3.0, 0.5),
		newTestWolf(3, 0.5, 0.5, 3.0, 0.5),
	}
	wolves[0].Position = fixedpoint.Vec3FromFloat64(0, 0, 0.1) // closest
	wolves[1].Position = fixedpoint.Vec3FromFloat64(0, 0, 1.0)
	wolves[2].Position = fixedpoint.Vec3FromFloat64(0, 0, 0.5)

	attackRange := fixedpoint.FromFloat64(1.2)
	allowed := ArbitrateAttackers(wolves, fixedpoint.Vec3Zero, attackRange, 2)

	if len(allowed) != 2 {
		t.Fatalf("expected exactly 2 wolves allowed to attack, got %d", len(allowed))
	}
	if !allowed[1] {
		t.Errorf("expected the closest wolf (id 1) to win a slot")
	}
	if allowed[2] {
		t.Errorf("expected the farthest wolf (id 2) to lose its slot")
	}
}

func TestArbitrateAttackersAllowsAllUnderBudget(t *testing.T) {
	wolves := []*wolf.Wolf{newTestWolf(1, 0.5, 0.5, 3.0, 0.5)}
	allowed := ArbitrateAttackers(wolves, fixedpoint.Vec3Zero, fixedpoint.FromFloat64(1.2), 2)
	if len(allowed) != 1 || !allowed[1] {
		t.Errorf("expected the single requesting wolf to be allowed when under budget")
	}
}
