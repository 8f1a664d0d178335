// Package pack implements the wolf pack planner: plan selection, role
// assignment, and cross-pack concurrent-attacker budget arbitration.
// It operates on *wolf.Wolf records it does not own — the coordinator
// constructs a Pack around a set of wolf ids and calls Update once per
// tick after the wolves' own per-agent updates.
package pack

import (
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

// Plan is the pack's current coordinated behavior.
type Plan int

const (
	PlanNone Plan = iota
	PlanAmbush
	PlanPincer
	PlanRetreat
	PlanCommit
	PlanFlank
	PlanDistract
	PlanRegroup
)

// Role is a wolf's assigned job within its pack, re-derived whenever
// roles are assigned.
type Role int

const (
	RoleSupport Role = iota
	RoleBruiser
	RoleLeader
	RoleSkirmisher
	RoleScout
)

var (
	planDefaultDuration = fixedpoint.FromFloat64(5.0)
	pincerSpreadRadians = fixedpoint.FromFloat64(2.0) // ~115 degrees either side of the leader's heading
	flankOffset         = fixedpoint.FromFloat64(2.5)
	regroupRadius       = fixedpoint.FromFloat64(1.5)
)

// Pack is one coordinated group of wolves.
type Pack struct {
	ID      int
	WolfIDs []uint32

	Plan      Plan
	PlanTimer fixedpoint.Fixed

	CoordinationBonus fixedpoint.Fixed
	Morale            fixedpoint.Fixed
	LeaderIndex       int

	roles map[uint32]Role
}

// New builds an empty pack over the given wolf ids, in plan None.
func New(id int, wolfIDs []uint32) *Pack {
	ids := make([]uint32, len(wolfIDs))
	copy(ids, wolfIDs)
	return &Pack{
		ID:          id,
		WolfIDs:     ids,
		Plan:        PlanNone,
		Morale:      fixedpoint.One,
		LeaderIndex: -1,
		roles:       make(map[uint32]Role),
	}
}

// RoleOf returns the role last assigned to a wolf id, or RoleSupport
// if the wolf has never had roles assigned (or left the pack).
func (p *Pack) RoleOf(id uint32) Role {
	if r, ok := p.roles[id]; ok {
		return r
	}
	return RoleSupport
}

// AssignRoles ranks the pack's wolves on four scoreboards — aggression,
// coordination, base speed, awareness — and assigns the top scorer on
// each to Bruiser, Leader, Skirmisher, and Scout respectively; everyone
// else is Support. Ties, and a wolf topping more than one board, are
// broken by preferring the earliest-unassigned role in that fixed
// order (Bruiser before Leader before Skirmisher before Scout), so
// assignment is a pure function of the wolves' stats and ids
// regardless of slice iteration order.
func (p *Pack) AssignRoles(wolves []*wolf.Wolf) {
	byID := indexByID(wolves)
	present := p.presentWolves(byID)
	if len(present) == 0 {
		return
	}

	p.roles = make(map[uint32]Role, len(present))
	for _, w := range present {
		p.roles[w.ID] = RoleSupport
	}

	assigned := make(map[uint32]bool, len(present))
	assign := func(role Role, scoreOf func(*wolf.Wolf) fixedpoint.Fixed) {
		top := topScoring(present, assigned, scoreOf)
		if top == nil {
			return
		}
		p.roles[top.ID] = role
		assigned[top.ID] = true
		if role == RoleLeader {
			for i, id := range p.WolfIDs {
				if id == top.ID {
					p.LeaderIndex = i
					break
				}
			}
		}
	}

	assign(RoleBruiser, func(w *wolf.Wolf) fixedpoint.Fixed { return w.Personality.Aggression })
	assign(RoleLeader, func(w *wolf.Wolf) fixedpoint.Fixed { return w.Personality.Coordination })
	assign(RoleSkirmisher, func(w *wolf.Wolf) fixedpoint.Fixed { return w.BaseSpeed })
	assign(RoleScout, func(w *wolf.Wolf) fixedpoint.Fixed { return w.Personality.Awareness })
}

// topScoring returns the highest-scoring not-yet-assigned wolf,
// breaking ties by the lexically smallest decimal id string (so id 10
// wins over id 9), which keeps the result independent of input slice
// order.
func topScoring(wolves []*wolf.Wolf, assigned map[uint32]bool, scoreOf func(*wolf.Wolf) fixedpoint.Fixed) *wolf.Wolf {
	sb := newScoreboard()
	for _, w := range wolves {
		if assigned[w.ID] {
			continue
		}
		sb.insert(w.ID, scoreOf(w).ToFloat64())
	}
	topID, ok := sb.top()
	if !ok {
		return nil
	}
	for _, w := range wolves {
		if w.ID == topID {
			return w
		}
	}
	return nil
}

// Update advances the pack's plan timer and, on expiry, picks a new
// plan and executes it against the pack's current wolves. ctx carries the state Update needs that isn't owned by the
// pack itself: player position and the shared attacker budget; the
// wolves themselves are passed in wolves.
func (p *Pack) Update(dt fixedpoint.Fixed, wolves []*wolf.Wolf, ctx Context) {
	byID := indexByID(wolves)
	present := p.presentWolves(byID)
	if len(present) == 0 {
		return
	}

	p.PlanTimer = p.PlanTimer - dt
	if p.PlanTimer <= 0 {
		p.Plan = p.choosePlan(present, ctx)
		p.PlanTimer = planDefaultDuration
	}

	p.execute(present, ctx)
}

// Context bundles what the pack planner needs from the wider
// simulation: the player's position and the pack-wide concurrent-
// attacker budget shared across all packs.
type Context struct {
	PlayerPosition         fixedpoint.Vec3
	ConcurrentAttackers    int
	MaxConcurrentAttackers int
}

func (p *Pack) choosePlan(present []*wolf.Wolf, ctx Context) Plan {
	avgMorale := averageMorale(present)
	p.Morale = avgMorale

	switch {
	case avgMorale.Cmp(fixedpoint.FromFloat64(0.25)) < 0:
		return PlanRetreat
	case avgMorale.Cmp(fixedpoint.FromFloat64(0.4)) < 0:
		return PlanRegroup
	case len(present) >= 4:
		return PlanFlank
	case len(present) == 3:
		return PlanDistract
	case len(present) == 2:
		return PlanPincer
	default:
		return PlanCommit
	}
}

// execute sets each wolf's pack target/commanded state for the active
// plan. Wolves whose role is Leader never receive a pack command —
// the leader acts on its own FSM so the pack always has a stable rally
// point.
func (p *Pack) execute(present []*wolf.Wolf, ctx Context) {
	leader := p.leaderOrFirst(present)

	for i, w := range present {
		if w.ID == leader.ID {
			continue
		}

		switch p.Plan {
		case PlanPincer:
			angle := pincerSpreadRadians
			if i%2 == 0 {
				angle = angle.Neg()
			}
			offset := rotateAroundY(ctx.PlayerPosition.Sub(leader.Position).Normalized(), angle).Scale(flankOffset)
			commandTarget(w, ctx.PlayerPosition.Add(offset))
		case PlanFlank:
			sign := fixedpoint.One
			if i%2 == 0 {
				sign = sign.Neg()
			}
			lateral := fixedpoint.NewVec3(0, 0, sign).Scale(flankOffset)
			commandTarget(w, ctx.PlayerPosition.Add(lateral))
		case PlanDistract:
			if p.RoleOf(w.ID) == RoleBruiser {
				commandState(w, wolf.Attack)
			} else {
				offset := fixedpoint.NewVec3(flankOffset.Mul(fixedpoint.FromInt(i%2*2-1)), 0, 0)
				commandTarget(w, ctx.PlayerPosition.Add(offset))
			}
		case PlanRegroup:
			toLeader := leader.Position.Sub(w.Position)
			if toLeader.Length().Cmp(regroupRadius) > 0 {
				commandTarget(w, leader.Position)
			} else {
				commandState(w, wolf.Alert)
			}
		case PlanRetreat:
			commandState(w, wolf.Retreat)
		case PlanCommit:
			commandState(w, wolf.Attack)
		case PlanAmbush:
			commandState(w, wolf.Alert)
		default:
			// PlanNone: wolves run their own FSM unassisted.
		}
	}
}

func (p *Pack) leaderOrFirst(present []*wolf.Wolf) *wolf.Wolf {
	for _, w := range present {
		if p.RoleOf(w.ID) == RoleLeader {
			return w
		}
	}
	return present[0]
}

func commandTarget(w *wolf.Wolf, target fixedpoint.Vec3) {
	w.PackTargetPosition = target
	w.HasPackTarget = true
}

func commandState(w *wolf.Wolf, state wolf.State) {
	w.PackCommandReceived = true
	w.PackCommandedState = state
}

// rotateAroundY rotates a unit vector by angle radians around the
// vertical axis, via fixed-point sine/cosine approximated by
// truncated Taylor series (cos through x^4/24, sin through x^3/6),
// kept in fixed-point so pack target positions stay deterministic.
// At the 2 rad pincer angle the approximation is coarse and the
// result is not unit length.
func rotateAroundY(v fixedpoint.Vec3, angle fixedpoint.Fixed) fixedpoint.Vec3 {
	c := fixedSeriesCos(angle)
	s := fixedSeriesSin(angle)
	return fixedpoint.NewVec3(
		v.X.Mul(c).Add(v.Z.Mul(s)),
		v.Y,
		v.Z.Mul(c).Sub(v.X.Mul(s)),
	)
}

func fixedSeriesCos(x fixedpoint.Fixed) fixedpoint.Fixed {
	x2 := x.Mul(x)
	half := fixedpoint.FromFloat64(0.5)
	twentyFourth := fixedpoint.FromFloat64(1.0 / 24.0)
	return fixedpoint.One.Sub(x2.Mul(half)).Add(x2.Mul(x2).Mul(twentyFourth))
}

func fixedSeriesSin(x fixedpoint.Fixed) fixedpoint.Fixed {
	x2 := x.Mul(x)
	sixth := fixedpoint.FromFloat64(1.0 / 6.0)
	return x.Sub(x.Mul(x2).Mul(sixth))
}

func averageMorale(wolves []*wolf.Wolf) fixedpoint.Fixed {
	if len(wolves) == 0 {
		return fixedpoint.One
	}
	sum := fixedpoint.Zero
	for _, w := range wolves {
		sum = sum.Add(w.Morale)
	}
	return sum.Div(fixedpoint.FromInt(len(wolves)))
}

func indexByID(wolves []*wolf.Wolf) map[uint32]*wolf.Wolf {
	m := make(map[uint32]*wolf.Wolf, len(wolves))
	for _, w := range wolves {
		m[w.ID] = w
	}
	return m
}

// presentWolves resolves the pack's id list against the live wolf
// set, in WolfIDs order, skipping ids that no longer exist (the wolf
// was removed from the simulation).
func (p *Pack) presentWolves(byID map[uint32]*wolf.Wolf) []*wolf.Wolf {
	out := make([]*wolf.Wolf, 0, len(p.WolfIDs))
	for _, id := range p.WolfIDs {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out
}
