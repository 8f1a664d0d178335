package coordinator

import (
	"github.com/fightclub-sim/wolfden/internal/combat"
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/player"
)

// PlayerState is the read-only snapshot of the player's query-able
// state.
type PlayerState struct {
	Position fixedpoint.Vec3
	Facing   fixedpoint.Vec3
	HP       fixedpoint.Fixed
	Stamina  fixedpoint.Fixed

	AttackPhase combat.AttackPhase
	Blocking    bool
	Rolling     bool
	Invulnerable bool

	JumpCount       int
	OnGround        bool
	TouchingWall    bool
	LastInput       fixedpoint.Vec3
	SpeedMultiplier fixedpoint.Fixed

	Ability        player.AbilityKind
	BashPhase      player.BashPhase
	ChargeActive   bool
	DashActive     bool
	DashComboLevel int
	DashCancelOpen bool
	Hyperarmor     bool
}

// QueryPlayer returns the player's current state for the host.
func (c *Coordinator) QueryPlayer() PlayerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return PlayerState{
		Position:     c.Player.Position,
		Facing:       c.Player.Facing,
		HP:           c.Player.HP,
		Stamina:      c.Player.Stamina,
		AttackPhase:  c.Attack.Phase,
		Blocking:     c.Block.Active,
		Rolling:      c.Roll.Phase == combat.RollActive,
		Invulnerable: c.Roll.IsInvulnerable() || c.Player.IsInvulnerable(),

		JumpCount:       c.Player.JumpCount,
		OnGround:        c.Player.OnGround,
		TouchingWall:    c.Player.TouchingWall,
		LastInput:       c.Player.LastInput,
		SpeedMultiplier: c.Player.SpeedMultiplier,

		Ability:        c.Player.Active,
		BashPhase:      c.Player.Bash.Phase,
		ChargeActive:   c.Player.Charge.Active,
		DashActive:     c.Player.Dash.Active,
		DashComboLevel: c.Player.Dash.ComboLevel,
		DashCancelOpen: c.Player.Dash.CancelOpen,
		Hyperarmor:     c.Player.HasHyperarmor(),
	}
}

// WolfState is the read-only snapshot of one wolf's query-able state.
type WolfState struct {
	ID       uint32
	Position fixedpoint.Vec3
	Facing   fixedpoint.Vec3
	HP       fixedpoint.Fixed
	MaxHP    fixedpoint.Fixed
}

// QueryWolfByIndex returns the wolf at the given stable index, or
// false if the index is out of range - bad indices are a no-op rather
// than an error.
func (c *Coordinator) QueryWolfByIndex(index int) (WolfState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.wolfOrder) {
		return WolfState{}, false
	}
	rec := c.wolves[c.wolfOrder[index]]
	if rec == nil {
		return WolfState{}, false
	}
	return WolfState{
		ID:       rec.w.ID,
		Position: rec.w.Position,
		Facing:   rec.w.Facing,
		HP:       rec.w.HP,
		MaxHP:    rec.w.MaxHP,
	}, true
}

// ArmJointPosition returns one arm chain's current joint position;
// side selects left/right, segment the anchor/upper/forearm/hand
// index along the chain.
func (c *Coordinator) ArmJointPosition(left bool, segmentIndex int) (fixedpoint.Vec3, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chain := c.Arms.Right
	if left {
		chain = c.Arms.Left
	}
	if segmentIndex < 0 || segmentIndex >= len(chain.Position) {
		return fixedpoint.Vec3Zero, false
	}
	return chain.Position[segmentIndex], true
}

// Counts bundles the body/wolf/pack tallies a host's debug view needs.
type Counts struct {
	Bodies int
	Wolves int
	Packs  int
}

func (c *Coordinator) QueryCounts() Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Counts{
		Bodies: c.World.Store.Len(),
		Wolves: len(c.wolves),
		Packs:  len(c.packs),
	}
}

// GameTime returns the accumulated simulation time in seconds.
func (c *Coordinator) GameTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameTime.ToFloat64()
}

// TickCount returns the number of ticks processed since the last
// Initialize/Reset.
func (c *Coordinator) TickCount() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickCount
}

// QueryDiagnostics exposes the non-deterministic rolling performance
// telemetry for the demo host's metrics endpoint.
func (c *Coordinator) QueryDiagnostics() (pairsChecked, collisionsResolved Summary) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.diagnostics.PairsCheckedSummary(), c.diagnostics.CollisionsResolvedSummary()
}
