// Package coordinator composes the physics, skeleton, arm, player,
// combat, wolf and pack packages into a single deterministic tick:
// one struct owning every subsystem, a tick method that runs them in
// a fixed order, and a lock guarding the whole frame against
// concurrent host access. The coordinator never seeds anything from
// wall-clock time — every seed affecting simulation state is supplied
// by the caller, so the same (seed, input sequence, timestep)
// reproduces byte-identical state.
package coordinator

import (
	"sync"

	"github.com/fightclub-sim/wolfden/internal/armchain"
	"github.com/fightclub-sim/wolfden/internal/combat"
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/game/spatial"
	"github.com/fightclub-sim/wolfden/internal/pack"
	"github.com/fightclub-sim/wolfden/internal/physics"
	"github.com/fightclub-sim/wolfden/internal/player"
	"github.com/fightclub-sim/wolfden/internal/skeleton"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

// ResourceLimits caps the DoS-able resources the coordinator is
// allowed to grow. SpawnWolf enforces MaxWolves and CreatePack
// enforces MaxPacks; MaxBodies is carried but not checked anywhere.
// Collision routing drains the whole event ring, which is bounded at
// physics.EventQueueCapacity.
type ResourceLimits struct {
	MaxWolves int
	MaxPacks  int
	MaxBodies int
}

// DefaultResourceLimits returns production-safe defaults sized for a
// wolf-count-bound arena.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxWolves: 64,
		MaxPacks:  16,
		MaxBodies: 512,
	}
}

// PlayerInput is the host-facing input surface: two movement axes in
// [-1,1] and nine action flags.
type PlayerInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Rolling  bool `json:"rolling"`
	Jumping  bool `json:"jumping"`
	Light    bool `json:"light"`
	Heavy    bool `json:"heavy"`
	Blocking bool `json:"blocking"`
	Special  bool `json:"special"`
	Bash     bool `json:"bash"`
	Charge   bool `json:"charge"`
	Dash     bool `json:"dash"`
}

// wolfRecord bundles a live wolf agent with the physics body id it is
// mirrored onto; collision routing maps body id -> wolf with a linear
// scan over these records (see wolfByBody).
type wolfRecord struct {
	w      *wolf.Wolf
	bodyID physics.BodyID
}

// packRecord wraps a pack planner; records are keyed by pack id in
// Coordinator.packs, with packOrder giving a deterministic walk order.
type packRecord struct {
	p *pack.Pack
}

// Coordinator owns every subsystem with no back-pointers between
// them; each subsystem receives a freshly
// built, per-tick context instead of a reference to the coordinator
// itself.
type Coordinator struct {
	mu sync.RWMutex

	limits ResourceLimits

	World    *physics.World
	Skeleton *skeleton.Skeleton
	Arms     *armchain.Manager
	Player   *player.Player

	Attack *combat.Attack
	Roll   *combat.Roll
	Block  *combat.Block
	Combo  *combat.Combo
	combo  combat.ComboDefinition

	wolfTunables wolf.Tunables
	wolves       map[uint32]*wolfRecord
	wolfOrder    []uint32
	nextWolfID   uint32

	packs      map[int]*packRecord
	packOrder  []int
	nextPackID int

	flowFields      *spatial.FlowField
	flowGoal        fixedpoint.Vec3
	flowFieldOrigin float64

	leftTarget, rightTarget fixedpoint.Vec3

	gameTime   fixedpoint.Fixed
	tickCount  int64
	seed       uint64
	startWeapon uint32

	diagnostics *Diagnostics

	pendingInput PlayerInput
}

// New builds a coordinator at rest: an empty world, a standing
// skeleton, arms resting at default shoulder offsets, and a player at
// the world origin. Call Initialize to seed it before ticking.
func New(limits ResourceLimits) *Coordinator {
	c := &Coordinator{
		limits:      limits,
		wolves:      make(map[uint32]*wolfRecord),
		packs:       make(map[int]*packRecord),
		diagnostics: NewDiagnostics(),
		nextWolfID:  1,
		nextPackID:  1,
	}
	c.Initialize(0, 0)
	return c
}

// Initialize (re)builds every subsystem from scratch with the given
// seed and opaque starting-weapon id. The seed is stored on the
// coordinator and read by no subsystem (wolf jitter is derived from
// wolf ids); it is never passed to math/rand.
func (c *Coordinator) Initialize(seed uint64, startWeapon uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(seed, startWeapon)
}

// Reset re-initializes the simulation with a new seed, preserving no
// state from the previous run.
func (c *Coordinator) Reset(seed uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(seed, c.startWeapon)
}

func (c *Coordinator) reset(seed uint64, startWeapon uint32) {
	worldCfg := physics.DefaultWorldConfig()
	c.World = physics.NewWorld(worldCfg)

	playerStart := fixedpoint.Vec3FromFloat64(0, 0, 0)
	c.Player = player.New(playerStart, 100)
	c.World.Store.CreatePlayerBody(physics.NewBody(physics.PlayerBodyID, physics.Kinematic, playerStart, fixedpoint.One))
	if body := c.World.Store.Get(physics.PlayerBodyID); body != nil {
		body.Layer = physics.LayerPlayer
	}

	c.Skeleton = skeleton.New()
	c.Skeleton.SyncPelvis(playerStart)

	leftShoulder := c.Skeleton.JointPosition(skeleton.LeftShoulder)
	rightShoulder := c.Skeleton.JointPosition(skeleton.RightShoulder)
	c.Arms = armchain.NewManager(leftShoulder, rightShoulder)

	c.Attack = &combat.Attack{}
	c.Roll = &combat.Roll{}
	c.Block = &combat.Block{}
	c.Combo = &combat.Combo{}
	c.combo = combat.DefaultUnarmedCombo()

	c.wolfTunables = wolf.DefaultTunables()
	c.wolves = make(map[uint32]*wolfRecord)
	c.wolfOrder = nil
	c.nextWolfID = 1

	c.packs = make(map[int]*packRecord)
	c.packOrder = nil
	c.nextPackID = 1

	c.flowFields = nil
	c.flowFieldOrigin = 50.0

	c.gameTime = 0
	c.tickCount = 0
	c.seed = seed
	c.startWeapon = startWeapon

	c.diagnostics = NewDiagnostics()
	c.pendingInput = PlayerInput{}
}

// Shutdown releases every subsystem; the coordinator must be
// Initialize'd again before further use.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.World = nil
	c.Skeleton = nil
	c.Arms = nil
	c.Player = nil
	c.wolves = nil
	c.wolfOrder = nil
	c.packs = nil
	c.packOrder = nil
}

// SetPlayerInput latches the input the next Tick will consume. Axes
// are clamped and, if their magnitude exceeds 1, renormalized - bad
// input is silently clamped rather than rejected.
func (c *Coordinator) SetPlayerInput(input PlayerInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingInput = clampInput(input)
}

func clampInput(in PlayerInput) PlayerInput {
	x, y := in.X, in.Y
	magSq := x*x + y*y
	if magSq > 1 {
		mag := sqrtFloat(magSq)
		if mag > 0 {
			x /= mag
			y /= mag
		}
	}
	in.X, in.Y = x, y
	return in
}

func sqrtFloat(v float64) float64 {
	if v <= 0 {
		return 0
	}
	lo, hi := 0.0, v
	if v < 1 {
		hi = 1
	}
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if mid*mid > v {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// Tick advances the whole simulation by deltaSeconds in a fixed
// order: step physics, process the latched input, compute the
// movement-speed multiplier, update the player and combat timers,
// skeleton, wolves, packs and arms, sync gameplay back to bodies,
// route collision events, then drain the event queue.
func (c *Coordinator) Tick(deltaSeconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickCount++
	dt := fixedpoint.FromFloat64(deltaSeconds)
	c.gameTime = c.gameTime + dt

	input := c.pendingInput

	// 1. Physics sub-steps happen before any AI decision. Bodies carry the velocities the previous
	// tick's player/wolf updates left them with.
	c.World.Update(deltaSeconds)
	c.syncBodiesToGameplay()

	// 2. Input processing: start/stop actions this tick's flags request.
	c.processCombatInput(input)

	// 3. Movement-speed multiplier reflects the combat state as of the
	// start of this tick, further scaled by a charging bash (half speed)
	// or an active berserker-charge (2.5x, applied directly to velocity
	// by ChargeBegin/ChargeTick rather than through this multiplier).
	speedMultiplier := movementSpeedMultiplier(c.Attack.Phase, c.Block.Active)
	speedMultiplier = speedMultiplier.Mul(c.Player.BashTickCharge(dt))

	// 4. Player movement. Wolves decide against this post-physics,
	// post-player-update position.
	inputVec := fixedpoint.NewVec3(fixedpoint.FromFloat64(input.X), 0, fixedpoint.FromFloat64(input.Y))
	c.Player.Update(dt, inputVec, speedMultiplier)
	if input.Jumping {
		c.Player.Jump()
	}

	if input.Rolling {
		if stamina, ok := c.Roll.Begin(c.Player.Stamina); ok {
			c.Player.Stamina = stamina
		}
	}
	c.Roll.Tick(dt)
	c.Player.Stamina = c.Block.Tick(dt, c.Player.Stamina)
	c.Combo.Tick(dt)
	c.Attack.Tick(dt, c.Combo)
	c.Player.BashTickActive(dt)
	c.Player.ChargeTick(dt)
	c.Player.DashTick(dt)

	// 5. Skeleton follows the player's resolved position.
	c.Skeleton.SyncPelvis(c.Player.Position)
	c.Skeleton.Step(dt)

	// 6. Wolves see the post-physics, post-player position.
	c.updateWolves(dt)

	// 7. Pack planning sees the post-individual-AI wolf state.
	c.updatePacks(dt)

	// 8. Arms follow the skeleton's shoulder joints and whatever
	// targets the host last commanded.
	leftShoulder := c.Skeleton.JointPosition(skeleton.LeftShoulder)
	rightShoulder := c.Skeleton.JointPosition(skeleton.RightShoulder)
	c.Arms.SetTargets(c.leftTarget, c.rightTarget)
	c.Arms.Step(dt, leftShoulder, rightShoulder)

	// 9. Sync gameplay state back onto the physics bodies so the next
	// tick's physics step sees this tick's result.
	c.syncGameplayToBodies()

	// 10. Collision-event routing, then drain the
	// queue - any consumer reading the snapshot now sees fully
	// resolved state.
	c.routeCollisionEvents()
	c.World.Events.Clear()

	c.diagnostics.Observe(c.World.LastPairsChecked, c.World.LastCollisionsResolved)
}

// movementSpeedMultiplier slows the player while actively attacking or
// blocking; Windup/Active freeze movement entirely,
// Recovery and blocking only dampen it.
func movementSpeedMultiplier(phase combat.AttackPhase, blocking bool) fixedpoint.Fixed {
	switch {
	case phase == combat.AttackWindup || phase == combat.AttackActive:
		return fixedpoint.Zero
	case phase == combat.AttackRecovery:
		return fixedpoint.FromFloat64(0.4)
	case blocking:
		return fixedpoint.FromFloat64(0.5)
	default:
		return fixedpoint.One
	}
}

func (c *Coordinator) processCombatInput(input PlayerInput) {
	switch {
	case input.Light:
		if stamina, ok := c.Attack.Begin(combat.AttackLight, c.Player.Stamina); ok {
			c.Player.Stamina = stamina
		}
	case input.Heavy:
		if stamina, ok := c.Attack.Begin(combat.AttackHeavy, c.Player.Stamina); ok {
			c.Player.Stamina = stamina
		}
	case input.Special:
		if stamina, ok := c.Attack.Begin(combat.AttackSpecial, c.Player.Stamina); ok {
			c.Player.Stamina = stamina
		}
	}

	if input.Blocking && !c.Block.Active {
		c.Block.Start()
	} else if !input.Blocking && c.Block.Active {
		c.Block.Stop()
	}

	// Shoulder-bash is held-to-charge, release-to-fire: the host drives
	// it with the same Bash flag across ticks, and the ability's own
	// phase (not an input edge) decides whether a press begins a charge
	// or a release fires it.
	switch {
	case input.Bash && c.Player.Bash.Phase == player.BashIdle:
		c.Player.BashBeginCharge()
	case !input.Bash && c.Player.Bash.Phase == player.BashCharging:
		c.Player.BashRelease()
	}

	if input.Charge {
		c.Player.ChargeBegin()
	}

	if input.Dash {
		inputVec := fixedpoint.NewVec3(fixedpoint.FromFloat64(input.X), 0, fixedpoint.FromFloat64(input.Y))
		c.Player.DashBegin(inputVec)
	}
}

// syncBodiesToGameplay copies the physics body positions the world
// just integrated back onto the gameplay-owned player/wolf state -
// the "post-physics position" wolves and the player movement code
// read this tick.
func (c *Coordinator) syncBodiesToGameplay() {
	if body := c.World.Store.Get(physics.PlayerBodyID); body != nil {
		c.Player.Position = body.Position
	}
	for _, rec := range c.wolves {
		if body := c.World.Store.Get(rec.bodyID); body != nil {
			rec.w.Position = body.Position
		}
	}
}

// syncGameplayToBodies mirrors this tick's resolved player/wolf
// positions and velocities back onto their physics bodies, so next
// tick's physics step integrates from where gameplay left them.
func (c *Coordinator) syncGameplayToBodies() {
	if body := c.World.Store.Get(physics.PlayerBodyID); body != nil {
		body.Position = c.Player.Position
		body.Velocity = c.Player.Velocity
	}
	for _, rec := range c.wolves {
		if body := c.World.Store.Get(rec.bodyID); body != nil {
			body.Position = rec.w.Position
			body.Velocity = rec.w.Velocity
		}
	}
}

func (c *Coordinator) updateWolves(dt fixedpoint.Fixed) {
	c.refreshFlowFieldIfNeeded()

	attackers := c.currentAttackers()
	arbitrated := pack.ArbitrateAttackers(attackers, c.Player.Position, c.wolfTunables.AttackRange, c.wolfTunables.MaxConcurrentAttackers)

	for _, id := range c.wolfOrder {
		rec := c.wolves[id]
		if rec == nil {
			continue
		}
		ctx := wolf.Context{
			PlayerPosition:         c.Player.Position,
			PlayerAlive:            c.Player.HP > 0,
			ConcurrentAttackers:    len(arbitrated),
			MaxConcurrentAttackers: c.wolfTunables.MaxConcurrentAttackers,
			ApproachFlowField:      c.flowFields,
			FlowFieldOriginOffset:  c.flowFieldOrigin,
			DamageTakenSinceEntry:  rec.w.DamageSinceEntry(),
		}
		if rec.w.State == wolf.Attack && !arbitrated[rec.w.ID] {
			// Lost the cross-pack arbitration this tick; fall back to
			// strafing rather than attacking outside the shared budget.
			rec.w.State = wolf.Strafe
		}
		rec.w.Update(dt, c.wolfTunables, ctx)
	}
}

// currentAttackers returns every wolf presently in (or requesting)
// Attack, in stable wolfOrder, for the pack package's cross-pack
// arbitration.
func (c *Coordinator) currentAttackers() []*wolf.Wolf {
	out := make([]*wolf.Wolf, 0, len(c.wolves))
	for _, id := range c.wolfOrder {
		if rec := c.wolves[id]; rec != nil && rec.w.State == wolf.Attack {
			out = append(out, rec.w)
		}
	}
	return out
}

func (c *Coordinator) updatePacks(dt fixedpoint.Fixed) {
	allWolves := make([]*wolf.Wolf, 0, len(c.wolves))
	for _, id := range c.wolfOrder {
		if rec := c.wolves[id]; rec != nil {
			allWolves = append(allWolves, rec.w)
		}
	}

	ctx := pack.Context{
		PlayerPosition:         c.Player.Position,
		ConcurrentAttackers:    len(c.currentAttackers()),
		MaxConcurrentAttackers: c.wolfTunables.MaxConcurrentAttackers,
	}

	for _, id := range c.packOrder {
		if rec := c.packs[id]; rec != nil {
			rec.p.Update(dt, allWolves, ctx)
		}
	}
}

// refreshFlowFieldIfNeeded regenerates the wolf long-range navigation
// field once the player has moved far enough from the field's last
// goal to matter, rather than every tick - the BFS cost is real and
// the field only feeds the Approach-state heading blend, not a
// simulation-critical value.
func (c *Coordinator) refreshFlowFieldIfNeeded() {
	if c.flowFields == nil {
		field := spatial.NewFlowField(2*c.flowFieldOrigin, 2*c.flowFieldOrigin, 1.0)
		px, _, pz := c.Player.Position.ToFloat64()
		field.Generate(px+c.flowFieldOrigin, pz+c.flowFieldOrigin)
		c.flowFields = field
		c.flowGoal = c.Player.Position
		return
	}

	if c.flowGoal.Sub(c.Player.Position).Length().Cmp(fixedpoint.FromFloat64(1.0)) <= 0 {
		return
	}
	px, _, pz := c.Player.Position.ToFloat64()
	c.flowFields.Generate(px+c.flowFieldOrigin, pz+c.flowFieldOrigin)
	c.flowGoal = c.Player.Position
}
