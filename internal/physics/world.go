package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// World owns one simulated scene: the body store, broad-phase, event
// queue, constraints and force fields, plus the fixed-timestep
// accumulator that drives them. Advancing the world by a wall-clock
// delta runs a whole number of fixed sub-steps through the
// accumulator, never a variable-length step, which is what makes the
// result reproducible for a given (seed, input, delta) sequence.
type World struct {
	Config WorldConfig

	Store      *Store
	Broad      *SpatialHash
	Events     *EventQueue
	Distance   []DistanceConstraint
	Range      []DistanceRangeConstraint
	Fields     []ForceField

	accumulatorMicros int64

	// Non-deterministic performance counters; never
	// read back into simulation state.
	LastPairsChecked      int
	LastCollisionsResolved int
}

// NewWorld builds a world with the given config and an empty store.
func NewWorld(cfg WorldConfig) *World {
	return &World{
		Config: cfg,
		Store:  NewStore(),
		Broad:  NewSpatialHash(int64(cfg.BroadPhaseCellSize.Raw())),
		Events: NewEventQueue(),
	}
}

// Update converts delta to integer microseconds, accumulates it, and
// runs as many fixed sub-steps as fit (bounded by MaxSubSteps per
// frame so a stall never causes a death-spiral of catch-up steps).
func (w *World) Update(deltaSeconds float64) {
	deltaMicros := int64(deltaSeconds * 1_000_000)
	if deltaMicros < 0 {
		deltaMicros = 0
	}
	w.accumulatorMicros += deltaMicros

	steps := 0
	for w.accumulatorMicros >= w.Config.TimestepMicros && steps < w.Config.MaxSubSteps {
		w.step()
		w.accumulatorMicros -= w.Config.TimestepMicros
		steps++
	}
}

// step runs the six-stage physics pipeline once, using
// TimestepMicros as dt.
func (w *World) step() {
	dt := w.Config.FixedTimestepSeconds()
	dtMicros := w.Config.TimestepMicros

	// 1. Force fields.
	ApplyForceFields(w.Store, w.Fields)

	// 2. Integrate.
	w.integrate(dt)

	// 3. Broad phase then narrow phase.
	pairsChecked, collisionsResolved := w.resolveCollisions()
	w.LastPairsChecked = pairsChecked
	w.LastCollisionsResolved = collisionsResolved

	// 4. Constraints.
	SolveDistanceConstraints(w.Store, w.Distance, 3)
	SolveDistanceRangeConstraints(w.Store, w.Range, 3)

	// 5. Ground-plane pass.
	w.Store.Each(func(b *Body) {
		if ev, ok := ResolveGroundPlane(b); ok {
			w.Events.Push(ev)
		}
	})

	// 6. Sleep timers.
	w.Store.Each(func(b *Body) {
		b.updateSleep(dtMicros)
	})
}

func (w *World) integrate(dt fixedpoint.Fixed) {
	w.Store.Each(func(b *Body) {
		if !b.ShouldSimulate() {
			return
		}

		b.Velocity = b.Velocity.Add(b.Acceleration.Add(w.Config.Gravity).Scale(dt))
		b.Acceleration = fixedpoint.Vec3Zero
		b.Velocity = b.Velocity.Scale(b.Drag)

		if speed := b.Velocity.Length(); speed.Cmp(w.Config.MaxSpeed) > 0 && speed > 0 {
			b.Velocity = b.Velocity.Scale(w.Config.MaxSpeed.Div(speed))
		}

		b.Position = b.Position.Add(b.Velocity.Scale(dt))

		clamped, cx, cy, cz := w.Config.Bounds.Clamp(b.Position)
		if cx || cy || cz {
			b.Position = clamped
			if cx {
				b.Velocity.X = 0
			}
			if cy {
				b.Velocity.Y = 0
			}
			if cz {
				b.Velocity.Z = 0
			}
			b.Wake()
		}
	})
}

// resolveCollisions runs broad phase (if the world has any bodies
// inserted) then narrow phase on every candidate pair, applying the
// layer-mask test before any math.
func (w *World) resolveCollisions() (pairsChecked, collisionsResolved int) {
	w.Broad.Clear()
	w.Store.Each(func(b *Body) {
		if b.ShouldCollide() {
			w.Broad.Insert(b)
		}
	})

	pairs := w.Broad.Pairs()
	for _, p := range pairs {
		a := w.Store.Get(p.A)
		b := w.Store.Get(p.B)
		if a == nil || b == nil || !a.ShouldCollide() || !b.ShouldCollide() {
			continue
		}
		if !LayersCanCollide(a, b) {
			continue
		}
		pairsChecked++
		if ev, ok := ResolvePair(a, b); ok {
			w.Events.Push(ev)
			collisionsResolved++
		}
	}

	return pairsChecked, collisionsResolved
}
