package physics

import "github.com/fightclub-sim/wolfden/internal/fixedpoint"

// AABB is an axis-aligned world-bounds box in fixed-point.
type AABB struct {
	Min, Max fixedpoint.Vec3
}

// Clamp returns p clamped into the box, plus whether each axis was
// clamped (used to zero velocity on the clamped axis).
func (a AABB) Clamp(p fixedpoint.Vec3) (out fixedpoint.Vec3, clampedX, clampedY, clampedZ bool) {
	out = p
	if out.X < a.Min.X {
		out.X = a.Min.X
		clampedX = true
	} else if out.X > a.Max.X {
		out.X = a.Max.X
		clampedX = true
	}
	if out.Y < a.Min.Y {
		out.Y = a.Min.Y
		clampedY = true
	} else if out.Y > a.Max.Y {
		out.Y = a.Max.Y
		clampedY = true
	}
	if out.Z < a.Min.Z {
		out.Z = a.Min.Z
		clampedZ = true
	} else if out.Z > a.Max.Z {
		out.Z = a.Max.Z
		clampedZ = true
	}
	return out, clampedX, clampedY, clampedZ
}

// WorldConfig holds the fixed tunables for one simulated world.
// Timestep is stored as an integer number of microseconds to preserve
// determinism; FixedTimestep derives the fixed-point seconds value on
// demand.
type WorldConfig struct {
	Gravity         fixedpoint.Vec3
	TimestepMicros  int64
	MaxBodies       int
	MaxSubSteps     int
	MaxSpeed        fixedpoint.Fixed
	Bounds          AABB
	BroadPhaseCellSize fixedpoint.Fixed
}

// DefaultWorldConfig returns the single-source-of-truth defaults for
// a new world.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:            fixedpoint.Vec3FromFloat64(0, -9.81, 0),
		TimestepMicros:     16_667, // ~1/60s
		MaxBodies:          512,
		MaxSubSteps:        8,
		MaxSpeed:           fixedpoint.FromFloat64(20),
		Bounds:             AABB{Min: fixedpoint.Vec3FromFloat64(-50, 0, -50), Max: fixedpoint.Vec3FromFloat64(50, 50, 50)},
		BroadPhaseCellSize: fixedpoint.FromFloat64(0.2),
	}
}

// FixedTimestepSeconds returns the timestep as a fixed-point seconds
// value, derived from the integer microsecond count on demand.
func (c WorldConfig) FixedTimestepSeconds() fixedpoint.Fixed {
	return fixedpoint.FromFloat64(float64(c.TimestepMicros) / 1_000_000.0)
}
