package coordinator

import "gonum.org/v1/gonum/stat"

// diagnosticsWindow bounds how many recent ticks' physics counters
// feed the rolling mean/stddev - unbounded history would make the
// diagnostics themselves a memory leak.
const diagnosticsWindow = 240

// Diagnostics tracks non-deterministic, read-only performance
// telemetry derived from physics.World's per-tick counters. None of
// it ever feeds back into simulation state - it exists purely for the demo host's metrics endpoint.
type Diagnostics struct {
	pairsChecked      []float64
	collisionsResolved []float64
	cursor            int
	filled            int
}

// NewDiagnostics allocates the rolling windows.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		pairsChecked:       make([]float64, diagnosticsWindow),
		collisionsResolved: make([]float64, diagnosticsWindow),
	}
}

// Observe records one tick's physics counters into the rolling
// window, overwriting the oldest sample once full.
func (d *Diagnostics) Observe(pairsChecked, collisionsResolved int) {
	d.pairsChecked[d.cursor] = float64(pairsChecked)
	d.collisionsResolved[d.cursor] = float64(collisionsResolved)
	d.cursor = (d.cursor + 1) % diagnosticsWindow
	if d.filled < diagnosticsWindow {
		d.filled++
	}
}

// Summary is the rolling mean/stddev pair the demo metrics endpoint
// reports for one counter.
type Summary struct {
	Mean   float64
	StdDev float64
}

// PairsCheckedSummary reports the rolling mean/stddev of broad-phase
// pairs checked per tick, computed with gonum/stat the way the
// teacher's own dependency set favors a real statistics library over
// a hand-rolled accumulator.
func (d *Diagnostics) PairsCheckedSummary() Summary {
	return summarize(d.window(d.pairsChecked))
}

// CollisionsResolvedSummary reports the rolling mean/stddev of
// collisions resolved per tick.
func (d *Diagnostics) CollisionsResolvedSummary() Summary {
	return summarize(d.window(d.collisionsResolved))
}

func (d *Diagnostics) window(samples []float64) []float64 {
	if d.filled < diagnosticsWindow {
		return samples[:d.filled]
	}
	return samples
}

func summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	mean := stat.Mean(samples, nil)
	if len(samples) < 2 {
		return Summary{Mean: mean}
	}
	return Summary{Mean: mean, StdDev: stat.StdDev(samples, nil)}
}
