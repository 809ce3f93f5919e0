package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/systems"
)

// Collector accumulates events and metric samples within tick windows and
// produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	sampleEvery         int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	eaten int

	// Metric samples for current window
	polarization []float64
	milling      []float64
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// sampleEvery: take a metric sample every N ticks (1 = every tick)
func NewCollector(windowTicks, sampleEvery int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	if sampleEvery < 1 {
		sampleEvery = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		sampleEvery:         sampleEvery,
		polarization:        make([]float64, 0, windowTicks/sampleEvery+1),
		milling:             make([]float64, 0, windowTicks/sampleEvery+1),
	}
}

// RecordEat records a fish being eaten.
func (c *Collector) RecordEat(EatEvent) {
	c.eaten++
}

// ShouldSample reports whether metrics should be sampled at this tick.
func (c *Collector) ShouldSample(currentTick int32) bool {
	return currentTick%c.sampleEvery == 0
}

// RecordMetrics adds one metric sample to the current window.
func (c *Collector) RecordMetrics(m systems.Metrics) {
	c.polarization = append(c.polarization, m.Polarization)
	c.milling = append(c.milling, m.MillingIndex)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller must provide:
// - currentTick: the current simulation tick
// - fishCount, predCount: current population counts
// - digesting: predators currently digesting
// - nnDistances: nearest-neighbour distances at window end (may be nil)
func (c *Collector) Flush(currentTick int32, fishCount, predCount, digesting int, nnDistances []float64) WindowStats {
	ticks := currentTick - c.windowStartTick

	var perTick float64
	if ticks > 0 {
		perTick = float64(c.eaten) / float64(ticks)
	}

	pol := ComputeSeriesStats(c.polarization)
	mill := ComputeSeriesStats(c.milling)

	var nnMean float64
	if len(nnDistances) > 0 {
		nnMean = stat.Mean(nnDistances, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		FishCount: fishCount,
		PredCount: predCount,

		Eaten:          c.eaten,
		EatenPerTick:   perTick,
		PredsDigesting: digesting,

		PolarizationMean: pol.Mean,
		PolarizationStd:  pol.Std,
		PolarizationP10:  pol.P10,
		PolarizationP50:  pol.P50,
		PolarizationP90:  pol.P90,

		MillingMean: mill.Mean,
		MillingStd:  mill.Std,
		MillingP10:  mill.P10,
		MillingP50:  mill.P50,
		MillingP90:  mill.P90,

		NearestNeighborMean: nnMean,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.eaten = 0
	c.polarization = c.polarization[:0]
	c.milling = c.milling[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
