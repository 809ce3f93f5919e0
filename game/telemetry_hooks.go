package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// recordTick feeds the eat events and, on sample ticks, the flock metrics
// of the tick that just ran into the collector.
func (g *Game) recordTick() {
	eats := g.sim.LastEats()
	g.eatBuf = g.eatBuf[:0]
	for _, e := range eats {
		ev := telemetry.EatEvent{Tick: e.Tick, Predator: e.Predator, Fish: e.Fish, X: e.X, Y: e.Y}
		g.collector.RecordEat(ev)
		g.eatBuf = append(g.eatBuf, ev)
	}
	if err := g.outputManager.WriteEats(g.eatBuf); err != nil {
		slog.Error("failed to write eats", "error", err)
	}

	if g.collector.ShouldSample(g.sim.Tick()) && g.sim.NumFish() > 0 {
		g.collector.RecordMetrics(g.sim.Metrics())
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	var nn []float64
	if xs, ys, _, _, ok := g.sim.StateArrays(); ok {
		nn = systems.NearestNeighborDistances(xs, ys)
	}

	stats := g.collector.Flush(tick, g.sim.NumFish(), g.sim.NumPredators(), g.sim.Digesting(), nn)
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
