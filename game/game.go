// Package game drives a simulation headlessly and feeds its telemetry.
package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/telemetry"
)

// Options configures a Game. Negative population counts mean "use config".
type Options struct {
	Seed        int64
	LogStats    bool
	StatsWindow int // ticks per stats window (0 = use config)
	OutputDir   string
	Fish        int
	Predators   int
}

// Game holds a running simulation and its telemetry plumbing.
type Game struct {
	sim *sim.Simulation

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	eatBuf []telemetry.EatEvent
}

// NewGameWithOptions creates a game from the global config and the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	fish := cfg.Population.Fish
	if opts.Fish >= 0 {
		fish = opts.Fish
	}
	preds := cfg.Population.Predators
	if opts.Predators >= 0 {
		preds = opts.Predators
	}

	window := cfg.Derived.StatsWindow32
	if opts.StatsWindow > 0 {
		window = int32(opts.StatsWindow)
	}

	g := &Game{
		sim: sim.New(cfg.Params(), sim.Options{
			Seed:      opts.Seed,
			Fish:      fish,
			Predators: preds,
		}),
		collector:        telemetry.NewCollector(window, cfg.Derived.SampleEvery32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory, cfg.Telemetry.SchoolingThreshold, cfg.Telemetry.MillingThreshold, fish),
		logStats:         opts.LogStats,
	}
	g.sim.SetPerf(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	return g
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// UpdateHeadless advances the simulation by one tick and runs telemetry.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTick()
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// Sim exposes the underlying simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Extinct reports whether every fish has been eaten.
func (g *Game) Extinct() bool {
	return g.sim.NumFish() == 0
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
