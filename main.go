package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	fish := flag.Int("fish", -1, "Initial fish count (-1 = use config)")
	predators := flag.Int("predators", -1, "Initial predator count (-1 = use config)")
	stopOnExtinct := flag.Bool("stop-on-extinct", true, "Stop once every fish has been eaten")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range config.Cfg().Validate() {
		slog.Warn("config value clipped", "detail", w)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
		Fish:        *fish,
		Predators:   *predators,
	})
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", g.Sim().Seed(),
		"fish", g.Sim().NumFish(),
		"predators", g.Sim().NumPredators(),
		"max_ticks", *maxTicks,
	)

	extinctLogged := false
	for {
		g.UpdateHeadless()

		if g.Extinct() && !extinctLogged {
			slog.Info("flock extinct", "tick", g.Tick())
			extinctLogged = true
			if *stopOnExtinct {
				return
			}
		}
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "fish", g.Sim().NumFish())
			return
		}
	}
}
