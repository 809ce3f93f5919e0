package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

func init() {
	config.MustInit("")
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	g := NewGameWithOptions(Options{
		Seed:        7,
		StatsWindow: 50,
		OutputDir:   dir,
		Fish:        30,
		Predators:   2,
	})

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	for g.Tick() < 200 {
		g.UpdateHeadless()
	}
	g.Unload()

	if len(windows) != 4 {
		t.Fatalf("got %d stats windows, want 4", len(windows))
	}
	last := windows[len(windows)-1]
	if last.WindowEndTick != 200 {
		t.Errorf("last window end = %d, want 200", last.WindowEndTick)
	}
	if last.PredCount != 2 {
		t.Errorf("pred count = %d, want 2", last.PredCount)
	}

	eaten := 0
	for _, w := range windows {
		eaten += w.Eaten
	}
	if got := 30 - g.Sim().NumFish(); got != eaten {
		t.Errorf("windows report %d eaten, flock lost %d", eaten, got)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "eats.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 { // header + 4 windows
		t.Errorf("telemetry.csv has %d lines, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,fish,pred,eaten") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestOptionsFallBackToConfig(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Fish: -1, Predators: -1})
	defer g.Unload()

	cfg := config.Cfg()
	if g.Sim().NumFish() != cfg.Population.Fish {
		t.Errorf("fish = %d, want %d", g.Sim().NumFish(), cfg.Population.Fish)
	}
	if g.Sim().NumPredators() != cfg.Population.Predators {
		t.Errorf("predators = %d, want %d", g.Sim().NumPredators(), cfg.Population.Predators)
	}
}

func TestExtinctWithoutFish(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Fish: 0, Predators: 1})
	defer g.Unload()

	if !g.Extinct() {
		t.Error("empty flock should report extinct")
	}
	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Errorf("tick = %d, want 1", g.Tick())
	}
}
