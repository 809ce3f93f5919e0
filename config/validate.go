package config

import (
	"fmt"
	"math"
)

const (
	minFactor = 1e-6
	maxRange  = 1e6
)

// clipper clamps values into range and remembers what it changed.
type clipper struct {
	warnings []string
}

func (cl *clipper) clipFloat(name string, v *float64, lo, hi float64) {
	if *v >= lo && *v <= hi {
		return
	}
	old := *v
	if math.IsNaN(old) {
		*v = lo
	} else {
		*v = max(lo, min(*v, hi))
	}
	cl.warnings = append(cl.warnings, fmt.Sprintf("%s: %g clipped to %g", name, old, *v))
}

func (cl *clipper) clipInt(name string, v *int, lo, hi int) {
	if *v >= lo && *v <= hi {
		return
	}
	old := *v
	*v = max(lo, min(*v, hi))
	cl.warnings = append(cl.warnings, fmt.Sprintf("%s: %d clipped to %d", name, old, *v))
}

// Validate clips every parameter into its legal range, refreshes the
// derived values and returns one warning per clipped value.
//
// Maximum speeds are clipped after minimum speeds, with the minimum as
// their lower bound, so min <= max always holds afterwards.
func (c *Config) Validate() []string {
	cl := &clipper{}

	w := &c.World
	cl.clipFloat("world.width", &w.Width, 60, 4000)
	cl.clipFloat("world.height", &w.Height, 60, 4000)
	cl.clipFloat("world.margin", &w.Margin, 1, 0.4*max(w.Width, w.Height))

	f := &c.Flock
	cl.clipFloat("flock.turn_factor", &f.TurnFactor, minFactor, 1)
	cl.clipFloat("flock.visual_range", &f.VisualRange, minFactor, maxRange)
	cl.clipFloat("flock.protected_range", &f.ProtectedRange, minFactor, maxRange)
	cl.clipFloat("flock.centering_factor", &f.CenteringFactor, minFactor, 1)
	cl.clipFloat("flock.avoid_factor", &f.AvoidFactor, minFactor, 1)
	cl.clipFloat("flock.matching_factor", &f.MatchingFactor, minFactor, 1)
	cl.clipFloat("flock.min_speed", &f.MinSpeed, minFactor, maxRange)
	cl.clipFloat("flock.max_speed", &f.MaxSpeed, f.MinSpeed, maxRange)
	cl.clipFloat("flock.field_of_view", &f.FieldOfView, 0, 360)
	cl.clipFloat("flock.front_weight", &f.FrontWeight, minFactor, 1)
	cl.clipFloat("flock.speed_control", &f.SpeedControl, minFactor, 1)
	cl.clipFloat("flock.turning_control", &f.TurningControl, minFactor, 1)
	cl.clipFloat("flock.max_turn", &f.MaxTurn, minFactor, 1)
	cl.clipFloat("flock.random_freq", &f.RandomFreq, 0, 1)
	cl.clipFloat("flock.random_factor", &f.RandomFactor, 0, 1)

	p := &c.Predator
	cl.clipFloat("predator.turn_factor", &p.TurnFactor, minFactor, 1)
	cl.clipFloat("predator.visual_range", &p.VisualRange, 0, maxRange)
	cl.clipFloat("predator.predatory_range", &p.PredatoryRange, 0, maxRange)
	cl.clipFloat("predator.eating_range", &p.EatingRange, 0, maxRange)
	cl.clipInt("predator.eating_duration", &p.EatingDuration, 0, int(maxRange))
	cl.clipFloat("predator.avoid_factor", &p.AvoidFactor, minFactor, 1)
	cl.clipFloat("predator.pred2fish_attraction", &p.Pred2FishAttraction, -1, 1)
	cl.clipFloat("predator.fish2pred_avoidance", &p.Fish2PredAvoidance, -1, 1)
	cl.clipFloat("predator.min_speed", &p.MinSpeed, minFactor, maxRange)
	cl.clipFloat("predator.max_speed", &p.MaxSpeed, p.MinSpeed, maxRange)

	cl.clipInt("population.fish", &c.Population.Fish, 0, 100000)
	cl.clipInt("population.predators", &c.Population.Predators, 0, 100000)

	t := &c.Telemetry
	cl.clipInt("telemetry.stats_window", &t.StatsWindow, 1, int(maxRange))
	cl.clipInt("telemetry.sample_every", &t.SampleEvery, 1, int(maxRange))
	cl.clipInt("telemetry.perf_window", &t.PerfWindow, 1, int(maxRange))

	c.computeDerived()
	return cl.warnings
}
