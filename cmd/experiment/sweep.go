package main

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
)

// sweepParams lists the parameters a sweep can vary.
var sweepParams = map[string]func(*config.Config, float64){
	"matching_factor":  func(c *config.Config, v float64) { c.Flock.MatchingFactor = v },
	"avoid_factor":     func(c *config.Config, v float64) { c.Flock.AvoidFactor = v },
	"centering_factor": func(c *config.Config, v float64) { c.Flock.CenteringFactor = v },
	"front_weight":     func(c *config.Config, v float64) { c.Flock.FrontWeight = v },
	"max_speed_pred":   func(c *config.Config, v float64) { c.Predator.MaxSpeed = v },
	"eating_duration":  func(c *config.Config, v float64) { c.Predator.EatingDuration = int(v) },
	// Scales predator speed limits and turning together.
	"pred_speed_scale": func(c *config.Config, v float64) {
		c.Predator.MaxSpeed *= v
		c.Predator.MinSpeed *= v
		c.Predator.TurnFactor *= v
	},
}

// sweepParamNames returns the supported parameter names, sorted.
func sweepParamNames() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// job is one repetition of one parameter value.
type job struct {
	experiment int
	repetition int
	value      float64
	seed       int64
}

// RunResult is one row of results.csv.
type RunResult struct {
	Experiment    int     `csv:"experiment_id"`
	Repetition    int     `csv:"repetition"`
	Parameter     string  `csv:"parameter"`
	Value         float64 `csv:"value"`
	Seed          int64   `csv:"seed"`
	Fish          int     `csv:"num_fish"`
	Predators     int     `csv:"num_preds"`
	FishEaten     int     `csv:"fish_eaten"`
	FishRemaining int     `csv:"fish_remaining"`
	FinalTick     int32   `csv:"final_tick"`

	series []Sample `csv:"-"`
}

// Sample is one row of timeseries.csv.
type Sample struct {
	Experiment    int     `csv:"experiment_id"`
	Repetition    int     `csv:"repetition"`
	Tick          int     `csv:"tick"`
	FishEaten     int     `csv:"fish_eaten"`
	FishRemaining int     `csv:"fish_remaining"`
	Polarization  float64 `csv:"polarization"`
	MillingIndex  float64 `csv:"milling_index"`
}

// Sweep runs every value of one parameter for a number of repetitions.
type Sweep struct {
	Base           *config.Config
	Parameter      string
	Values         []float64
	Repetitions    int
	Duration       int
	SampleInterval int
	BaseSeed       int64
	Workers        int

	// Progress, if set, is called after each finished run.
	Progress func(done, total int)
}

// Run executes the sweep on a pool of workers. Results come back ordered by
// experiment then repetition, independent of scheduling.
func (sw *Sweep) Run() ([]RunResult, error) {
	apply, ok := sweepParams[sw.Parameter]
	if !ok {
		return nil, fmt.Errorf("unknown parameter %q (supported: %v)", sw.Parameter, sweepParamNames())
	}
	if sw.Repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be positive, got %d", sw.Repetitions)
	}
	if sw.SampleInterval < 1 {
		sw.SampleInterval = 1
	}
	workers := max(sw.Workers, 1)

	jobs := make(chan job)
	results := make([]RunResult, len(sw.Values)*sw.Repetitions)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				cfg := *sw.Base
				apply(&cfg, j.value)
				r := sw.runOne(&cfg, j)
				results[j.experiment*sw.Repetitions+j.repetition] = r

				if sw.Progress != nil {
					mu.Lock()
					done++
					sw.Progress(done, len(results))
					mu.Unlock()
				}
			}
		}()
	}

	for e, v := range sw.Values {
		for rep := 0; rep < sw.Repetitions; rep++ {
			// Each repetition gets its own seed; values share the same seeds.
			jobs <- job{experiment: e, repetition: rep, value: v, seed: sw.BaseSeed + int64(rep)}
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// runOne runs a single simulation, sampling every SampleInterval ticks.
// Once the flock is gone the remaining sample points are filled with the
// final counts.
func (sw *Sweep) runOne(cfg *config.Config, j job) RunResult {
	s := sim.New(cfg.Params(), sim.Options{
		Seed:      j.seed,
		Fish:      cfg.Population.Fish,
		Predators: cfg.Population.Predators,
	})
	initial := cfg.Population.Fish

	r := RunResult{
		Experiment: j.experiment,
		Repetition: j.repetition + 1,
		Parameter:  sw.Parameter,
		Value:      j.value,
		Seed:       j.seed,
		Fish:       initial,
		Predators:  cfg.Population.Predators,
	}

	sample := func(frame int) {
		m := s.Metrics()
		r.series = append(r.series, Sample{
			Experiment:    j.experiment,
			Repetition:    r.Repetition,
			Tick:          frame,
			FishEaten:     initial - s.NumFish(),
			FishRemaining: s.NumFish(),
			Polarization:  m.Polarization,
			MillingIndex:  m.MillingIndex,
		})
	}

	for frame := 0; frame < sw.Duration; frame++ {
		s.Step()
		if frame%sw.SampleInterval == 0 {
			sample(frame)
		}
		if s.NumFish() == 0 {
			next := (frame/sw.SampleInterval + 1) * sw.SampleInterval
			for f := next; f < sw.Duration; f += sw.SampleInterval {
				sample(f)
			}
			break
		}
	}

	r.FishRemaining = s.NumFish()
	r.FishEaten = initial - r.FishRemaining
	r.FinalTick = s.Tick()
	return r
}
