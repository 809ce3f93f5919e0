package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/systems"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	sampleEvery int32

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // mean polarization from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		sampleEvery: 100,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the mean polarization of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// qualityWeight trades schooling against survival. It is small enough that
// one extra fish eaten always outweighs any polarization gain.
const qualityWeight = 0.01

// runResult holds the results from a single simulation run.
type runResult struct {
	initialFish  int
	eaten        int
	polarization []float64 // sampled every sampleEvery ticks
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the fraction of the flock eaten, less a small bonus for
// staying polarized.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	params := cfg.Params()

	// Run all seeds in parallel
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, params, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	quality := make([]float64, len(results))
	for i, r := range results {
		if len(r.polarization) > 0 {
			quality[i] = stat.Mean(r.polarization, nil)
		}
		fitness[i] = computeFitness(r, quality[i])
	}

	avgFitness := stat.Mean(fitness, nil)

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return avgFitness
}

func computeFitness(r *runResult, quality float64) float64 {
	if r.initialFish == 0 {
		return 0
	}
	return float64(r.eaten)/float64(r.initialFish) - qualityWeight*quality
}

// runSimulation executes a single headless simulation run until the flock
// is gone or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, params systems.Params, seed int64) *runResult {
	s := sim.New(params, sim.Options{
		Seed:      seed,
		Fish:      cfg.Population.Fish,
		Predators: cfg.Population.Predators,
	})

	result := &runResult{initialFish: cfg.Population.Fish}
	for s.Tick() < fe.maxTicks && s.NumFish() > 0 {
		s.Step()
		if s.Tick()%fe.sampleEvery == 0 && s.NumFish() > 0 {
			result.polarization = append(result.polarization, s.Metrics().Polarization)
		}
	}
	result.eaten = result.initialFish - s.NumFish()
	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Experiment.Values = append([]float64(nil), fe.baseConfig.Experiment.Values...)
	return &cfg
}
