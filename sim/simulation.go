// Package sim advances a flock and its predators one tick at a time.
//
// A Simulation owns its agents, its parameters and its random source.
// It is not safe for concurrent use; independent simulations may run in
// parallel.
package sim

import (
	"math/rand"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Phase names reported to a PhaseTimer, in Step order.
const (
	PhaseFlocking  = "flocking"
	PhasePredators = "predators"
	PhaseCleanup   = "cleanup"
)

// PhaseTimer receives phase boundaries inside Step. telemetry.PerfCollector
// satisfies it; the caller brackets Step with its StartTick and EndTick.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Options configures a new Simulation.
type Options struct {
	Seed      int64
	Fish      int
	Predators int
}

// Eat records one predation event.
type Eat struct {
	Tick     int32
	Predator int // predator index
	Fish     int // flock index at the time of the eat
	X, Y     float64
}

// Simulation is one independent flock/predator world.
type Simulation struct {
	rng    *rand.Rand
	seed   int64
	params systems.Params
	store  *systems.Store

	numFish int // flock counter, decremented on every eat
	tick    int32

	eaten map[int]struct{}
	eats  []Eat
	perf  PhaseTimer
}

// New creates a simulation with the given parameters and populations.
// Derived parameters are recomputed from the primary values.
func New(params systems.Params, opts Options) *Simulation {
	s := &Simulation{
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seed:   opts.Seed,
		params: params,
		store:  systems.NewStore(),
		eaten:  make(map[int]struct{}),
	}
	s.params.RecomputeDerived()
	s.ResizeFlock(opts.Fish)
	s.ResizePredators(opts.Predators)
	return s
}

// SetPerf attaches a phase timer. nil disables timing.
func (s *Simulation) SetPerf(p PhaseTimer) {
	s.perf = p
}

// Step advances the simulation by one tick and returns the flock indices
// removed this tick, highest first.
//
// Each fish is scanned and moved in flock order, so later fish see the
// updated state of earlier ones. Predators then run in order. Eaten fish
// stay in place until every predator has finished.
func (s *Simulation) Step() []int {
	p := &s.params
	s.phase(PhaseFlocking)

	for i := 0; i < s.store.FishLen(); i++ {
		scan := systems.ScanFlock(s.store, p, i)
		systems.AvoidPredators(s.store, p, i)
		systems.IntegrateFish(s.store, p, s.rng, i, scan)
	}

	s.phase(PhasePredators)
	clear(s.eaten)
	s.eats = s.eats[:0]
	for j := 0; j < s.store.PredLen(); j++ {
		if idx := systems.StepPredator(s.store, p, s.rng, j, s.eaten); idx >= 0 {
			s.eaten[idx] = struct{}{}
			s.numFish--
			pos, _, _ := s.store.Predator(j)
			s.eats = append(s.eats, Eat{Tick: s.tick, Predator: j, Fish: idx, X: pos.X, Y: pos.Y})
		}
	}

	s.phase(PhaseCleanup)
	removed := s.store.RemoveFish(s.eaten)

	s.tick++
	return removed
}

// LastEats returns the eat events of the most recent tick.
// The slice is reused by the next Step.
func (s *Simulation) LastEats() []Eat {
	return s.eats
}

// StateArrays returns the flock state as parallel slices.
// ok is false when the flock is empty.
func (s *Simulation) StateArrays() (xs, ys, vxs, vys []float64, ok bool) {
	if s.store.FishLen() == 0 {
		return nil, nil, nil, nil, false
	}
	xs, ys, vxs, vys = s.store.FishArrays()
	return xs, ys, vxs, vys, true
}

// Metrics returns the current polarization and milling index.
func (s *Simulation) Metrics() systems.Metrics {
	xs, ys, vxs, vys, ok := s.StateArrays()
	if !ok {
		return systems.ComputeMetrics(nil, nil, nil, nil)
	}
	return systems.ComputeMetrics(xs, ys, vxs, vys)
}

// ResizeFlock adds random fish or truncates the flock to n members.
func (s *Simulation) ResizeFlock(n int) {
	s.store.ResizeFlock(s.rng, &s.params, n)
	s.numFish = n
}

// ResizePredators adds random predators or truncates to n predators.
func (s *Simulation) ResizePredators(n int) {
	s.store.ResizePredators(s.rng, &s.params, n)
}

// RecomputeDerived refreshes the derived parameter caches.
// Call it after editing values through Params.
func (s *Simulation) RecomputeDerived() {
	s.params.RecomputeDerived()
}

// Params gives direct read/write access to the parameters.
// Derived values are not refreshed until RecomputeDerived is called.
func (s *Simulation) Params() *systems.Params {
	return &s.params
}

// SetParams replaces every parameter and recomputes the derived values.
func (s *Simulation) SetParams(p systems.Params) {
	s.params = p
	s.params.RecomputeDerived()
}

// AddFish places a fish at an explicit state and returns its index.
func (s *Simulation) AddFish(pos components.Position, vel components.Velocity) int {
	s.numFish++
	return s.store.AddFish(pos, vel)
}

// AddPredator places a roaming predator at an explicit state and returns its index.
func (s *Simulation) AddPredator(pos components.Position, vel components.Velocity) int {
	return s.store.AddPredator(pos, vel)
}

// Fish returns the live state of flock member i.
func (s *Simulation) Fish(i int) (*components.Position, *components.Velocity) {
	return s.store.Fish(i)
}

// Predator returns the live state of predator j.
func (s *Simulation) Predator(j int) (*components.Position, *components.Velocity, *components.Digestion) {
	return s.store.Predator(j)
}

// NumFish returns the flock counter.
func (s *Simulation) NumFish() int {
	return s.numFish
}

// NumPredators returns the predator count.
func (s *Simulation) NumPredators() int {
	return s.store.PredLen()
}

// Digesting returns how many predators are currently eating.
func (s *Simulation) Digesting() int {
	n := 0
	for j := 0; j < s.store.PredLen(); j++ {
		if _, _, dig := s.store.Predator(j); !dig.Roaming() {
			n++
		}
	}
	return n
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Seed returns the seed the random source was created with.
func (s *Simulation) Seed() int64 {
	return s.seed
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}
