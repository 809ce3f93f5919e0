package systems

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// Store owns the fish and predator populations.
//
// Agents live in an ECS world; the entity slices fix the index order used
// by every scan. Index i of the flock always refers to fish[i].
type Store struct {
	world *ecs.World

	fishMap *ecs.Map2[components.Position, components.Velocity]
	predMap *ecs.Map3[components.Position, components.Velocity, components.Digestion]

	fish  []ecs.Entity
	preds []ecs.Entity
}

// NewStore creates an empty store.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:   world,
		fishMap: ecs.NewMap2[components.Position, components.Velocity](world),
		predMap: ecs.NewMap3[components.Position, components.Velocity, components.Digestion](world),
		fish:    make([]ecs.Entity, 0, 128),
		preds:   make([]ecs.Entity, 0, 8),
	}
}

// FishLen returns the flock size.
func (s *Store) FishLen() int {
	return len(s.fish)
}

// PredLen returns the predator count.
func (s *Store) PredLen() int {
	return len(s.preds)
}

// Fish returns the mutable state of flock member i.
func (s *Store) Fish(i int) (*components.Position, *components.Velocity) {
	return s.fishMap.Get(s.fish[i])
}

// Predator returns the mutable state of predator j.
func (s *Store) Predator(j int) (*components.Position, *components.Velocity, *components.Digestion) {
	return s.predMap.Get(s.preds[j])
}

// AddFish appends a flock member with the given state.
func (s *Store) AddFish(pos components.Position, vel components.Velocity) int {
	e := s.fishMap.NewEntity(&pos, &vel)
	s.fish = append(s.fish, e)
	return len(s.fish) - 1
}

// AddPredator appends a roaming predator with the given state.
func (s *Store) AddPredator(pos components.Position, vel components.Velocity) int {
	dig := components.Digestion{}
	e := s.predMap.NewEntity(&pos, &vel, &dig)
	s.preds = append(s.preds, e)
	return len(s.preds) - 1
}

// ResizeFlock grows the flock with random agents or truncates its tail
// until it holds exactly n members.
func (s *Store) ResizeFlock(rng *rand.Rand, p *Params, n int) {
	for len(s.fish) < n {
		pos, vel := randomState(rng, p.Width, p.Height, p.MaxSpeed)
		s.AddFish(pos, vel)
	}
	for len(s.fish) > n {
		last := len(s.fish) - 1
		s.world.RemoveEntity(s.fish[last])
		s.fish = s.fish[:last]
	}
}

// ResizePredators is ResizeFlock for predators, bounded by the predator max speed.
func (s *Store) ResizePredators(rng *rand.Rand, p *Params, n int) {
	for len(s.preds) < n {
		pos, vel := randomState(rng, p.Width, p.Height, p.MaxSpeedPred)
		s.AddPredator(pos, vel)
	}
	for len(s.preds) > n {
		last := len(s.preds) - 1
		s.world.RemoveEntity(s.preds[last])
		s.preds = s.preds[:last]
	}
}

// RemoveFish deletes the given flock indices, highest index first, and
// returns them in the order they were deleted.
func (s *Store) RemoveFish(indices map[int]struct{}) []int {
	if len(indices) == 0 {
		return nil
	}
	order := make([]int, 0, len(indices))
	for i := range indices {
		order = append(order, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	for _, i := range order {
		s.world.RemoveEntity(s.fish[i])
		s.fish = append(s.fish[:i], s.fish[i+1:]...)
	}
	return order
}

// FishArrays copies the flock state into four parallel slices.
func (s *Store) FishArrays() (xs, ys, vxs, vys []float64) {
	n := len(s.fish)
	xs = make([]float64, n)
	ys = make([]float64, n)
	vxs = make([]float64, n)
	vys = make([]float64, n)
	for i, e := range s.fish {
		pos, vel := s.fishMap.Get(e)
		xs[i], ys[i] = pos.X, pos.Y
		vxs[i], vys[i] = vel.X, vel.Y
	}
	return xs, ys, vxs, vys
}

// randomState draws a uniform position inside the world and a velocity
// with a uniform heading and a magnitude no larger than maxSpeed.
func randomState(rng *rand.Rand, width, height, maxSpeed float64) (components.Position, components.Velocity) {
	pos := components.Position{
		X: rng.Float64() * width,
		Y: rng.Float64() * height,
	}
	heading := rng.Float64() * 2 * math.Pi
	mag := rng.Float64() * maxSpeed
	sin, cos := math.Sincos(heading)
	return pos, components.Velocity{X: mag * cos, Y: mag * sin}
}
