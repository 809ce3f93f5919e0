package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/shoal/components"
)

// AvoidPredators nudges fish i away from every predator within the
// predatory range. The nudge is a fixed step per axis, not scaled by distance.
func AvoidPredators(s *Store, p *Params, i int) {
	pos, vel := s.Fish(i)
	for j := range s.preds {
		ppos, _, _ := s.Predator(j)
		dx := pos.X - ppos.X
		dy := pos.Y - ppos.Y
		if math.Sqrt(dx*dx+dy*dy) < p.PredatoryRange {
			vel.X += sign(dx) * p.Fish2PredAvoidance
			vel.Y += sign(dy) * p.Fish2PredAvoidance
		}
	}
}

// StepPredator runs one tick of predator j's state machine.
//
// A digesting predator counts down and stays put. A roaming predator is
// pulled towards every visible fish and eats the first one (in flock order)
// inside the eating range, which ends its tick. Fish already in eaten are
// skipped. The index of the fish eaten this tick is returned, or -1.
//
// The eat tick is the first of EatingDuration stationary ticks; the
// predator moves again on the tick its timer reaches zero.
func StepPredator(s *Store, p *Params, rng *rand.Rand, j int, eaten map[int]struct{}) int {
	pos, vel, dig := s.Predator(j)

	if !dig.Roaming() && dig.Tick() {
		return -1
	}

	fishInRange := false
	for i := range s.fish {
		if _, gone := eaten[i]; gone {
			continue
		}
		fpos, _ := s.Fish(i)
		dx := fpos.X - pos.X
		dy := fpos.Y - pos.Y
		dist := math.Sqrt(dx*dx + dy*dy)

		if dist < p.VisualRangePred {
			vel.X += sign(dx) * p.Pred2FishAttraction
			vel.Y += sign(dy) * p.Pred2FishAttraction
			fishInRange = true
		}
		if dist < p.EatingRange {
			dig.Start(p.EatingDuration)
			return i
		}
	}

	if !fishInRange {
		vel.X, vel.Y = Rotate(vel.X, vel.Y, uniform(rng, -p.RandomFactor, p.RandomFactor))
	}

	turnFromMargins(pos, vel, p, p.TurnFactorPred)
	SeparatePredators(s, p, j)
	clampPredatorSpeed(rng, vel, p.MinSpeedPred, p.MaxSpeedPred)

	pos.X += vel.X
	pos.Y += vel.Y
	Reflect(pos, vel, p.Width, p.Height)
	return -1
}

// SeparatePredators pushes predator j away from every other predator within
// the predator visual range.
func SeparatePredators(s *Store, p *Params, j int) {
	if len(s.preds) < 2 {
		return
	}
	pos, vel, _ := s.Predator(j)
	for k := range s.preds {
		if k == j {
			continue
		}
		opos, _, _ := s.Predator(k)
		dx := pos.X - opos.X
		dy := pos.Y - opos.Y
		if math.Sqrt(dx*dx+dy*dy) < p.VisualRangePred {
			vel.X += sign(dx) * p.AvoidFactorPred
			vel.Y += sign(dy) * p.AvoidFactorPred
		}
	}
}

// clampPredatorSpeed is ClampSpeed with a recovery for a zero vector:
// the predator gets a random heading at minimum speed.
func clampPredatorSpeed(rng *rand.Rand, vel *components.Velocity, minSpeed, maxSpeed float64) {
	if vel.X == 0 && vel.Y == 0 {
		sin, cos := math.Sincos(rng.Float64() * 2 * math.Pi)
		vel.X = minSpeed * cos
		vel.Y = minSpeed * sin
		return
	}
	ClampSpeed(vel, minSpeed, maxSpeed)
}
