package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/shoal/components"
)

// IntegrateFish applies the scan result to fish i and moves it one tick:
// flocking delta, wall-margin turn, bounded heading rotation with optional
// noise, crowding speed bias, speed clamp, then position update with wall
// reflection.
func IntegrateFish(s *Store, p *Params, rng *rand.Rand, i int, scan FlockScan) {
	pos, vel := s.Fish(i)

	vel.X += scan.DVX
	vel.Y += scan.DVY

	turnFromMargins(pos, vel, p, p.TurnFactor)

	dtheta := clampFloat(p.TurningControl*scan.TurnDrive, -p.MaxTurn, p.MaxTurn)
	if rng.Float64() < p.RandomFreq {
		strength := 1.0
		if scan.Neighbors > 0 {
			strength = 1 / float64(scan.Neighbors)
		}
		dtheta += strength * uniform(rng, -p.RandomFactor, p.RandomFactor)
	}
	vel.X, vel.Y = Rotate(vel.X, vel.Y, dtheta)

	// Crowded ahead slows down, crowded behind speeds up.
	bias := p.SpeedControl * (scan.BackPressure - scan.FrontPressure)
	v := speed(vel.X, vel.Y) + eps
	if target := v + bias; target > 0 {
		vel.X = vel.X / v * target
		vel.Y = vel.Y / v * target
	}

	ClampSpeed(vel, p.MinSpeed, p.MaxSpeed)

	pos.X += vel.X
	pos.Y += vel.Y
	Reflect(pos, vel, p.Width, p.Height)
}

// ClampSpeed rescales vel into [minSpeed, maxSpeed] keeping its direction.
func ClampSpeed(vel *components.Velocity, minSpeed, maxSpeed float64) {
	v := speed(vel.X, vel.Y) + eps
	if v < minSpeed {
		vel.X = vel.X / v * minSpeed
		vel.Y = vel.Y / v * minSpeed
	} else if v > maxSpeed {
		vel.X = vel.X / v * maxSpeed
		vel.Y = vel.Y / v * maxSpeed
	}
}

// Reflect clamps pos into [0,width]x[0,height] and points the offending
// velocity component back inside.
func Reflect(pos *components.Position, vel *components.Velocity, width, height float64) {
	if pos.X < 0 {
		pos.X = 0
		vel.X = math.Abs(vel.X)
	} else if pos.X > width {
		pos.X = width
		vel.X = -math.Abs(vel.X)
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = math.Abs(vel.Y)
	} else if pos.Y > height {
		pos.Y = height
		vel.Y = -math.Abs(vel.Y)
	}
}

// turnFromMargins nudges vel towards the interior when pos is inside a margin.
func turnFromMargins(pos *components.Position, vel *components.Velocity, p *Params, turn float64) {
	if pos.X < p.LeftMargin {
		vel.X += turn
	}
	if pos.X > p.RightMargin {
		vel.X -= turn
	}
	if pos.Y > p.BottomMargin {
		vel.Y -= turn
	}
	if pos.Y < p.TopMargin {
		vel.Y += turn
	}
}
