package systems

import (
	"math"
	"math/rand"
)

// eps guards every division by a length or a distance.
const eps = 1e-9

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// sign returns -1, 0 or +1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// speed returns the magnitude of a velocity vector.
func speed(vx, vy float64) float64 {
	return math.Sqrt(vx*vx + vy*vy)
}

// Rotate rotates (x, y) counter-clockwise by theta radians.
func Rotate(x, y, theta float64) (float64, float64) {
	sin, cos := math.Sincos(theta)
	return x*cos - y*sin, x*sin + y*cos
}

// uniform returns a value drawn uniformly from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
