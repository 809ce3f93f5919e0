package systems

import "math"

// FlockScan is the result of one flock member's neighbour scan.
type FlockScan struct {
	// Velocity change from cohesion, alignment and separation.
	DVX, DVY float64

	FrontPressure float64 // crowding ahead
	BackPressure  float64 // crowding behind
	TurnDrive     float64 // signed lateral pull, positive to the left
	Neighbors     int     // visual-range neighbours inside the field of view
}

// ScanFlock scans every other flock member for fish i and accumulates the
// flocking contributions. It does not modify the store.
//
// Neighbours inside the protected range always push fish i away. Neighbours
// in the visual range only count when they fall inside the field-of-view cone,
// weighted towards those ahead.
func ScanFlock(s *Store, p *Params, i int) FlockScan {
	var scan FlockScan

	pos, vel := s.Fish(i)
	ax, ay := pos.X, pos.Y
	avx, avy := vel.X, vel.Y

	v := speed(avx, avy) + eps
	hx, hy := avx/v, avy/v
	px, py := -hy, hx

	var closeDX, closeDY float64
	var sumX, sumY, sumVX, sumVY, weightSum float64

	for j := range s.fish {
		if j == i {
			continue
		}
		opos, ovel := s.Fish(j)
		dx := ax - opos.X
		dy := ay - opos.Y

		// Axis-aligned pre-filter before the exact distance test.
		if math.Abs(dx) >= p.VisualRange || math.Abs(dy) >= p.VisualRange {
			continue
		}

		sq := dx*dx + dy*dy
		if sq < p.ProtectedRangeSquared {
			closeDX += dx
			closeDY += dy
			continue
		}
		if sq >= p.VisualRangeSquared {
			continue
		}

		dist := math.Sqrt(sq) + eps
		cosine := (-dx*hx - dy*hy) / dist
		if cosine < p.FieldOfViewCosine {
			continue
		}

		ahead := math.Max(0, cosine)
		w := 1 + p.FrontWeight*ahead

		sumX += w * opos.X
		sumY += w * opos.Y
		sumVX += w * ovel.X
		sumVY += w * ovel.Y
		weightSum += w

		scan.FrontPressure += ahead / dist
		scan.BackPressure += math.Max(0, -cosine) / dist

		lateral := -dx*px - dy*py
		scan.TurnDrive += w * (lateral / dist)
		scan.Neighbors++
	}

	if weightSum > 0 {
		meanX, meanY := sumX/weightSum, sumY/weightSum
		meanVX, meanVY := sumVX/weightSum, sumVY/weightSum
		scan.DVX += p.CenteringFactor*(meanX-ax) + p.MatchingFactor*(meanVX-avx)
		scan.DVY += p.CenteringFactor*(meanY-ay) + p.MatchingFactor*(meanVY-avy)
	}
	scan.DVX += p.AvoidFactor * closeDX
	scan.DVY += p.AvoidFactor * closeDY

	return scan
}
