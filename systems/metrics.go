package systems

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics holds the two order parameters of a flock.
type Metrics struct {
	Polarization float64 // 0 scattered headings, 1 fully aligned
	MillingIndex float64 // 0 no rotation about the centre, 1 strong vortex
}

// LogValue implements slog.LogValuer for structured logging.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("polarization", m.Polarization),
		slog.Float64("milling_index", m.MillingIndex),
	)
}

// ComputeMetrics derives polarization and milling index from parallel
// position and velocity slices. An empty flock yields {1, 0}.
func ComputeMetrics(xs, ys, vxs, vys []float64) Metrics {
	n := len(xs)
	if n == 0 {
		return Metrics{Polarization: 1, MillingIndex: 0}
	}

	ux := make([]float64, n)
	uy := make([]float64, n)
	for i := range vxs {
		v := speed(vxs[i], vys[i]) + eps
		ux[i] = vxs[i] / v
		uy[i] = vys[i] / v
	}
	polarization := math.Hypot(floats.Sum(ux)/float64(n), floats.Sum(uy)/float64(n))

	baryX, baryY := stat.Mean(xs, nil), stat.Mean(ys, nil)
	baryVX, baryVY := stat.Mean(vxs, nil), stat.Mean(vys, nil)

	sines := ux // reuse
	for i := range xs {
		theta := math.Atan2(ys[i]-baryY, xs[i]-baryX)
		phi := math.Atan2(vys[i]-baryVY, vxs[i]-baryVX)
		sines[i] = math.Sin(phi - theta)
	}

	return Metrics{
		Polarization: polarization,
		MillingIndex: math.Abs(stat.Mean(sines, nil)),
	}
}

// NearestNeighborDistances returns, for each agent, the distance to its
// closest other agent. Fewer than two agents yields nil.
func NearestNeighborDistances(xs, ys []float64) []float64 {
	n := len(xs)
	if n < 2 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Inf(1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			if d < out[i] {
				out[i] = d
			}
			if d < out[j] {
				out[j] = d
			}
		}
	}
	return out
}
