package main

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/systems"
)

// Phase lengths in ticks.
const (
	settleTicks  = 2
	enforceTicks = 25
	relaxTicks   = 100
)

// enforceSchooling shrinks the tank and maxes out alignment so the flock
// starts out as one aligned school.
func enforceSchooling(p *systems.Params) {
	p.Width = 120
	p.Height = 120
	p.Margin = 10
	p.MatchingFactor = 1
}

// tunedParams returns the parameters used while recording, relative to base.
// They slow the fish down and favour tighter, front-weighted schools.
func tunedParams(base systems.Params, width, height float64) systems.Params {
	p := base
	p.Width = width
	p.Height = height
	p.Margin = 50
	p.MatchingFactor = 0.05 * 1.1
	p.MaxSpeed = 3 * 0.45
	p.MinSpeed = 2 * 0.45
	p.TurnFactor = 0.15 * 1.3
	p.ProtectedRange *= 1.25
	p.AvoidFactor *= 1.6
	p.FrontWeight = 2
	p.MaxTurn *= 1.5
	p.CenteringFactor *= 1.5
	p.VisualRange /= 1.2
	p.RecomputeDerived()
	return p
}

// iteration is the record of one validation run.
type iteration struct {
	polarization []float64
	milling      []float64
	nnDistances  []float64 // at the end of the run
}

// runIteration runs one predator-free validation pass.
func runIteration(base systems.Params, width, height float64, fish, duration int, seed int64) iteration {
	start := base
	start.Width, start.Height = width, height
	s := sim.New(start, sim.Options{Seed: seed, Fish: fish})

	for i := 0; i < settleTicks; i++ {
		s.Step()
	}

	enforceSchooling(s.Params())
	s.RecomputeDerived()
	for i := 0; i < enforceTicks; i++ {
		s.Step()
	}

	s.SetParams(tunedParams(base, width, height))
	for i := 0; i < relaxTicks; i++ {
		s.Step()
	}

	it := iteration{
		polarization: make([]float64, 0, duration),
		milling:      make([]float64, 0, duration),
	}
	for i := 0; i < duration; i++ {
		s.Step()
		m := s.Metrics()
		it.polarization = append(it.polarization, m.Polarization)
		it.milling = append(it.milling, m.MillingIndex)
	}

	if xs, ys, _, _, ok := s.StateArrays(); ok {
		it.nnDistances = systems.NearestNeighborDistances(xs, ys)
	}
	return it
}

// HistogramBin is one row of histogram.csv. Densities integrate to 1 over [0,1].
type HistogramBin struct {
	Lo           float64 `csv:"bin_lo"`
	Hi           float64 `csv:"bin_hi"`
	Polarization float64 `csv:"polarization_density"`
	Milling      float64 `csv:"milling_density"`
}

// densityHistogram bins values in [0,1] into n equal bins and normalises
// the counts to a probability density.
func densityHistogram(values []float64, n int) []float64 {
	dividers := make([]float64, n+1)
	floats.Span(dividers, 0, 1)
	// Histogram bins are half-open; let exact 1s land in the last bin.
	dividers[n] = math.Nextafter(1, 2)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	for i, v := range sorted {
		sorted[i] = max(0, min(v, 1))
	}
	sort.Float64s(sorted)

	counts := stat.Histogram(nil, dividers, sorted, nil)
	if len(sorted) == 0 {
		return counts
	}
	width := 1 / float64(n)
	floats.Scale(1/(float64(len(sorted))*width), counts)
	return counts
}

// buildHistogram pairs the polarization and milling densities bin by bin.
func buildHistogram(polarization, milling []float64, n int) []HistogramBin {
	pd := densityHistogram(polarization, n)
	md := densityHistogram(milling, n)
	bins := make([]HistogramBin, n)
	for i := range bins {
		bins[i] = HistogramBin{
			Lo:           float64(i) / float64(n),
			Hi:           float64(i+1) / float64(n),
			Polarization: pd[i],
			Milling:      md[i],
		}
	}
	return bins
}

// SeriesSummary is one row of summary.csv.
type SeriesSummary struct {
	Series string  `csv:"series"`
	Count  int     `csv:"count"`
	Mean   float64 `csv:"mean"`
	Std    float64 `csv:"std"`
	Min    float64 `csv:"min"`
	Median float64 `csv:"median"`
	Max    float64 `csv:"max"`
}

func summarize(name string, values []float64) SeriesSummary {
	if len(values) == 0 {
		return SeriesSummary{Series: name}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return SeriesSummary{
		Series: name,
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}
