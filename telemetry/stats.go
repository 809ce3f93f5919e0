package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population counts at window end
	FishCount int `csv:"fish"`
	PredCount int `csv:"pred"`

	// Predation during window
	Eaten          int     `csv:"eaten"`
	EatenPerTick   float64 `csv:"eaten_per_tick"`
	PredsDigesting int     `csv:"preds_digesting"`

	// Polarization samples taken during the window
	PolarizationMean float64 `csv:"polarization_mean"`
	PolarizationStd  float64 `csv:"polarization_std"`
	PolarizationP10  float64 `csv:"polarization_p10"`
	PolarizationP50  float64 `csv:"polarization_p50"`
	PolarizationP90  float64 `csv:"polarization_p90"`

	// Milling index samples taken during the window
	MillingMean float64 `csv:"milling_mean"`
	MillingStd  float64 `csv:"milling_std"`
	MillingP10  float64 `csv:"milling_p10"`
	MillingP50  float64 `csv:"milling_p50"`
	MillingP90  float64 `csv:"milling_p90"`

	// Spacing at window end
	NearestNeighborMean float64 `csv:"nn_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SeriesStats holds the summary of one sampled series.
type SeriesStats struct {
	Mean, Std, P10, P50, P90 float64
}

// ComputeSeriesStats calculates mean, population std and percentiles.
func ComputeSeriesStats(values []float64) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SeriesStats{
		Mean: mean,
		Std:  math.Sqrt(variance),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("fish", s.FishCount),
		slog.Int("pred", s.PredCount),
		slog.Int("eaten", s.Eaten),
		slog.Float64("eaten_per_tick", s.EatenPerTick),
		slog.Int("preds_digesting", s.PredsDigesting),
		slog.Float64("polarization_mean", s.PolarizationMean),
		slog.Float64("polarization_std", s.PolarizationStd),
		slog.Float64("polarization_p10", s.PolarizationP10),
		slog.Float64("polarization_p50", s.PolarizationP50),
		slog.Float64("polarization_p90", s.PolarizationP90),
		slog.Float64("milling_mean", s.MillingMean),
		slog.Float64("milling_std", s.MillingStd),
		slog.Float64("milling_p10", s.MillingP10),
		slog.Float64("milling_p50", s.MillingP50),
		slog.Float64("milling_p90", s.MillingP90),
		slog.Float64("nn_mean", s.NearestNeighborMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"fish", s.FishCount,
		"pred", s.PredCount,
		"eaten", s.Eaten,
		"eaten_per_tick", s.EatenPerTick,
		"preds_digesting", s.PredsDigesting,
		"polarization_mean", s.PolarizationMean,
		"polarization_p50", s.PolarizationP50,
		"milling_mean", s.MillingMean,
		"milling_p50", s.MillingP50,
		"nn_mean", s.NearestNeighborMean,
	)
}
