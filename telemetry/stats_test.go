package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSeriesStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	got := ComputeSeriesStats(values)

	tests := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"mean", got.Mean, 0.55, 0.001},
		{"std", got.Std, 0.2872, 0.001},
		{"p10", got.P10, 0.19, 0.01},
		{"p50", got.P50, 0.55, 0.01},
		{"p90", got.P90, 0.91, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > tt.tol {
				t.Errorf("%s = %v, want ~%v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestComputeSeriesStatsEmpty(t *testing.T) {
	if got := ComputeSeriesStats(nil); got != (SeriesStats{}) {
		t.Errorf("empty series should return zero stats, got %+v", got)
	}
}

func TestComputeSeriesStatsDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeSeriesStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input was modified: %v", values)
	}
}
