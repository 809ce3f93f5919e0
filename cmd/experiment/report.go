package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is one row of summary.csv: the spread of fish remaining (as a
// percentage of the starting flock) across repetitions of one value.
type Summary struct {
	Experiment   int     `csv:"experiment_id"`
	Parameter    string  `csv:"parameter"`
	Value        float64 `csv:"value"`
	Repetitions  int     `csv:"repetitions"`
	RemainingMin float64 `csv:"remaining_pct_min"`
	RemainingQ1  float64 `csv:"remaining_pct_q1"`
	RemainingMed float64 `csv:"remaining_pct_median"`
	RemainingQ3  float64 `csv:"remaining_pct_q3"`
	RemainingMax float64 `csv:"remaining_pct_max"`
	RemainingAvg float64 `csv:"remaining_pct_mean"`
	RemainingStd float64 `csv:"remaining_pct_std"`
	EatenAvg     float64 `csv:"fish_eaten_mean"`
}

// Summarize groups results by experiment. Results must be ordered by
// experiment, as Sweep.Run returns them.
func Summarize(results []RunResult) []Summary {
	var out []Summary
	for start := 0; start < len(results); {
		end := start
		for end < len(results) && results[end].Experiment == results[start].Experiment {
			end++
		}
		out = append(out, summarizeGroup(results[start:end]))
		start = end
	}
	return out
}

func summarizeGroup(group []RunResult) Summary {
	pct := make([]float64, len(group))
	eaten := make([]float64, len(group))
	for i, r := range group {
		if r.Fish > 0 {
			pct[i] = float64(r.FishRemaining) / float64(r.Fish) * 100
		}
		eaten[i] = float64(r.FishEaten)
	}
	sort.Float64s(pct)

	mean, std := stat.MeanStdDev(pct, nil)
	if len(pct) < 2 {
		std = 0
	}
	return Summary{
		Experiment:   group[0].Experiment,
		Parameter:    group[0].Parameter,
		Value:        group[0].Value,
		Repetitions:  len(group),
		RemainingMin: floats.Min(pct),
		RemainingQ1:  stat.Quantile(0.25, stat.LinInterp, pct, nil),
		RemainingMed: stat.Quantile(0.5, stat.LinInterp, pct, nil),
		RemainingQ3:  stat.Quantile(0.75, stat.LinInterp, pct, nil),
		RemainingMax: floats.Max(pct),
		RemainingAvg: mean,
		RemainingStd: std,
		EatenAvg:     stat.Mean(eaten, nil),
	}
}

// writeCSV marshals records to dir/name with a header row.
func writeCSV(dir, name string, records any) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteReport writes results.csv, timeseries.csv and summary.csv.
func WriteReport(dir string, results []RunResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeCSV(dir, "results.csv", &results); err != nil {
		return err
	}

	var series []Sample
	for _, r := range results {
		series = append(series, r.series...)
	}
	if err := writeCSV(dir, "timeseries.csv", &series); err != nil {
		return err
	}

	summary := Summarize(results)
	return writeCSV(dir, "summary.csv", &summary)
}
