// Package main runs the eating experiment: a sweep over one flock or
// predator parameter, counting how many fish the predators eat.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/shoal/config"
)

func parseValues(s string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results")
	parameter := flag.String("parameter", "", "Parameter to sweep (empty = use config)")
	valuesFlag := flag.String("values", "", "Comma-separated values to sweep (empty = use config)")
	repetitions := flag.Int("repetitions", 0, "Repetitions per value (0 = use config)")
	duration := flag.Int("duration", 0, "Ticks per run (0 = use config)")
	seed := flag.Int64("seed", 42, "Base seed; repetition j uses seed+j")
	workers := flag.Int("workers", 0, "Concurrent runs (0 = use config, then NumCPU)")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	for _, w := range cfg.Validate() {
		log.Printf("config value clipped: %s", w)
	}
	exp := cfg.Experiment

	sw := &Sweep{
		Base:           cfg,
		Parameter:      exp.Parameter,
		Values:         exp.Values,
		Repetitions:    exp.Repetitions,
		Duration:       exp.Duration,
		SampleInterval: exp.SampleInterval,
		BaseSeed:       *seed,
		Workers:        exp.Workers,
	}
	if *parameter != "" {
		sw.Parameter = *parameter
	}
	if *valuesFlag != "" {
		values, err := parseValues(*valuesFlag)
		if err != nil {
			log.Fatalf("invalid --values: %v", err)
		}
		sw.Values = values
	}
	if *repetitions > 0 {
		sw.Repetitions = *repetitions
	}
	if *duration > 0 {
		sw.Duration = *duration
	}
	if *workers > 0 {
		sw.Workers = *workers
	}
	if sw.Workers <= 0 {
		sw.Workers = runtime.NumCPU()
	}

	start := time.Now()
	sw.Progress = func(done, total int) {
		fmt.Printf("Run %d/%d done | elapsed: %s\n", done, total, time.Since(start).Round(time.Second))
	}

	fmt.Printf("Sweeping %s over %v, %d repetitions, %d ticks per run, %d workers\n",
		sw.Parameter, sw.Values, sw.Repetitions, sw.Duration, sw.Workers)

	results, err := sw.Run()
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	if err := WriteReport(*outputDir, results); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	for _, s := range Summarize(results) {
		fmt.Printf("  %s=%.4f: %.1f%% remaining (median %.1f%%, std %.1f)\n",
			s.Parameter, s.Value, s.RemainingAvg, s.RemainingMed, s.RemainingStd)
	}

	cfgCopy := *cfg
	cfgCopy.Experiment.Parameter = sw.Parameter
	cfgCopy.Experiment.Values = sw.Values
	cfgCopy.Experiment.Repetitions = sw.Repetitions
	cfgCopy.Experiment.Duration = sw.Duration
	if err := cfgCopy.WriteYAML(filepath.Join(*outputDir, "config.yaml")); err != nil {
		log.Printf("failed to write config: %v", err)
	}
	fmt.Printf("Results written to %s\n", *outputDir)
}
