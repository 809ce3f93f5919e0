// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shoal/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Flock      FlockConfig      `yaml:"flock"`
	Predator   PredatorConfig   `yaml:"predator"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Experiment ExperimentConfig `yaml:"experiment"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the world rectangle and the soft margin inside it.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"` // distance from each edge where turning starts
}

// FlockConfig holds fish kinematics parameters.
type FlockConfig struct {
	TurnFactor      float64 `yaml:"turn_factor"`
	VisualRange     float64 `yaml:"visual_range"`
	ProtectedRange  float64 `yaml:"protected_range"`
	CenteringFactor float64 `yaml:"centering_factor"`
	AvoidFactor     float64 `yaml:"avoid_factor"`
	MatchingFactor  float64 `yaml:"matching_factor"`
	MaxSpeed        float64 `yaml:"max_speed"`
	MinSpeed        float64 `yaml:"min_speed"`
	FieldOfView     float64 `yaml:"field_of_view"` // degrees
	FrontWeight     float64 `yaml:"front_weight"`
	SpeedControl    float64 `yaml:"speed_control"`
	TurningControl  float64 `yaml:"turning_control"`
	MaxTurn         float64 `yaml:"max_turn"`
	RandomFreq      float64 `yaml:"random_freq"`
	RandomFactor    float64 `yaml:"random_factor"`
}

// PredatorConfig holds predator kinematics parameters.
type PredatorConfig struct {
	TurnFactor          float64 `yaml:"turn_factor"`
	VisualRange         float64 `yaml:"visual_range"`
	PredatoryRange      float64 `yaml:"predatory_range"`
	EatingRange         float64 `yaml:"eating_range"`
	EatingDuration      int     `yaml:"eating_duration"`
	Pred2FishAttraction float64 `yaml:"pred2fish_attraction"`
	Fish2PredAvoidance  float64 `yaml:"fish2pred_avoidance"`
	AvoidFactor         float64 `yaml:"avoid_factor"`
	MaxSpeed            float64 `yaml:"max_speed"`
	MinSpeed            float64 `yaml:"min_speed"`
}

// PopulationConfig holds the initial agent counts.
type PopulationConfig struct {
	Fish      int `yaml:"fish"`
	Predators int `yaml:"predators"`
}

// TelemetryConfig holds stats window and bookmark settings.
type TelemetryConfig struct {
	StatsWindow        int     `yaml:"stats_window"`
	SampleEvery        int     `yaml:"sample_every"`
	BookmarkHistory    int     `yaml:"bookmark_history"`
	PerfWindow         int     `yaml:"perf_window"`
	SchoolingThreshold float64 `yaml:"schooling_threshold"`
	MillingThreshold   float64 `yaml:"milling_threshold"`
}

// ExperimentConfig holds parameter sweep settings for cmd/experiment.
type ExperimentConfig struct {
	Duration       int       `yaml:"duration"`
	Repetitions    int       `yaml:"repetitions"`
	SampleInterval int       `yaml:"sample_interval"`
	Parameter      string    `yaml:"parameter"`
	Values         []float64 `yaml:"values"`
	Workers        int       `yaml:"workers"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindow32 int32 // Telemetry.StatsWindow as int32
	SampleEvery32 int32 // Telemetry.SampleEvery as int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StatsWindow32 = int32(c.Telemetry.StatsWindow)
	c.Derived.SampleEvery32 = int32(c.Telemetry.SampleEvery)
	if c.Derived.SampleEvery32 < 1 {
		c.Derived.SampleEvery32 = 1
	}
}

// Params converts the config into simulation parameters with the derived
// values filled in.
func (c *Config) Params() systems.Params {
	p := systems.Params{
		TurnFactor:         c.Flock.TurnFactor,
		VisualRange:        c.Flock.VisualRange,
		ProtectedRange:     c.Flock.ProtectedRange,
		CenteringFactor:    c.Flock.CenteringFactor,
		AvoidFactor:        c.Flock.AvoidFactor,
		MatchingFactor:     c.Flock.MatchingFactor,
		MaxSpeed:           c.Flock.MaxSpeed,
		MinSpeed:           c.Flock.MinSpeed,
		FieldOfViewDegrees: c.Flock.FieldOfView,
		FrontWeight:        c.Flock.FrontWeight,
		SpeedControl:       c.Flock.SpeedControl,
		TurningControl:     c.Flock.TurningControl,
		MaxTurn:            c.Flock.MaxTurn,
		RandomFreq:         c.Flock.RandomFreq,
		RandomFactor:       c.Flock.RandomFactor,

		TurnFactorPred:      c.Predator.TurnFactor,
		VisualRangePred:     c.Predator.VisualRange,
		PredatoryRange:      c.Predator.PredatoryRange,
		EatingRange:         c.Predator.EatingRange,
		EatingDuration:      c.Predator.EatingDuration,
		Pred2FishAttraction: c.Predator.Pred2FishAttraction,
		Fish2PredAvoidance:  c.Predator.Fish2PredAvoidance,
		AvoidFactorPred:     c.Predator.AvoidFactor,
		MaxSpeedPred:        c.Predator.MaxSpeed,
		MinSpeedPred:        c.Predator.MinSpeed,

		Width:  c.World.Width,
		Height: c.World.Height,
		Margin: c.World.Margin,
	}
	p.RecomputeDerived()
	return p
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
