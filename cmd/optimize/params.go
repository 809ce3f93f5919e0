// Package main provides CMA-ES optimization for flock parameters.
package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "matching_factor", Path: "flock.matching_factor", Min: 0.0, Max: 0.2, Default: 0.05,
				get: func(c *config.Config) float64 { return c.Flock.MatchingFactor },
				set: func(c *config.Config, v float64) { c.Flock.MatchingFactor = v },
			},
			{
				Name: "avoid_factor", Path: "flock.avoid_factor", Min: 0.0, Max: 0.2, Default: 0.05,
				get: func(c *config.Config) float64 { return c.Flock.AvoidFactor },
				set: func(c *config.Config, v float64) { c.Flock.AvoidFactor = v },
			},
			{
				Name: "centering_factor", Path: "flock.centering_factor", Min: 0.0, Max: 0.005, Default: 0.0005,
				get: func(c *config.Config) float64 { return c.Flock.CenteringFactor },
				set: func(c *config.Config, v float64) { c.Flock.CenteringFactor = v },
			},
			{
				Name: "front_weight", Path: "flock.front_weight", Min: 0.0, Max: 1.0, Default: 1.0,
				get: func(c *config.Config) float64 { return c.Flock.FrontWeight },
				set: func(c *config.Config, v float64) { c.Flock.FrontWeight = v },
			},
			{
				Name: "fish2pred_avoidance", Path: "predator.fish2pred_avoidance", Min: 0.0, Max: 0.5, Default: 0.1,
				get: func(c *config.Config) float64 { return c.Predator.Fish2PredAvoidance },
				set: func(c *config.Config, v float64) { c.Predator.Fish2PredAvoidance = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
