package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/config"
)

func TestApplyToConfigClampsAndExtracts(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	values := pv.DefaultVector()
	values[0] = 5 // far above matching_factor max

	pv.ApplyToConfig(cfg, values)
	got := pv.ExtractFromConfig(cfg)

	if got[0] != pv.Specs[0].Max {
		t.Errorf("matching_factor = %v, want clamped to %v", got[0], pv.Specs[0].Max)
	}
	for i := 1; i < len(got); i++ {
		if math.Abs(got[i]-values[i]) > 1e-12 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], values[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-12 {
			t.Errorf("%s default %v does not match config %v", spec.Name, spec.Default, got[i])
		}
	}
}
