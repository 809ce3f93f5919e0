// Package systems implements the per-tick flock and predator rules.
package systems

import "math"

// Params holds every tunable of one simulation.
//
// Preconditions (enforced by whoever edits the values, not here):
// MinSpeed <= MaxSpeed, MinSpeedPred <= MaxSpeedPred, ranges non-negative.
//
// The fields under "derived" are caches. They are refreshed only by
// RecomputeDerived; editing a primary value does not update them.
type Params struct {
	// Flock kinematics
	TurnFactor         float64
	VisualRange        float64
	ProtectedRange     float64
	CenteringFactor    float64
	AvoidFactor        float64
	MatchingFactor     float64
	MaxSpeed           float64
	MinSpeed           float64
	FieldOfViewDegrees float64
	FrontWeight        float64
	SpeedControl       float64
	TurningControl     float64
	MaxTurn            float64 // radians per tick
	RandomFreq         float64 // probability per tick
	RandomFactor       float64 // radians

	// Predator kinematics
	TurnFactorPred      float64
	VisualRangePred     float64
	PredatoryRange      float64
	EatingRange         float64
	EatingDuration      int // ticks
	Pred2FishAttraction float64
	Fish2PredAvoidance  float64
	AvoidFactorPred     float64
	MaxSpeedPred        float64
	MinSpeedPred        float64

	// World
	Width  float64
	Height float64
	Margin float64

	// Derived
	VisualRangeSquared    float64
	ProtectedRangeSquared float64
	FieldOfViewCosine     float64
	LeftMargin            float64
	RightMargin           float64
	TopMargin             float64
	BottomMargin          float64
}

// DefaultParams returns the reference parameter set with derived values filled in.
func DefaultParams() Params {
	p := Params{
		TurnFactor:         0.2,
		VisualRange:        40,
		ProtectedRange:     8,
		CenteringFactor:    0.0005,
		AvoidFactor:        0.05,
		MatchingFactor:     0.05,
		MaxSpeed:           3,
		MinSpeed:           2,
		FieldOfViewDegrees: 340,
		FrontWeight:        1,
		SpeedControl:       0.1,
		TurningControl:     0.2,
		MaxTurn:            0.1,
		RandomFreq:         0.1,
		RandomFactor:       0.1,

		TurnFactorPred:      0.2,
		VisualRangePred:     80,
		PredatoryRange:      60,
		EatingRange:         6,
		EatingDuration:      60,
		Pred2FishAttraction: 0.1,
		Fish2PredAvoidance:  0.1,
		AvoidFactorPred:     0.05,
		MaxSpeedPred:        3.3,
		MinSpeedPred:        2.2,

		Width:  640,
		Height: 480,
		Margin: 100,
	}
	p.RecomputeDerived()
	return p
}

// RecomputeDerived refreshes the squared ranges, the field-of-view cosine
// and the four margin boundaries from their primary values.
// The field of view is a full cone angle, so the cosine threshold uses half of it.
func (p *Params) RecomputeDerived() {
	p.VisualRangeSquared = p.VisualRange * p.VisualRange
	p.ProtectedRangeSquared = p.ProtectedRange * p.ProtectedRange
	p.FieldOfViewCosine = math.Cos(p.FieldOfViewDegrees / 2 * math.Pi / 180)

	p.LeftMargin = p.Margin
	p.RightMargin = p.Width - p.Margin
	p.TopMargin = p.Margin
	p.BottomMargin = p.Height - p.Margin
}
