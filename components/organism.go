package components

// Digestion holds the predator eat/pause state.
// A predator with Eating set is stationary until Timer runs out.
type Digestion struct {
	Eating bool
	Timer  int // ticks remaining
}

// Roaming reports whether the predator is free to chase.
func (d Digestion) Roaming() bool {
	return !d.Eating
}

// Start begins a digestion pause lasting duration ticks.
func (d *Digestion) Start(duration int) {
	d.Eating = true
	d.Timer = duration
}

// Tick advances the pause by one tick and reports whether the predator
// is still eating afterwards. The eat tick itself counts as the first
// stationary tick, so a pause started with duration d holds the predator
// for d ticks in total and it roams on the tick Timer reaches 0.
func (d *Digestion) Tick() bool {
	if !d.Eating {
		return false
	}
	d.Timer--
	if d.Timer <= 0 {
		d.Timer = 0
		d.Eating = false
	}
	return d.Eating
}
