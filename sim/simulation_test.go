package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

func TestStepKeepsAgentsInBoundsAndSpeed(t *testing.T) {
	p := systems.DefaultParams()
	s := New(p, Options{Seed: 1, Fish: 60, Predators: 3})

	for tick := 0; tick < 300; tick++ {
		s.Step()

		for i := 0; i < s.store.FishLen(); i++ {
			pos, vel := s.Fish(i)
			if pos.X < 0 || pos.X > p.Width || pos.Y < 0 || pos.Y > p.Height {
				t.Fatalf("tick %d: fish %d at %+v outside world", tick, i, *pos)
			}
			v := math.Hypot(vel.X, vel.Y)
			if v < p.MinSpeed-1e-6 || v > p.MaxSpeed+1e-6 {
				t.Fatalf("tick %d: fish %d speed %v outside [%v,%v]", tick, i, v, p.MinSpeed, p.MaxSpeed)
			}
		}

		for j := 0; j < s.NumPredators(); j++ {
			pos, vel, dig := s.Predator(j)
			if pos.X < 0 || pos.X > p.Width || pos.Y < 0 || pos.Y > p.Height {
				t.Fatalf("tick %d: predator %d at %+v outside world", tick, j, *pos)
			}
			if dig.Eating {
				continue
			}
			v := math.Hypot(vel.X, vel.Y)
			if v < p.MinSpeedPred-1e-6 || v > p.MaxSpeedPred+1e-6 {
				t.Fatalf("tick %d: predator %d speed %v outside [%v,%v]", tick, j, v, p.MinSpeedPred, p.MaxSpeedPred)
			}
		}

		if s.NumFish() != s.store.FishLen() {
			t.Fatalf("tick %d: flock counter %d out of sync with store %d", tick, s.NumFish(), s.store.FishLen())
		}
	}
}

func TestTwoFishSeparate(t *testing.T) {
	p := systems.DefaultParams()
	p.RandomFreq = 0
	s := New(p, Options{Seed: 1})

	s.AddFish(components.Position{X: 300, Y: 240}, components.Velocity{X: 0, Y: 2})
	s.AddFish(components.Position{X: 305, Y: 240}, components.Velocity{X: 0, Y: 2})

	s.Step()

	_, a := s.Fish(0)
	_, b := s.Fish(1)
	if a.X >= 0 {
		t.Errorf("left fish vx = %v, want negative (away from its neighbour)", a.X)
	}
	if b.X <= 0 {
		t.Errorf("right fish vx = %v, want positive (away from its neighbour)", b.X)
	}
}

func TestEatingDeterminism(t *testing.T) {
	p := systems.DefaultParams()
	p.RandomFreq = 0
	s := New(p, Options{Seed: 3})

	s.AddPredator(components.Position{X: 300, Y: 240}, components.Velocity{X: 2.2, Y: 0})
	// Two fish swimming into the predator; only the first may be eaten.
	s.AddFish(components.Position{X: 303, Y: 240}, components.Velocity{X: -2, Y: 0})
	s.AddFish(components.Position{X: 300, Y: 243}, components.Velocity{X: 0, Y: -2})

	removed := s.Step()

	if len(removed) != 1 || removed[0] != 0 {
		t.Fatalf("removed = %v, want [0]", removed)
	}
	if s.NumFish() != 1 {
		t.Errorf("NumFish = %d, want 1", s.NumFish())
	}
	eats := s.LastEats()
	if len(eats) != 1 || eats[0].Predator != 0 || eats[0].Fish != 0 || eats[0].Tick != 0 {
		t.Errorf("LastEats = %+v", eats)
	}

	pos, _, dig := s.Predator(0)
	if !dig.Eating || dig.Timer != p.EatingDuration {
		t.Fatalf("digestion = %+v, want eating with timer %d", *dig, p.EatingDuration)
	}
	frozen := *pos

	// The eat tick plus duration-1 countdown ticks keep the predator still.
	for i := 0; i < p.EatingDuration-1; i++ {
		if got := s.Step(); len(got) != 0 {
			t.Fatalf("digesting predator ate again on tick %d", i)
		}
		if pos, _, _ := s.Predator(0); *pos != frozen {
			t.Fatalf("tick %d: digesting predator moved to %+v", i, *pos)
		}
	}

	s.Step()
	if pos, _, dig := s.Predator(0); *pos == frozen || dig.Eating {
		t.Errorf("predator should roam again after %d ticks: %+v %+v", p.EatingDuration, *pos, *dig)
	}
}

func TestTwoPredatorsOneFish(t *testing.T) {
	p := systems.DefaultParams()
	p.RandomFreq = 0
	s := New(p, Options{Seed: 3})

	s.AddPredator(components.Position{X: 300, Y: 240}, components.Velocity{X: 2.2})
	s.AddPredator(components.Position{X: 302, Y: 240}, components.Velocity{X: -2.2})
	s.AddFish(components.Position{X: 303, Y: 240}, components.Velocity{X: -2, Y: 0})

	removed := s.Step()
	if len(removed) != 1 {
		t.Fatalf("removed = %v, want exactly one fish", removed)
	}
	_, _, d0 := s.Predator(0)
	_, _, d1 := s.Predator(1)
	if !d0.Eating || d1.Eating {
		t.Errorf("only the first predator should eat: %+v %+v", *d0, *d1)
	}
}

func TestStateArraysEmpty(t *testing.T) {
	s := New(systems.DefaultParams(), Options{Seed: 1})

	if _, _, _, _, ok := s.StateArrays(); ok {
		t.Error("empty flock should report ok=false")
	}
	m := s.Metrics()
	if m.Polarization != 1 || m.MillingIndex != 0 {
		t.Errorf("empty metrics = %+v, want {1 0}", m)
	}

	s.ResizeFlock(5)
	xs, ys, vxs, vys, ok := s.StateArrays()
	if !ok || len(xs) != 5 || len(ys) != 5 || len(vxs) != 5 || len(vys) != 5 {
		t.Errorf("StateArrays after resize: ok=%v lens=%d,%d,%d,%d", ok, len(xs), len(ys), len(vxs), len(vys))
	}
}

func TestResizeFlockIdempotent(t *testing.T) {
	s := New(systems.DefaultParams(), Options{Seed: 1, Fish: 20})
	s.ResizeFlock(20)
	if s.NumFish() != 20 || s.store.FishLen() != 20 {
		t.Errorf("NumFish = %d, store = %d, want 20", s.NumFish(), s.store.FishLen())
	}
	s.ResizeFlock(8)
	if s.NumFish() != 8 || s.store.FishLen() != 8 {
		t.Errorf("NumFish = %d, store = %d, want 8", s.NumFish(), s.store.FishLen())
	}
}

func TestSameSeedSameRun(t *testing.T) {
	a := New(systems.DefaultParams(), Options{Seed: 99, Fish: 40, Predators: 2})
	b := New(systems.DefaultParams(), Options{Seed: 99, Fish: 40, Predators: 2})
	c := New(systems.DefaultParams(), Options{Seed: 100, Fish: 40, Predators: 2})

	for i := 0; i < 150; i++ {
		a.Step()
		b.Step()
		c.Step()
	}

	ax, ay, _, _, _ := a.StateArrays()
	bx, by, _, _, _ := b.StateArrays()
	if len(ax) != len(bx) {
		t.Fatalf("flock sizes differ: %d vs %d", len(ax), len(bx))
	}
	for i := range ax {
		if ax[i] != bx[i] || ay[i] != by[i] {
			t.Fatalf("fish %d differs between identical seeds", i)
		}
	}

	cx, _, _, _, _ := c.StateArrays()
	same := len(cx) == len(ax)
	for i := 0; same && i < len(ax); i++ {
		same = ax[i] == cx[i]
	}
	if same {
		t.Error("different seeds produced identical runs")
	}
}

func TestSetParamsRecomputesDerived(t *testing.T) {
	s := New(systems.DefaultParams(), Options{Seed: 1})

	p := systems.DefaultParams()
	p.VisualRange = 10
	p.Width = 200
	s.SetParams(p)
	if got := s.Params().VisualRangeSquared; got != 100 {
		t.Errorf("VisualRangeSquared = %v, want 100", got)
	}
	if got := s.Params().RightMargin; got != 100 {
		t.Errorf("RightMargin = %v, want 100", got)
	}

	// Direct edits are not visible until RecomputeDerived.
	s.Params().ProtectedRange = 2
	if s.Params().ProtectedRangeSquared == 4 {
		t.Error("derived value refreshed without RecomputeDerived")
	}
	s.RecomputeDerived()
	if s.Params().ProtectedRangeSquared != 4 {
		t.Errorf("ProtectedRangeSquared = %v, want 4", s.Params().ProtectedRangeSquared)
	}
}

type phaseRecorder struct{ phases []string }

func (r *phaseRecorder) StartPhase(name string) { r.phases = append(r.phases, name) }

func TestStepPhaseOrder(t *testing.T) {
	s := New(systems.DefaultParams(), Options{Seed: 1, Fish: 3, Predators: 1})
	rec := &phaseRecorder{}
	s.SetPerf(rec)
	s.Step()

	want := []string{PhaseFlocking, PhasePredators, PhaseCleanup}
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phases = %v, want %v", rec.phases, want)
		}
	}
}

func TestSeedAndDigesting(t *testing.T) {
	p := systems.DefaultParams()
	p.RandomFreq = 0
	s := New(p, Options{Seed: 42})
	if s.Seed() != 42 {
		t.Errorf("Seed = %d, want 42", s.Seed())
	}

	s.AddPredator(components.Position{X: 300, Y: 240}, components.Velocity{X: 2.2})
	s.AddPredator(components.Position{X: 100, Y: 100}, components.Velocity{X: 2.2})
	s.AddFish(components.Position{X: 303, Y: 240}, components.Velocity{X: -2, Y: 0})

	if s.Digesting() != 0 {
		t.Errorf("Digesting = %d before any eat, want 0", s.Digesting())
	}
	s.Step()
	if s.Digesting() != 1 {
		t.Errorf("Digesting = %d after one eat, want 1", s.Digesting())
	}
}
