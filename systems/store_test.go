package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestResizeFlockIdempotent(t *testing.T) {
	p := DefaultParams()
	s := NewStore()
	rng := rand.New(rand.NewSource(5))

	s.ResizeFlock(rng, &p, 25)
	xs, _, _, _ := s.FishArrays()

	s.ResizeFlock(rng, &p, 25)
	if s.FishLen() != 25 {
		t.Fatalf("FishLen = %d, want 25", s.FishLen())
	}
	xs2, _, _, _ := s.FishArrays()
	for i := range xs {
		if xs[i] != xs2[i] {
			t.Fatalf("fish %d changed on idempotent resize", i)
		}
	}
}

func TestResizeTruncatesTail(t *testing.T) {
	p := DefaultParams()
	s := NewStore()
	rng := rand.New(rand.NewSource(5))

	s.ResizeFlock(rng, &p, 10)
	xs, _, _, _ := s.FishArrays()

	s.ResizeFlock(rng, &p, 4)
	if s.FishLen() != 4 {
		t.Fatalf("FishLen = %d, want 4", s.FishLen())
	}
	got, _, _, _ := s.FishArrays()
	for i := range got {
		if got[i] != xs[i] {
			t.Errorf("fish %d: x = %v, want %v (head must survive)", i, got[i], xs[i])
		}
	}

	s.ResizePredators(rng, &p, 3)
	s.ResizePredators(rng, &p, 1)
	if s.PredLen() != 1 {
		t.Errorf("PredLen = %d, want 1", s.PredLen())
	}
}

func TestRandomStateBounds(t *testing.T) {
	p := DefaultParams()
	s := NewStore()
	rng := rand.New(rand.NewSource(11))
	s.ResizeFlock(rng, &p, 200)

	xs, ys, vxs, vys := s.FishArrays()
	for i := range xs {
		if xs[i] < 0 || xs[i] > p.Width || ys[i] < 0 || ys[i] > p.Height {
			t.Errorf("fish %d spawned outside the world at (%v,%v)", i, xs[i], ys[i])
		}
		if v := math.Hypot(vxs[i], vys[i]); v > p.MaxSpeed+1e-9 {
			t.Errorf("fish %d spawned with speed %v > %v", i, v, p.MaxSpeed)
		}
	}
}

func TestRemoveFishDescending(t *testing.T) {
	s := NewStore()
	for i := 0; i < 6; i++ {
		s.AddFish(components.Position{X: float64(i)}, components.Velocity{})
	}

	removed := s.RemoveFish(map[int]struct{}{1: {}, 4: {}, 2: {}})

	wantRemoved := []int{4, 2, 1}
	if len(removed) != len(wantRemoved) {
		t.Fatalf("removed = %v, want %v", removed, wantRemoved)
	}
	for i := range wantRemoved {
		if removed[i] != wantRemoved[i] {
			t.Errorf("removed = %v, want %v", removed, wantRemoved)
			break
		}
	}

	xs, _, _, _ := s.FishArrays()
	wantXs := []float64{0, 3, 5}
	if len(xs) != len(wantXs) {
		t.Fatalf("remaining xs = %v, want %v", xs, wantXs)
	}
	for i := range wantXs {
		if xs[i] != wantXs[i] {
			t.Errorf("remaining xs = %v, want %v", xs, wantXs)
			break
		}
	}

	if s.RemoveFish(nil) != nil {
		t.Error("removing nothing should return nil")
	}
}
