package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func newTestStore() *Store {
	return NewStore()
}

func TestScanFlock_ProtectedRangeIgnoresFieldOfView(t *testing.T) {
	p := DefaultParams()
	s := newTestStore()

	// A heads along +x; B sits 3 units directly behind, outside the cone.
	s.AddFish(components.Position{X: 100, Y: 100}, components.Velocity{X: 2, Y: 0})
	s.AddFish(components.Position{X: 97, Y: 100}, components.Velocity{X: 2, Y: 0})

	scan := ScanFlock(s, &p, 0)

	if math.Abs(scan.DVX-p.AvoidFactor*3) > 1e-12 {
		t.Errorf("DVX = %v, want %v", scan.DVX, p.AvoidFactor*3)
	}
	if scan.DVY != 0 {
		t.Errorf("DVY = %v, want 0", scan.DVY)
	}
	if scan.Neighbors != 0 {
		t.Errorf("protected neighbour should not count as visible, got %d", scan.Neighbors)
	}
}

func TestScanFlock_FieldOfViewGating(t *testing.T) {
	p := DefaultParams() // 340 degree cone, half-angle 170

	tests := []struct {
		name     string
		angleDeg float64 // bearing of the neighbour relative to the heading
		visible  bool
	}{
		{"ahead", 0, true},
		{"abeam", 90, true},
		{"inside cone edge", 169, true},
		{"outside cone edge", 171, false},
		{"dead astern", 180, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.AddFish(components.Position{X: 300, Y: 240}, components.Velocity{X: 2, Y: 0})
			a := tt.angleDeg * math.Pi / 180
			s.AddFish(components.Position{X: 300 + 20*math.Cos(a), Y: 240 + 20*math.Sin(a)}, components.Velocity{X: 0, Y: 2})

			scan := ScanFlock(s, &p, 0)

			if tt.visible {
				if scan.Neighbors != 1 {
					t.Errorf("Neighbors = %d, want 1", scan.Neighbors)
				}
				return
			}
			if scan != (FlockScan{}) {
				t.Errorf("gated neighbour contributed %+v", scan)
			}
		})
	}
}

func TestScanFlock_FrontWeighting(t *testing.T) {
	p := DefaultParams()
	s := newTestStore()
	s.AddFish(components.Position{X: 300, Y: 240}, components.Velocity{X: 2, Y: 0})
	s.AddFish(components.Position{X: 320, Y: 240}, components.Velocity{X: 2, Y: 0})

	scan := ScanFlock(s, &p, 0)

	if math.Abs(scan.FrontPressure-1.0/20) > 1e-9 {
		t.Errorf("FrontPressure = %v, want %v", scan.FrontPressure, 1.0/20)
	}
	if scan.BackPressure != 0 {
		t.Errorf("BackPressure = %v, want 0", scan.BackPressure)
	}
	// Single neighbour: weighted mean is the neighbour itself.
	wantDVX := p.CenteringFactor * 20
	if math.Abs(scan.DVX-wantDVX) > 1e-12 {
		t.Errorf("DVX = %v, want %v", scan.DVX, wantDVX)
	}
	if math.Abs(scan.TurnDrive) > 1e-12 {
		t.Errorf("TurnDrive = %v, want 0 for a neighbour straight ahead", scan.TurnDrive)
	}
}

func TestScanFlock_TurnDriveSign(t *testing.T) {
	p := DefaultParams()
	s := newTestStore()
	// Heading +x; +y is to the left of the heading.
	s.AddFish(components.Position{X: 300, Y: 240}, components.Velocity{X: 2, Y: 0})
	s.AddFish(components.Position{X: 310, Y: 255}, components.Velocity{X: 2, Y: 0})

	if scan := ScanFlock(s, &p, 0); scan.TurnDrive <= 0 {
		t.Errorf("TurnDrive = %v, want positive for a neighbour on the left", scan.TurnDrive)
	}
}

func TestScanFlock_OutOfRange(t *testing.T) {
	p := DefaultParams()
	s := newTestStore()
	s.AddFish(components.Position{X: 300, Y: 240}, components.Velocity{X: 2, Y: 0})
	// Passes the axis pre-filter but not the exact distance test.
	s.AddFish(components.Position{X: 330, Y: 270}, components.Velocity{X: 2, Y: 0})

	if scan := ScanFlock(s, &p, 0); scan != (FlockScan{}) {
		t.Errorf("out-of-range neighbour contributed %+v", scan)
	}
}
