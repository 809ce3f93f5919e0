// Package components defines the ECS components carried by fish and predators.
package components

// Position represents an agent's position in world units.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's velocity in world units per tick.
type Velocity struct {
	X, Y float64
}
