// Package telemetry provides flock statistics, bookmarking and tick timing.
package telemetry

// EatEvent is one predator catching one fish.
type EatEvent struct {
	Tick     int32   `csv:"tick"`
	Predator int     `csv:"predator"`
	Fish     int     `csv:"fish_index"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
}
