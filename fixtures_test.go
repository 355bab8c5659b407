package voidecs_test

// Fixture components shared across this package's tests.
type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Health struct{ Current, Max int }
type Enemy struct{}
type Player struct{ Name string }
