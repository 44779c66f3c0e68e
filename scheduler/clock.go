package scheduler

import "time"

// Clock supplies "now" to the engine. Injected so tests and the completion
// sweep can run against a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
