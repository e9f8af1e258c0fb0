package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze "today" for the
// max-date check, the engine's single wall-clock dependence. Production
// code uses the real clock; tests inject a fake for deterministic outcomes.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for date checks. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
