package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps computed aggregates. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the aggregate time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time of the aggregate clock in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
