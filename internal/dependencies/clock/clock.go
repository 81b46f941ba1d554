package clock

import "time"

// Clock provides the current time, mockable for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC so stored timestamps compare consistently
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
