package clock

import "time"

// Clock supplies the current time. Billing code takes it as a dependency so
// accrual can be tested at fixed instants.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns the wall clock in UTC.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}
