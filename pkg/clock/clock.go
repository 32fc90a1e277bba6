// Package clock lets the orchestration layer read time through an injected
// source so resolution stays reproducible in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

// Now returns the fixed time.
func (c Fixed) Now() time.Time {
	return c.T
}

// NewReal returns a Clock backed by the system time.
func NewReal() Clock {
	return Real{}
}

// NewFixed returns a Clock frozen at t.
func NewFixed(t time.Time) Clock {
	return Fixed{T: t}
}
