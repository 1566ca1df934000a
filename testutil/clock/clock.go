// Package clock provides a deterministic, adjustable time source for tests
// and simulations. Its Now method satisfies the catalog's Clock contract, so
// a test can freeze or advance domain time explicitly instead of depending
// on the wall clock.
package clock

import (
	"sync"
	"time"
)

// Adjustable is a time source that only moves when told to. It is safe for
// concurrent use: Now may be read from many goroutines while another one
// advances the clock.
type Adjustable struct {
	mu  sync.RWMutex
	now time.Time
}

// NewAdjustableAt creates an Adjustable clock frozen at start, normalized to
// UTC with microsecond precision.
func NewAdjustableAt(start time.Time) *Adjustable {
	return &Adjustable{
		now: start.UTC().Truncate(time.Microsecond),
	}
}

// Now returns the clock's current time. Pass the method value as the
// injected clock.
func (a *Adjustable) Now() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.now
}

// Advance moves the clock forward by d.
func (a *Adjustable) Advance(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.now = a.now.Add(d)
}

// AdvanceDays moves the clock forward by n whole days.
func (a *Adjustable) AdvanceDays(n int) {
	a.Advance(time.Duration(n) * 24 * time.Hour)
}

// Set moves the clock to t, normalized to UTC with microsecond precision.
func (a *Adjustable) Set(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.now = t.UTC().Truncate(time.Microsecond)
}
