// Package clock provides time sources bound to a configured time zone.
package clock

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo
)

// Zoned reports the wall clock in a fixed location.
type Zoned struct {
	loc *time.Location
}

// NewZoned loads the named IANA zone, e.g. "Asia/Seoul".
func NewZoned(zone string) (*Zoned, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}

	return &Zoned{loc: loc}, nil
}

// Now returns the current instant in the configured zone.
func (z *Zoned) Now() time.Time {
	return time.Now().In(z.loc)
}

// Location returns the configured zone.
func (z *Zoned) Location() *time.Location {
	return z.loc
}

// Fixed is a settable clock for tests.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
