// Package system provides the wall clock behind snapshot archive stamping.
package system

import "time"

// Clock reads the system time. Instants are returned in UTC; the snapshot
// store owns the conversion into its archive zone, so every caller starts
// from the same canonical instant.
type Clock struct{}

// New returns the system clock.
func New() Clock {
	return Clock{}
}

// Now returns the current instant in UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
