// Package clock provides the "current date" collaborator consumed by expiry
// checks and age-based catalog pruning.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Used by tests and replays.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Date builds a Fixed clock at midnight UTC of the given day.
func Date(year int, month time.Month, day int) Fixed {
	return Fixed(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today truncates t to its calendar date in t's location.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
