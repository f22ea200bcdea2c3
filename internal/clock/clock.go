// Package clock is the wall-clock epoch-second source for the report engine,
// plus the local-calendar helpers the stats queries need.
package clock

import "time"

// Now returns the current wall-clock time as epoch seconds.
func Now() int64 {
	return time.Now().Unix()
}

// StartOfDay returns the epoch second at which t's local calendar day began.
func StartOfDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Unix()
}

// StartOfMonth returns the epoch second at which t's local calendar month began.
func StartOfMonth(t time.Time) int64 {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).Unix()
}
