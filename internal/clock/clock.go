// Package clock computes wall-clock session timing. Expiry is evaluated
// lazily from the session start time — there is no background timer.
package clock

import "time"

// Remaining returns the non-negative number of whole seconds left in a
// session with the given start time and budget.
func Remaining(startedAt time.Time, limitSeconds int, now time.Time) int {
	elapsed := int(now.Sub(startedAt).Seconds())
	remaining := limitSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the session's time budget has run out.
func Expired(startedAt time.Time, limitSeconds int, now time.Time) bool {
	return Remaining(startedAt, limitSeconds, now) == 0
}
