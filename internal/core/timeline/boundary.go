package timeline

import (
	"time"

	"github.com/kmowery/weightline/internal/core/daykey"
)

// ResolveMinDateKey computes the earliest calendar day the timeline may
// display. With a known signup time that is the signup day in loc, capped
// at today; without one the only safe answer is today, which suppresses
// all carry-forward into the past.
func ResolveMinDateKey(signupAt *time.Time, today daykey.DayKey, loc *time.Location) daykey.DayKey {
	if signupAt == nil {
		return today
	}
	key := daykey.FromTime(*signupAt, loc)
	if key > today {
		return today
	}
	return key
}

// ClampDisplayEnd limits a requested display date to [min, today].
// Selecting a date before the account existed or in the future is a UI
// state worth absorbing rather than erroring on.
func ClampDisplayEnd(requested, min, today daykey.DayKey) daykey.DayKey {
	return daykey.Clamp(requested, min, today)
}
