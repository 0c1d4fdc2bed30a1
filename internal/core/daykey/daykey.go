package daykey

import (
	"time"

	"github.com/kmowery/weightline/internal/core/constants"
)

// DayKey identifies a local calendar day as a fixed-width "YYYY-MM-DD"
// string. Two timestamps map to the same DayKey iff they fall on the same
// calendar day in the location used to derive them. The fixed width makes
// plain string comparison a total order.
type DayKey string

// FromTime derives the DayKey for t interpreted in loc.
// A nil loc falls back to time.Local.
func FromTime(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	return DayKey(t.In(loc).Format(constants.DayKeyLayout))
}

// FromUnix derives the DayKey for a Unix timestamp interpreted in loc.
func FromUnix(ts int64, loc *time.Location) DayKey {
	return FromTime(time.Unix(ts, 0), loc)
}

// Parse converts a DayKey back into the midnight time of that day in loc.
// The boolean is false when the key is not a well-formed YYYY-MM-DD date.
func Parse(key DayKey, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DayKeyLayout, string(key), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValid reports whether key is a well-formed YYYY-MM-DD date.
func IsValid(key DayKey) bool {
	_, ok := Parse(key, time.UTC)
	return ok
}

// AddDays returns the key days calendar days after key (negative days go
// backward). AddDate handles month/year rollover and DST transitions;
// deriving day keys from midnight keeps the arithmetic stable across them.
// An invalid key is returned unchanged.
func AddDays(key DayKey, days int, loc *time.Location) DayKey {
	t, ok := Parse(key, loc)
	if !ok {
		return key
	}
	return FromTime(t.AddDate(0, 0, days), loc)
}

// Clamp returns requested limited to [min, max]. Total: any ordering of
// the inputs yields a well-defined result by string comparison.
func Clamp(requested, min, max DayKey) DayKey {
	if requested < min {
		return min
	}
	if requested > max {
		return max
	}
	return requested
}

// Range returns every DayKey from start to end inclusive, ascending.
// An empty slice is returned when start is after end or either key is
// malformed.
func Range(start, end DayKey, loc *time.Location) []DayKey {
	if start > end {
		return nil
	}
	startT, ok := Parse(start, loc)
	if !ok {
		return nil
	}
	if _, ok := Parse(end, loc); !ok {
		return nil
	}

	var keys []DayKey
	for t := startT; ; t = t.AddDate(0, 0, 1) {
		key := FromTime(t, loc)
		if key > end {
			break
		}
		keys = append(keys, key)
	}
	return keys
}
