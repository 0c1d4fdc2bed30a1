package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// Measurement is a single logged weigh-in. Multiple measurements may fall
// on the same calendar day; the timeline engine collapses them to one
// representative entry per day.
type Measurement struct {
	ID         string   `json:"id"`
	MeasuredAt FlexTime `json:"measuredAt"`
	WeightKg   float64  `json:"weightKg"`
	BodyFatPct *float64 `json:"bodyFatPct,omitempty"`
}

// HasTimestamp reports whether the measurement carries a usable timestamp.
// Records without one are dropped before they reach the timeline engine.
func (m Measurement) HasTimestamp() bool {
	return m.MeasuredAt.Valid
}

// Profile describes the account the measurements belong to. SignupAt
// bounds how far back the timeline may display; a missing or malformed
// value is treated as unknown.
type Profile struct {
	UserID   string   `json:"userId"`
	SignupAt FlexTime `json:"signupAt,omitempty"`
}

// FlexTime accepts either an RFC3339 string or a numeric epoch-seconds
// timestamp, the two formats upstream exporters emit. Valid is false for
// anything else, including an absent field.
type FlexTime struct {
	Unix  int64
	Valid bool
}

func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	// Try RFC3339 string first
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		t, err := time.Parse(time.RFC3339, str)
		if err != nil {
			ft.Valid = false
			return nil
		}
		ft.Unix = t.Unix()
		ft.Valid = true
		return nil
	}

	// Fall back to epoch seconds
	var epoch float64
	if err := sonic.Unmarshal(data, &epoch); err == nil {
		ft.Unix = int64(epoch)
		ft.Valid = true
		return nil
	}

	return fmt.Errorf("timestamp must be an RFC3339 string or epoch seconds")
}

func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if !ft.Valid {
		return []byte("null"), nil
	}
	return sonic.Marshal(time.Unix(ft.Unix, 0).UTC().Format(time.RFC3339))
}

// Time returns the timestamp as a time.Time. Only meaningful when Valid.
func (ft FlexTime) Time() time.Time {
	return time.Unix(ft.Unix, 0)
}

// FileEvent describes a change observed in the data directory.
type FileEvent struct {
	Path      string
	Operation string
}
