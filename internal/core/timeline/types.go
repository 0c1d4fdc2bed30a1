package timeline

import (
	"github.com/kmowery/weightline/internal/core/daykey"
)

// Entry is one day of the derived timeline. Exactly one Entry is emitted
// per calendar day of the display window, most recent first.
//
// Value and SecondaryValue are nil when the day has no measurement and
// nothing to carry forward. EntryCount is the number of raw measurements
// that fell on the day; it is zero whenever HasEntry is false, including
// carried-forward days. SourceRecordID names the measurement the values
// came from, which for a carried-forward day is the record of an earlier
// day.
type Entry struct {
	Date           daykey.DayKey `json:"date"`
	Value          *float64      `json:"value"`
	SecondaryValue *float64      `json:"secondaryValue"`
	SourceRecordID string        `json:"sourceRecordId,omitempty"`
	HasEntry       bool          `json:"hasEntry"`
	CarriedForward bool          `json:"carriedForward"`
	EntryCount     int           `json:"entryCount"`
}
