package timeline

import (
	"time"

	"github.com/kmowery/weightline/internal/core/daykey"
	"github.com/kmowery/weightline/internal/core/model"
	"github.com/kmowery/weightline/internal/data/aggregator"
)

// Builder derives a dense, gap-filled daily timeline from sparse
// measurement data. It is pure: the current date and timezone are
// injected, so identical inputs always produce identical output.
type Builder struct {
	location *time.Location
}

// NewBuilder creates a builder for the named timezone, falling back to
// the system's local timezone when the name does not resolve.
func NewBuilder(timezone string) *Builder {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	return &Builder{location: loc}
}

// NewBuilderInLocation creates a builder using an explicit location.
func NewBuilderInLocation(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{location: loc}
}

// Location returns the timezone the builder derives day keys in.
func (b *Builder) Location() *time.Location {
	return b.location
}

// Options controls one timeline derivation.
//
// DisplayEnd is the most recent day shown; DisplayDays is how many days
// the output covers, ending at DisplayEnd. FetchWindowDays is the span of
// history the measurements were fetched for; it must be at least
// DisplayDays, since carry-forward for the first displayed days is seeded
// from the part of the fetch window that precedes them.
//
// MinDateKey gates carry-forward: no value is carried into days before
// it. TrustFullHistory asserts the measurement set is the account's
// complete history. That is a heuristic judgment (the caller typically
// checks that the signup date falls inside its maximum lookback), and
// when it is wrongly true, days before the oldest fetched record are
// hidden even if older records exist upstream.
type Options struct {
	DisplayEnd       daykey.DayKey
	DisplayDays      int
	FetchWindowDays  int
	MinDateKey       daykey.DayKey
	TrustFullHistory bool
}

// Build collapses measurements per day and derives the display timeline.
// It is total over well-formed options; measurements without usable
// timestamps are ignored.
func (b *Builder) Build(measurements []model.Measurement, opts Options) []Entry {
	return b.BuildFromDays(aggregator.AggregateByDay(measurements, b.location), opts)
}

// BuildFromDays derives the timeline from already-aggregated day groups,
// e.g. the merged output of cached per-file aggregations. The groups must
// cover the same fetch window the options describe.
func (b *Builder) BuildFromDays(days []aggregator.DayData, opts Options) []Entry {
	if opts.DisplayDays <= 0 || opts.FetchWindowDays <= 0 || !daykey.IsValid(opts.DisplayEnd) {
		return nil
	}

	fetchStart := daykey.AddDays(opts.DisplayEnd, -(opts.FetchWindowDays - 1), b.location)

	// Index the day groups inside the fetch window. Days outside it are
	// excluded from the walk but still count toward the earliest-record
	// boundary below.
	dayMap := make(map[daykey.DayKey]aggregator.DayData, len(days))
	for _, d := range days {
		if d.Day >= fetchStart && d.Day <= opts.DisplayEnd {
			dayMap[d.Day] = d
		}
	}

	// The first day carry-forward may reach. With proven full history the
	// account's true first entry beats the signup boundary: long-tenured
	// accounts keep carry-forward even when their first record predates
	// MinDateKey.
	firstEligible := opts.MinDateKey
	earliest := earliestDay(days)
	if opts.TrustFullHistory && earliest != "" {
		firstEligible = earliest
	}

	var lastKnown *aggregator.DayData
	var entries []Entry
	for _, key := range daykey.Range(fetchStart, opts.DisplayEnd, b.location) {
		if d, ok := dayMap[key]; ok {
			entries = append(entries, Entry{
				Date:           key,
				Value:          float64Ptr(d.WeightKg),
				SecondaryValue: d.BodyFatPct,
				SourceRecordID: d.RecordID,
				HasEntry:       true,
				EntryCount:     d.EntryCount,
			})
			lastKnown = &d
			continue
		}

		if lastKnown != nil && key >= firstEligible {
			entries = append(entries, Entry{
				Date:           key,
				Value:          float64Ptr(lastKnown.WeightKg),
				SecondaryValue: lastKnown.BodyFatPct,
				SourceRecordID: lastKnown.RecordID,
				CarriedForward: true,
			})
			continue
		}

		entries = append(entries, Entry{Date: key})
	}

	// Keep only the display suffix, most recent first.
	if len(entries) > opts.DisplayDays {
		entries = entries[len(entries)-opts.DisplayDays:]
	}
	reverse(entries)

	// With proven full history, days before the first-ever record are
	// phantom carry-forward and are dropped outright.
	if opts.TrustFullHistory && earliest != "" {
		kept := entries[:0]
		for _, e := range entries {
			if e.Date >= earliest {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	return entries
}

func earliestDay(days []aggregator.DayData) daykey.DayKey {
	var earliest daykey.DayKey
	for _, d := range days {
		if earliest == "" || d.Day < earliest {
			earliest = d.Day
		}
	}
	return earliest
}

func float64Ptr(v float64) *float64 {
	return &v
}

func reverse(entries []Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
