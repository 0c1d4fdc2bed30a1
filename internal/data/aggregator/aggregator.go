package aggregator

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kmowery/weightline/internal/core/daykey"
	"github.com/kmowery/weightline/internal/core/model"
)

// DayData holds the collapsed view of all measurements that fell on one
// local calendar day: how many there were and which one represents the
// day. The representative is the measurement with the latest timestamp;
// ties are broken by the greater record ID so the result does not depend
// on input order.
type DayData struct {
	Day             daykey.DayKey `json:"day"`
	EntryCount      int           `json:"entryCount"`
	RecordID        string        `json:"recordId"`
	WeightKg        float64       `json:"weightKg"`
	BodyFatPct      *float64      `json:"bodyFatPct,omitempty"`
	FirstMeasuredAt int64         `json:"firstMeasuredAt"`
	LastMeasuredAt  int64         `json:"lastMeasuredAt"`
}

// AggregatedFile is the per-file aggregation result, the unit the cache
// stores and validates.
type AggregatedFile struct {
	FilePath           string    `json:"filePath"`
	SourceID           string    `json:"sourceId"` // filename stem, used as the cache key
	Days               []DayData `json:"days"`
	LastModified       int64     `json:"lastModified"`
	FileSize           int64     `json:"fileSize"`
	Inode              uint64    `json:"inode"`
	ContentFingerprint string    `json:"content_fingerprint,omitempty"`
}

// ExtractSourceID derives the cache key for a measurement file.
// e.g. "/data/2025-export.jsonl" -> "2025-export"
func ExtractSourceID(filePath string) string {
	filename := filepath.Base(filePath)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// supersedes reports whether measurement a should replace b as a day's
// representative.
func supersedes(a, b model.Measurement) bool {
	if a.MeasuredAt.Unix != b.MeasuredAt.Unix {
		return a.MeasuredAt.Unix > b.MeasuredAt.Unix
	}
	return a.ID > b.ID
}

// AggregateByDay groups measurements by local calendar day in loc.
// Measurements without a usable timestamp are skipped. The result is
// sorted ascending by day.
func AggregateByDay(measurements []model.Measurement, loc *time.Location) []DayData {
	if loc == nil {
		loc = time.Local
	}

	type dayAccum struct {
		data DayData
		rep  model.Measurement
	}
	dayMap := make(map[daykey.DayKey]*dayAccum)

	for _, m := range measurements {
		if !m.HasTimestamp() {
			continue
		}

		key := daykey.FromUnix(m.MeasuredAt.Unix, loc)
		accum, exists := dayMap[key]
		if !exists {
			accum = &dayAccum{
				data: DayData{
					Day:             key,
					FirstMeasuredAt: m.MeasuredAt.Unix,
					LastMeasuredAt:  m.MeasuredAt.Unix,
				},
				rep: m,
			}
			dayMap[key] = accum
		}

		accum.data.EntryCount++
		if m.MeasuredAt.Unix < accum.data.FirstMeasuredAt {
			accum.data.FirstMeasuredAt = m.MeasuredAt.Unix
		}
		if m.MeasuredAt.Unix > accum.data.LastMeasuredAt {
			accum.data.LastMeasuredAt = m.MeasuredAt.Unix
		}
		if supersedes(m, accum.rep) {
			accum.rep = m
		}
	}

	result := make([]DayData, 0, len(dayMap))
	for _, accum := range dayMap {
		accum.data.RecordID = accum.rep.ID
		accum.data.WeightKg = accum.rep.WeightKg
		accum.data.BodyFatPct = accum.rep.BodyFatPct
		result = append(result, accum.data)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result
}

// MergeDays combines per-file day groups into one ascending sequence with
// a single DayData per day. Entry counts sum; the representative follows
// the same latest-timestamp-then-ID rule as AggregateByDay, so merging is
// order-independent.
func MergeDays(groups ...[]DayData) []DayData {
	merged := make(map[daykey.DayKey]*DayData)

	for _, group := range groups {
		for _, d := range group {
			existing, ok := merged[d.Day]
			if !ok {
				copied := d
				merged[d.Day] = &copied
				continue
			}

			existing.EntryCount += d.EntryCount
			if d.FirstMeasuredAt < existing.FirstMeasuredAt {
				existing.FirstMeasuredAt = d.FirstMeasuredAt
			}
			if d.LastMeasuredAt > existing.LastMeasuredAt ||
				(d.LastMeasuredAt == existing.LastMeasuredAt && d.RecordID > existing.RecordID) {
				existing.LastMeasuredAt = d.LastMeasuredAt
				existing.RecordID = d.RecordID
				existing.WeightKg = d.WeightKg
				existing.BodyFatPct = d.BodyFatPct
			}
		}
	}

	result := make([]DayData, 0, len(merged))
	for _, d := range merged {
		result = append(result, *d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result
}
