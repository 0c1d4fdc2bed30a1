package formatter

import (
	"fmt"
	"strings"

	"github.com/kmowery/weightline/internal/util"
)

// SummaryFormatter renders an aggregate view of the timeline instead of
// the per-day table.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Weight Timeline Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	rows := report.Rows
	if len(rows) == 0 {
		fmt.Println("No days to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	// Rows are most recent first.
	lastDate := rows[0].Date
	firstDate := rows[len(rows)-1].Date
	if firstDate == lastDate {
		fmt.Printf("Date Range: %s\n", firstDate)
	} else {
		fmt.Printf("Date Range: %s to %s\n", firstDate, lastDate)
	}
	fmt.Printf("Timezone: %s\n", report.Timezone)
	fmt.Printf("Earliest Displayable Day: %s\n", report.MinDateKey)
	if report.FullHistory {
		fmt.Println("History: complete (pre-first-entry days hidden)")
	} else {
		fmt.Println("History: windowed")
	}
	fmt.Println()

	measured, carried, empty, totalEntries := 0, 0, 0, 0
	var latest, min, max *float64
	var netChange *float64

	for _, row := range rows {
		switch row.Source {
		case SourceMeasured:
			measured++
		case SourceCarried:
			carried++
		default:
			empty++
		}
		totalEntries += row.Entries

		if row.Source != SourceMeasured || row.Weight == nil {
			continue
		}
		w := *row.Weight
		if latest == nil {
			latest = &w
		}
		if min == nil || w < *min {
			v := w
			min = &v
		}
		if max == nil || w > *max {
			v := w
			max = &v
		}
		// Walking most-recent-first, the last measured row is the oldest.
		oldest := w
		if latest != nil {
			change := *latest - oldest
			netChange = &change
		}
	}

	fmt.Println("Coverage:")
	fmt.Printf("  Days Shown: %d\n", len(rows))
	fmt.Printf("  Measured: %d\n", measured)
	fmt.Printf("  Carried Forward: %d\n", carried)
	fmt.Printf("  No Data: %d\n", empty)
	fmt.Printf("  Raw Measurements: %d\n", totalEntries)
	fmt.Println()

	fmt.Println("Weight:")
	fmt.Printf("  Latest: %s kg\n", util.FormatWeight(latest))
	fmt.Printf("  Min: %s kg\n", util.FormatWeight(min))
	fmt.Printf("  Max: %s kg\n", util.FormatWeight(max))
	if netChange != nil {
		fmt.Printf("  Net Change: %s kg\n", util.FormatDelta(*netChange))
	} else {
		fmt.Println("  Net Change: -")
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}
