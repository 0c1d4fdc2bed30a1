package util

import (
	"fmt"
)

// FormatWeight renders a weight in kilograms with one decimal place.
// A nil value renders as a dash.
func FormatWeight(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// FormatPercent renders a percentage with one decimal place, dash for nil.
func FormatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// FormatDelta renders a signed weight change, e.g. "+0.4" or "-1.2".
func FormatDelta(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}

// FormatCount renders an integer count, collapsing zero to a dash so
// empty days stay visually quiet in tables.
func FormatCount(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}
