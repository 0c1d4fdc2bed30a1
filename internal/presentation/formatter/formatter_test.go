package formatter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func sampleReport() *Report {
	return &Report{
		UserID:      "u-42",
		Timezone:    "UTC",
		DisplayEnd:  "2025-06-30",
		MinDateKey:  "2025-06-20",
		FullHistory: true,
		Rows: []Row{
			{Date: "2025-06-30", Weight: f64(80.1), BodyFat: f64(22.3), Source: SourceCarried, Entries: 0, RecordID: "m2"},
			{Date: "2025-06-29", Weight: f64(80.1), BodyFat: f64(22.3), Source: SourceMeasured, Entries: 2, RecordID: "m2"},
			{Date: "2025-06-28", Source: SourceNone},
		},
	}
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what was written.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = orig
	require.NoError(t, fnErr)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestNewSelectsFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, New("json"))
	assert.IsType(t, &CSVFormatter{}, New("csv"))
	assert.IsType(t, &SummaryFormatter{}, New("summary"))
	assert.IsType(t, &TableFormatter{}, New("table"))
	assert.IsType(t, &TableFormatter{}, New(""))
	assert.IsType(t, &TableFormatter{}, New("bogus"))
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewJSONFormatter().Format(sampleReport())
	})

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "u-42", decoded.UserID)
	assert.True(t, decoded.FullHistory)
	require.Len(t, decoded.Rows, 3)
	assert.Equal(t, SourceCarried, decoded.Rows[0].Source)
	require.NotNil(t, decoded.Rows[1].Weight)
	assert.Equal(t, 80.1, *decoded.Rows[1].Weight)
	assert.Nil(t, decoded.Rows[2].Weight)
}

func TestCSVFormatter(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewCSVFormatter().Format(sampleReport())
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Weight (kg),Body Fat,Entries,Source,Record", lines[0])
	assert.Equal(t, "2025-06-29,80.1,22.3,2,measured,m2", lines[2])
	// Empty days render a dash for weight and an empty body-fat cell.
	assert.Equal(t, "2025-06-28,-,,0,none,", lines[3])
}

func TestTableFormatter(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewTableFormatter().Format(sampleReport())
	})

	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "2025-06-29")
	assert.Contains(t, out, "measured")
	assert.Contains(t, out, "carried")
	assert.Contains(t, out, "80.1")
}

func TestSummaryFormatter(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewSummaryFormatter().Format(sampleReport())
	})

	assert.Contains(t, out, "Weight Timeline Summary")
	assert.Contains(t, out, "Date Range: 2025-06-28 to 2025-06-30")
	assert.Contains(t, out, "Timezone: UTC")
	assert.Contains(t, out, "History: complete")
	assert.Contains(t, out, "Measured: 1")
	assert.Contains(t, out, "Carried Forward: 1")
	assert.Contains(t, out, "No Data: 1")
	assert.Contains(t, out, "Latest: 80.1 kg")
}

func TestSummaryFormatterEmpty(t *testing.T) {
	report := &Report{Timezone: "UTC", Rows: nil}
	out := captureStdout(t, func() error {
		return NewSummaryFormatter().Format(report)
	})
	assert.Contains(t, out, "No days to summarize")
}

func TestCalculateColumnWidths(t *testing.T) {
	headers := []string{"Date", "W"}
	rows := [][]string{{"2025-06-30", "80.1"}}

	widths := calculateColumnWidths(headers, rows)
	require.Len(t, widths, 2)
	assert.Equal(t, 10, widths[0])
	// Narrow columns are padded to the 6-character floor.
	assert.Equal(t, 6, widths[1])
}
