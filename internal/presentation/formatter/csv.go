package formatter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/kmowery/weightline/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{"Date", "Weight (kg)", "Body Fat", "Entries", "Source", "Record"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.Date,
			util.FormatWeight(row.Weight),
			csvPercent(row.BodyFat),
			fmt.Sprintf("%d", row.Entries),
			row.Source,
			row.RecordID,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// csvPercent leaves the cell empty for nil so spreadsheets parse the
// column as numeric.
func csvPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}
