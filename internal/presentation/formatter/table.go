package formatter

import (
	"fmt"
	"strings"

	"github.com/kmowery/weightline/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Date", "Weight (kg)", "Body Fat", "Entries", "Source", "Record"},
	}
}

func (f *TableFormatter) Format(report *Report) error {
	headers := f.headers
	rows := f.buildRows(report.Rows)

	// Drop the record-id column when the terminal is too narrow for it.
	widths := calculateColumnWidths(headers, rows)
	if tableWidth(widths) > util.TerminalWidth(120) {
		headers = headers[:len(headers)-1]
		for i := range rows {
			rows[i] = rows[i][:len(rows[i])-1]
		}
		widths = calculateColumnWidths(headers, rows)
	}

	printBorder(widths, "top")
	printRow(headers, widths)
	printBorder(widths, "middle")

	for _, row := range rows {
		printRow(row, widths)
	}

	printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) buildRows(rows []Row) [][]string {
	result := make([][]string, 0, len(rows))
	for _, row := range rows {
		result = append(result, []string{
			row.Date,
			util.FormatWeight(row.Weight),
			util.FormatPercent(row.BodyFat),
			util.FormatCount(row.Entries),
			row.Source,
			row.RecordID,
		})
	}
	return result
}

// calculateColumnWidths determines the width of each column from its content
func calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))

	for i, header := range headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < 6 {
			widths[i] = 6
		}
	}

	return widths
}

func tableWidth(widths []int) int {
	// borders plus 2 padding spaces per column
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

// printBorder prints table borders (top, middle, bottom)
func printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2))
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row with proper alignment
func printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		if i == 1 || i == 2 || i == 3 {
			// Numeric columns are right-aligned
			fmt.Printf(" %s │", util.PadLeft(value, widths[i]))
		} else {
			fmt.Printf(" %s │", util.PadRight(value, widths[i]))
		}
	}
	fmt.Println()
}
