package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/flightdash/internal/stats"
)

// Column selects a metric column of a rendered summary table.
type Column int

// Summary table columns.
const (
	ColCount Column = iota
	ColCancelled
	ColRate
	ColDepartureDelay
	ColArrivalDelay
)

// EmptyMessage is printed in place of a table without rows.
const EmptyMessage = "No flights match the current filters."

var columnHeaders = map[Column]string{
	ColCount:          "Flights",
	ColCancelled:      "Cancelled",
	ColRate:           "Cancel %",
	ColDepartureDelay: "Avg Dep Delay",
	ColArrivalDelay:   "Avg Arr Delay",
}

// Headers returns the header row for a table rendered with cols.
func Headers(t stats.SummaryTable, cols []Column) []string {
	headers := make([]string, 0, len(t.Dimensions)+len(cols))
	for _, dim := range t.Dimensions {
		headers = append(headers, HeaderLabel(dim))
	}
	for _, c := range cols {
		headers = append(headers, columnHeaders[c])
	}
	return headers
}

// Cells returns the formatted cells of every row.
func Cells(t stats.SummaryTable, cols []Column) [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(t.Dimensions)+len(cols))
		row = append(row, r.Key)
		if len(t.Dimensions) > 1 {
			row = append(row, r.SubKey)
		}
		for _, c := range cols {
			row = append(row, cellValue(r, c))
		}
		rows = append(rows, row)
	}
	return rows
}

// HeaderLabel turns a table dimension name into a column header.
func HeaderLabel(name string) string {
	switch name {
	case string(stats.PeriodYear):
		return "Year"
	case string(stats.PeriodMonth):
		return "Month"
	}
	if dim, err := stats.ParseDimension(name); err == nil {
		return dim.Label()
	}
	return name
}

func cellValue(r stats.Row, c Column) string {
	switch c {
	case ColCount:
		return strconv.Itoa(r.Count)
	case ColCancelled:
		return strconv.Itoa(r.Cancelled)
	case ColRate:
		return Percent(r.CancellationRate)
	case ColDepartureDelay:
		return Minutes(r.DepartureDelay)
	case ColArrivalDelay:
		return Minutes(r.ArrivalDelay)
	}
	return missingValue
}

// TableLines lays a summary table out as aligned text lines. Metric columns
// are right aligned.
func TableLines(t stats.SummaryTable, cols ...Column) []string {
	headers := Headers(t, cols)
	rightAlign := make(map[int]bool, len(cols))
	for i := range cols {
		rightAlign[len(t.Dimensions)+i] = true
	}
	return formatTable(headers, Cells(t, cols), rightAlign)
}

// RenderTable prints a titled summary table, or EmptyMessage when it has no rows.
func RenderTable(w io.Writer, title string, t stats.SummaryTable, cols ...Column) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if t.Empty() {
		if _, err := fmt.Fprintln(w, EmptyMessage); err != nil {
			return err
		}
	} else {
		if err := writeLines(w, TableLines(t, cols...)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
		lines = append(lines, ruleLine(widths))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func ruleLine(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, "  ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
