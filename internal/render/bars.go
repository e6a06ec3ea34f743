package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/flightdash/internal/stats"
)

const (
	defaultBarWidth = 40
	maxBarLabel     = 28
	barFull         = "█"
	barHalf         = "▌"
)

// BarLines renders one horizontal bar per row, scaled so the largest
// absolute value fills width cells. Rows without a value are skipped.
func BarLines(t stats.SummaryTable, metric stats.Metric, width int) []string {
	if width <= 0 {
		width = defaultBarWidth
	}
	type bar struct {
		label string
		value float64
		text  string
	}
	bars := make([]bar, 0, len(t.Rows))
	labelWidth := 0
	maxAbs := 0.0
	for _, r := range t.Rows {
		v, ok := metric.Value(r)
		if !ok {
			continue
		}
		label := r.Key
		if r.SubKey != "" {
			label += " / " + r.SubKey
		}
		label = runewidth.Truncate(label, maxBarLabel, "…")
		if w := runewidth.StringWidth(label); w > labelWidth {
			labelWidth = w
		}
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
		bars = append(bars, bar{label: label, value: v, text: MetricValue(r, metric)})
	}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		lines = append(lines, fmt.Sprintf("%s │%s %s",
			runewidth.FillRight(b.label, labelWidth),
			barCells(b.value, maxAbs, width),
			b.text,
		))
	}
	return lines
}

func barCells(v, maxAbs float64, width int) string {
	if maxAbs == 0 {
		return ""
	}
	halves := int(math.Round(math.Abs(v) / maxAbs * float64(width*2)))
	s := strings.Repeat(barFull, halves/2)
	if halves%2 == 1 {
		s += barHalf
	}
	return s
}

// RenderBars prints a titled bar chart, or EmptyMessage when no row has a value.
func RenderBars(w io.Writer, title string, t stats.SummaryTable, metric stats.Metric, width int) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	lines := BarLines(t, metric, width)
	if len(lines) == 0 {
		lines = []string{EmptyMessage}
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
