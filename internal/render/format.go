// Package render formats flight summaries as text tables, bars, braille
// plots and PNG charts.
package render

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/flightdash/internal/stats"
)

const missingValue = "-"

// Abbreviate shortens large counts for display: 1234567 becomes "1.2M",
// 3400 becomes "3.4K" and anything below a thousand is printed as is.
func Abbreviate(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// Percent formats a 0-100 rate.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Minutes formats a delay mean, or "-" when it has no samples.
func Minutes(m stats.Mean) string {
	if !m.Valid() {
		return missingValue
	}
	return fmt.Sprintf("%.1f", m.Value)
}

// MetricValue formats the row's value for metric.
func MetricValue(r stats.Row, metric stats.Metric) string {
	switch metric {
	case stats.MetricCount:
		return strconv.Itoa(r.Count)
	case stats.MetricCancellationRate:
		return Percent(r.CancellationRate)
	case stats.MetricDepartureDelay:
		return Minutes(r.DepartureDelay)
	case stats.MetricArrivalDelay:
		return Minutes(r.ArrivalDelay)
	}
	return missingValue
}

func formatAxis(v float64) string {
	switch {
	case v >= 1_000_000 || v <= -1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 10_000 || v <= -10_000:
		return fmt.Sprintf("%.0fK", v/1_000)
	case v == float64(int64(v)):
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}
