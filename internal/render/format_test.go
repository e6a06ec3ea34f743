package render

import (
	"strings"
	"testing"

	"github.com/verte-zerg/flightdash/internal/stats"
)

func TestAbbreviate(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{in: 0, want: "0"},
		{in: 999, want: "999"},
		{in: 1000, want: "1.0K"},
		{in: 3400, want: "3.4K"},
		{in: 999_999, want: "1000.0K"},
		{in: 1_234_567, want: "1.2M"},
		{in: -2500, want: "-2.5K"},
	}
	for _, tc := range cases {
		if got := Abbreviate(tc.in); got != tc.want {
			t.Fatalf("Abbreviate(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMinutesAndMetricValue(t *testing.T) {
	if got := Minutes(stats.Mean{}); got != "-" {
		t.Fatalf("expected placeholder for empty mean, got %q", got)
	}
	row := stats.Row{
		Count:            7,
		CancellationRate: 12.345,
		DepartureDelay:   stats.Mean{Value: -2.24, Samples: 4},
	}
	checks := map[stats.Metric]string{
		stats.MetricCount:            "7",
		stats.MetricCancellationRate: "12.3%",
		stats.MetricDepartureDelay:   "-2.2",
		stats.MetricArrivalDelay:     "-",
	}
	for metric, want := range checks {
		if got := MetricValue(row, metric); got != want {
			t.Fatalf("MetricValue(%s) = %q, want %q", metric, got, want)
		}
	}
}

func TestBarLinesScaleToLargest(t *testing.T) {
	table := stats.SummaryTable{
		Dimensions: []string{"airline"},
		Rows: []stats.Row{
			{Key: "Delta", Count: 10},
			{Key: "United", Count: 5},
			{Key: "Tiny", Count: 0},
		},
	}
	lines := BarLines(table, stats.MetricCount, 10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(lines))
	}
	if strings.Count(lines[0], barFull) != 10 {
		t.Fatalf("largest bar should fill the width: %q", lines[0])
	}
	if strings.Count(lines[1], barFull) != 5 {
		t.Fatalf("half bar expected: %q", lines[1])
	}
	if !strings.HasPrefix(lines[1], "United │") {
		t.Fatalf("labels should be padded to a common width: %q", lines[1])
	}
	if !strings.HasSuffix(lines[0], " 10") {
		t.Fatalf("expected value suffix: %q", lines[0])
	}
}

func TestBarLinesSkipRowsWithoutValue(t *testing.T) {
	table := stats.SummaryTable{Rows: []stats.Row{
		{Key: "A", DepartureDelay: stats.Mean{Value: 3, Samples: 1}},
		{Key: "B"},
	}}
	lines := BarLines(table, stats.MetricDepartureDelay, 0)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "A") {
		t.Fatalf("unexpected bars %q", lines)
	}
}
