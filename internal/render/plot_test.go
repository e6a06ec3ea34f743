package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/flightdash/internal/stats"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Monthly Cancellation Rate", []string{"2020-01", "2020-02", "2020-03", "2020-04", "2020-05"}, []Series{
		{Name: "Delta", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "United", Values: []float64{1, 1, 2, 3, 4}},
	}, 20, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Monthly Cancellation Rate") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") || !strings.Contains(out, "United (dashed)") {
		t.Fatalf("expected legend in output: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, 4 plot rows, x axis, legend
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "      4 │ ") {
		t.Fatalf("expected shared top label of 4, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "      0 │ ") {
		t.Fatalf("expected zero baseline, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "2020-01") || !strings.HasSuffix(lines[5], "2020-05") {
		t.Fatalf("unexpected x axis %q", lines[5])
	}
}

func TestPlotSeriesSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Nothing", []string{"2020"}, []Series{
		{Name: "gap", Values: []float64{math.NaN()}},
	}, 20, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotSeriesBreaksLinesAtGaps(t *testing.T) {
	cellsWithGap := func(values []float64) int {
		var buf bytes.Buffer
		if err := PlotSeries(&buf, "", nil, []Series{{Name: "s", Values: values}}, 10, 2, false); err != nil {
			t.Fatalf("PlotSeries failed: %v", err)
		}
		count := 0
		for _, r := range buf.String() {
			if r > 0x2800 && r <= 0x28FF {
				count++
			}
		}
		return count
	}
	full := cellsWithGap([]float64{5, 5, 5})
	gapped := cellsWithGap([]float64{5, math.NaN(), 5})
	if gapped >= full {
		t.Fatalf("expected fewer drawn cells with a gap: full=%d gapped=%d", full, gapped)
	}
}

func TestPivotSeries(t *testing.T) {
	table := stats.SummaryTable{
		Dimensions: []string{"month", "airline"},
		Rows: []stats.Row{
			{Key: "2020-01", SubKey: "Delta", Count: 4, CancellationRate: 25},
			{Key: "2020-01", SubKey: "United", Count: 1, CancellationRate: 0},
			{Key: "2020-02", SubKey: "Delta", Count: 2, CancellationRate: 50},
			{Key: "2020-02", SubKey: "Spirit", Count: 1, CancellationRate: 100},
		},
	}
	labels, series := PivotSeries(table, stats.MetricCancellationRate, 2)
	if strings.Join(labels, ",") != "2020-01,2020-02" {
		t.Fatalf("unexpected labels %v", labels)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Name != "Delta" || series[1].Name != "Spirit" {
		t.Fatalf("expected busiest series first with name tie-break, got %s, %s", series[0].Name, series[1].Name)
	}
	if series[0].Values[0] != 25 || series[0].Values[1] != 50 {
		t.Fatalf("unexpected Delta values %v", series[0].Values)
	}
	if !math.IsNaN(series[1].Values[0]) || series[1].Values[1] != 100 {
		t.Fatalf("expected a gap for Spirit in January, got %v", series[1].Values)
	}
}

func TestPivotSeriesSingleDimension(t *testing.T) {
	table := stats.SummaryTable{
		Dimensions: []string{"year"},
		Rows:       []stats.Row{{Key: "2019", Count: 3}, {Key: "2020", Count: 5}},
	}
	labels, series := PivotSeries(table, stats.MetricCount, 0)
	if len(labels) != 2 || len(series) != 1 {
		t.Fatalf("unexpected pivot %v %v", labels, series)
	}
	if series[0].Name != "Flights" || series[0].Values[1] != 5 {
		t.Fatalf("unexpected series %+v", series[0])
	}
}
