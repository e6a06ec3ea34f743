package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/flightdash/internal/stats"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Airline", "Flights", "Cancel %"}
	rows := [][]string{
		{"Delta", "12", "8.3%"},
		{"Southwest", "3", "33.3%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Airline    Flights  Cancel %" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "---------  -------  --------" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "Delta           12      8.3%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "Southwest        3     33.3%" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"City", "N"}, [][]string{{"東京", "1"}, {"Paris", "2"}}, map[int]bool{1: true})
	if lines[2] != "東京   1" {
		t.Fatalf("unexpected wide-rune row: %q", lines[2])
	}
}

func TestTableLinesTwoDimensions(t *testing.T) {
	table := stats.SummaryTable{
		Dimensions: []string{"month", "airline"},
		Rows: []stats.Row{
			{Key: "2020-01", SubKey: "Delta", Count: 4, Cancelled: 1, CancellationRate: 25},
		},
	}
	lines := TableLines(table, ColCount, ColRate, ColDepartureDelay)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, want := range []string{"Month", "Airline", "Flights", "Cancel %", "Avg Dep Delay"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("header %q missing %q", lines[0], want)
		}
	}
	fields := strings.Fields(lines[2])
	expected := []string{"2020-01", "Delta", "4", "25.0%", "-"}
	if strings.Join(fields, "|") != strings.Join(expected, "|") {
		t.Fatalf("unexpected row fields %v", fields)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, "Top Airlines", stats.SummaryTable{Dimensions: []string{"airline"}}, ColCount); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Top Airlines") || !strings.Contains(out, EmptyMessage) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHeaderLabel(t *testing.T) {
	cases := map[string]string{
		"year":                  "Year",
		"origin":                "Origin Airport",
		"destination":           "Destination Airport",
		"departure_time_period": "Time Period",
		"custom":                "custom",
	}
	for in, want := range cases {
		if got := HeaderLabel(in); got != want {
			t.Fatalf("HeaderLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
