package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/flightdash/internal/stats"
)

const (
	chartWidth       = 1024
	chartHeight      = 512
	barChartMinWidth = 640
	barSlotWidth     = 56
	seriesLimit      = 5
	crossCountLimit  = 15
)

var barColor = drawing.ColorFromHex("1f77b4")

type chartDef struct {
	name   string
	title  string
	table  stats.SummaryTable
	metric stats.Metric
	series bool
}

// ExportReport writes every page chart of the report as a PNG file in dir
// and returns the written paths. Tables without values produce no file.
func ExportReport(dir string, r stats.Report) ([]string, error) {
	defs := []chartDef{
		{name: "overview_flights_per_year", title: "Flights per Year", table: r.Overview.PerYear, metric: stats.MetricCount},
		{name: "overview_status", title: "Flight Status Distribution", table: r.Overview.Statuses, metric: stats.MetricCount},
		{name: "airlines_top", title: "Top Airlines by Flights", table: r.Airlines.TopByCount, metric: stats.MetricCount},
		{name: "airlines_time_period", title: "Flights by Airline and Time Period", table: stats.TopN(r.Airlines.ByPeriod, crossCountLimit, stats.MetricCount), metric: stats.MetricCount},
		{name: "airlines_cancellation", title: "Cancellation Rate by Airline", table: r.Airlines.Cancellation, metric: stats.MetricCancellationRate},
		{name: "airlines_monthly_cancellation", title: "Monthly Cancellation Rate", table: r.Airlines.MonthlyCancellation, metric: stats.MetricCancellationRate, series: true},
		{name: "airlines_departure_delay", title: "Average Departure Delay by Airline", table: r.Airlines.DepartureDelay, metric: stats.MetricDepartureDelay},
		{name: "airlines_arrival_delay", title: "Average Arrival Delay by Airline", table: r.Airlines.ArrivalDelay, metric: stats.MetricArrivalDelay},
		{name: "airports_top", title: "Top Origin Airports by Flights", table: r.Airports.TopByCount, metric: stats.MetricCount},
		{name: "airports_cancellation", title: "Top Origin Airports by Cancellation Rate", table: r.Airports.TopByCancellation, metric: stats.MetricCancellationRate},
		{name: "airports_departure_delay", title: "Top Origin Airports by Departure Delay", table: r.Airports.TopByDepartureDelay, metric: stats.MetricDepartureDelay},
		{name: "airports_arrival_delay", title: "Top Destination Airports by Arrival Delay", table: r.Airports.TopByArrivalDelay, metric: stats.MetricArrivalDelay},
	}
	return writeCharts(dir, defs)
}

// ExportComparison writes the comparison charts as PNG files in dir.
func ExportComparison(dir string, c stats.Comparison) ([]string, error) {
	label := c.Dimension.Label()
	defs := []chartDef{
		{name: "compare_cancellation", title: label + " Cancellation Rate", table: c.Table, metric: stats.MetricCancellationRate},
		{name: "compare_departure_delay", title: label + " Average Departure Delay", table: c.Table, metric: stats.MetricDepartureDelay},
		{name: "compare_arrival_delay", title: label + " Average Arrival Delay", table: c.Table, metric: stats.MetricArrivalDelay},
		{name: "compare_monthly", title: label + " Monthly Flights", table: c.Monthly, metric: stats.MetricCount, series: true},
	}
	return writeCharts(dir, defs)
}

func writeCharts(dir string, defs []chartDef) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	written := make([]string, 0, len(defs))
	for _, def := range defs {
		if !hasValues(def.table, def.metric) {
			slog.Debug("skipping empty chart", "chart", def.name)
			continue
		}
		path := filepath.Join(dir, def.name+".png")
		if err := writeChart(path, def); err != nil {
			return written, fmt.Errorf("%s: %w", def.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeChart(path string, def chartDef) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if def.series {
		return TimeSeriesPNG(file, def.title, def.table, def.metric, seriesLimit)
	}
	return BarChartPNG(file, def.title, def.table, def.metric)
}

func hasValues(t stats.SummaryTable, metric stats.Metric) bool {
	for _, r := range t.Rows {
		if _, ok := metric.Value(r); ok {
			return true
		}
	}
	return false
}

// BarChartPNG renders one bar per row that has a value for metric.
func BarChartPNG(w io.Writer, title string, t stats.SummaryTable, metric stats.Metric) error {
	bars := make([]chart.Value, 0, len(t.Rows))
	lo, hi := 0.0, 0.0
	for _, r := range t.Rows {
		v, ok := metric.Value(r)
		if !ok {
			continue
		}
		label := r.Key
		if r.SubKey != "" {
			label += " / " + r.SubKey
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no values to chart")
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      max(barChartMinWidth, barSlotWidth*len(bars)+120),
		Height:     chartHeight,
		BarWidth:   barSlotWidth * 2 / 3,
		BarSpacing: barSlotWidth / 3,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 120}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  metric.Label(),
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.05},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	return bc.Render(chart.PNG, w)
}

// TimeSeriesPNG renders a period rollup as lines, one per sub-key for
// two-dimension tables, keeping the limit busiest.
func TimeSeriesPNG(w io.Writer, title string, t stats.SummaryTable, metric stats.Metric, limit int) error {
	labels, series := PivotSeries(t, metric, limit)
	times := make([]time.Time, len(labels))
	for i, key := range labels {
		parsed, err := parsePeriodKey(key)
		if err != nil {
			return err
		}
		times[i] = parsed
	}

	lo, hi := seriesRange(series)
	chartSeries := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs := make([]time.Time, 0, len(s.Values))
		ys := make([]float64, 0, len(s.Values))
		for j, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			xs = append(xs, times[j])
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			// A single point has no x range; widen it by a day.
			xs = append(xs, xs[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}
		color := chart.GetDefaultColor(i)
		chartSeries = append(chartSeries, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3},
		})
	}
	if len(chartSeries) == 0 {
		return fmt.Errorf("no values to chart")
	}

	format, xName := "2006-01", ""
	if len(t.Dimensions) > 0 {
		xName = HeaderLabel(t.Dimensions[0])
		if t.Dimensions[0] == string(stats.PeriodYear) {
			format = "2006"
		}
	}
	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xName, ValueFormatter: chart.TimeValueFormatterWithFormat(format)},
		YAxis:      chart.YAxis{Name: metric.Label(), Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.05}},
		Series:     chartSeries,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func parsePeriodKey(key string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006"} {
		if t, err := time.Parse(layout, key); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period key %q", key)
}
