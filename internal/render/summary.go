package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/flightdash/internal/model"
	"github.com/verte-zerg/flightdash/internal/stats"
)

const dateLayout = "2006-01-02"

// Options control text report rendering.
type Options struct {
	// Width is the total column budget; zero follows the terminal.
	Width       int
	PlotHeight  int
	Color       bool
	SeriesLimit int
}

func (o Options) plotWidth() int {
	if o.Width <= 0 {
		return 0
	}
	return PlotWidthFor(o.Width)
}

func (o Options) barWidth() int {
	if o.Width <= 0 {
		return defaultBarWidth
	}
	return max(10, o.Width/2)
}

func (o Options) seriesLimit() int {
	if o.SeriesLimit <= 0 {
		return seriesLimit
	}
	return o.SeriesLimit
}

// DescribeCriteria summarises active filters on one line.
func DescribeCriteria(c model.FilterCriteria) string {
	parts := make([]string, 0, 6)
	if !c.Start.IsZero() || !c.End.IsZero() {
		start, end := "…", "…"
		if !c.Start.IsZero() {
			start = c.Start.Format(dateLayout)
		}
		if !c.End.IsZero() {
			end = c.End.Format(dateLayout)
		}
		parts = append(parts, start+" to "+end)
	}
	add := func(label string, values []string) {
		if len(values) > 0 {
			parts = append(parts, label+": "+strings.Join(values, ", "))
		}
	}
	add("airlines", c.Airlines)
	add("origin cities", c.OriginCities)
	add("destination cities", c.DestinationCities)
	add("statuses", c.Statuses)
	add("airports", c.Airports)
	if len(parts) == 0 {
		return "all flights"
	}
	return strings.Join(parts, "; ")
}

// KPILines formats the overview KPIs.
func KPILines(k stats.KPIs) []string {
	return []string{
		fmt.Sprintf("Total Flights      %s", Abbreviate(k.Total)),
		fmt.Sprintf("Delayed Flights    %s (%s)", Abbreviate(k.Delayed), Percent(k.DelayedPct)),
		fmt.Sprintf("Cancelled Flights  %s (%s)", Abbreviate(k.Cancelled), Percent(k.CancelledPct)),
		fmt.Sprintf("On-Time Flights    %s", Abbreviate(k.OnTime)),
	}
}

// RenderReport prints every page of the report.
func RenderReport(w io.Writer, r stats.Report, opts Options) error {
	if _, err := fmt.Fprintf(w, "Flights: %s of %s match (%s)\n\n", Abbreviate(r.Matched), Abbreviate(r.Total), DescribeCriteria(r.Criteria)); err != nil {
		return err
	}
	if err := renderOverview(w, r.Overview, opts); err != nil {
		return err
	}
	if err := renderAirlines(w, r.Airlines, opts); err != nil {
		return err
	}
	return renderAirports(w, r.Airports)
}

func renderOverview(w io.Writer, page stats.OverviewPage, opts Options) error {
	if _, err := fmt.Fprintln(w, "== Overview =="); err != nil {
		return err
	}
	if err := writeLines(w, KPILines(page.KPIs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := RenderBars(w, "Flights per Year", page.PerYear, stats.MetricCount, opts.barWidth()); err != nil {
		return err
	}
	if len(page.Trend.Dimensions) > 0 && page.Trend.Dimensions[0] == string(stats.PeriodMonth) {
		labels, series := PivotSeries(page.Trend, stats.MetricCount, 0)
		if err := PlotSeries(w, "Flights per Month", labels, series, opts.plotWidth(), opts.PlotHeight, opts.Color); err != nil {
			return err
		}
	}
	return RenderBars(w, "Flight Status Distribution", page.Statuses, stats.MetricCount, opts.barWidth())
}

func renderAirlines(w io.Writer, page stats.AirlinePage, opts Options) error {
	if _, err := fmt.Fprintln(w, "== Airlines =="); err != nil {
		return err
	}
	if err := RenderTable(w, "Top Airlines by Flights", page.TopByCount, ColCount, ColCancelled, ColRate); err != nil {
		return err
	}
	if err := RenderTable(w, "Flights by Airline and Time Period", page.ByPeriod, ColCount); err != nil {
		return err
	}
	if err := RenderBars(w, "Cancellation Rate by Airline", page.Cancellation, stats.MetricCancellationRate, opts.barWidth()); err != nil {
		return err
	}
	labels, series := PivotSeries(page.MonthlyCancellation, stats.MetricCancellationRate, opts.seriesLimit())
	if err := PlotSeries(w, "Monthly Cancellation Rate (%)", labels, series, opts.plotWidth(), opts.PlotHeight, opts.Color); err != nil {
		return err
	}
	if err := RenderBars(w, "Average Departure Delay by Airline (min)", page.DepartureDelay, stats.MetricDepartureDelay, opts.barWidth()); err != nil {
		return err
	}
	return RenderBars(w, "Average Arrival Delay by Airline (min)", page.ArrivalDelay, stats.MetricArrivalDelay, opts.barWidth())
}

func renderAirports(w io.Writer, page stats.AirportPage) error {
	if _, err := fmt.Fprintln(w, "== Airports =="); err != nil {
		return err
	}
	tables := []struct {
		title string
		table stats.SummaryTable
		cols  []Column
	}{
		{title: "Top Origin Airports by Flights", table: page.TopByCount, cols: []Column{ColCount, ColRate}},
		{title: "Top Origin Airports by Cancellation Rate", table: page.TopByCancellation, cols: []Column{ColRate, ColCancelled, ColCount}},
		{title: "Top Origin Airports by Departure Delay", table: page.TopByDepartureDelay, cols: []Column{ColDepartureDelay, ColCount}},
		{title: "Top Destination Airports by Arrival Delay", table: page.TopByArrivalDelay, cols: []Column{ColArrivalDelay, ColCount}},
	}
	for _, t := range tables {
		if err := RenderTable(w, t.title, t.table, t.cols...); err != nil {
			return err
		}
	}
	return nil
}

// Insight phrases the comparison's delay finding.
func Insight(c stats.Comparison) string {
	if !c.HasInsight {
		return "Not enough delay data to compare."
	}
	return fmt.Sprintf("%s has the higher average departure delay.", c.HigherDelay)
}

// RenderComparison prints the two-entity comparison page.
func RenderComparison(w io.Writer, c stats.Comparison, opts Options) error {
	title := fmt.Sprintf("== %s Comparison ==", c.Dimension.Label())
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if err := RenderTable(w, "", c.Table, ColCount, ColCancelled, ColRate, ColDepartureDelay, ColArrivalDelay); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", Insight(c)); err != nil {
		return err
	}
	labels, series := PivotSeries(c.Monthly, stats.MetricCount, 2)
	if err := PlotSeries(w, "Monthly Flights", labels, series, opts.plotWidth(), opts.PlotHeight, opts.Color); err != nil {
		return err
	}
	return RenderTable(w, "Monthly Comparison", c.Monthly, ColCount, ColRate, ColDepartureDelay)
}

// RenderInfo prints the provenance of the cached dataset.
func RenderInfo(w io.Writer, info model.DatasetInfo) error {
	lines := []string{
		fmt.Sprintf("Source:    %s", info.Source),
		fmt.Sprintf("Imported:  %s", info.ImportedAt.Local().Format("2006-01-02 15:04")),
		fmt.Sprintf("Flights:   %d", info.Rows),
	}
	if !info.FirstDate.IsZero() {
		lines = append(lines, fmt.Sprintf("Dates:     %s to %s", info.FirstDate.Format(dateLayout), info.LastDate.Format(dateLayout)))
	}
	return writeLines(w, lines)
}
