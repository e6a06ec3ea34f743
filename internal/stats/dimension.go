// Package stats filters flight records and aggregates them into summary tables.
//
// Every function in this package is pure: it reads the records it is given,
// never modifies them, and returns freshly allocated results.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"
)

// Dimension names a categorical field of a flight record.
type Dimension string

// Supported grouping dimensions.
const (
	DimAirline         Dimension = "airline"
	DimOrigin          Dimension = "origin"
	DimDestination     Dimension = "destination"
	DimOriginCity      Dimension = "origin_city"
	DimDestinationCity Dimension = "destination_city"
	DimStatus          Dimension = "flight_status"
	DimDeparturePeriod Dimension = "departure_time_period"
)

// Value returns the record's value for the dimension.
func (d Dimension) Value(f model.FlightRecord) string {
	switch d {
	case DimAirline:
		return f.Airline
	case DimOrigin:
		return f.Origin
	case DimDestination:
		return f.Destination
	case DimOriginCity:
		return f.OriginCity
	case DimDestinationCity:
		return f.DestinationCity
	case DimStatus:
		return string(f.Status)
	case DimDeparturePeriod:
		return f.DeparturePeriod
	default:
		return ""
	}
}

// Label returns a human-readable name for the dimension.
func (d Dimension) Label() string {
	switch d {
	case DimAirline:
		return "Airline"
	case DimOrigin:
		return "Origin Airport"
	case DimDestination:
		return "Destination Airport"
	case DimOriginCity:
		return "Origin City"
	case DimDestinationCity:
		return "Destination City"
	case DimStatus:
		return "Status"
	case DimDeparturePeriod:
		return "Time Period"
	default:
		return string(d)
	}
}

// ParseDimension resolves user input to a dimension. "airport" means the
// origin airport, matching how flights are attributed to airports elsewhere.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "airline", "airlines":
		return DimAirline, nil
	case "origin", "airport", "airports":
		return DimOrigin, nil
	case "destination", "dest":
		return DimDestination, nil
	case "origin_city", "origin-city":
		return DimOriginCity, nil
	case "destination_city", "dest-city", "dest_city":
		return DimDestinationCity, nil
	case "status", "flight_status":
		return DimStatus, nil
	case "period", "departure_time_period", "dep_time_period":
		return DimDeparturePeriod, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Period is a calendar bucket for time-series rollups.
type Period string

// Supported rollup periods.
const (
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
)

// Key formats t as a bucket key. Keys sort chronologically as strings.
func (p Period) Key(t time.Time) string {
	if p == PeriodYear {
		return t.Format("2006")
	}
	return t.Format("2006-01")
}

// ParsePeriod resolves user input to a rollup period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "yearly":
		return PeriodYear, nil
	case "month", "monthly":
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q (use year or month)", s)
}

// DelayField selects which delay column a mean is computed over.
type DelayField int

// Delay columns.
const (
	DepartureDelay DelayField = iota
	ArrivalDelay
)

func (f DelayField) metric() Metric {
	if f == ArrivalDelay {
		return MetricArrivalDelay
	}
	return MetricDepartureDelay
}

// Metric names a sortable column of a summary row.
type Metric string

// Sortable metrics.
const (
	MetricCount            Metric = "count"
	MetricCancellationRate Metric = "cancellation_rate"
	MetricDepartureDelay   Metric = "departure_delay"
	MetricArrivalDelay     Metric = "arrival_delay"
)

// ParseMetric resolves user input to a metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count", "flights":
		return MetricCount, nil
	case "cancellation_rate", "cancellation", "rate":
		return MetricCancellationRate, nil
	case "departure_delay", "dep_delay":
		return MetricDepartureDelay, nil
	case "arrival_delay", "arr_delay":
		return MetricArrivalDelay, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Label returns a display name for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricCount:
		return "Flights"
	case MetricCancellationRate:
		return "Cancellation Rate (%)"
	case MetricDepartureDelay:
		return "Avg Departure Delay (min)"
	case MetricArrivalDelay:
		return "Avg Arrival Delay (min)"
	}
	return string(m)
}

// Value returns the row's value for the metric. The second result is false
// when the row has no value, which only happens for delay means without samples.
func (m Metric) Value(r Row) (float64, bool) {
	switch m {
	case MetricCount:
		return float64(r.Count), true
	case MetricCancellationRate:
		return r.CancellationRate, true
	case MetricDepartureDelay:
		return r.DepartureDelay.Value, r.DepartureDelay.Valid()
	case MetricArrivalDelay:
		return r.ArrivalDelay.Value, r.ArrivalDelay.Valid()
	}
	return 0, false
}
