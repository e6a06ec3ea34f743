// Package model defines shared data structures.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// Status is the outcome of a flight as recorded in the dataset.
type Status string

// Known flight statuses.
const (
	StatusOnTime    Status = "On-Time"
	StatusDelayed   Status = "Delayed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus maps a dataset value onto a known status, ignoring case.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-time", "on time", "ontime":
		return StatusOnTime, true
	case "delayed":
		return StatusDelayed, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	}
	return "", false
}

// FlightRecord is one observed flight leg.
type FlightRecord struct {
	FlightDate      time.Time
	Airline         string
	Origin          string
	Destination     string
	OriginCity      string
	DestinationCity string
	DepartureDelay  sql.NullFloat64
	ArrivalDelay    sql.NullFloat64
	Cancelled       bool
	Status          Status
	DeparturePeriod string
}

// FilterCriteria selects a subset of flights. Dates are inclusive and a zero
// date leaves that side unbounded. Empty sets do not restrict.
type FilterCriteria struct {
	Start             time.Time
	End               time.Time
	Airlines          []string
	OriginCities      []string
	DestinationCities []string
	Statuses          []string
	Airports          []string
}

// ReportConfig holds options shared by the reporting commands and the dashboard.
// Period is "year" or "month" and sets the overview trend granularity.
// DelayThreshold is used as given, including 0; only a negative value falls
// back to the default.
type ReportConfig struct {
	Top            int
	AirportChoices int
	DelayThreshold float64
	Period         string
}

// DatasetInfo describes the cached dataset.
type DatasetInfo struct {
	Source     string
	ImportedAt time.Time
	Rows       int
	FirstDate  time.Time
	LastDate   time.Time
}
