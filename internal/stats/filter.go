package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"
)

// Filter returns the flights matching every criterion. Categorical values
// compare case-insensitively; within one set any value matches. Status
// spellings accepted by model.ParseStatus are normalised first. A start date
// after the end date selects nothing.
func Filter(flights []model.FlightRecord, c model.FilterCriteria) []model.FlightRecord {
	out := make([]model.FlightRecord, 0)
	start, end := dateOnly(c.Start), dateOnly(c.End)
	if !c.Start.IsZero() && !c.End.IsZero() && start.After(end) {
		return out
	}

	checks := make([]categoryCheck, 0, 5)
	checks = appendCheck(checks, DimAirline, c.Airlines)
	checks = appendCheck(checks, DimOriginCity, c.OriginCities)
	checks = appendCheck(checks, DimDestinationCity, c.DestinationCities)
	checks = appendCheck(checks, DimStatus, canonicalStatuses(c.Statuses))
	checks = appendCheck(checks, DimOrigin, c.Airports)

	for _, f := range flights {
		day := dateOnly(f.FlightDate)
		if !c.Start.IsZero() && day.Before(start) {
			continue
		}
		if !c.End.IsZero() && day.After(end) {
			continue
		}
		if !matchesAll(f, checks) {
			continue
		}
		out = append(out, f)
	}
	return out
}

type categoryCheck struct {
	dim     Dimension
	allowed map[string]struct{}
}

func appendCheck(checks []categoryCheck, dim Dimension, values []string) []categoryCheck {
	set := toLowerSet(values)
	if len(set) == 0 {
		return checks
	}
	return append(checks, categoryCheck{dim: dim, allowed: set})
}

func matchesAll(f model.FlightRecord, checks []categoryCheck) bool {
	for _, check := range checks {
		if _, ok := check.allowed[strings.ToLower(check.dim.Value(f))]; !ok {
			return false
		}
	}
	return true
}

func toLowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func canonicalStatuses(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if s, ok := model.ParseStatus(v); ok {
			v = string(s)
		}
		out[i] = v
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Choices returns the sorted distinct non-empty values of a dimension.
func Choices(flights []model.FlightRecord, dim Dimension) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, f := range flights {
		v := dim.Value(f)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateSpan returns the first and last flight dates. ok is false for no flights.
func DateSpan(flights []model.FlightRecord) (first, last time.Time, ok bool) {
	for i, f := range flights {
		day := dateOnly(f.FlightDate)
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}
	return first, last, len(flights) > 0
}

// Busiest returns the n values of dim with the most flights, ties broken by
// value.
func Busiest(flights []model.FlightRecord, dim Dimension, n int) []string {
	top := TopN(CountBy(flights, dim), n, MetricCount)
	out := make([]string, 0, len(top.Rows))
	for _, r := range top.Rows {
		out = append(out, r.Key)
	}
	return out
}

// ParseDate parses a filter bound in YYYY-MM-DD form. Blank input yields the
// zero time, which leaves that side of the range open.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// SplitValues splits comma-separated filter input into trimmed values.
func SplitValues(s string) []string {
	return splitOn(s, ",")
}

// SplitCities splits semicolon-separated city input. City names such as
// "Los Angeles, CA" carry commas of their own.
func SplitCities(s string) []string {
	return splitOn(s, ";")
}

func splitOn(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
