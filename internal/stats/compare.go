package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/flightdash/internal/model"
)

// ErrInvalidSelection is matched by errors returned for a comparison that
// was not given exactly two distinct values.
var ErrInvalidSelection = errors.New("invalid comparison selection")

// SelectionError reports how many distinct values a comparison received.
type SelectionError struct {
	Dimension Dimension
	Got       int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("select exactly two %s values to compare (got %d)", strings.ToLower(e.Dimension.Label()), e.Got)
}

// Is lets errors.Is match ErrInvalidSelection.
func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// Compare computes the metric set for exactly two values of dim. Rows follow
// the selection order. A value with no flights yields a zero row.
func Compare(flights []model.FlightRecord, dim Dimension, selected []string) (SummaryTable, error) {
	pair := distinctSelection(selected)
	if len(pair) != 2 {
		return SummaryTable{}, &SelectionError{Dimension: dim, Got: len(pair)}
	}

	lowered := [2]string{strings.ToLower(pair[0]), strings.ToLower(pair[1])}
	rows := group(flights, func(f model.FlightRecord) groupKey {
		return groupKey{key: strings.ToLower(dim.Value(f))}
	})
	out := make([]Row, 0, 2)
	for i, want := range lowered {
		row := Row{Key: pair[i]}
		for _, r := range rows {
			if r.Key == want {
				row = r
				row.Key = canonicalValue(flights, dim, want, pair[i])
				break
			}
		}
		out = append(out, row)
	}
	return SummaryTable{Dimensions: []string{string(dim)}, Rows: out}, nil
}

// HigherDelay names the row with the larger mean departure delay in a
// two-row comparison. ok is false when neither row has a delay sample.
func HigherDelay(t SummaryTable) (string, bool) {
	if len(t.Rows) != 2 {
		return "", false
	}
	a, b := t.Rows[0], t.Rows[1]
	switch {
	case a.DepartureDelay.Valid() && b.DepartureDelay.Valid():
		if a.DepartureDelay.Value > b.DepartureDelay.Value {
			return a.Key, true
		}
		return b.Key, true
	case a.DepartureDelay.Valid():
		return a.Key, true
	case b.DepartureDelay.Valid():
		return b.Key, true
	}
	return "", false
}

func distinctSelection(selected []string) []string {
	seen := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// canonicalValue returns the spelling used in the dataset for a value
// matched case-insensitively, falling back to what the caller typed.
func canonicalValue(flights []model.FlightRecord, dim Dimension, lowered, fallback string) string {
	for _, f := range flights {
		v := dim.Value(f)
		if strings.ToLower(v) == lowered {
			return v
		}
	}
	return fallback
}
