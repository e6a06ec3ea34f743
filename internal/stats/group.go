package stats

import (
	"sort"

	"github.com/verte-zerg/flightdash/internal/model"
)

// Mean is an average over the non-null samples of a delay column.
type Mean struct {
	Value   float64
	Samples int
}

// Valid reports whether at least one sample contributed to the mean.
func (m Mean) Valid() bool {
	return m.Samples > 0
}

// Row is one group of a summary table with its derived metrics.
type Row struct {
	Key              string
	SubKey           string
	Count            int
	Cancelled        int
	CancellationRate float64
	DepartureDelay   Mean
	ArrivalDelay     Mean
}

// SummaryTable is an ordered list of groups keyed by one or two dimensions.
type SummaryTable struct {
	Dimensions []string
	Rows       []Row
}

// Len returns the number of rows.
func (t SummaryTable) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t SummaryTable) Empty() bool {
	return len(t.Rows) == 0
}

type groupKey struct {
	key string
	sub string
}

type accumulator struct {
	row    Row
	depSum float64
	arrSum float64
}

func (a *accumulator) add(f model.FlightRecord) {
	a.row.Count++
	if f.Cancelled {
		a.row.Cancelled++
	}
	if f.DepartureDelay.Valid {
		a.depSum += f.DepartureDelay.Float64
		a.row.DepartureDelay.Samples++
	}
	if f.ArrivalDelay.Valid {
		a.arrSum += f.ArrivalDelay.Float64
		a.row.ArrivalDelay.Samples++
	}
}

func (a *accumulator) finish() Row {
	r := a.row
	if r.Count > 0 {
		r.CancellationRate = float64(r.Cancelled) / float64(r.Count) * 100
	}
	if r.DepartureDelay.Samples > 0 {
		r.DepartureDelay.Value = a.depSum / float64(r.DepartureDelay.Samples)
	}
	if r.ArrivalDelay.Samples > 0 {
		r.ArrivalDelay.Value = a.arrSum / float64(r.ArrivalDelay.Samples)
	}
	return r
}

// group computes the full metric set for every observed key, in first
// encounter order. Groups exist only for keys seen in flights.
func group(flights []model.FlightRecord, keyOf func(model.FlightRecord) groupKey) []Row {
	index := make(map[groupKey]int)
	accs := make([]*accumulator, 0)
	for _, f := range flights {
		k := keyOf(f)
		i, ok := index[k]
		if !ok {
			i = len(accs)
			index[k] = i
			accs = append(accs, &accumulator{row: Row{Key: k.key, SubKey: k.sub}})
		}
		accs[i].add(f)
	}
	rows := make([]Row, 0, len(accs))
	for _, acc := range accs {
		rows = append(rows, acc.finish())
	}
	return rows
}

func byDimension(dim Dimension) func(model.FlightRecord) groupKey {
	return func(f model.FlightRecord) groupKey {
		return groupKey{key: dim.Value(f)}
	}
}

// CountBy counts flights per value of dim, most flights first.
func CountBy(flights []model.FlightRecord, dim Dimension) SummaryTable {
	rows := group(flights, byDimension(dim))
	sortRows(rows, MetricCount)
	return SummaryTable{Dimensions: []string{string(dim)}, Rows: rows}
}

// RateBy computes the cancellation percentage per value of dim, highest first.
func RateBy(flights []model.FlightRecord, dim Dimension) SummaryTable {
	rows := group(flights, byDimension(dim))
	sortRows(rows, MetricCancellationRate)
	return SummaryTable{Dimensions: []string{string(dim)}, Rows: rows}
}

// MeanDelayBy averages a delay column per value of dim, largest first. Null
// delays are skipped and groups without any delay sample are left out.
func MeanDelayBy(flights []model.FlightRecord, dim Dimension, field DelayField) SummaryTable {
	metric := field.metric()
	rows := group(flights, byDimension(dim))
	kept := rows[:0]
	for _, r := range rows {
		if _, ok := metric.Value(r); ok {
			kept = append(kept, r)
		}
	}
	sortRows(kept, metric)
	return SummaryTable{Dimensions: []string{string(dim)}, Rows: kept}
}

// Rollup groups flights by calendar period in chronological order.
func Rollup(flights []model.FlightRecord, period Period) SummaryTable {
	rows := group(flights, func(f model.FlightRecord) groupKey {
		return groupKey{key: period.Key(f.FlightDate)}
	})
	sortByKeys(rows)
	return SummaryTable{Dimensions: []string{string(period)}, Rows: rows}
}

// RollupBy groups flights by calendar period and dim, ordered by period and
// then by dimension value.
func RollupBy(flights []model.FlightRecord, period Period, dim Dimension) SummaryTable {
	rows := group(flights, func(f model.FlightRecord) groupKey {
		return groupKey{key: period.Key(f.FlightDate), sub: dim.Value(f)}
	})
	sortByKeys(rows)
	return SummaryTable{Dimensions: []string{string(period), string(dim)}, Rows: rows}
}

// CrossCount counts flights per pair of dimension values, most flights first.
func CrossCount(flights []model.FlightRecord, first, second Dimension) SummaryTable {
	rows := group(flights, func(f model.FlightRecord) groupKey {
		return groupKey{key: first.Value(f), sub: second.Value(f)}
	})
	sortRows(rows, MetricCount)
	return SummaryTable{Dimensions: []string{string(first), string(second)}, Rows: rows}
}

// TopN returns at most n rows of t ordered by metric, largest first. Rows
// without a value for the metric are dropped. n <= 0 keeps every row.
func TopN(t SummaryTable, n int, metric Metric) SummaryTable {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if _, ok := metric.Value(r); ok {
			rows = append(rows, r)
		}
	}
	sortRows(rows, metric)
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	dims := append([]string(nil), t.Dimensions...)
	return SummaryTable{Dimensions: dims, Rows: rows}
}

// sortRows orders rows by metric descending. Equal values fall back to
// key then sub-key ascending so the order never depends on input order.
func sortRows(rows []Row, metric Metric) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := metric.Value(rows[i])
		vj, okj := metric.Value(rows[j])
		if oki != okj {
			return oki
		}
		if vi != vj {
			return vi > vj
		}
		return lessKeys(rows[i], rows[j])
	})
}

func sortByKeys(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessKeys(rows[i], rows[j])
	})
}

func lessKeys(a, b Row) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.SubKey < b.SubKey
}
