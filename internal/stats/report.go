package stats

import (
	"strings"

	"github.com/verte-zerg/flightdash/internal/model"
)

// DefaultTop is the row limit of the ranked tables.
const DefaultTop = 10

// DefaultAirportChoices is how many busy origins are offered for comparison.
const DefaultAirportChoices = 20

// OverviewPage holds the flight overview.
type OverviewPage struct {
	KPIs     KPIs
	PerYear  SummaryTable
	Trend    SummaryTable
	Statuses SummaryTable
}

// AirlinePage holds the airline analysis.
type AirlinePage struct {
	TopByCount          SummaryTable
	ByPeriod            SummaryTable
	Cancellation        SummaryTable
	MonthlyCancellation SummaryTable
	DepartureDelay      SummaryTable
	ArrivalDelay        SummaryTable
}

// AirportPage holds the airport analysis.
type AirportPage struct {
	TopByCount          SummaryTable
	TopByCancellation   SummaryTable
	TopByDepartureDelay SummaryTable
	TopByArrivalDelay   SummaryTable
}

// Report contains every page computed from one filter pass.
type Report struct {
	Criteria model.FilterCriteria
	Total    int
	Matched  int
	Overview OverviewPage
	Airlines AirlinePage
	Airports AirportPage
}

// BuildReport filters flights once and computes every page from the result.
func BuildReport(flights []model.FlightRecord, criteria model.FilterCriteria, cfg model.ReportConfig) Report {
	top := cfg.Top
	if top <= 0 {
		top = DefaultTop
	}
	threshold := cfg.DelayThreshold
	if threshold < 0 {
		threshold = DefaultDelayThreshold
	}

	period, err := ParsePeriod(cfg.Period)
	if err != nil {
		period = PeriodYear
	}

	filtered := Filter(flights, criteria)
	return Report{
		Criteria: criteria,
		Total:    len(flights),
		Matched:  len(filtered),
		Overview: OverviewPage{
			KPIs:     Overview(filtered, threshold),
			PerYear:  Rollup(filtered, PeriodYear),
			Trend:    Rollup(filtered, period),
			Statuses: CountBy(filtered, DimStatus),
		},
		Airlines: AirlinePage{
			TopByCount:          TopN(CountBy(filtered, DimAirline), top, MetricCount),
			ByPeriod:            CrossCount(filtered, DimAirline, DimDeparturePeriod),
			Cancellation:        RateBy(filtered, DimAirline),
			MonthlyCancellation: RollupBy(filtered, PeriodMonth, DimAirline),
			DepartureDelay:      MeanDelayBy(filtered, DimAirline, DepartureDelay),
			ArrivalDelay:        MeanDelayBy(filtered, DimAirline, ArrivalDelay),
		},
		Airports: AirportPage{
			TopByCount:          TopN(CountBy(filtered, DimOrigin), top, MetricCount),
			TopByCancellation:   TopN(RateBy(filtered, DimOrigin), top, MetricCancellationRate),
			TopByDepartureDelay: TopN(MeanDelayBy(filtered, DimOrigin, DepartureDelay), top, MetricDepartureDelay),
			TopByArrivalDelay:   TopN(MeanDelayBy(filtered, DimDestination, ArrivalDelay), top, MetricArrivalDelay),
		},
	}
}

// Comparison is the two-entity comparison page.
type Comparison struct {
	Dimension   Dimension
	Table       SummaryTable
	Monthly     SummaryTable
	HigherDelay string
	HasInsight  bool
}

// BuildComparison filters flights and compares two values of dim. It returns
// a *SelectionError before doing any work when selected does not hold
// exactly two distinct values.
func BuildComparison(flights []model.FlightRecord, criteria model.FilterCriteria, dim Dimension, selected []string) (Comparison, error) {
	if pair := distinctSelection(selected); len(pair) != 2 {
		return Comparison{}, &SelectionError{Dimension: dim, Got: len(pair)}
	}
	filtered := Filter(flights, criteria)
	table, err := Compare(filtered, dim, selected)
	if err != nil {
		return Comparison{}, err
	}

	wanted := toLowerSet(selected)
	pairFlights := make([]model.FlightRecord, 0)
	for _, f := range filtered {
		if _, ok := wanted[strings.ToLower(dim.Value(f))]; ok {
			pairFlights = append(pairFlights, f)
		}
	}

	higher, ok := HigherDelay(table)
	return Comparison{
		Dimension:   dim,
		Table:       table,
		Monthly:     RollupBy(pairFlights, PeriodMonth, dim),
		HigherDelay: higher,
		HasInsight:  ok,
	}, nil
}
