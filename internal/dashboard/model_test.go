package dashboard

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/flightdash/internal/model"
	"github.com/verte-zerg/flightdash/internal/render"
	"github.com/verte-zerg/flightdash/internal/stats"
)

func testFlight(date, airline, origin string, status model.Status, dep float64) model.FlightRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	f := model.FlightRecord{
		FlightDate:      d,
		Airline:         airline,
		Origin:          origin,
		Destination:     "LAX",
		OriginCity:      origin + " City",
		DestinationCity: "Los Angeles, CA",
		Status:          status,
		DeparturePeriod: "Morning",
	}
	if status == model.StatusCancelled {
		f.Cancelled = true
		return f
	}
	f.DepartureDelay = sql.NullFloat64{Float64: dep, Valid: true}
	f.ArrivalDelay = sql.NullFloat64{Float64: dep / 2, Valid: true}
	return f
}

func testModel() *Model {
	flights := []model.FlightRecord{
		testFlight("2020-01-03", "Delta", "ATL", model.StatusOnTime, 2),
		testFlight("2020-01-09", "Delta", "ATL", model.StatusDelayed, 40),
		testFlight("2020-02-11", "United", "ORD", model.StatusCancelled, 0),
		testFlight("2020-02-12", "United", "ORD", model.StatusOnTime, -5),
		testFlight("2021-03-01", "Delta", "JFK", model.StatusOnTime, 0),
	}
	m := NewModel(flights, model.FilterCriteria{}, model.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := testModel()
	if m.cfg.Top != stats.DefaultTop {
		t.Fatalf("expected default top %d, got %d", stats.DefaultTop, m.cfg.Top)
	}
	if got := strings.Join(m.selections[stats.DimAirline], ","); got != "Delta,United" {
		t.Fatalf("unexpected default airline selection %q", got)
	}
	if got := strings.Join(m.selections[stats.DimOrigin], ","); got != "ATL,ORD" {
		t.Fatalf("unexpected default airport selection %q", got)
	}
	if m.compareErr != "" {
		t.Fatalf("unexpected comparison error %q", m.compareErr)
	}
	if m.comparison.HigherDelay != "Delta" {
		t.Fatalf("expected Delta to have the higher delay, got %q", m.comparison.HigherDelay)
	}
	if m.report.Matched != 5 {
		t.Fatalf("expected 5 matched flights, got %d", m.report.Matched)
	}
}

func TestMoveTabWraps(t *testing.T) {
	m := testModel()
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabCompare {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestFilterFormRejectsInvalidDate(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter form to open")
	}
	m.filterInputs[fieldStart].SetValue("2020-13-01")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode {
		t.Fatalf("invalid date should keep the form open")
	}
	if !strings.Contains(m.filterError, "invalid date") {
		t.Fatalf("unexpected filter error %q", m.filterError)
	}
	if m.report.Matched != 5 {
		t.Fatalf("criteria should be unchanged, matched %d", m.report.Matched)
	}
}

func TestFilterFormRejectsUnknownStatus(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldStatuses].SetValue("Diverted")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || !strings.Contains(m.filterError, "unknown status") {
		t.Fatalf("expected unknown status error, got mode=%v err=%q", m.filterMode, m.filterError)
	}
}

func TestFilterFormAppliesCriteria(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldAirlines].SetValue(" delta ")
	m.filterInputs[fieldStatuses].SetValue("on-time")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter form to close, error %q", m.filterError)
	}
	if m.report.Matched != 2 {
		t.Fatalf("expected 2 on-time Delta flights, got %d", m.report.Matched)
	}
	if got := render.DescribeCriteria(m.criteria); got != "airlines: delta; statuses: On-Time" {
		t.Fatalf("unexpected criteria %q", got)
	}
}

func TestFilterFormNormalisesStatusSpelling(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldStatuses].SetValue("on time, canceled")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter form to close, error %q", m.filterError)
	}
	if got := strings.Join(m.criteria.Statuses, ","); got != "On-Time,Cancelled" {
		t.Fatalf("unexpected statuses %q", got)
	}
	if m.report.Matched != 4 {
		t.Fatalf("expected 4 on-time or cancelled flights, got %d", m.report.Matched)
	}
}

func TestFilterFormSplitsCitiesOnSemicolons(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldOriginCities].SetValue("ATL City; ORD City")
	m.filterInputs[fieldDestCities].SetValue("Los Angeles, CA")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter form to close, error %q", m.filterError)
	}
	if m.report.Matched != 4 {
		t.Fatalf("expected 4 flights from ATL and ORD, got %d", m.report.Matched)
	}
	if len(m.criteria.DestinationCities) != 1 {
		t.Fatalf("city with a comma should stay whole: %q", m.criteria.DestinationCities)
	}
}

func TestFilterFormStartAfterEndIsEmpty(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldStart].SetValue("2021-01-01")
	m.filterInputs[fieldEnd].SetValue("2020-01-01")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("start after end should be accepted, error %q", m.filterError)
	}
	if m.report.Matched != 0 {
		t.Fatalf("expected no matches, got %d", m.report.Matched)
	}
	if got := renderOverview(m.report, 100); got != render.EmptyMessage {
		t.Fatalf("expected empty overview, got %q", got)
	}
}

func TestFilterFormEscapeKeepsCriteria(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("/"))
	m.filterInputs[fieldAirlines].SetValue("United")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode || len(m.criteria.Airlines) != 0 {
		t.Fatalf("escape should discard form values")
	}
}

func TestCompareSelectionErrorIsShown(t *testing.T) {
	m := testModel()
	m.activeTab = tabCompare
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.selectMode {
		t.Fatalf("expected selection modal to open")
	}
	m.selectInput.SetValue("Delta, delta")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.selectMode {
		t.Fatalf("expected selection modal to close")
	}
	want := "select exactly two airline values to compare (got 1)"
	if m.compareErr != want {
		t.Fatalf("compareErr = %q, want %q", m.compareErr, want)
	}
	if content := m.renderCompare(100); !strings.Contains(content, want) {
		t.Fatalf("compare page should show guidance:\n%s", content)
	}
}

func TestCompareTabTogglesDimension(t *testing.T) {
	m := testModel()
	m.activeTab = tabCompare
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.compareDim != stats.DimOrigin {
		t.Fatalf("expected airport comparison, got %s", m.compareDim)
	}
	content := m.renderCompare(100)
	if !strings.Contains(content, "Comparing origin airports: ATL vs ORD") {
		t.Fatalf("unexpected compare header:\n%s", content)
	}
	if got := strings.Join(m.choices(), ","); got != "ATL,ORD,JFK" {
		t.Fatalf("unexpected airport choices %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.compareDim != stats.DimAirline {
		t.Fatalf("expected airline comparison after second toggle")
	}
}

func TestTabKeyOutsideCompareIsIgnored(t *testing.T) {
	m := testModel()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.compareDim != stats.DimAirline {
		t.Fatalf("tab should only toggle on the compare page")
	}
}

func TestTopAndPeriodKeys(t *testing.T) {
	m := testModel()
	m.Update(keyRunes("="))
	if m.cfg.Top != 15 {
		t.Fatalf("expected top 15, got %d", m.cfg.Top)
	}
	m.Update(keyRunes("-"))
	m.Update(keyRunes("-"))
	if m.cfg.Top != 5 {
		t.Fatalf("expected top 5, got %d", m.cfg.Top)
	}
	m.Update(keyRunes("p"))
	if m.cfg.Period != string(stats.PeriodMonth) {
		t.Fatalf("expected monthly trend, got %q", m.cfg.Period)
	}
	if len(m.report.Overview.Trend.Rows) != 3 {
		t.Fatalf("expected 3 monthly trend rows, got %d", len(m.report.Overview.Trend.Rows))
	}
}

func TestTopSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{in: 1, next: 5, prev: 1},
		{in: 5, next: 10, prev: 1},
		{in: 7, next: 10, prev: 5},
		{in: 10, next: 15, prev: 5},
	}
	for _, tc := range cases {
		if got := nextTop(tc.in); got != tc.next {
			t.Fatalf("nextTop(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevTop(tc.in); got != tc.prev {
			t.Fatalf("prevTop(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}

func TestViewShowsTabsAndFilters(t *testing.T) {
	m := testModel()
	out := m.View()
	for _, want := range []string{"Overview", "Airlines", "Airports", "Compare", "Filters: all flights"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 40 {
		t.Fatalf("expected view to fill 40 lines, got %d", lines)
	}
}

func TestTableViewListsRows(t *testing.T) {
	table := stats.SummaryTable{
		Dimensions: []string{string(stats.DimAirline)},
		Rows: []stats.Row{
			{Key: "Delta", Count: 3},
			{Key: "United", Count: 2},
		},
	}
	out := tableView(table, render.ColCount)
	for _, want := range []string{"Airline", "Flights", "Delta", "United"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table view missing %q:\n%s", want, out)
		}
	}
	if got := tableView(stats.SummaryTable{}, render.ColCount); got != render.EmptyMessage {
		t.Fatalf("expected empty message, got %q", got)
	}
}
