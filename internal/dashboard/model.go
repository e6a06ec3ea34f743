// Package dashboard provides the Bubble Tea flight metrics dashboard.
package dashboard

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flightdash/internal/model"
	"github.com/verte-zerg/flightdash/internal/render"
	"github.com/verte-zerg/flightdash/internal/stats"
)

const (
	tabOverview = iota
	tabAirlines
	tabAirports
	tabCompare
)

// Filter form fields, in display order.
const (
	fieldStart = iota
	fieldEnd
	fieldAirlines
	fieldOriginCities
	fieldDestCities
	fieldStatuses
	fieldAirports
)

const (
	plotHeight = 10
	topStep    = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	sectionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	flights  []model.FlightRecord
	criteria model.FilterCriteria
	cfg      model.ReportConfig

	report     stats.Report
	comparison stats.Comparison
	compareErr string

	tabs      []string
	activeTab int
	viewports []viewport.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	compareDim  stats.Dimension
	selections  map[stats.Dimension][]string
	selectMode  bool
	selectInput textinput.Model
}

// NewModel constructs a dashboard over an already loaded dataset.
func NewModel(flights []model.FlightRecord, criteria model.FilterCriteria, cfg model.ReportConfig) *Model {
	m := &Model{
		flights:    flights,
		criteria:   criteria,
		cfg:        cfg,
		tabs:       []string{"Overview", "Airlines", "Airports", "Compare"},
		compareDim: stats.DimAirline,
		selections: map[stats.Dimension][]string{
			stats.DimAirline: stats.Busiest(flights, stats.DimAirline, 2),
			stats.DimOrigin:  stats.Busiest(flights, stats.DimOrigin, 2),
		},
	}
	if m.cfg.Top <= 0 {
		m.cfg.Top = stats.DefaultTop
	}
	m.initInputs()
	m.initSelectInput()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.selectMode {
			return m.updateSelect(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.cfg.Top = nextTop(m.cfg.Top)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.Top = prevTop(m.cfg.Top)
			m.refreshReport()
			return m, nil
		case "p":
			m.cfg.Period = string(togglePeriod(m.cfg.Period))
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabCompare {
				return m.startSelect()
			}
			return m, nil
		case "tab":
			if m.activeTab == tabCompare {
				m.toggleCompareDimension()
			}
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.selectMode {
		return fitLines(m.renderSelectModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newInput("Start (YYYY-MM-DD): "),
		newInput("End (YYYY-MM-DD): "),
		newInput("Airlines: "),
		newInput("Origin cities (; separated): "),
		newInput("Destination cities (; separated): "),
		newInput("Statuses: "),
		newInput("Origin airports: "),
	}
	m.filterInputs[fieldStatuses].Placeholder = "On-Time, Delayed, Cancelled"
	m.setInputsFromCriteria()
}

func (m *Model) initSelectInput() {
	m.selectInput = newInput("Compare: ")
	m.selectInput.Placeholder = "two values, comma separated"
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromCriteria() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[fieldStart].SetValue(formatDate(m.criteria.Start))
	m.filterInputs[fieldEnd].SetValue(formatDate(m.criteria.End))
	m.filterInputs[fieldAirlines].SetValue(strings.Join(m.criteria.Airlines, ", "))
	m.filterInputs[fieldOriginCities].SetValue(strings.Join(m.criteria.OriginCities, "; "))
	m.filterInputs[fieldDestCities].SetValue(strings.Join(m.criteria.DestinationCities, "; "))
	m.filterInputs[fieldStatuses].SetValue(strings.Join(m.criteria.Statuses, ", "))
	m.filterInputs[fieldAirports].SetValue(strings.Join(m.criteria.Airports, ", "))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.selectInput.Prompt)
	m.selectInput.Width = max(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	summary := fmt.Sprintf("Filters: %s  flights=%s/%s  top=%d  trend=%s",
		render.DescribeCriteria(m.criteria),
		render.Abbreviate(m.report.Matched),
		render.Abbreviate(m.report.Total),
		m.cfg.Top,
		trendPeriod(m.cfg.Period),
	)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Top: -/=  Trend: p  Filters: /  Quit: q"
	if m.activeTab == tabCompare {
		help = "Nav: left/right  Choose: enter  Airlines/Airports: tab  Filters: /  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (comma separated, blank for any. Enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.flights, m.criteria, m.cfg)
	m.refreshComparison()
	m.renderTabContents()
}

func (m *Model) refreshComparison() {
	m.compareErr = ""
	c, err := stats.BuildComparison(m.flights, m.criteria, m.compareDim, m.selections[m.compareDim])
	if err != nil {
		m.comparison = stats.Comparison{Dimension: m.compareDim}
		m.compareErr = err.Error()
		return
	}
	m.comparison = c
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabAirlines].SetContent(renderAirlines(m.report, width))
	m.viewports[tabAirports].SetContent(renderAirports(m.report))
	m.viewports[tabCompare].SetContent(m.renderCompare(width))
}

func renderOverview(r stats.Report, width int) string {
	if r.Matched == 0 {
		return render.EmptyMessage
	}
	parts := []string{
		renderSummaryCards(r.Overview.KPIs, width),
		section("Flights per Year", strings.Join(render.BarLines(r.Overview.PerYear, stats.MetricCount, barWidth(width)), "\n")),
	}
	if len(r.Overview.Trend.Dimensions) > 0 && r.Overview.Trend.Dimensions[0] == string(stats.PeriodMonth) {
		parts = append(parts, plot("Flights per Month", r.Overview.Trend, stats.MetricCount, 0, width))
	}
	parts = append(parts, section("Flight Status Distribution", strings.Join(render.BarLines(r.Overview.Statuses, stats.MetricCount, barWidth(width)), "\n")))
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(k stats.KPIs, width int) string {
	cards := []string{
		metricCard("Total Flights", render.Abbreviate(k.Total)),
		metricCard("Delayed", fmt.Sprintf("%s (%s)", render.Abbreviate(k.Delayed), render.Percent(k.DelayedPct))),
		metricCard("Cancelled", fmt.Sprintf("%s (%s)", render.Abbreviate(k.Cancelled), render.Percent(k.CancelledPct))),
		metricCard("On-Time", render.Abbreviate(k.OnTime)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderAirlines(r stats.Report, width int) string {
	if r.Matched == 0 {
		return render.EmptyMessage
	}
	page := r.Airlines
	parts := []string{
		section("Top Airlines by Flights", tableView(page.TopByCount, render.ColCount, render.ColCancelled, render.ColRate)),
		section("Flights by Airline and Time Period", tableView(page.ByPeriod, render.ColCount)),
		section("Cancellation Rate by Airline", strings.Join(render.BarLines(page.Cancellation, stats.MetricCancellationRate, barWidth(width)), "\n")),
		plot("Monthly Cancellation Rate (%)", page.MonthlyCancellation, stats.MetricCancellationRate, 5, width),
		section("Average Departure Delay by Airline (min)", strings.Join(render.BarLines(page.DepartureDelay, stats.MetricDepartureDelay, barWidth(width)), "\n")),
		section("Average Arrival Delay by Airline (min)", strings.Join(render.BarLines(page.ArrivalDelay, stats.MetricArrivalDelay, barWidth(width)), "\n")),
	}
	return strings.Join(parts, "\n\n")
}

func renderAirports(r stats.Report) string {
	if r.Matched == 0 {
		return render.EmptyMessage
	}
	page := r.Airports
	parts := []string{
		section("Top Origin Airports by Flights", tableView(page.TopByCount, render.ColCount, render.ColRate)),
		section("Top Origin Airports by Cancellation Rate", tableView(page.TopByCancellation, render.ColRate, render.ColCancelled, render.ColCount)),
		section("Top Origin Airports by Departure Delay", tableView(page.TopByDepartureDelay, render.ColDepartureDelay, render.ColCount)),
		section("Top Destination Airports by Arrival Delay", tableView(page.TopByArrivalDelay, render.ColArrivalDelay, render.ColCount)),
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderCompare(width int) string {
	label := strings.ToLower(m.compareDim.Label())
	selected := m.selections[m.compareDim]
	header := headerStyle.Render(fmt.Sprintf("Comparing %ss: %s", label, strings.Join(selected, " vs ")))
	if len(selected) == 0 {
		header = headerStyle.Render(fmt.Sprintf("Comparing %ss: none selected", label))
	}
	if m.compareErr != "" {
		return strings.Join([]string{
			header,
			errorStyle.Render(m.compareErr),
			headerStyle.Render("Press enter to choose two values."),
		}, "\n")
	}
	c := m.comparison
	parts := []string{
		header,
		section(c.Dimension.Label()+" Comparison", tableView(c.Table,
			render.ColCount, render.ColCancelled, render.ColRate, render.ColDepartureDelay, render.ColArrivalDelay)),
		cardValueStyle.Render(render.Insight(c)),
		plot("Monthly Flights", c.Monthly, stats.MetricCount, 2, width),
		section("Monthly Comparison", tableView(c.Monthly, render.ColCount, render.ColRate, render.ColDepartureDelay)),
	}
	return strings.Join(parts, "\n\n")
}

func section(title, body string) string {
	if body == "" {
		body = render.EmptyMessage
	}
	return sectionStyle.Render(title) + "\n" + body
}

func plot(title string, t stats.SummaryTable, metric stats.Metric, limit, width int) string {
	labels, series := render.PivotSeries(t, metric, limit)
	if len(series) == 0 {
		return section(title, "")
	}
	var buf bytes.Buffer
	if err := render.PlotSeries(&buf, "", labels, series, render.PlotWidthFor(width), plotHeight, true); err != nil {
		return section(title, fmt.Sprintf("Failed to render plot: %v", err))
	}
	return section(title, strings.TrimRight(buf.String(), "\n"))
}

func barWidth(width int) int {
	return max(10, width/2)
}

// tableView renders a summary table with the bubbles table component sized
// to show every row.
func tableView(t stats.SummaryTable, cols ...render.Column) string {
	if t.Empty() {
		return render.EmptyMessage
	}
	headers := render.Headers(t, cols)
	cells := render.Cells(t, cols)
	columns := make([]table.Column, len(headers))
	for i, title := range headers {
		width := lipgloss.Width(title)
		for _, row := range cells {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: title, Width: width}
	}
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
	)
	tbl.SetStyles(tableStyles())
	fitTableHeight(&tbl, len(rows)+2)
	return tableMutedStyle.Render(tbl.View())
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell
	return styles
}

// fitTableHeight resizes tbl until its view spans target lines.
func fitTableHeight(tbl *table.Model, target int) {
	target = max(1, target)
	height := target
	for range 2 {
		tbl.SetHeight(height)
		viewHeight := lipgloss.Height(tbl.View())
		if viewHeight == target {
			return
		}
		height = max(1, height+target-viewHeight)
	}
	tbl.SetHeight(height)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromCriteria()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// applyFilter replaces the criteria with the form values. A start after the
// end is accepted and selects nothing.
func (m *Model) applyFilter() error {
	start, err := stats.ParseDate(m.filterInputs[fieldStart].Value())
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := stats.ParseDate(m.filterInputs[fieldEnd].Value())
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	statuses := stats.SplitValues(m.filterInputs[fieldStatuses].Value())
	for i, s := range statuses {
		status, ok := model.ParseStatus(s)
		if !ok {
			return fmt.Errorf("unknown status %q (use On-Time, Delayed or Cancelled)", s)
		}
		statuses[i] = string(status)
	}
	m.criteria = model.FilterCriteria{
		Start:             start,
		End:               end,
		Airlines:          stats.SplitValues(m.filterInputs[fieldAirlines].Value()),
		OriginCities:      stats.SplitCities(m.filterInputs[fieldOriginCities].Value()),
		DestinationCities: stats.SplitCities(m.filterInputs[fieldDestCities].Value()),
		Statuses:          statuses,
		Airports:          stats.SplitValues(m.filterInputs[fieldAirports].Value()),
	}
	return nil
}

func (m *Model) toggleCompareDimension() {
	if m.compareDim == stats.DimAirline {
		m.compareDim = stats.DimOrigin
	} else {
		m.compareDim = stats.DimAirline
	}
	m.refreshComparison()
	m.renderTabContents()
}

func (m *Model) startSelect() (tea.Model, tea.Cmd) {
	m.selectMode = true
	m.selectInput.SetValue(strings.Join(m.selections[m.compareDim], ", "))
	m.selectInput.CursorEnd()
	return m, m.selectInput.Focus()
}

func (m *Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.selectMode = false
		m.selectInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.selections[m.compareDim] = stats.SplitValues(m.selectInput.Value())
		m.selectMode = false
		m.selectInput.Blur()
		m.refreshComparison()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.selectInput, cmd = m.selectInput.Update(msg)
	return m, cmd
}

// choices lists the values offered in the selection modal.
func (m *Model) choices() []string {
	if m.compareDim == stats.DimOrigin {
		n := m.cfg.AirportChoices
		if n <= 0 {
			n = stats.DefaultAirportChoices
		}
		return stats.Busiest(m.flights, stats.DimOrigin, n)
	}
	return stats.Choices(m.flights, stats.DimAirline)
}

func (m *Model) renderSelectModal() string {
	label := m.compareDim.Label()
	title := cardValueStyle.Render(fmt.Sprintf("Compare Two %ss", label))
	body := []string{
		title,
		m.selectInput.View(),
		headerStyle.Render("Choices: " + strings.Join(m.choices(), ", ")),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func trendPeriod(s string) stats.Period {
	p, err := stats.ParsePeriod(s)
	if err != nil {
		return stats.PeriodYear
	}
	return p
}

func togglePeriod(s string) stats.Period {
	if trendPeriod(s) == stats.PeriodYear {
		return stats.PeriodMonth
	}
	return stats.PeriodYear
}

func nextTop(n int) int {
	if n < topStep {
		return topStep
	}
	return (n/topStep + 1) * topStep
}

func prevTop(n int) int {
	if n <= topStep {
		return 1
	}
	if n%topStep == 0 {
		return n - topStep
	}
	return (n / topStep) * topStep
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
