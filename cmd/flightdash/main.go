// Package main provides the CLI entrypoint for flightdash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/flightdash/internal/config"
	"github.com/verte-zerg/flightdash/internal/dashboard"
	"github.com/verte-zerg/flightdash/internal/dataset"
	"github.com/verte-zerg/flightdash/internal/logger"
	"github.com/verte-zerg/flightdash/internal/model"
	"github.com/verte-zerg/flightdash/internal/render"
	"github.com/verte-zerg/flightdash/internal/stats"
	"github.com/verte-zerg/flightdash/internal/store"
)

const (
	defaultPeriod     = "year"
	defaultExportDir  = "charts"
	defaultPlotHeight = 10
)

var (
	filterStart        string
	filterEnd          string
	filterAirlines     []string
	filterOriginCities []string
	filterDestCities   []string
	filterStatuses     []string
	filterAirports     []string

	reportTop            int
	reportAirportChoices int
	reportDelayThreshold float64
	reportPeriod         string

	csvPath string
	verbose bool

	datasetURL string
	fetchForce bool

	exportOut             string
	exportCompareAirlines []string
	exportCompareAirports []string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flightdash",
		Short:         "U.S. flight delay and cancellation dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Init(os.Stderr, verbose)
		},
		RunE: runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&filterStart, "start", "", "first flight date (YYYY-MM-DD)")
	flags.StringVar(&filterEnd, "end", "", "last flight date (YYYY-MM-DD)")
	flags.StringSliceVar(&filterAirlines, "airline", nil, "airline filter (repeatable or comma separated)")
	flags.StringArrayVar(&filterOriginCities, "origin-city", nil, "origin city filter (repeatable)")
	flags.StringArrayVar(&filterDestCities, "dest-city", nil, "destination city filter (repeatable)")
	flags.StringSliceVar(&filterStatuses, "status", nil, "flight status filter: On-Time, Delayed, Cancelled")
	flags.StringSliceVar(&filterAirports, "airport", nil, "origin airport filter (repeatable or comma separated)")
	flags.IntVar(&reportTop, "top", stats.DefaultTop, "rows in ranked tables")
	flags.IntVar(&reportAirportChoices, "airport-choices", stats.DefaultAirportChoices, "busiest origins offered for airport comparison")
	flags.Float64Var(&reportDelayThreshold, "delay-threshold", stats.DefaultDelayThreshold, "departure delay in minutes counted as delayed")
	flags.StringVar(&reportPeriod, "period", defaultPeriod, "overview trend period (year or month)")
	flags.StringVar(&csvPath, "csv", "", "read flights from a CSV file instead of the cache")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	criteria, cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flights, err := loadFlights(cmd.Context(), model.FilterCriteria{})
	if err != nil {
		return err
	}
	m := dashboard.NewModel(flights, criteria, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print every dashboard page as text",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	criteria, cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flights, err := loadFlights(cmd.Context(), criteria)
	if err != nil {
		return err
	}
	report := stats.BuildReport(flights, criteria, cfg)
	if err := render.RenderReport(cmd.OutOrStdout(), report, textOptions()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare airlines|airports A B",
		Short: "Compare two airlines or two origin airports",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompareCmd,
	}
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	dim, err := compareDimension(args[0])
	if err != nil {
		return err
	}
	criteria, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flights, err := loadFlights(cmd.Context(), criteria)
	if err != nil {
		return err
	}
	c, err := stats.BuildComparison(flights, criteria, dim, args[1:])
	if err != nil {
		return err
	}
	if err := render.RenderComparison(cmd.OutOrStdout(), c, textOptions()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func compareDimension(arg string) (stats.Dimension, error) {
	dim, err := stats.ParseDimension(arg)
	if err != nil || (dim != stats.DimAirline && dim != stats.DimOrigin) {
		return "", fmt.Errorf("compare needs %q or %q, got %q", "airlines", "airports", arg)
	}
	return dim, nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write dashboard charts as PNG files",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", defaultExportDir, "output directory")
	cmd.Flags().StringSliceVar(&exportCompareAirlines, "compare-airlines", nil, "also chart a comparison of two airlines")
	cmd.Flags().StringSliceVar(&exportCompareAirports, "compare-airports", nil, "also chart a comparison of two origin airports")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	criteria, cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flights, err := loadFlights(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	report := stats.BuildReport(flights, criteria, cfg)
	written, err := render.ExportReport(exportOut, report)
	if err != nil {
		return fmt.Errorf("failed to export charts: %w", err)
	}

	comparisons := []struct {
		dim      stats.Dimension
		selected []string
		subdir   string
	}{
		{dim: stats.DimAirline, selected: exportCompareAirlines, subdir: "airlines"},
		{dim: stats.DimOrigin, selected: exportCompareAirports, subdir: "airports"},
	}
	for _, cmp := range comparisons {
		if len(cmp.selected) == 0 {
			continue
		}
		c, err := stats.BuildComparison(flights, criteria, cmp.dim, cmp.selected)
		if err != nil {
			return err
		}
		paths, err := render.ExportComparison(filepath.Join(exportOut, cmp.subdir), c)
		if err != nil {
			return fmt.Errorf("failed to export comparison charts: %w", err)
		}
		written = append(written, paths...)
	}

	if len(written) == 0 {
		logErrln("No charts written: no flights match the current filters.")
		return nil
	}
	for _, path := range written {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the flight CSV into the local cache",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&datasetURL, "url", dataset.DefaultURL, "dataset URL")
	cmd.Flags().BoolVar(&fetchForce, "force", false, "download again even if cached")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "url", &datasetURL, fileCfg.Dataset.URL)

	download, err := fetchDataset(cmd.Context(), datasetURL, fetchForce)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), download.Path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func fetchDataset(ctx context.Context, url string, force bool) (dataset.Download, error) {
	logErrln("Fetching flight dataset...")
	download, err := dataset.Fetch(ctx, url, config.DefaultDownloadDir(), force)
	if err != nil {
		return dataset.Download{}, fmt.Errorf("failed to download dataset: %w", err)
	}
	if download.Cached {
		logErrf("Using cached dataset %s\n", download.Path)
	} else {
		logErrf("Downloaded %s (%s bytes)\n", download.Path, render.Abbreviate(int(download.Bytes)))
	}
	return download, nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a flight CSV into the local cache",
		Long:  "Load a flight CSV into the local cache. Without --csv the downloaded dataset is imported, fetching it first if needed.",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&datasetURL, "url", dataset.DefaultURL, "dataset URL used when --csv is not set")
	return cmd
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "csv", &csvPath, fileCfg.Dataset.Path)
	applyStringConfig(cmd, "url", &datasetURL, fileCfg.Dataset.URL)

	path := strings.TrimSpace(csvPath)
	if path == "" {
		download, err := fetchDataset(cmd.Context(), datasetURL, false)
		if err != nil {
			return err
		}
		path = download.Path
	}

	logErrf("Importing %s...\n", path)
	flights, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.ReplaceFlights(cmd.Context(), path, flights); err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}
	logErrf("Imported %d flights\n", len(flights))
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cached dataset",
		Args:  cobra.NoArgs,
		RunE:  runInfoCmd,
	}
}

func runInfoCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	info, err := st.Info(cmd.Context())
	if errors.Is(err, store.ErrNoDataset) {
		return noDatasetError()
	}
	if err != nil {
		return fmt.Errorf("failed to read dataset info: %w", err)
	}
	if err := render.RenderInfo(cmd.OutOrStdout(), info); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented config file unless it exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// loadSettings merges flags, the config file and defaults into the filter
// criteria and report options. A flag set on the command line wins.
func loadSettings(cmd *cobra.Command) (model.FilterCriteria, model.ReportConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.FilterCriteria{}, model.ReportConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "csv", &csvPath, fileCfg.Dataset.Path)
	applyStringConfig(cmd, "start", &filterStart, fileCfg.Filters.Start)
	applyStringConfig(cmd, "end", &filterEnd, fileCfg.Filters.End)
	applyStringsConfig(cmd, "airline", &filterAirlines, fileCfg.Filters.Airlines)
	applyStringsConfig(cmd, "origin-city", &filterOriginCities, fileCfg.Filters.OriginCities)
	applyStringsConfig(cmd, "dest-city", &filterDestCities, fileCfg.Filters.DestCities)
	applyStringsConfig(cmd, "status", &filterStatuses, fileCfg.Filters.Statuses)
	applyStringsConfig(cmd, "airport", &filterAirports, fileCfg.Filters.Airports)
	applyIntConfig(cmd, "top", &reportTop, fileCfg.Dashboard.Top)
	applyIntConfig(cmd, "airport-choices", &reportAirportChoices, fileCfg.Dashboard.AirportChoices)
	applyFloatConfig(cmd, "delay-threshold", &reportDelayThreshold, fileCfg.Dashboard.DelayThreshold)
	applyStringConfig(cmd, "period", &reportPeriod, fileCfg.Dashboard.Period)

	cfg := model.ReportConfig{
		Top:            reportTop,
		AirportChoices: reportAirportChoices,
		DelayThreshold: reportDelayThreshold,
		Period:         reportPeriod,
	}
	if err := validateReportConfig(cfg); err != nil {
		return model.FilterCriteria{}, model.ReportConfig{}, err
	}

	start, err := stats.ParseDate(filterStart)
	if err != nil {
		return model.FilterCriteria{}, model.ReportConfig{}, fmt.Errorf("--start: %w", err)
	}
	end, err := stats.ParseDate(filterEnd)
	if err != nil {
		return model.FilterCriteria{}, model.ReportConfig{}, fmt.Errorf("--end: %w", err)
	}
	statuses := cleanValues(filterStatuses)
	for i, s := range statuses {
		status, ok := model.ParseStatus(s)
		if !ok {
			return model.FilterCriteria{}, model.ReportConfig{}, fmt.Errorf("--status: unknown status %q (use On-Time, Delayed or Cancelled)", s)
		}
		statuses[i] = string(status)
	}
	criteria := model.FilterCriteria{
		Start:             start,
		End:               end,
		Airlines:          cleanValues(filterAirlines),
		OriginCities:      cleanValues(filterOriginCities),
		DestinationCities: cleanValues(filterDestCities),
		Statuses:          statuses,
		Airports:          cleanValues(filterAirports),
	}
	slog.Debug("settings resolved", "criteria", render.DescribeCriteria(criteria), "top", cfg.Top, "period", cfg.Period)
	return criteria, cfg, nil
}

func validateReportConfig(cfg model.ReportConfig) error {
	if cfg.Top <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	if cfg.AirportChoices < 2 {
		return fmt.Errorf("--airport-choices must be >= 2")
	}
	if cfg.DelayThreshold < 0 {
		return fmt.Errorf("--delay-threshold must be >= 0")
	}
	if _, err := stats.ParsePeriod(cfg.Period); err != nil {
		return fmt.Errorf("--period: %w", err)
	}
	return nil
}

// loadFlights reads the dataset from --csv, the configured path or the
// SQLite cache, in that order. Date bounds of criteria narrow the cache query.
func loadFlights(ctx context.Context, criteria model.FilterCriteria) ([]model.FlightRecord, error) {
	if path := strings.TrimSpace(csvPath); path != "" {
		flights, err := dataset.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		return flights, nil
	}

	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore(st)

	info, err := st.Info(ctx)
	if errors.Is(err, store.ErrNoDataset) {
		return nil, noDatasetError()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset info: %w", err)
	}
	started := time.Now()
	flights, err := st.ListFlights(ctx, criteria.Start, criteria.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached flights: %w", err)
	}
	slog.Debug("loaded cached flights", "source", info.Source, "rows", len(flights), "elapsed", time.Since(started))
	return flights, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func noDatasetError() error {
	lines := []string{
		"no dataset available",
		"Download: flightdash fetch",
		"Import: flightdash import",
		"Or read a file directly: flightdash --csv <path>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func textOptions() render.Options {
	return render.Options{PlotHeight: defaultPlotHeight, SeriesLimit: 5}
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# flightdash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dataset]
# path = "/path/to/flights.csv"   # Read this CSV instead of the imported cache
# url = %q

[filters]
# start = "2019-01-01"             # First flight date (YYYY-MM-DD)
# end = "2023-12-31"               # Last flight date (YYYY-MM-DD)
# airlines = ["Delta Air Lines Inc.", "United Air Lines Inc."]
# origin-cities = ["Atlanta, GA"]
# dest-cities = ["Los Angeles, CA"]
# statuses = ["Delayed", "Cancelled"]
# airports = ["ATL", "ORD"]

[dashboard]
# top = %d                        # Rows in ranked tables
# airport-choices = %d            # Busiest origins offered for comparison
# delay-threshold = %.1f          # Departure delay in minutes counted as delayed
# period = %q                  # Overview trend period (year or month)
`,
		dataset.DefaultURL,
		stats.DefaultTop,
		stats.DefaultAirportChoices,
		stats.DefaultDelayThreshold,
		defaultPeriod,
	)
}

func logErrf(format string, args ...any) {
	logTo(os.Stderr, fmt.Sprintf(format, args...))
}

func logErrln(args ...any) {
	logTo(os.Stderr, fmt.Sprintln(args...))
}

func logTo(w io.Writer, msg string) {
	if _, err := io.WriteString(w, msg); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
