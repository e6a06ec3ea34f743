// Package dataset parses flight CSV files into validated records.
package dataset

import (
	"compress/gzip"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"
)

// Canonical column names.
const (
	colDate            = "fl_date"
	colAirline         = "airline"
	colOrigin          = "origin"
	colDest            = "dest"
	colOriginCity      = "origin_city"
	colDestCity        = "dest_city"
	colDepDelay        = "dep_delay"
	colArrDelay        = "arr_delay"
	colCancelled       = "cancelled"
	colStatus          = "flight_status"
	colDeparturePeriod = "dep_time_period"
)

var requiredColumns = []string{
	colDate, colAirline, colOrigin, colDest, colOriginCity, colDestCity,
	colDepDelay, colArrDelay, colCancelled, colStatus, colDeparturePeriod,
}

var columnAliases = map[string]string{
	"flight_date":             colDate,
	"date":                    colDate,
	"destination":             colDest,
	"destination_city":        colDestCity,
	"departure_delay":         colDepDelay,
	"departure_delay_minutes": colDepDelay,
	"arrival_delay":           colArrDelay,
	"arrival_delay_minutes":   colArrDelay,
	"status":                  colStatus,
	"departure_time_period":   colDeparturePeriod,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
}

// ErrStatusMismatch marks a row whose status disagrees with its cancelled flag.
var ErrStatusMismatch = errors.New("flight_status disagrees with cancelled flag")

// RowError locates a malformed row in the source file.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Load reads and validates a flight CSV file. Paths ending in .gz are
// decompressed on the fly.
func Load(path string) ([]model.FlightRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	var src io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer func() {
			_ = gz.Close()
		}()
		src = gz
	}
	started := time.Now()
	flights, err := Read(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("loaded dataset", "path", path, "rows", len(flights), "elapsed", time.Since(started))
	return flights, nil
}

// Read parses flight records from CSV. The header row decides the column
// order; unknown columns are ignored. Any malformed row rejects the input.
func Read(r io.Reader) ([]model.FlightRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	flights := make([]model.FlightRecord, 0, 1024)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		f, rowErr := parseRow(row, index)
		if rowErr != nil {
			rowErr.Line = line
			return nil, rowErr
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func parseRow(row []string, index map[string]int) (model.FlightRecord, *RowError) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var f model.FlightRecord
	date, err := parseDate(field(colDate))
	if err != nil {
		return f, &RowError{Column: colDate, Err: err}
	}
	dep, err := parseDelay(field(colDepDelay))
	if err != nil {
		return f, &RowError{Column: colDepDelay, Err: err}
	}
	arr, err := parseDelay(field(colArrDelay))
	if err != nil {
		return f, &RowError{Column: colArrDelay, Err: err}
	}
	isCancelled, err := parseFlag(field(colCancelled))
	if err != nil {
		return f, &RowError{Column: colCancelled, Err: err}
	}
	status, ok := model.ParseStatus(field(colStatus))
	if !ok {
		return f, &RowError{Column: colStatus, Err: fmt.Errorf("unknown status %q", field(colStatus))}
	}
	if (status == model.StatusCancelled) != isCancelled {
		return f, &RowError{Column: colStatus, Err: ErrStatusMismatch}
	}
	if isCancelled {
		arr = sql.NullFloat64{}
	}

	f = model.FlightRecord{
		FlightDate:      date,
		Airline:         field(colAirline),
		Origin:          field(colOrigin),
		Destination:     field(colDest),
		OriginCity:      field(colOriginCity),
		DestinationCity: field(colDestCity),
		DepartureDelay:  dep,
		ArrivalDelay:    arr,
		Cancelled:       isCancelled,
		Status:          status,
		DeparturePeriod: field(colDeparturePeriod),
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseDelay(s string) (sql.NullFloat64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("invalid delay %q", s)
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes":
		return true, nil
	case "0", "0.0", "false", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag %q", s)
}
