// Package store handles SQLite persistence of the imported flight dataset.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// ErrNoDataset is returned when nothing has been imported yet.
var ErrNoDataset = errors.New("no dataset imported")

// Store wraps SQLite access for the flight cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS flights (
			id INTEGER PRIMARY KEY,
			flight_date TEXT NOT NULL,
			airline TEXT NOT NULL,
			origin TEXT NOT NULL,
			dest TEXT NOT NULL,
			origin_city TEXT NOT NULL,
			dest_city TEXT NOT NULL,
			dep_delay REAL,
			arr_delay REAL,
			cancelled INTEGER NOT NULL,
			flight_status TEXT NOT NULL,
			dep_time_period TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(flight_date);`,
		`CREATE INDEX IF NOT EXISTS idx_flights_airline ON flights(airline);`,
		`CREATE INDEX IF NOT EXISTS idx_flights_origin ON flights(origin);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceFlights swaps the cached dataset for flights in a single transaction.
func (s *Store) ReplaceFlights(ctx context.Context, source string, flights []model.FlightRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM flights`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM dataset_meta`); err != nil {
		return err
	}

	if len(flights) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO flights (flight_date, airline, origin, dest, origin_city, dest_city, dep_delay, arr_delay, cancelled, flight_status, dep_time_period)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, f := range flights {
			cancelled := 0
			if f.Cancelled {
				cancelled = 1
			}
			if _, err = stmt.ExecContext(ctx,
				f.FlightDate.Format(dateLayout),
				f.Airline,
				f.Origin,
				f.Destination,
				f.OriginCity,
				f.DestinationCity,
				f.DepartureDelay,
				f.ArrivalDelay,
				cancelled,
				string(f.Status),
				f.DeparturePeriod,
			); err != nil {
				return err
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO dataset_meta (id, source, imported_at, row_count) VALUES (1, ?, ?, ?)`,
		source,
		time.Now().UTC().Format(time.RFC3339Nano),
		len(flights),
	); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// ListFlights returns cached flights in import order. Zero bounds are open;
// both bounds are inclusive.
func (s *Store) ListFlights(ctx context.Context, start, end time.Time) ([]model.FlightRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if !start.IsZero() {
		clauses = append(clauses, "flight_date >= ?")
		args = append(args, start.Format(dateLayout))
	}
	if !end.IsZero() {
		clauses = append(clauses, "flight_date <= ?")
		args = append(args, end.Format(dateLayout))
	}
	query := fmt.Sprintf(`SELECT flight_date, airline, origin, dest, origin_city, dest_city, dep_delay, arr_delay, cancelled, flight_status, dep_time_period
		FROM flights
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	flights := make([]model.FlightRecord, 0)
	for rows.Next() {
		var f model.FlightRecord
		var date, status string
		var cancelled int
		if err := rows.Scan(&date, &f.Airline, &f.Origin, &f.Destination, &f.OriginCity, &f.DestinationCity,
			&f.DepartureDelay, &f.ArrivalDelay, &cancelled, &status, &f.DeparturePeriod); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, err
		}
		f.FlightDate = parsed
		f.Cancelled = cancelled != 0
		f.Status = model.Status(status)
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return flights, nil
}

// Info returns provenance for the cached dataset or ErrNoDataset.
func (s *Store) Info(ctx context.Context) (model.DatasetInfo, error) {
	var info model.DatasetInfo
	var importedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT source, imported_at, row_count FROM dataset_meta WHERE id = 1`,
	).Scan(&info.Source, &importedAt, &info.Rows)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DatasetInfo{}, ErrNoDataset
	}
	if err != nil {
		return model.DatasetInfo{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return model.DatasetInfo{}, err
	}
	info.ImportedAt = parsed

	var first, last sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT MIN(flight_date), MAX(flight_date) FROM flights`,
	).Scan(&first, &last); err != nil {
		return model.DatasetInfo{}, err
	}
	if first.Valid {
		if info.FirstDate, err = time.Parse(dateLayout, first.String); err != nil {
			return model.DatasetInfo{}, err
		}
	}
	if last.Valid {
		if info.LastDate, err = time.Parse(dateLayout, last.String); err != nil {
			return model.DatasetInfo{}, err
		}
	}
	return info, nil
}
