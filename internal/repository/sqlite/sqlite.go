// Package sqlite reads observations from a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
	"github.com/smartcity/airquality/internal/repository/rowscan"
)

// Schema creates the observations table. Dates are stored as YYYY-MM-DD text.
const Schema = `
	CREATE TABLE IF NOT EXISTS observations (
		station        TEXT NOT NULL,
		date           TEXT NOT NULL,
		hour           INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
		pm25           REAL,
		pm10           REAL,
		so2            REAL,
		no2            REAL,
		co             REAL,
		o3             REAL,
		temp           REAL,
		dewp           REAL,
		wspm           REAL,
		wind_direction TEXT,
		hour_period    TEXT,
		PRIMARY KEY (station, date, hour)
	)
`

const dateFormat = "2006-01-02"

// Open opens the database at path. A path starting with "file:" is used as
// the DSN as is, apart from the added busy timeout.
func Open(path string) (*sql.DB, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping: %w", err)
	}
	return db, nil
}

func buildDSN(path string) (string, error) {
	const params = "_busy_timeout=5000"

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + params, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?%s", path, params), nil
}

// ObservationRepository implements domain.ObservationSource over SQLite
type ObservationRepository struct {
	db      *sql.DB
	periods *hourperiod.Scheme
}

// NewObservationRepository wraps an open database
func NewObservationRepository(db *sql.DB, periods *hourperiod.Scheme) *ObservationRepository {
	if periods == nil {
		periods = hourperiod.Default()
	}
	return &ObservationRepository{db: db, periods: periods}
}

// Name identifies the source
func (r *ObservationRepository) Name() string {
	return "sqlite"
}

// Load reads every observation
func (r *ObservationRepository) Load(ctx context.Context) ([]domain.Observation, error) {
	rows, err := r.db.QueryContext(ctx, rowscan.SelectObservations)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []domain.Observation
	for rows.Next() {
		var rec rowscan.Record
		if err := rows.Scan(rec.Targets(true)...); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan observation row: %w", err)
		}
		o, err := rec.Observation(r.periods)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read observations: %w", err)
	}

	return results, nil
}

// EnsureSchema creates the observations table
func (r *ObservationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("sqlite: failed to create schema: %w", err)
	}
	return nil
}

// SaveObservations inserts observations in one transaction
func (r *ObservationRepository) SaveObservations(ctx context.Context, obs []domain.Observation) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(rowscan.Columns)), ", ")
	query := fmt.Sprintf("INSERT INTO observations (%s) VALUES (%s)",
		strings.Join(rowscan.Columns, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, rowscan.Values(o, dateFormat)...); err != nil {
			return n, fmt.Errorf("sqlite: failed to save observation %s %s %d: %w",
				o.Station, o.Date.Format(dateFormat), o.Hour, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: failed to commit: %w", err)
	}
	return n, nil
}

// Health checks database connectivity
func (r *ObservationRepository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}
