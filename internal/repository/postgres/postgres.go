package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
	"github.com/smartcity/airquality/internal/repository/rowscan"
)

// Schema creates the observations table when it does not exist
const Schema = `
	CREATE TABLE IF NOT EXISTS observations (
		station        TEXT NOT NULL,
		date           DATE NOT NULL,
		hour           INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
		pm25           DOUBLE PRECISION,
		pm10           DOUBLE PRECISION,
		so2            DOUBLE PRECISION,
		no2            DOUBLE PRECISION,
		co             DOUBLE PRECISION,
		o3             DOUBLE PRECISION,
		temp           DOUBLE PRECISION,
		dewp           DOUBLE PRECISION,
		wspm           DOUBLE PRECISION,
		wind_direction TEXT,
		hour_period    TEXT,
		PRIMARY KEY (station, date, hour)
	)
`

// ObservationRepository implements domain.ObservationSource over PostgreSQL
type ObservationRepository struct {
	pool    *pgxpool.Pool
	periods *hourperiod.Scheme
}

// NewObservationRepository creates a new PostgreSQL observation source
func NewObservationRepository(pool *pgxpool.Pool, periods *hourperiod.Scheme) *ObservationRepository {
	if periods == nil {
		periods = hourperiod.Default()
	}
	return &ObservationRepository{pool: pool, periods: periods}
}

// Name identifies the source
func (r *ObservationRepository) Name() string {
	return "postgres"
}

// Load reads every observation
func (r *ObservationRepository) Load(ctx context.Context) ([]domain.Observation, error) {
	rows, err := r.pool.Query(ctx, rowscan.SelectObservations)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []domain.Observation
	for rows.Next() {
		var rec rowscan.Record
		if err := rows.Scan(rec.Targets(false)...); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan observation row: %w", err)
		}
		o, err := rec.Observation(r.periods)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read observations: %w", err)
	}

	return results, nil
}

// EnsureSchema creates the observations table
func (r *ObservationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SaveObservations bulk-inserts observations with COPY
func (r *ObservationRepository) SaveObservations(ctx context.Context, obs []domain.Observation) (int64, error) {
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"observations"},
		rowscan.Columns,
		pgx.CopyFromSlice(len(obs), func(i int) ([]any, error) {
			return rowscan.Values(obs[i], ""), nil
		}),
	)
	if err != nil {
		return n, fmt.Errorf("postgres: failed to save observations: %w", err)
	}
	return n, nil
}

// Health checks database connectivity
func (r *ObservationRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
