// Package repository selects the observation source configured for the process.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/airquality/internal/config"
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
	"github.com/smartcity/airquality/internal/repository/csvfile"
	"github.com/smartcity/airquality/internal/repository/memory"
	"github.com/smartcity/airquality/internal/repository/postgres"
	"github.com/smartcity/airquality/internal/repository/sqlite"
)

// ObservationStore is a source that can also be written to
type ObservationStore interface {
	domain.ObservationSource
	EnsureSchema(ctx context.Context) error
	SaveObservations(ctx context.Context, obs []domain.Observation) (int64, error)
}

// Open returns the source named by cfg.DataSource. The returned close
// function releases its connections and is never nil.
func Open(ctx context.Context, cfg config.Config, periods *hourperiod.Scheme) (domain.ObservationSource, func(), error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return csvfile.New(cfg.DataPath, periods), func() {}, nil
	case config.SourceMemory:
		return memory.NewSample(periods), func() {}, nil
	case config.SourcePostgres, config.SourceSQLite:
		return OpenStore(ctx, cfg, periods)
	default:
		return nil, func() {}, fmt.Errorf("repository: unknown data source %q", cfg.DataSource)
	}
}

// OpenStore returns the database store named by cfg.DataSource
func OpenStore(ctx context.Context, cfg config.Config, periods *hourperiod.Scheme) (ObservationStore, func(), error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("repository: failed to connect to postgres: %w", err)
		}
		return postgres.NewObservationRepository(pool, periods), pool.Close, nil
	case config.SourceSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("repository: %w", err)
		}
		return sqlite.NewObservationRepository(db, periods), func() { _ = db.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("repository: %q is not a writable data source", cfg.DataSource)
	}
}
