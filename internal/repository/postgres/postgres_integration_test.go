package postgres

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("airquality"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get PostgreSQL connection string: %v", err)
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestObservationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := NewObservationRepository(setupPool(t), hourperiod.Default())

	if err := repo.Health(ctx); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}

	day := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	first := domain.Observation{
		Station:       "Shunyi",
		Date:          day,
		Hour:          9,
		WindDirection: "NE",
		Values:        domain.MissingMeasurements(),
	}
	first.Values[domain.PM25] = 41.5
	first.Values[domain.WindSpeed] = 2.2

	second := first
	second.Hour = 22
	second.HourPeriod = hourperiod.Night
	second.Values = domain.MissingMeasurements()

	n, err := repo.SaveObservations(ctx, []domain.Observation{second, first})
	if err != nil {
		t.Fatalf("SaveObservations() error: %v", err)
	}
	if n != 2 {
		t.Errorf("SaveObservations() = %d; want 2", n)
	}

	rows, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Load() returned %d rows; want 2", len(rows))
	}

	got := rows[0]
	if got.Hour != 9 || !got.Date.Equal(day) {
		t.Errorf("first row = %+v; want hour 9 on %v", got, day)
	}
	if got.Value(domain.PM25) != 41.5 {
		t.Errorf("PM2.5 = %v; want 41.5", got.Value(domain.PM25))
	}
	if !math.IsNaN(got.Value(domain.CO)) {
		t.Errorf("CO = %v; want NaN", got.Value(domain.CO))
	}
	if got.HourPeriod != hourperiod.Morning {
		t.Errorf("HourPeriod = %q; want classified Morning", got.HourPeriod)
	}
	if rows[1].HourPeriod != hourperiod.Night {
		t.Errorf("stored HourPeriod = %q; want Night", rows[1].HourPeriod)
	}
}
