// Command importer copies observations from the CSV export (or the built-in
// sample) into the database named by DATA_SOURCE, so the server can read
// them with DATA_SOURCE=postgres or sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/smartcity/airquality/internal/config"
	"github.com/smartcity/airquality/internal/dataset"
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/logging"
	"github.com/smartcity/airquality/internal/repository"
	"github.com/smartcity/airquality/internal/repository/csvfile"
	"github.com/smartcity/airquality/internal/repository/memory"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file to import (default DATA_PATH)")
	sample := flag.Bool("sample", false, "Import the built-in sample dataset instead of a CSV file")
	flag.Parse()

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg, "airquality-importer")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	n, err := run(ctx, cfg, *csvPath, *sample, log)
	if err != nil {
		log.Error("import failed", "err", err)
		os.Exit(1)
	}
	log.Info("import finished", "target", cfg.DataSource, "rows", n)
}

func run(ctx context.Context, cfg config.Config, csvPath string, sample bool, log *slog.Logger) (int64, error) {
	periods, err := cfg.HourPeriods()
	if err != nil {
		return 0, err
	}

	var src domain.ObservationSource
	if sample {
		src = memory.NewSample(periods)
	} else {
		if csvPath == "" {
			csvPath = cfg.DataPath
		}
		src = csvfile.New(csvPath, periods)
	}

	// Load through the table so bad rows and duplicates are rejected before writing
	table, err := dataset.Load(ctx, src)
	if err != nil {
		return 0, err
	}
	log.Info("read observations", "source", src.Name(), "rows", table.Len())

	store, closeStore, err := repository.OpenStore(ctx, cfg, periods)
	defer closeStore()
	if err != nil {
		return 0, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return store.SaveObservations(ctx, table.Rows())
}
