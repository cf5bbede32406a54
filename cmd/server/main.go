package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/smartcity/airquality/internal/config"
	"github.com/smartcity/airquality/internal/dataset"
	"github.com/smartcity/airquality/internal/delivery/http"
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
	"github.com/smartcity/airquality/internal/logging"
	"github.com/smartcity/airquality/internal/repository"
	"github.com/smartcity/airquality/internal/repository/memory"
	"github.com/smartcity/airquality/internal/service"
)

const appName = "airquality-dashboard"

func main() {
	// Configuration
	cfg, foundEnv, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := logging.New(cfg, appName)
	slog.SetDefault(log)
	if !foundEnv {
		log.Info("no .env file found, using system environment")
	}

	periods, err := cfg.HourPeriods()
	if err != nil {
		log.Error("invalid hour periods", "err", err)
		os.Exit(1)
	}

	// Load the dataset once; it is read-only afterwards
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	source, table, closeSource := loadDataset(ctx, cfg, periods, log)
	cancel()
	defer closeSource()

	dashboardSvc := service.NewDashboardService(table, periods, cfg.WindTopK, log)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Air Quality Dashboard API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, dashboardSvc, source)

	// Graceful shutdown
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Warn("server forced to shutdown", "err", err)
	}
	log.Info("server exited gracefully")
}

// loadDataset opens the configured source and loads the table. Unless
// DATA_STRICT is set, any failure falls back to the built-in sample data.
func loadDataset(
	ctx context.Context,
	cfg config.Config,
	periods *hourperiod.Scheme,
	log *slog.Logger,
) (domain.ObservationSource, *dataset.Table, func()) {
	source, closeSource, err := repository.Open(ctx, cfg, periods)
	if err == nil {
		var table *dataset.Table
		table, err = dataset.Load(ctx, source)
		if err == nil {
			minDate, maxDate := table.DateBounds()
			log.Info("dataset loaded",
				"source", source.Name(),
				"rows", table.Len(),
				"stations", len(table.Stations()),
				"from", minDate.Format(service.DateLayout),
				"to", maxDate.Format(service.DateLayout),
			)
			return source, table, closeSource
		}
		closeSource()
	}

	if cfg.DataStrict {
		log.Error("could not load dataset", "source", cfg.DataSource, "err", err)
		os.Exit(1)
	}
	log.Warn("could not load dataset, running with sample data only",
		"source", cfg.DataSource, "err", err)

	sample := memory.NewSample(periods)
	table, err := dataset.Load(ctx, sample)
	if err != nil {
		log.Error("could not load sample dataset", "err", err)
		os.Exit(1)
	}
	return sample, table, func() {}
}
