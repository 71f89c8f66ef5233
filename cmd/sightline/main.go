package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	corecfg "github.com/sightline-lab/project-sightline/internal/core/config"
	"github.com/sightline-lab/project-sightline/internal/core/storage/postgres"
	"github.com/sightline-lab/project-sightline/internal/ingestion"
	"github.com/sightline-lab/project-sightline/internal/migrations"
	"github.com/sightline-lab/project-sightline/internal/objectstore"
	"github.com/sightline-lab/project-sightline/internal/processor"
	"github.com/sightline-lab/project-sightline/internal/publish"
	"github.com/sightline-lab/project-sightline/internal/query"
	"github.com/sightline-lab/project-sightline/internal/scheduler"
	"github.com/sightline-lab/project-sightline/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	triggerPath := flag.String("trigger", "", "Process one trigger payload file and exit")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Record Store (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize record store", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Object Store + Snapshot Publisher
	objects := objectstore.NewFileSystemStore(cfg.ObjectStore.Root)
	publisher := publish.NewObjectStorePublisher(objects, cfg.ObjectStore.Bucket)

	// 4. Initialize Query Engine and Processor
	querySvc := query.NewService(dbAdapter, cfg.Query.ScanLimit)
	processorSvc := processor.NewService(objects, publisher, querySvc, cfg.Aggregation.DispatchBufferSize)

	// One-shot mode: process a trigger payload from disk and exit.
	// Accepts both input shapes (storage-event notification, direct action).
	if *triggerPath != "" {
		os.Exit(runTrigger(processorSvc, *triggerPath))
	}

	// 5. Initialize Ingestion (upstream write path)
	ingestionSvc := ingestion.NewService(dbAdapter, cfg.Server.MaxBodySizeMB)

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode)
	querySvc.RegisterRoutes(srv.Engine)
	ingestionSvc.RegisterRoutes(srv.Engine)
	processorSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processorSvc.Run(ctx)

	if cfg.Aggregation.Enabled {
		interval, err := time.ParseDuration(cfg.Aggregation.Interval)
		if err != nil {
			slog.Error("Invalid aggregation interval", "value", cfg.Aggregation.Interval, "error", err)
			os.Exit(1)
		}

		sched := scheduler.New(interval, processorSvc)
		go func() {
			if err := sched.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Periodic snapshot publication disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// runTrigger processes one trigger payload file synchronously and prints
// the outcome, mirroring how the hosting platform would invoke the
// processor out-of-band.
func runTrigger(processorSvc *processor.Service, path string) int {
	payload, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read trigger payload", "path", path, "error", err)
		return 1
	}

	input, err := processor.DecodeInput(payload)
	if err != nil {
		slog.Error("Invalid trigger payload", "path", path, "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := processorSvc.Process(ctx, input)
	if err != nil {
		slog.Error("Trigger processing failed", "error", err)
		return 1
	}

	out := map[string]interface{}{"message": result.Message}
	if result.Snapshot != nil {
		out["snapshot"] = result.Snapshot
	}
	if result.Receipt != nil {
		out["receipt"] = result.Receipt
	}
	if result.PublishErr != nil {
		out["publish_error"] = result.PublishErr.Error()
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		slog.Error("Failed to encode trigger result", "error", err)
		return 1
	}
	fmt.Println(string(encoded))

	if result.PublishErr != nil {
		return 1
	}
	return 0
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
