package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/has-bi/you-posm/config"
	"github.com/has-bi/you-posm/internal/app/controller"
	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	"github.com/has-bi/you-posm/internal/router"
	"github.com/has-bi/you-posm/internal/scheduler"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/internal/storage"
	"github.com/has-bi/you-posm/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting You-POSM collection server", map[string]interface{}{
		"environment":     cfg.Server.Environment,
		"port":            cfg.Server.Port,
		"log_level":       logLevel,
		"storage_backend": cfg.Storage.Backend,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status := controller.NewSystemStatus()

	// Sheets client. Unparseable credentials are terminal; an
	// unreachable spreadsheet only degrades the sheets subsystem.
	sheetsClient, err := sheets.NewClient(ctx, cfg.Google.Credentials, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Fatal("Failed to build sheets client", err)
	}
	if title, err := sheetsClient.SpreadsheetTitle(ctx); err != nil {
		logger.Error("Spreadsheet not reachable", err, map[string]interface{}{
			"spreadsheet_id": cfg.Google.SpreadsheetID,
		})
		status.SetSheets(false, "")
	} else {
		status.SetSheets(true, title)
		ensureSchema(ctx, sheetsClient)
	}

	// Object storage client, per configured backend.
	objectStore, storageOK := buildObjectStore(ctx, cfg)
	status.SetStorage(storageOK, objectStore.BucketName())

	// Initialize services
	lookupService := service.NewLookupService(sheetsClient)
	imageService := service.NewImageService(objectStore)
	visitService := service.NewVisitService(sheetsClient, imageService, lookupService)

	// Warm the lookup caches and keep them fresh.
	if err := lookupService.Refresh(ctx); err != nil {
		logger.Warn("Initial lookup load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	lookupScheduler := scheduler.NewLookupScheduler(lookupService, cfg.Lookup.RefreshInterval)
	if err := lookupScheduler.Start(); err != nil {
		logger.Warn("Lookup scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer lookupScheduler.Stop()

	// Initialize controllers
	visitController := controller.NewVisitController(visitService)
	lookupController := controller.NewLookupController(lookupService)
	healthController := controller.NewHealthController(status)

	// Setup router
	r := router.NewRouter(visitController, lookupController, healthController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

// ensureSchema runs the schema guard over the three worksheets. A
// guard failure is not fatal: submissions against a missing sheet
// will fail individually and the operator sees the log.
func ensureSchema(ctx context.Context, ws sheets.Worksheets) {
	for _, sheet := range []struct {
		title   string
		headers []string
	}{
		{model.LedgerSheet, model.LedgerHeaders},
		{model.EmployeeSheet, model.EmployeeHeaders},
		{model.StoreSheet, model.StoreHeaders},
	} {
		if err := sheets.EnsureSheet(ctx, ws, sheet.title, sheet.headers); err != nil {
			logger.Error("Schema guard failed", err, map[string]interface{}{
				"worksheet": sheet.title,
			})
		}
	}
}

func buildObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, bool) {
	if cfg.Storage.Backend == "s3" {
		s3Store := storage.NewS3Storage(
			cfg.Storage.S3.Region,
			cfg.Storage.S3.Bucket,
			cfg.Storage.S3.AccessKeyID,
			cfg.Storage.S3.SecretAccessKey,
			cfg.Storage.S3.BaseURL,
		)
		return s3Store, true
	}

	gcsStore, err := storage.NewGCSStorage(ctx, cfg.Google.Credentials, cfg.Google.BucketName)
	if err != nil {
		logger.Fatal("Failed to build storage client", err)
	}
	if err := gcsStore.Probe(ctx); err != nil {
		logger.Error("Storage bucket not reachable", err, map[string]interface{}{
			"bucket": cfg.Google.BucketName,
		})
		return gcsStore, false
	}
	return gcsStore, true
}
