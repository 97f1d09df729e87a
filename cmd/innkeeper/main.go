package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"innkeeper/internal/amqp"
	"innkeeper/internal/cache"
	"innkeeper/internal/config"
	"innkeeper/internal/export"
	gsheet "innkeeper/internal/export/google"
	apphttp "innkeeper/internal/http"
	applog "innkeeper/internal/log"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: applog.ComponentApp,
	})
	slog.SetDefault(logger.Logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Activity publishing is optional; services skip it when no client is set.
	var publisher services.ActivityPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("AMQP activity publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	// Report export to Google Sheets is optional as well.
	var sink export.ReportSink
	if cfg.SheetsExportEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleServiceAccountFile,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	settingsSvc := services.NewSettingsService(repo, cfg.SettingsCacheTTL, logger)

	cacheManager := cache.NewManager()
	cacheManager.Register(settingsSvc.Cache())
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	reportSvc := services.NewReportService(repo, settingsSvc, sink, logger)
	billingSvc := services.NewBillingService(repo, settingsSvc, publisher, logger)
	propertySvc := services.NewPropertyService(repo, publisher, logger)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:     ":" + cfg.Port,
		Reports:  reportSvc,
		Billing:  billingSvc,
		Property: propertySvc,
		Settings: settingsSvc,
		Activity: repo,
		Logger:   logger,

		RequestTimeout: cfg.RequestTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting innkeeper server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
