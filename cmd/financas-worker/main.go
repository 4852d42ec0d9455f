package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"financas/internal/amqp"
	"financas/internal/cli"
	applog "financas/internal/log"
	gsheet "financas/internal/sheets/google"
	"financas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentWorker)

	logger.Info("Starting financas-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.SheetsExportEnabled() {
		logger.Error("Sheets export disabled, set GOOGLE_SPREADSHEET_ID to run the worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsClient, err := gsheet.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	exportWorker := worker.NewExportWorker(repo, sheetsClient, cfg.ExportBatchSize)

	// The AMQP consumer is the fast path; the periodic sweep inside Run
	// picks up records whose publish was lost.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	go func() {
		handler := func(msg *amqp.RecordExportMessage) error {
			return exportWorker.HandleExportMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeRecordExports(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", applog.FieldError, err.Error())
			}
			cancel()
		}
	}()

	go func() {
		if err := exportWorker.Run(ctx, cfg.ExportInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Export worker stopped", applog.FieldError, err.Error())
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker shutdown complete")
}
