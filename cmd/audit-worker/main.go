// Command audit-worker consumes the ledger event stream and verifies that the
// durable balance matches what the ledger reported after each mutation.
package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/amqp"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/backend"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/cli"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	gateway, cleanup, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	auditor := worker.NewAuditWorker(gateway)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeLedgerEvents(gctx, auditor.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	logger.Info("Audit worker started", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil {
		logger.Error("Audit worker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Audit worker stopped")
}
