// Command tracker runs the expense tracker JSON API: ledger sessions, the
// report endpoints and the optional AMQP ledger event stream.
package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/amqp"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/backend"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/cli"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/http"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/ledger"
	applog "github.com/ankitjangid02/Expense-Tracker-Web-App/internal/log"
)

func httpLogger(base *slog.Logger) *applog.Logger {
	return applog.New(applog.Config{
		Handler:   base.Handler(),
		Component: applog.ComponentApp,
	})
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

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

	// The event stream is optional: without AMQP the tracker still works,
	// only the out-of-band balance audit is lost.
	var events ledger.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without ledger events", "error", err)
		} else {
			defer client.Close()
			events = client
			logger.Info("AMQP ledger event stream enabled",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	sessions := ledger.NewManager(gateway, events)
	server := http.NewServer(http.Options{
		Addr:            ":" + cfg.Port,
		ReportCacheSize: cfg.ReportCacheSize,
		ReportCacheTTL:  cfg.ReportCacheTTL,
	}, sessions, httpLogger(logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
