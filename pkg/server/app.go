package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domrepo "FXCast/internal/domain/repository"
	"FXCast/internal/usecase"
	pkgch "FXCast/pkg/clickhouse"
	"FXCast/pkg/config"
	xhttp "FXCast/pkg/http"
	applogger "FXCast/pkg/logger"
)

// App encapsulates the application lifecycle across its operating modes:
// backfill, train, predict, and serve.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	chClient    *pkgch.Client
	store       domrepo.BarStore
	artifacts   domrepo.ArtifactStore
	publisher   domrepo.Publisher
	backfiller  *usecase.Backfiller
	trainer     *usecase.Trainer
	predictor   *usecase.Predictor
	collector   *usecase.BarCollector
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	chClient *pkgch.Client,
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	publisher domrepo.Publisher,
	backfiller *usecase.Backfiller,
	trainer *usecase.Trainer,
	predictor *usecase.Predictor,
	collector *usecase.BarCollector,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		l:           l,
		chClient:    chClient,
		store:       store,
		artifacts:   artifacts,
		publisher:   publisher,
		backfiller:  backfiller,
		trainer:     trainer,
		predictor:   predictor,
		collector:   collector,
		httpHandler: httpHandler,
	}
}

// RunBackfill loads historical bars and exits.
func (a *App) RunBackfill(ctx context.Context) error {
	defer a.closeInfra()
	n, err := a.backfiller.Run(ctx, a.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}
	a.l.Info("backfill finished", applogger.String("symbol", a.cfg.Symbol), applogger.Int("bars", n))
	return nil
}

// RunTrain runs one training pass and prints the report.
func (a *App) RunTrain(ctx context.Context) error {
	defer a.closeInfra()
	report, err := a.trainer.Train(ctx, a.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return printJSON(report)
}

// RunPredict scores the latest window once and prints the result.
func (a *App) RunPredict(ctx context.Context) error {
	defer a.closeInfra()
	res, err := a.predictor.Latest(ctx, a.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	return printJSON(res)
}

// RunServe starts live ingest plus the HTTP API and blocks until
// interrupted.
func (a *App) RunServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.l),
	)

	if a.cfg.Stream.Enabled {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.l.Error("collector error", applogger.Error(err))
			}
		}()
		a.l.Info("collector started", applogger.String("symbol", a.cfg.Symbol))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.cfg.Stream.Enabled {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.l.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	a.closeInfra()
	a.l.Info("shutdown complete")
	return nil
}

func (a *App) closeInfra() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.artifacts != nil {
		if err := a.artifacts.Close(); err != nil {
			a.l.Warn("artifact store close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
