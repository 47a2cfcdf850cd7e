package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rgtechno/tallybridge/internal/config"
	"github.com/rgtechno/tallybridge/internal/database"
	"github.com/rgtechno/tallybridge/internal/invoice"
	"github.com/rgtechno/tallybridge/internal/notify"
	"github.com/rgtechno/tallybridge/internal/repository"
	"github.com/rgtechno/tallybridge/internal/scheduler"
	"github.com/rgtechno/tallybridge/internal/server"
	"github.com/rgtechno/tallybridge/internal/storage"
	syncpkg "github.com/rgtechno/tallybridge/internal/sync"
	"github.com/rgtechno/tallybridge/internal/tally"
)

func main() {
	if err := run(); err != nil {
		logrus.Fatalf("application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}

	if err := database.Migrate(cfg.DatabaseURL, log); err != nil {
		return err
	}

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	stockRepo := repository.NewStockLevelRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	outstandingRepo := repository.NewOutstandingRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	syncControlRepo := repository.NewSyncControlRepository(db)
	ledgerNameRepo := repository.NewLedgerNameRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)

	// Remote gateway and side services
	client := tally.NewClient(cfg.TallyURL, &http.Client{}, log)

	var uploader storage.Uploader = storage.Noop{}
	if cfg.GCSBucket != "" {
		uploader = storage.NewGCS(cfg.GCSBucket)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.PubSubProject != "" && cfg.PubSubTopic != "" {
		ps, err := notify.NewPubSub(ctx, cfg.PubSubProject, cfg.PubSubTopic, log)
		if err != nil {
			return err
		}
		defer ps.Close()
		notifier = ps
	}

	// Sync engine and invoice pipeline
	gate := syncpkg.NewGate(syncControlRepo)
	engine := syncpkg.NewEngine(gate, syncLogRepo, log)
	syncs := syncpkg.NewService(engine, client, itemRepo, stockRepo, vendorRepo, outstandingRepo, statementRepo)

	pipeline := invoice.NewPipeline(orderRepo, invoiceRepo, ledgerNameRepo, client,
		uploader, notifier, cfg.SellerState, cfg.TallyCompany, log)
	orderSvc := invoice.NewOrderService(orderRepo, pipeline, log)
	retrier := invoice.NewRetrier(invoiceRepo, syncLogRepo, gate, client, notifier, log)

	// Background jobs
	sched := scheduler.New(log)
	sched.Register("auto-sync", time.Duration(cfg.AutoSyncIntervalMinutes)*time.Minute, func(ctx context.Context) {
		syncs.RunAuto(ctx)
	})
	sched.Register("invoice-retry", time.Duration(cfg.RetryIntervalMinutes)*time.Minute, func(ctx context.Context) {
		if _, err := retrier.RetryAll(ctx); err != nil && !errors.Is(err, syncpkg.ErrSyncDisabled) {
			log.WithError(err).Error("invoice retry run failed")
		}
	})
	sched.Register("sync-log-cleanup", time.Duration(cfg.LogCleanupIntervalHours)*time.Hour, func(ctx context.Context) {
		if err := syncLogRepo.DeleteAll(ctx); err != nil {
			log.WithError(err).Error("sync log cleanup failed")
		}
	})

	schedDone := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(schedDone)
	}()

	// HTTP surface
	srv := server.New(syncs, retrier, orderSvc, syncLogRepo, syncControlRepo,
		ledgerNameRepo, outstandingRepo, statementRepo, log)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}

	select {
	case <-schedDone:
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout exceeded")
	}

	log.Info("application stopped")
	return nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
