package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/driftgames/arcade/internal/config"
	"github.com/driftgames/arcade/internal/logging"
	"github.com/driftgames/arcade/internal/metrics"
	"github.com/driftgames/arcade/internal/server"
	ledgerRepo "github.com/driftgames/arcade/pkg/repositories/ledger"
	roundRepo "github.com/driftgames/arcade/pkg/repositories/round"
	"github.com/driftgames/arcade/pkg/rng"
	"github.com/driftgames/arcade/pkg/scheduler"
	"github.com/driftgames/arcade/pkg/services/blackjack"
	"github.com/driftgames/arcade/pkg/services/boosts"
	"github.com/driftgames/arcade/pkg/services/shop"
	"github.com/driftgames/arcade/pkg/services/slots"
	"github.com/driftgames/arcade/pkg/services/stats"
	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New("arcade", cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Storage. sqlite is the normal path; fall back to memory so a
	// broken data dir still yields a playable (non-persistent) arcade.
	var store storage.Store
	sqliteStore, err := storage.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		logger.Warn("sqlite unavailable, falling back to in-memory storage", zap.Error(err))
		store = storage.NewMemoryStore()
	} else {
		store = sqliteStore
	}
	defer func() { _ = store.Close() }()

	firstRun(store, logger)

	var ledger ledgerRepo.Repository
	sqliteLedger, err := ledgerRepo.NewSQLiteRepository(cfg.DatabasePath())
	var w *wallet.Service
	if err != nil {
		logger.Warn("transaction ledger unavailable", zap.Error(err))
		w = wallet.New(store, wallet.WithLogger(logger))
	} else {
		defer func() { _ = sqliteLedger.Close() }()
		ledger = sqliteLedger
		w = wallet.New(store, wallet.WithLedger(ledger), wallet.WithLogger(logger))
	}

	var rounds roundRepo.Repository
	sqliteRounds, err := roundRepo.NewSQLiteRepository(cfg.DatabasePath())
	if err != nil {
		logger.Warn("round history unavailable, using memory", zap.Error(err))
		rounds = roundRepo.NewMemoryRepository()
	} else {
		defer func() { _ = sqliteRounds.Close() }()
		rounds = sqliteRounds
	}

	// Optional Elasticsearch archiver on top of the round history.
	sched := scheduler.NewScheduler(logger)
	if cfg.ElasticsearchURL != "" {
		esCfg := roundRepo.DefaultArchiverConfig()
		esCfg.URL = cfg.ElasticsearchURL
		archiver, err := roundRepo.NewArchiver(rounds, esCfg)
		if err != nil {
			logger.Warn("elasticsearch archiver unavailable", zap.Error(err))
		} else {
			rounds = archiver
			sched.AddTask("round_archive_flush", time.Minute, archiver.Flush)
		}
	}

	paytable := slots.DefaultPaytable()
	if cfg.PaytablePath != "" {
		pt, err := slots.LoadPaytableFile(cfg.PaytablePath)
		if err != nil {
			logger.Warn("invalid paytable file, using default",
				zap.String("path", cfg.PaytablePath), zap.Error(err))
		} else {
			paytable = pt
		}
	}

	gen := rng.New()
	// One boost counter service, shared by everything that touches it.
	boostSvc := boosts.New(store, boosts.WithLogger(logger))
	slotsEngine := slots.New(w, store, gen, paytable,
		slots.WithRoundRepository(rounds),
		slots.WithBoosts(boostSvc),
		slots.WithLogger(logger))
	bjTable := blackjack.New(w, store, gen,
		blackjack.WithRoundRepository(rounds),
		blackjack.WithLogger(logger))
	shopSvc := shop.New(w, store, shop.WithBoosts(boostSvc), shop.WithLogger(logger))
	statsSvc := stats.New(rounds, store)

	srv := server.New(cfg.ListenAddr, w, slotsEngine, bjTable, shopSvc, statsSvc,
		ledger, metrics.New(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	sched.Stop()
}

// firstRun seeds the boost counters exactly once per fresh data dir.
func firstRun(store storage.Store, logger *zap.Logger) {
	if !storage.GetJSON(store, storage.KeyFirstRun, true) {
		return
	}
	counters := map[string]int64{storage.BoostSlotLuck: 0}
	if err := storage.SetJSON(store, storage.KeyBoosts, counters); err != nil {
		logger.Warn("failed to seed boost counters", zap.Error(err))
	}
	if err := storage.SetJSON(store, storage.KeyFirstRun, false); err != nil {
		logger.Warn("failed to clear first-run flag", zap.Error(err))
	}
	logger.Info("initialized fresh player state")
}
