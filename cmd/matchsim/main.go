package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utakatalp/match-simulator/internal/api"
	"github.com/utakatalp/match-simulator/internal/config"
	"github.com/utakatalp/match-simulator/internal/cronrunner"
	"github.com/utakatalp/match-simulator/internal/logging"
	"github.com/utakatalp/match-simulator/internal/store"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.WithField("path", *configPath).Info("configuration loaded")

	st, err := store.Open(cfg.Database.URL)
	if err != nil {
		logger.WithError(err).Fatal("opening store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.WithError(err).Error("closing store")
		}
	}()
	if err := st.Migrate(); err != nil {
		logger.WithError(err).Fatal("migrating database")
	}

	srv := api.New(st, cfg, logger)
	// An empty database has nothing to model yet; handlers answer 503 until
	// standings arrive.
	if err := srv.Rebuild(); err != nil {
		logger.WithError(err).Warn("initial model rebuild skipped")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runner *cronrunner.Runner
	if cfg.Rebuild.Enabled {
		cronLog := logging.WithComponent(logger, "rebuild")
		runner = cronrunner.New(logger, ctx)
		if _, err := runner.Add(cfg.Rebuild.Spec, func(_ context.Context) {
			if err := srv.Rebuild(); err != nil {
				cronLog.WithError(err).Warn("scheduled rebuild failed")
			}
		}); err != nil {
			cronLog.WithError(err).Fatal("scheduling rebuild job")
		}
		runner.Start()
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTP.Addr).Info("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received")

	if runner != nil {
		runner.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown")
	}
	logger.Info("shutdown complete")
}
