package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/sharelgx/JDVideo/internal/api"
	"github.com/sharelgx/JDVideo/internal/app"
	"github.com/sharelgx/JDVideo/internal/engine"
	"github.com/sharelgx/JDVideo/internal/infra/config"
	"github.com/sharelgx/JDVideo/internal/infra/logger"
	"github.com/sharelgx/JDVideo/internal/store"
)

// Batches are answered synchronously, so shutdown waits for them this long.
const shutdownGrace = 2 * time.Minute

const staleTempAge = 24 * time.Hour

func runServe(ctx context.Context, v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if err := os.MkdirAll(cfg.Download.Root, 0755); err != nil {
		return fmt.Errorf("failed to create download root: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", cfg.Log.Path, err)
	}
	defer log.Close()

	// Leftovers from a crash; anything this old cannot belong to a live batch
	if n, err := engine.SweepStale(cfg.Download.Root, staleTempAge); err != nil {
		log.Warn("[Sweep] %s: %v", cfg.Download.Root, err)
	} else if n > 0 {
		log.Info("[Sweep] removed %d stale temp files under %s", n, cfg.Download.Root)
	}

	appCtx := app.NewContext(cfg, log)

	if cfg.Store.Driver != config.DriverNone {
		st, err := store.NewPersistentStore(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("failed to open batch history: %w", err)
		}
		defer st.Close()
		appCtx.Store = st

		if v, _, err := st.SchemaVersion(); err == nil {
			log.Info("[Store] %s history at schema v%d", st.Driver(), v)
		}
	}

	e := api.NewServer(appCtx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdlog.New(log, "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("JDVideo helper listening on http://%s (root=%s, concurrency=%d, retry=%d)",
			cfg.Addr(), cfg.Download.Root, cfg.Download.Concurrency, cfg.Download.Retry)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down, waiting for running batches...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if dropped := appCtx.Events.Dropped(); dropped > 0 {
		log.Warn("%d event log records could not be written to %s", dropped, appCtx.Events.Path())
	}
	return nil
}
