// Command activities-api serves the activities JSON API the board consumes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/activity-board/config"
	"github.com/Shivanand-hulikatti/activity-board/internal/handler"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
	"github.com/Shivanand-hulikatti/activity-board/internal/service"
	"github.com/Shivanand-hulikatti/activity-board/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// ── 1. Storage ───────────────────────────────────────────────────────
	store, err := repository.New(ctx, cfg, log)
	if err != nil {
		log.Errorw("repository initialization error", "store", cfg.API.Store, "error", err)
		return
	}
	defer store.Close()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	svc := service.NewActivityService(store, log)
	h := handler.NewActivityHandler(svc, log)

	srv := &http.Server{
		Addr:         cfg.APIAddr(),
		Handler:      handler.NewAPIRouter(h, log),
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	}

	// ── 3. Serve until signalled ─────────────────────────────────────────
	go func() {
		log.Infow("activities api listening", "addr", srv.Addr, "store", cfg.API.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("graceful shutdown failed", "timeout", cfg.Server.ShutdownTimeout, "error", err)
		return
	}
	log.Infow("server stopped")
}
