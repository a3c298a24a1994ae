// Command board serves the activity board web front end. It renders the
// activities fetched from the activities API and forwards signups and
// unregistrations to it.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/activity-board/config"
	"github.com/Shivanand-hulikatti/activity-board/internal/board"
	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/handler"
	"github.com/Shivanand-hulikatti/activity-board/pkg/logger"
)

const sweepInterval = time.Minute

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

	// ── 1. Wire up layers ────────────────────────────────────────────────
	api := client.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, log)
	b := board.New(api, log, board.Options{
		SignupMessageTTL:     cfg.Board.SignupMessageTTL,
		UnregisterMessageTTL: cfg.Board.UnregisterMessageTTL,
	})

	sessions := board.NewSessionStore(cfg.Board.SessionIdleTimeout)
	go sessions.Run(ctx, sweepInterval)

	h := handler.NewBoardHandler(b, sessions, log, cfg.Board.SecureCookie)
	router := handler.NewBoardRouter(h, log, handler.BoardRouterOptions{
		CSRFKey: []byte(cfg.Board.CSRFKey),
		Secure:  cfg.Board.SecureCookie,
	})
	if cfg.Board.CSRFKey == "" {
		log.Warnw("board.csrf_key not set, form posts are not CSRF protected")
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// ── 2. Serve until signalled ─────────────────────────────────────────
	go func() {
		log.Infow("board listening", "addr", srv.Addr, "backend", cfg.Backend.BaseURL)
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
