// Command console serves the DocuMind web console: a static page plus one
// websocket-bound session controller per open page.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"documind/internal/config"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}

	logger := newLogger(cfg.LogLevel)

	srv := NewServer(cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		api := cfg.APIBase
		if api == "" {
			api = "(same origin)"
		}
		logger.Info("DocuMind console starting", "addr", cfg.ListenAddr, "api", api)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	srv.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "err", err)
	}
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "console",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
