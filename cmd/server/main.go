package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/layoutcheck/internal/api"
	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/dgallion1/layoutcheck/internal/config"
	"github.com/dgallion1/layoutcheck/internal/extract"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	stats := extract.NewStats(cfg.StatsWindow)
	checker := check.FromConfig(cfg, stats, log)

	// Fail early on a broken template, but keep serving so the file can be
	// replaced without a restart.
	if _, err := checker.Reference(); err != nil {
		log.Warn("reference document not loadable", "path", cfg.ReferencePath, "error", err)
	}

	srv := api.NewServer(checker, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting layoutcheck server", "port", cfg.Port, "reference", cfg.ReferencePath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
