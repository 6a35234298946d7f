package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/me/scoop/internal/config"
	"github.com/me/scoop/internal/logging"
	"github.com/me/scoop/internal/retention"
	"github.com/me/scoop/internal/server"
	"github.com/me/scoop/internal/store"
)

func main() {
	cfg := config.DefaultServerConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Database path (default ~/.scoop/scoop.db)")
	flag.Float64Var(&cfg.RatePerSecond, "rate", cfg.RatePerSecond, "Simulation requests per second (0 disables limiting)")
	flag.IntVar(&cfg.RateBurst, "burst", cfg.RateBurst, "Simulation request burst size")
	flag.IntVar(&cfg.MaxJobs, "max-jobs", cfg.MaxJobs, "Maximum jobs per simulation (0 for no limit)")
	flag.IntVar(&cfg.MaxSlices, "max-slices", cfg.MaxSlices, "Maximum processing slices per simulation (0 for no limit)")
	flag.Int64Var(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "Maximum simulation request body in bytes (0 for no limit)")
	flag.DurationVar(&cfg.RetentionMaxAge, "retention", cfg.RetentionMaxAge, "Delete stored runs older than this, e.g. 720h (0 keeps them)")
	flag.IntVar(&cfg.RetentionMaxRuns, "max-runs", cfg.RetentionMaxRuns, "Keep at most this many stored runs (0 for no limit)")
	flag.DurationVar(&cfg.PruneInterval, "prune-interval", cfg.PruneInterval, "How often retention rules are applied")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Resolve database path.
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".scoop")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "scoop.db")
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", dbPath)

	var serverOpts []server.Option

	// Configure run history retention.
	retentionCfg := retention.Config{
		Interval: cfg.PruneInterval,
		MaxAge:   cfg.RetentionMaxAge,
		MaxRuns:  cfg.RetentionMaxRuns,
	}
	var pruner *retention.Pruner
	if retentionCfg.Enabled() {
		pruner = retention.New(st, retentionCfg, logger)
		serverOpts = append(serverOpts, server.WithPruner(pruner))
	}

	srv := server.New(cfg, st, logger, serverOpts...)
	if cfg.RatePerSecond > 0 {
		logger.Info("rate limiting enabled", "rate", cfg.RatePerSecond, "burst", cfg.RateBurst)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start retention in background.
	srv.StartPruner(ctx)

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Stop retention before HTTP server.
	if pruner != nil {
		if err := pruner.Stop(); err != nil {
			logger.Error("retention stop error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
