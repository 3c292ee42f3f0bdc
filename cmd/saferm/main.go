package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"saferm/internal/backoff"
	"saferm/internal/config"
	"saferm/internal/database"
	"saferm/internal/exitcodes"
	"saferm/internal/logging"
	"saferm/internal/metrics"
	"saferm/internal/runner"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	safe := flag.Bool("safe", false, "Use the safe profile: recursive, forced, retrying")
	recursive := flag.Bool("r", false, "Remove directories and their contents")
	force := flag.Bool("f", false, "Ignore nonexistent targets")
	maxRetries := flag.Int("max-retries", -1, "Retry budget for transient errors (-1: profile default)")
	retryDelay := flag.Int("retry-delay", 0, "Base backoff delay in milliseconds (0: profile default)")
	sequential := flag.Bool("seq", false, "Walk directories one entry at a time")
	dryRun := flag.Bool("dry-run", false, "Log what would be removed without removing")
	dbPath := flag.String("db", "", "Path to removal history database (empty: from config)")
	metricsPort := flag.Int("metrics-port", 0, "Expose Prometheus metrics on this port (0: disabled)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: saferm [flags] path ...")
		flag.PrintDefaults()
		return exitcodes.UsageError
	}

	// Load configuration
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Printf("ERROR: Failed to load config: %v", err)
			return exitcodes.InvalidConfig
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if *safe {
		cfg.Profile = config.ProfileSafe
	}

	// Initialize logger
	logger := logging.NewWithConfig(cfg)
	if *dryRun {
		logger.Println("DRY RUN MODE: No entries will be removed")
	}

	// Initialize metrics (Prometheus)
	metrics.Init()
	if *metricsPort > 0 {
		cfg.Prometheus.Port = *metricsPort
	}
	if cfg.Prometheus.Port > 0 {
		metrics.StartServer(cfg.PrometheusAddress(), logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			metrics.Shutdown(ctx, logger)
		}()
	}

	// Open removal history database
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	var db *database.RemovalDB
	if cfg.DatabasePath != "" {
		opened, err := database.NewRemovalDB(cfg.DatabasePath)
		if err != nil {
			// History is advisory; keep going without it
			logger.Printf("WARNING: removal history unavailable: %v", err)
		} else {
			db = opened
			defer func() {
				if err := db.Close(); err != nil {
					logger.Printf("ERROR: Failed to close database: %v", err)
				}
			}()
		}
	}

	r := runner.NewRunner(logger, cfg, *dryRun, db)

	// Flag overrides on top of the configured profile
	opts := cfg.RemoverOptions()
	if *recursive {
		opts.Recursive = true
	}
	if *force {
		opts.Force = true
	}
	if *maxRetries >= 0 {
		opts.MaxRetries = *maxRetries
	}
	if *retryDelay > 0 {
		opts.RetryDelay = time.Duration(*retryDelay) * time.Millisecond
		if cfg.Profile == config.ProfileSafe {
			opts.Policy = backoff.Exponential{Base: opts.RetryDelay}
		} else {
			opts.Policy = backoff.Fixed{Base: opts.RetryDelay}
		}
	}
	if *sequential {
		opts.Sequential = true
	}
	r.SetOptions(opts)

	sum := r.Run(paths)
	switch {
	case sum.Failed > 0:
		return exitcodes.RemovalFailed
	case sum.SafetyViolation:
		return exitcodes.SafetyViolation
	}
	return exitcodes.Success
}
