// Package main is the entry point for the field selection demo server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/relique/dynamicfields/internal/config"
	"github.com/relique/dynamicfields/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("FIELDSERVER_CONFIG_PATH", ""),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("FIELDSERVER_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("FIELDSERVER_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints build information.
func printVersion() {
	fmt.Printf("fieldserver %s (build %s, commit %s)\n", version, buildTime, gitCommit)
}

// initLogger builds the process logger from flags and installs it
// globally.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	observability.SetGlobalLogger(logger)
	return logger
}

// loadAndValidateConfig loads the configuration file, falling back to
// defaults when no path was given.
func loadAndValidateConfig(path string, logger observability.Logger) *config.Config {
	if path == "" {
		logger.Info("no configuration file given, using defaults")
		return config.DefaultConfig()
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("failed to load configuration",
			observability.String("path", path),
			observability.Error(err),
		)
	}

	if err := config.Validate(cfg); err != nil {
		logger.Fatal("configuration validation failed",
			observability.String("path", path),
			observability.Error(err),
		)
	}

	logger.Info("configuration loaded", observability.String("path", path))
	return cfg
}

// run starts the HTTP server, the config watcher, and blocks until
// shutdown completes.
func run(app *app, configPath string, logger observability.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         app.cfg.Server.Addr,
		Handler:      app.routes(),
		ReadTimeout:  app.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: app.cfg.Server.WriteTimeout.Duration(),
	}

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, app.applyConfig,
			config.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal("failed to create config watcher", observability.Error(err))
		}
		if err := watcher.Start(ctx); err != nil {
			logger.Fatal("failed to start config watcher", observability.Error(err))
		}
		defer func() { _ = watcher.Stop() }()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", observability.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", observability.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		app.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", observability.Error(err))
		return
	}
	logger.Info("server stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
