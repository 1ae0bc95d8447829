// Package main — cmd/fileserver/main.go
//
// Node process entrypoint (spec.md §4.11, C11).
//
// Startup sequence:
//  1. Parse -config (default "config.json").
//  2. Load the config.
//  3. Initialise structured logger (zap).
//  4. Run bootstrap: validate the config, build the registry, seed the
//     replica store, wire the Quorum Engine.
//  5. Start the Prometheus metrics/health HTTP listener.
//  6. Register the gRPC services and start the gRPC listener.
//  7. Block on SIGINT/SIGTERM for graceful shutdown.
//
// Shutdown sequence (on SIGINT/SIGTERM):
//  1. Cancel the root context (stops the metrics listener).
//  2. GracefulStop the gRPC server (drains in-flight RPCs).
//  3. Close peer connections.
//  4. Flush the logger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"quorumfs/internal/bootstrap"
	"quorumfs/internal/config"
	"quorumfs/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the node's config.json")
	logLevel := flag.String("log-level", "info", "zap log level")
	logFormat := flag.String("log-format", "json", "log format: json or console")
	flag.Parse()

	// ── Step 2: Load config ──────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: config load failed: %v\n", err)
		os.Exit(1)
	}

	// ── Step 3: Initialise logger ────────────────────────────────────
	logger, err := logging.Build(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	// ── Step 4: Bootstrap ─────────────────────────────────────────────
	proc, err := bootstrap.Run(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	logger.Info("fileserver starting",
		zap.String("node_id", proc.NodeID),
		zap.String("config", *configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Step 5: Metrics listener ──────────────────────────────────────
	metricsAddr := proc.MetricsAddr()
	go func() {
		if err := proc.Metrics.Serve(ctx, metricsAddr); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", metricsAddr))

	// ── Step 6: gRPC listener ──────────────────────────────────────────
	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- proc.Serve()
	}()

	// ── Step 7: Wait for shutdown signal ────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serveErrCh:
		if err != nil {
			logger.Error("gRPC server stopped unexpectedly", zap.Error(err))
		}
	}

	cancel()
	proc.Stop()
	logger.Info("fileserver shutdown complete")
}
