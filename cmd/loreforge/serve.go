// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/loreforge/loreforge/internal/logging"
	"github.com/loreforge/loreforge/internal/observability"
	"github.com/loreforge/loreforge/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the faction service",
		Long: `Start the faction service: connects to PostgreSQL, applies pending
migrations, and exposes metrics and health probes until interrupted.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.SetDefault("loreforge", version, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	obs := observability.NewServer(cfg.Metrics.Addr, func() bool {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErr, err := obs.Start()
	if err != nil {
		return err
	}

	slog.Info("faction service ready", "metrics_addr", obs.Addr())

	select {
	case <-ctx.Done():
	case serveErr := <-obsErr:
		if serveErr != nil {
			return oops.With("operation", "observability server").Wrap(serveErr)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obs.Stop(stopCtx); err != nil {
		return err
	}
	slog.Info("faction service stopped")
	return nil
}
