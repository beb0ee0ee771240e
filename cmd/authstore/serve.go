// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/airauth/authstore/internal/auth"
	"github.com/airauth/authstore/internal/auth/postgres"
	"github.com/airauth/authstore/internal/config"
	"github.com/airauth/authstore/internal/logging"
	"github.com/airauth/authstore/internal/observability"
	"github.com/airauth/authstore/internal/store"
	"github.com/airauth/authstore/pkg/errutil"
)

// pgxStore adapts a pgxpool-backed adapter to the Store interface.
type pgxStore struct {
	pool    *pgxpool.Pool
	adapter *postgres.Adapter
}

func (s *pgxStore) Ping(ctx context.Context) error {
	//nolint:wrapcheck // health probe passthrough
	return s.pool.Ping(ctx)
}

func (s *pgxStore) Close() { s.pool.Close() }

func (s *pgxStore) Adapter() auth.Adapter { return s.adapter }

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the auth store service",
		Long: `Connect to PostgreSQL, expose metrics and health endpoints, and run the
periodic expiry sweep for sessions and verification tokens.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("observability-addr", "", "metrics/health HTTP address")
	cmd.Flags().String("log-format", "", "log format (json or text)")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().Duration("sweep-interval", 0, "interval between expiry sweeps")

	return cmd
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = func(ctx context.Context, url string) (Store, error) {
			pool, err := store.NewPool(ctx, url)
			if err != nil {
				return nil, err
			}
			return &pgxStore{pool: pool, adapter: postgres.NewAdapter(pool)}, nil
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault("authstore", version, cfg.Log.Format, cfg.Log.Level)

	slog.Info("starting auth store",
		"observability_addr", cfg.Observability.Addr,
		"sweep_interval", cfg.Sweep.Interval.String(),
	)

	st, err := deps.StoreFactory(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	slog.Info("connected to database")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Ready once the pool answers pings.
	obsServer := deps.ObservabilityServerFactory(cfg.Observability.Addr, func() bool {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer pingCancel()
		return st.Ping(pingCtx) == nil
	})
	obsErrChan, err := obsServer.Start()
	if err != nil {
		return fmt.Errorf("failed to start observability server: %w", err)
	}
	// Monitor observability server errors - cancel context on error
	go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	slog.Info("observability server started", "addr", obsServer.Addr())

	adapter := observability.Instrument(st.Adapter(), obsServer.Metrics())

	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		runSweeper(ctx, adapter, cfg.Sweep.Interval)
	}()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Auth store started")
	slog.Info("auth store ready")

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")
	cancel()
	<-sweeperDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := obsServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// runSweeper deletes expired sessions and verification tokens every interval
// until ctx is cancelled. A sweep runs immediately on start.
func runSweeper(ctx context.Context, adapter auth.Adapter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		sessions, err := adapter.DeleteExpiredSessions(ctx)
		if err != nil {
			if ctx.Err() == nil {
				errutil.LogError(slog.Default(), "expired session sweep failed", err)
				observability.RecordSweepFailure("session")
			}
		} else if sessions > 0 {
			slog.Info("removed expired sessions", "count", sessions)
		}

		tokens, err := adapter.DeleteExpiredVerificationTokens(ctx)
		if err != nil {
			if ctx.Err() == nil {
				errutil.LogError(slog.Default(), "expired verification token sweep failed", err)
				observability.RecordSweepFailure("verification_token")
			}
		} else if tokens > 0 {
			slog.Info("removed expired verification tokens", "count", tokens)
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return
		}
	}
}

// monitorServerErrors watches a server error channel and cancels the run
// context when the server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
