// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/airauth/authstore/internal/config"
	"github.com/airauth/authstore/internal/store"
)

// StoreStatus holds the status information for the auth store.
type StoreStatus struct {
	Database          string `json:"database"`
	SchemaVersion     uint   `json:"schema_version"`
	SchemaDirty       bool   `json:"schema_dirty"`
	PendingMigrations int    `json:"pending_migrations"`
	Service           string `json:"service"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the health of the auth store",
		Long: `Check database connectivity, schema migration state, and whether a
running serve process answers its readiness probe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	status := queryStoreStatus(cmd.Context(), appCfg)

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(status)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
	} else {
		output = formatStatusTable(status)
	}

	cmd.Println(output)
	return nil
}

// queryStoreStatus probes the database and the readiness endpoint of a
// running serve process.
func queryStoreStatus(ctx context.Context, cfg *config.Config) StoreStatus {
	status := StoreStatus{
		Database: "ok",
		Service:  queryServiceReadiness(cfg.Observability.Addr),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := store.NewPool(pingCtx, cfg.Database.URL)
	if err != nil {
		status.Database = fmt.Sprintf("unreachable: %v", err)
		return status
	}
	pool.Close()

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		status.Database = fmt.Sprintf("migration state unknown: %v", err)
		return status
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Database = fmt.Sprintf("migration state unknown: %v", err)
		return status
	}
	status.SchemaVersion = version
	status.SchemaDirty = dirty

	pending, err := migrator.PendingMigrations()
	if err == nil {
		status.PendingMigrations = len(pending)
	}

	return status
}

// queryServiceReadiness asks a running serve process whether it is ready.
func queryServiceReadiness(addr string) string {
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get("http://" + addr + "/healthz/readiness")
	if err != nil {
		return "not running"
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return "ready"
	}
	return "not ready"
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status StoreStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "CHECK\tSTATE")
	_, _ = fmt.Fprintln(w, "-----\t-----")
	_, _ = fmt.Fprintf(w, "database\t%s\n", status.Database)
	_, _ = fmt.Fprintf(w, "schema version\t%d (dirty=%v)\n", status.SchemaVersion, status.SchemaDirty)
	_, _ = fmt.Fprintf(w, "pending migrations\t%d\n", status.PendingMigrations)
	_, _ = fmt.Fprintf(w, "service\t%s\n", status.Service)

	_ = w.Flush()
	return string(buf)
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(status StoreStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
