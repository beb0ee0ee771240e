// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airauth/authstore/internal/config"
	"github.com/airauth/authstore/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE:  runMigrateUp,
	}

	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all database migrations",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE:  runMigrateStatus,
	})

	return cmd
}

func openMigrator(cmd *cobra.Command) (*store.Migrator, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	return migrator, nil
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	cmd.Printf("Migrations completed successfully (version %d, dirty=%v)\n", version, dirty)
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	cmd.Println("Rolling back migrations...")
	if err := migrator.Down(); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	applied, err := migrator.AppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to list applied migrations: %w", err)
	}
	pending, err := migrator.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to list pending migrations: %w", err)
	}

	printVersion := func(state string, v uint) {
		name, nameErr := store.MigrationName(v)
		if nameErr != nil {
			name = "?"
		}
		cmd.Printf("%s  %d  %s\n", state, v, name)
	}
	for _, v := range applied {
		printVersion("applied", v)
	}
	for _, v := range pending {
		printVersion("pending", v)
	}
	if len(applied) == 0 && len(pending) == 0 {
		cmd.Println("no migrations found")
	}
	return nil
}
