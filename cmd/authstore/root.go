package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authstore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authstore",
		Short: "authstore - storage backend for an authentication engine",
		Long: `authstore persists the users, linked provider accounts, sessions, and
verification tokens an authentication engine needs, backed by PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
