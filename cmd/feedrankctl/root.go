// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "feedrankctl",
		Short:         "Feedrank operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (overrides CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "DuckDB file path (overrides DUCKDB_PATH)")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newHomeCommand(ctx))
	rootCmd.AddCommand(newPersonalizedCommand(ctx))
	rootCmd.AddCommand(newTrendingCommand(ctx))
	rootCmd.AddCommand(newRelatedCommand(ctx))
	rootCmd.AddCommand(newClickCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))

	return rootCmd
}
