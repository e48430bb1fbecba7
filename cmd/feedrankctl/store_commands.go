// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/feedrank/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(db *database.DB) error {
				if err := db.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", db.Driver())
				return nil
			})
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load viewers, tags, items and watch history from a YAML catalog",
		Long: strings.TrimSpace(`
Seed upserts every entity in the catalog, so running it again with an
edited file updates items in place. Relative times such as
"published_ago: 36h" are resolved against the current clock.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := database.LoadCatalogFile(file)
			if err != nil {
				return err
			}
			return ctx.withStore(func(db *database.DB) error {
				result, err := db.SeedCatalog(cmd.Context(), catalog)
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Entity", "Rows"},
					[][]string{
						{"viewers", strconv.Itoa(result.Viewers)},
						{"tags", strconv.Itoa(result.Tags)},
						{"items", strconv.Itoa(result.Items)},
						{"watches", strconv.Itoa(result.Watches)},
					},
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
