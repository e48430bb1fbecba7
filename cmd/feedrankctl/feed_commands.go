// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/feedrank/internal/recommend"
)

type feedFlags struct {
	viewer string
	limit  int
}

func (f *feedFlags) register(cmd *cobra.Command, withViewer bool) {
	if withViewer {
		cmd.Flags().StringVar(&f.viewer, "viewer", "", "Viewer id (anonymous when empty)")
	}
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Number of items (0 = configured default)")
}

func newHomeCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show the home feed for a viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				resp, err := engine.GetHome(cmd.Context(), flags.viewer, flags.limit)
				if err != nil {
					return err
				}
				return ctx.printFeed(cmd, resp)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newPersonalizedCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags
	cmd := &cobra.Command{
		Use:   "personalized <viewer-id>",
		Short: "Show stored and newly generated recommendations for a viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				resp, err := engine.GetPersonalized(cmd.Context(), args[0], flags.limit)
				if err != nil {
					return err
				}
				return ctx.printFeed(cmd, resp)
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show the most viewed recently published items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				resp, err := engine.GetTrending(cmd.Context(), flags.limit)
				if err != nil {
					return err
				}
				return ctx.printFeed(cmd, resp)
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newRelatedCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags
	cmd := &cobra.Command{
		Use:   "related <item-id>",
		Short: "Show items related to an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				resp, err := engine.GetRelated(cmd.Context(), args[0], flags.viewer, flags.limit)
				if err != nil {
					return err
				}
				return ctx.printFeed(cmd, resp)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newClickCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "click <viewer-id> <item-id>",
		Short: "Record that a viewer clicked a recommended item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				matched, err := engine.MarkClicked(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, map[string]any{"viewerId": args[0], "itemId": args[1], "matched": matched})
				}
				if matched == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No recommendation of %s for %s; nothing marked\n", args[1], args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s clicked for %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <viewer-id>",
		Short: "Show click-through counts per recommendation reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *recommend.Engine) error {
				stats, err := engine.Stats(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, stats)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
				return nil
			})
		},
	}
}
