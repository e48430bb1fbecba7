// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/feedrank/internal/recommend"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *commandContext) printFeed(cmd *cobra.Command, resp *recommend.Response) error {
	if c.flags.json {
		return writeJSON(cmd, resp)
	}
	out := cmd.OutOrStdout()
	if len(resp.Items) == 0 {
		fmt.Fprintf(out, "No %s recommendations\n", resp.Metadata.Surface)
		return nil
	}
	fmt.Fprintln(out, renderFeed(resp))
	fmt.Fprintln(out, feedSummary(resp.Metadata))
	return nil
}

func renderFeed(resp *recommend.Response) string {
	rows := make([][]string, 0, len(resp.Items))
	for i, item := range resp.Items {
		tags := make([]string, 0, len(item.Tags))
		for _, tag := range item.Tags {
			tags = append(tags, tag.Name)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.ID,
			item.Title,
			item.Creator.Username,
			strings.Join(tags, ", "),
			strconv.FormatInt(item.Views, 10),
			string(item.RecommendationReason),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Creator", "Tags", "Views", "Reason"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func feedSummary(meta recommend.ResponseMetadata) string {
	parts := []string{fmt.Sprintf("%s: %d items", meta.Surface, meta.Count)}
	if meta.ViewerID != "" {
		parts = append(parts, "viewer "+meta.ViewerID)
	}
	if meta.SourceID != "" {
		parts = append(parts, "source "+meta.SourceID)
	}
	if meta.Cached > 0 || meta.Generated > 0 {
		parts = append(parts, fmt.Sprintf("%d cached, %d generated", meta.Cached, meta.Generated))
	}
	return strings.Join(parts, " | ")
}

func renderStats(stats *recommend.Stats) string {
	rows := make([][]string, 0, len(stats.ByReason)+1)
	for _, rs := range stats.ByReason {
		rows = append(rows, []string{
			string(rs.Reason),
			strconv.FormatInt(rs.Total, 10),
			strconv.FormatInt(rs.Clicked, 10),
			formatRate(rs.ClickThroughRate()),
		})
	}
	total := recommend.ReasonStats{Total: stats.Total, Clicked: stats.Clicked}
	rows = append(rows, []string{
		"TOTAL",
		strconv.FormatInt(stats.Total, 10),
		strconv.FormatInt(stats.Clicked, 10),
		formatRate(total.ClickThroughRate()),
	})
	return renderTable(
		[]string{"Reason", "Shown", "Clicked", "CTR"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}
