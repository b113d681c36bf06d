// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convomd/internal/filter"
	"github.com/pdiddy/convomd/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter <input.json> <output.json>",
	Short: "Write a reduced export containing only selected conversations",
	Long: `Filter reads a conversation export and writes a new one containing only
the conversations selected by --uuids (exact identifier match) or by
--name-pattern (regex over the title, case-insensitive unless
--case-sensitive). Selected conversations keep their original JSON text.

When nothing matches, filter fails; --allow-empty writes an empty array
instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	uuids, _ := cmd.Flags().GetStringSlice("uuids")
	namePattern, _ := cmd.Flags().GetString("name-pattern")
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	allowEmpty, _ := cmd.Flags().GetBool("allow-empty")

	cfg := types.FilterConfig{
		InputPath:     args[0],
		OutputPath:    args[1],
		UUIDs:         uuids,
		NamePattern:   namePattern,
		CaseSensitive: caseSensitive,
		AllowEmpty:    allowEmpty,
	}

	_, err := filter.Run(cfg, os.Stdout)
	return err
}

func init() {
	filterCmd.Flags().StringSlice("uuids", nil, "conversation identifiers to keep (comma-separated or repeated)")
	filterCmd.Flags().String("name-pattern", "", "regex matched against conversation titles")
	filterCmd.Flags().Bool("case-sensitive", false, "match the name pattern case-sensitively")
	filterCmd.Flags().Bool("allow-empty", false, "write an empty array instead of failing when nothing matches")

	filterCmd.MarkFlagsMutuallyExclusive("uuids", "name-pattern")
	filterCmd.MarkFlagsOneRequired("uuids", "name-pattern")

	rootCmd.AddCommand(filterCmd)
}
