// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convomd/internal/convert"
	"github.com/pdiddy/convomd/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <export.json>",
	Short: "Convert a conversation export to per-conversation Markdown files",
	Long: `Convert reads a JSON conversation export and writes one Markdown file per
conversation into the output directory. Existing files are skipped unless
--overwrite is set; --dry-run reports what would be written without touching
the filesystem. Malformed conversations are reported and skipped, not fatal.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig(cmd)

	result, err := convert.ConvertExport(args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() && result.Failed == result.Total() {
		return fmt.Errorf("all %d conversations failed", result.Failed)
	}
	return nil
}

// convertConfig resolves the conversion settings: flags win, then the viper
// config file, then defaults.
func convertConfig(cmd *cobra.Command) types.ConvertConfig {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if !cmd.Flags().Changed("output-dir") && viper.IsSet("convert.output_dir") {
		outputDir = viper.GetString("convert.output_dir")
	}

	overwrite, _ := cmd.Flags().GetBool("overwrite")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	frontmatter, _ := cmd.Flags().GetBool("frontmatter")
	if !cmd.Flags().Changed("frontmatter") && viper.IsSet("convert.frontmatter") {
		frontmatter = viper.GetBool("convert.frontmatter")
	}

	return types.ConvertConfig{
		OutputDir:   outputDir,
		Overwrite:   overwrite,
		DryRun:      dryRun,
		Frontmatter: frontmatter,
	}
}

func init() {
	convertCmd.Flags().String("output-dir", "markdown_conversations", "directory for the generated Markdown files")
	convertCmd.Flags().Bool("overwrite", false, "overwrite existing Markdown files instead of skipping them")
	convertCmd.Flags().Bool("dry-run", false, "report actions without writing anything")
	convertCmd.Flags().Bool("frontmatter", false, "prepend a YAML metadata block to each document")

	rootCmd.AddCommand(convertCmd)
}
