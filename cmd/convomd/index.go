// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convomd/internal/export"
	"github.com/pdiddy/convomd/internal/index"
	"github.com/pdiddy/convomd/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index <export.json>",
	Short: "Ingest an export into the local transcript index",
	Long: `Index loads a conversation export and writes each conversation's linearized
transcript into a SQLite database with FTS5 full-text indexing. Conversations
whose updated-at stamp is unchanged are skipped on subsequent runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	convs, perrs, err := export.Load(args[0])
	if err != nil {
		return err
	}
	for _, perr := range perrs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", perr)
	}

	summary, err := store.Ingest(context.Background(), convs, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d conversation(s) failed indexing", summary.Failed)
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search indexed transcripts with full-text search",
	Long: `Search runs an FTS5 query over the transcript index and prints matching
turns with their conversation id and title, ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	conversationID, _ := cmd.Flags().GetString("conversation")

	results, err := store.Search(context.Background(), index.QueryOptions{
		Query:          strings.Join(args, " "),
		ConversationID: conversationID,
		MaxResults:     limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []index.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-36s  %-30s  %-10s  %s\n",
		"Rank", "Conversation", "Title", "Speaker", "Match")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-36s  %-30s  %-10s  %s\n",
			i+1, r.ConversationID, title, r.Role, r.Snippet)
	}
	return nil
}

// indexConfig resolves index settings: flags win, then the viper config
// file, then defaults.
func indexConfig(cmd *cobra.Command) types.IndexConfig {
	dbPath, _ := cmd.Flags().GetString("index-db")
	if !cmd.Flags().Changed("index-db") && viper.IsSet("index.db_path") {
		dbPath = viper.GetString("index.db_path")
	}
	if dbPath == "" {
		dbPath = "conversations.db"
	}

	maxResults := viper.GetInt("index.max_results")

	return types.IndexConfig{
		DBPath:     dbPath,
		MaxResults: maxResults,
	}
}

func init() {
	indexCmd.Flags().String("index-db", "conversations.db", "SQLite index database file")

	searchCmd.Flags().String("index-db", "conversations.db", "SQLite index database file")
	searchCmd.Flags().String("conversation", "", "restrict results to one conversation id")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config, else 20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
