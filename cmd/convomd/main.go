// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convomd CLI, which converts chat
// conversation exports (a single JSON document of many conversations) into
// per-conversation Markdown files, with optional pre-filtering and a local
// full-text transcript index.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the convomd CLI.
var rootCmd = &cobra.Command{
	Use:   "convomd",
	Short: "Convert chat conversation exports to Markdown",
	Long: `convomd turns a conversation export (one JSON document containing many
conversations) into human-readable Markdown, one file per conversation.

Each stage is a subcommand: filter narrows an export to a subset of
conversations, convert renders conversations to Markdown, and index/search
maintain a local full-text index over converted transcripts.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convomd.yaml or ~/.config/convomd/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convomd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convomd"))
		}
	}

	viper.SetEnvPrefix("CONVOMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
