// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vediq CLI.
// Implements: prd005-cli (command surface over corpus, extraction, and
// knowledge base operations).
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veg-briyani/vediq/internal/knowledge"
	"github.com/Veg-briyani/vediq/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the vediq CLI.
var rootCmd = &cobra.Command{
	Use:   "vediq",
	Short: "Extract structured astrological rules from classical texts",
	Long: `vediq turns free-text astrological statements from classical Vedic
astrology books into structured, queryable rules in a SQLite knowledge base.

Each pipeline stage is a subcommand: process runs conversion, sentence
filtering, and rule extraction over book files; search, conflicts, stats,
and export operate on the stored rules; library manages the book corpus.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vediq.yaml or ~/.vediq/vediq.yaml)")
	rootCmd.PersistentFlags().String("db", "", "knowledge base database file (default from config)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vediq")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".vediq"))
		}
	}

	viper.SetEnvPrefix("VEDIQ")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the workspace defaults with whatever the config file or
// environment supplies.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()
	if v := viper.GetString("corpus.base_dir"); v != "" {
		cfg.Corpus.BaseDir = v
	}
	if v := viper.GetString("knowledge.database"); v != "" {
		cfg.Knowledge.DatabasePath = v
	}
	if v := viper.GetInt("knowledge.max_results"); v > 0 {
		cfg.Knowledge.MaxResults = v
	}
	if v := viper.GetString("export.dir"); v != "" {
		cfg.Export.Dir = v
	}
	if v := viper.GetString("process.default_authority"); v != "" {
		cfg.Process.DefaultAuthority = v
	}
	return cfg
}

// openStore opens the knowledge base named by --db or the config.
func openStore(cmd *cobra.Command) (*knowledge.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = loadConfig().Knowledge.DatabasePath
	}
	return knowledge.NewStore(dbPath)
}

// authorityFromFlag parses the --authority flag, falling back to the
// configured default when the flag is empty.
func authorityFromFlag(cmd *cobra.Command) (types.AuthorityLevel, error) {
	name, _ := cmd.Flags().GetString("authority")
	if name == "" {
		name = loadConfig().Process.DefaultAuthority
	}
	return types.ParseAuthorityLevel(name)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
