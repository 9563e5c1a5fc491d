// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-index CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the process-wide structured logger, built in the root
// command's PersistentPreRunE.
var logger *zap.Logger

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, the secret value for key
// otherwise, then the RESEARCH_INDEX_* environment via viper.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return viper.GetString(key)
}

// rootCmd is the base command for the research-index CLI.
var rootCmd = &cobra.Command{
	Use:   "research-index",
	Short: "Ingest DOIs into a property graph of articles and authors",
	Long: `research-index builds a research knowledge graph from DOIs. It validates
and normalizes submitted DOIs, fetches metadata from the OpenAIRE Graph and
OpenAlex, deduplicates authors across records, and stores articles, authors,
and authorship edges in a local graph store.

Each operation is a subcommand: ingest runs a batch of DOIs end to end, and
store manages the underlying graph database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; real deployments use the config
		// file or the environment.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		logPath, _ := cmd.Flags().GetString("log-file")
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, err = newLogger(logPath, verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger builds a production logger writing to logPath, or a
// development logger on stderr when logPath is empty.
func newLogger(logPath string, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if logPath == "" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-index.yaml or ~/.config/research-index/config.yaml)")
	rootCmd.PersistentFlags().String("log-file", "research-index.log", "structured log destination (empty logs to stderr)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-index")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-index"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_INDEX")
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
