// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the graph database",
	Long: `Store manages the local graph database that ingestion writes to.
Use "store init" to create or reset the schema and "store info" to report
node and edge counts.`,
}

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the graph schema, dropping any existing data",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Init(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("graph initialised")
		return nil
	},
}

var storeInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report graph node and edge counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("graph store unreachable: %w", err)
		}
		articles, authors, edges, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("articles:  %d\nauthors:   %d\nauthor_of: %d\n", articles, authors, edges)
		return nil
	},
}

func openStore(cmd *cobra.Command) (graph.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	return graph.Open(types.GraphConfig{
		Backend: viper.GetString("graph.backend"),
		Path:    dbPath,
	})
}

func init() {
	storeCmd.PersistentFlags().String("db", "", "graph database file (default data/graph/research-index.db)")
	storeCmd.AddCommand(storeInitCmd)
	storeCmd.AddCommand(storeInfoCmd)

	rootCmd.AddCommand(storeCmd)
}
