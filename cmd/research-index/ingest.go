// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/internal/ingest"
	"github.com/ccg-dev/research-index/internal/metadata"
	"github.com/ccg-dev/research-index/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "research-index/0.1"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [DOIs...]",
	Short: "Fetch metadata for DOIs and upsert them into the graph",
	Long: `Ingest takes DOIs (as arguments or from a file), validates their pattern,
skips those already in the graph, fetches metadata from OpenAIRE and OpenAlex,
and stores articles with deduplicated, rank-ordered authors. A metrics
summary is printed at the end and optionally written as a YAML report.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("file", "", "file with one DOI per line ('#' starts a comment)")
	ingestCmd.Flags().Int("limit", 0, "maximum number of DOIs to process (0 means all)")
	ingestCmd.Flags().Bool("update-metadata", false, "re-fetch metadata for DOIs already in the graph")
	ingestCmd.Flags().String("report", "", "write the metrics report YAML to this path")
	ingestCmd.Flags().Bool("initialise", false, "drop and recreate the graph schema before ingesting")
	ingestCmd.Flags().String("db", "", "graph database file (default data/graph/research-index.db)")
	ingestCmd.Flags().String("cache-dir", "data/cache", "directory for the HTTP response cache")
	ingestCmd.Flags().Duration("cache-ttl", 0, "cache freshness window (default 30m)")
	ingestCmd.Flags().String("audit-dir", "data/json", "directory for raw provider response dumps")
	ingestCmd.Flags().String("email", "", "contact email sent to OpenAlex")
	ingestCmd.Flags().Float64("rate", 0, "provider requests per second (default 2)")

	rootCmd.AddCommand(ingestCmd)
}

// readDOIFile loads newline-separated DOIs, skipping blank lines and
// '#' comments.
func readDOIFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOI file: %w", err)
	}
	defer f.Close()

	var dois []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dois = append(dois, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading DOI file: %w", err)
	}
	return dois, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	dois := args
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		fromFile, err := readDOIFile(file)
		if err != nil {
			return err
		}
		dois = append(dois, fromFile...)
	}
	if len(dois) == 0 {
		return fmt.Errorf("provide one or more DOIs as arguments or via --file")
	}

	timeout := viper.GetDuration("metadata.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
	auditDir, _ := cmd.Flags().GetString("audit-dir")
	email, _ := cmd.Flags().GetString("email")
	rate, _ := cmd.Flags().GetFloat64("rate")

	metaCfg := types.MetadataConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		CacheDir:          cacheDir,
		CacheTTL:          cacheTTL,
		AuditDir:          auditDir,
		Email:             secretDefault("openalex-email", email),
		Token:             secretDefault("openaire-token", ""),
		RefreshToken:      secretDefault("openaire-refresh-token", ""),
		RequestsPerSecond: rate,
	}

	dbPath, _ := cmd.Flags().GetString("db")
	store, err := graph.Open(types.GraphConfig{
		Backend: viper.GetString("graph.backend"),
		Path:    dbPath,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if initialise, _ := cmd.Flags().GetBool("initialise"); initialise {
		if err := store.Init(cmd.Context()); err != nil {
			return fmt.Errorf("initialising graph: %w", err)
		}
	}

	client := metadata.NewClient(metaCfg, logger)
	if err := client.RefreshAccessToken(cmd.Context()); err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	update, _ := cmd.Flags().GetBool("update-metadata")
	report, _ := cmd.Flags().GetString("report")

	runner := ingest.NewRunner(store, client, types.IngestConfig{
		Limit:          limit,
		UpdateMetadata: update,
		ReportPath:     report,
	}, types.NamesConfig{
		SimilarityThreshold:      viper.GetFloat64("names.similarity_threshold"),
		ORCIDSimilarityThreshold: viper.GetFloat64("names.orcid_similarity_threshold"),
	}, logger)

	// Per-DOI failures are part of the batch summary, not an error:
	// only unrecoverable setup problems exit non-zero.
	_, err = runner.Run(cmd.Context(), dois, os.Stdout)
	return err
}
