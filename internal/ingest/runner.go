// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/internal/doi"
	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/internal/parser"
	"github.com/ccg-dev/research-index/pkg/types"
)

// Fetcher is the slice of the metadata client the runner needs.
type Fetcher interface {
	FetchOpenAIRE(ctx context.Context, doi string) ([]json.RawMessage, error)
	FetchOpenAlex(ctx context.Context, doi string) (*types.OpenAlexWork, error)
}

// Runner drives an ingestion batch end to end.
type Runner struct {
	store graph.Store
	fetch Fetcher
	cfg   types.IngestConfig
	names types.NamesConfig
	log   *zap.Logger
}

// NewRunner wires a runner from its stage dependencies.
func NewRunner(store graph.Store, fetch Fetcher, cfg types.IngestConfig, namesCfg types.NamesConfig, log *zap.Logger) *Runner {
	return &Runner{store: store, fetch: fetch, cfg: cfg, names: namesCfg, log: log}
}

// Run ingests a batch of raw DOIs, printing per-DOI progress to w, and
// returns the run metrics. A DOI whose fetch or store step fails is
// recorded as a failure and the batch moves on; a metadata parse
// failure aborts the batch because it means the provider mapping itself
// is broken.
func (r *Runner) Run(ctx context.Context, rawDOIs []string, w io.Writer) (doi.Metrics, error) {
	limit := r.cfg.Limit
	if limit <= 0 {
		limit = len(rawDOIs)
	}

	manager, err := doi.NewManager(rawDOIs, limit, r.cfg.UpdateMetadata, r.log)
	if err != nil {
		return doi.Metrics{}, err
	}

	manager.StartIngestion()
	if err := manager.ValidateDOIs(ctx, r.store); err != nil {
		return doi.Metrics{}, err
	}

	for _, entry := range manager.Tracked() {
		if !entry.ValidPattern {
			fmt.Fprintf(w, "skipped: %s (invalid DOI pattern)\n", entry.DOI)
			continue
		}
		if entry.AlreadyExists && !manager.UpdateMetadata() {
			fmt.Fprintf(w, "skipped: %s (already in graph)\n", entry.DOI)
			continue
		}

		if err := r.ingestOne(ctx, entry); err != nil {
			return doi.Metrics{}, err
		}
		if entry.IngestionSuccess {
			fmt.Fprintf(w, "ingested: %s\n", entry.DOI)
		} else {
			fmt.Fprintf(w, "failed:  %s\n", entry.DOI)
		}
	}

	manager.EndIngestion()
	metrics := manager.IngestionMetrics()

	fmt.Fprintf(w, "\nBatch summary: %d ingested, %d existing, %d failed, %d invalid (total: %d)\n",
		metrics.IngestedDOIs, metrics.ExistingDOIs, metrics.MetadataFailure,
		metrics.InvalidPatternDOIs, metrics.ProcessedDOIs)

	if r.cfg.ReportPath != "" {
		if err := WriteReport(r.cfg.ReportPath, metrics); err != nil {
			return metrics, err
		}
	}
	return metrics, nil
}

// ingestOne fetches, parses, and stores a single DOI. Fetch and store
// failures are logged and leave the entry unsuccessful; only parse
// failures propagate.
func (r *Runner) ingestOne(ctx context.Context, entry *types.TrackedDOI) error {
	openalex, err := r.fetch.FetchOpenAlex(ctx, entry.DOI)
	if err != nil {
		r.log.Warn("OpenAlex fetch failed", zap.String("doi", entry.DOI), zap.Error(err))
		openalex = nil
	} else {
		entry.OpenAlexMetadata = true
	}

	results, err := r.fetch.FetchOpenAIRE(ctx, entry.DOI)
	if err != nil {
		r.log.Warn("OpenAIRE fetch failed", zap.String("doi", entry.DOI), zap.Error(err))
		return nil
	}
	entry.OpenAIREMetadata = true

	records, err := parser.ParseMetadata(results, entry.DOI, openalex, r.log)
	if err != nil {
		return fmt.Errorf("parsing metadata for %s: %w", entry.DOI, err)
	}

	for i := range records {
		if _, _, err := UpsertArticle(ctx, r.store, &records[i], r.names, r.log); err != nil {
			r.log.Error("storing article failed", zap.String("doi", entry.DOI), zap.Error(err))
			return nil
		}
	}

	entry.IngestionSuccess = true
	return nil
}
