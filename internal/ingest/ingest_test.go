// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/pkg/types"
)

// stubFetcher serves canned provider responses keyed by DOI.
type stubFetcher struct {
	openaire map[string][]json.RawMessage
	openalex map[string]*types.OpenAlexWork
	fail     map[string]error
}

func (f *stubFetcher) FetchOpenAIRE(_ context.Context, doi string) ([]json.RawMessage, error) {
	if err, ok := f.fail[doi]; ok {
		return nil, err
	}
	results, ok := f.openaire[doi]
	if !ok {
		return nil, fmt.Errorf("no canned OpenAIRE response for %s", doi)
	}
	return results, nil
}

func (f *stubFetcher) FetchOpenAlex(_ context.Context, doi string) (*types.OpenAlexWork, error) {
	work, ok := f.openalex[doi]
	if !ok {
		return nil, fmt.Errorf("no canned OpenAlex response for %s", doi)
	}
	return work, nil
}

// datasetResult builds a minimal OpenAIRE dataset record for a DOI.
func datasetResult(title string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"mainTitle": %q,
		"type": "dataset",
		"publicationDate": "2021-03-31",
		"author": [
			{"name": "Will", "surname": "Usher", "rank": 1,
			 "pid": {"id": {"scheme": "orcid", "value": "0000-0003-2066-3456"}}},
			{"name": "Carla", "surname": "Cannone", "rank": 2}
		]
	}`, title))
}

func newStubFetcher(dois ...string) *stubFetcher {
	f := &stubFetcher{
		openaire: make(map[string][]json.RawMessage),
		openalex: make(map[string]*types.OpenAlexWork),
		fail:     make(map[string]error),
	}
	for i, doi := range dois {
		f.openaire[doi] = []json.RawMessage{datasetResult(fmt.Sprintf("Dataset %d", i+1))}
		f.openalex[doi] = &types.OpenAlexWork{
			ID:           fmt.Sprintf("https://openalex.org/W%d", i+1),
			CitedByCount: 10 * (i + 1),
		}
	}
	return f
}

func TestResolveAuthorByORCID(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	orcid := "https://orcid.org/0000-0003-2066-3456"

	existing := &types.AuthorNode{UUID: "author-1", FirstName: "Will", LastName: "Usher", ORCID: orcid}
	require.NoError(t, store.CreateAuthor(ctx, existing))

	incoming := &types.AnonymousAuthor{FirstName: "William", LastName: "Usher", ORCID: orcid, Rank: 1}
	node, err := ResolveAuthor(ctx, store, incoming, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "author-1", node.UUID)
}

func TestResolveAuthorORCIDNameMismatch(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	orcid := "https://orcid.org/0000-0003-2066-3456"

	existing := &types.AuthorNode{UUID: "author-1", FirstName: "Xiomara", LastName: "Quetzal", ORCID: orcid}
	require.NoError(t, store.CreateAuthor(ctx, existing))

	// Same ORCID, unrelated name: the stored node must not be reused,
	// and the new node must not claim the contested ORCID.
	incoming := &types.AnonymousAuthor{FirstName: "Will", LastName: "Usher", ORCID: orcid, Rank: 1}
	node, err := ResolveAuthor(ctx, store, incoming, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.NotEqual(t, "author-1", node.UUID)
	require.Empty(t, node.ORCID)
}

func TestResolveAuthorORCIDScoreBelowThreshold(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	orcid := "https://orcid.org/0000-0003-2066-3456"

	// "Abcd Wxyz" vs "Cd Wxqqqqq": the direct ratio is 0.526, but the
	// reversed ratio is 0.211, so the similarity score is their mean,
	// 0.368. A raw ratio above the ORCID threshold must not count as a
	// plausible name when the score itself falls below it.
	existing := &types.AuthorNode{UUID: "author-1", FirstName: "Cd", LastName: "Wxqqqqq", ORCID: orcid}
	require.NoError(t, store.CreateAuthor(ctx, existing))

	incoming := &types.AnonymousAuthor{FirstName: "Abcd", LastName: "Wxyz", ORCID: orcid, Rank: 1}
	node, err := ResolveAuthor(ctx, store, incoming, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.NotEqual(t, "author-1", node.UUID)
	require.Empty(t, node.ORCID)
}

func TestResolveAuthorByInitialAndLastName(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()

	existing := &types.AuthorNode{UUID: "author-1", FirstName: "William", LastName: "Usher"}
	require.NoError(t, store.CreateAuthor(ctx, existing))

	incoming := &types.AnonymousAuthor{FirstName: "Will", LastName: "Usher", Rank: 1}
	node, err := ResolveAuthor(ctx, store, incoming, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "author-1", node.UUID)
}

func TestResolveAuthorCreates(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()

	incoming := &types.AnonymousAuthor{
		FirstName: "Carla", LastName: "Cannone",
		ORCID: "https://orcid.org/0000-0002-6867-4184", Rank: 2,
	}
	node, err := ResolveAuthor(ctx, store, incoming, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.NotEmpty(t, node.UUID)
	require.Equal(t, "Carla", node.FirstName)
	require.Equal(t, incoming.ORCID, node.ORCID)

	_, authors, _, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, authors)
}

func TestUpsertArticle(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	record := &types.ArticleRecord{
		DOI:   "10.5281/zenodo.4650794",
		Title: "CCG Starter Data Kit: Liberia",
		Authors: []types.AnonymousAuthor{
			{FirstName: "Will", LastName: "Usher", Rank: 1},
			{FirstName: "Carla", LastName: "Cannone", Rank: 2},
		},
	}

	node, existed, err := UpsertArticle(ctx, store, record, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.False(t, existed)
	require.NotEmpty(t, node.UUID)

	articles, authors, edges, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, articles)
	require.Equal(t, 2, authors)
	require.Equal(t, 2, edges)

	// Re-upserting the same record reuses every node and edge.
	again, existed, err := UpsertArticle(ctx, store, record, types.NamesConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, node.UUID, again.UUID)

	articles, authors, edges, err = store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, articles)
	require.Equal(t, 2, authors)
	require.Equal(t, 2, edges)
}

func TestRunnerIngestsBatch(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	dois := []string{"10.5281/zenodo.4650794", "10.5281/zenodo.4650795"}
	fetch := newStubFetcher(dois...)

	runner := NewRunner(store, fetch, types.IngestConfig{}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	metrics, err := runner.Run(ctx, dois, &out)
	require.NoError(t, err)

	require.Equal(t, 2, metrics.IngestedDOIs)
	require.Equal(t, 2, metrics.OpenAIRESuccess)
	require.Equal(t, 2, metrics.OpenAlexSuccess)
	require.Zero(t, metrics.MetadataFailure)

	articles, authors, edges, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, articles)
	// Both datasets share the same two authors.
	require.Equal(t, 2, authors)
	require.Equal(t, 4, edges)

	// OpenAlex citation counts flow into the stored records.
	record := store.Record(dois[0])
	require.NotNil(t, record)
	require.Equal(t, 10, record.CitedByCount)
	require.Equal(t, "https://openalex.org/W1", record.OpenAlexID)

	require.Contains(t, out.String(), "ingested: "+dois[0])
	require.Contains(t, out.String(), "Batch summary: 2 ingested")
}

func TestRunnerContinuesAfterFetchFailure(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	dois := []string{
		"10.5281/zenodo.1",
		"10.5281/zenodo.2",
		"10.5281/zenodo.3",
	}
	fetch := newStubFetcher(dois...)
	fetch.fail[dois[1]] = fmt.Errorf("provider outage")

	runner := NewRunner(store, fetch, types.IngestConfig{}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	metrics, err := runner.Run(ctx, dois, &out)
	require.NoError(t, err)

	require.Equal(t, 2, metrics.IngestedDOIs)
	require.Equal(t, 1, metrics.MetadataFailure)
	require.Equal(t, []string{dois[1]}, metrics.Lists.Failed)
	require.ElementsMatch(t, []string{dois[0], dois[2]}, metrics.Lists.Ingested)
	require.Contains(t, out.String(), "failed:  "+dois[1])
	// The failure is reported through the summary, not the error path.
	require.Contains(t, out.String(), "Batch summary: 2 ingested, 0 existing, 1 failed")
}

func TestRunnerSkipsInvalidAndExisting(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	known := "10.5281/zenodo.4650794"
	require.NoError(t, store.CreateArticle(ctx,
		&types.ArticleNode{UUID: "article-1", DOI: known},
		&types.ArticleRecord{DOI: known}))

	dois := []string{known, "not-a-doi", "10.5281/zenodo.4650795"}
	fetch := newStubFetcher(dois[2])

	runner := NewRunner(store, fetch, types.IngestConfig{}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	metrics, err := runner.Run(ctx, dois, &out)
	require.NoError(t, err)

	require.Equal(t, 1, metrics.IngestedDOIs)
	require.Equal(t, 1, metrics.ExistingDOIs)
	require.Equal(t, 1, metrics.InvalidPatternDOIs)
	require.Contains(t, out.String(), "skipped: "+known+" (already in graph)")
	require.Contains(t, out.String(), "skipped: not-a-doi (invalid DOI pattern)")

	// The pre-existing article was not refetched.
	articles, _, _, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, articles)
}

func TestRunnerUpdateMetadataRefetches(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	known := "10.5281/zenodo.4650794"
	require.NoError(t, store.CreateArticle(ctx,
		&types.ArticleNode{UUID: "article-1", DOI: known},
		&types.ArticleRecord{DOI: known, Title: "original title"}))

	fetch := newStubFetcher(known)
	runner := NewRunner(store, fetch,
		types.IngestConfig{UpdateMetadata: true}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	metrics, err := runner.Run(ctx, []string{known}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, metrics.IngestedDOIs)

	// Articles are create-only: refetching links authors but leaves
	// the stored record untouched.
	require.Equal(t, "original title", store.Record(known).Title)
	_, authors, edges, err := store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, authors)
	require.Equal(t, 2, edges)
}

func TestRunnerLimitsBatch(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	dois := []string{"10.5281/zenodo.1", "10.5281/zenodo.2", "10.5281/zenodo.3"}
	fetch := newStubFetcher(dois...)

	runner := NewRunner(store, fetch, types.IngestConfig{Limit: 2}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	metrics, err := runner.Run(ctx, dois, &out)
	require.NoError(t, err)
	require.Equal(t, 3, metrics.SubmittedDOIs)
	require.Equal(t, 2, metrics.ProcessedDOIs)
	require.Equal(t, 2, metrics.IngestedDOIs)
}

func TestRunnerWritesReport(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	doi := "10.5281/zenodo.4650794"
	fetch := newStubFetcher(doi)
	reportPath := filepath.Join(t.TempDir(), "reports", "run.yaml")

	runner := NewRunner(store, fetch,
		types.IngestConfig{ReportPath: reportPath}, types.NamesConfig{}, zap.NewNop())

	var out bytes.Buffer
	_, err := runner.Run(ctx, []string{doi}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "ingested_dois: 1"))
	require.True(t, strings.Contains(string(data), doi))
}
