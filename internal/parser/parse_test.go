// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/pkg/types"
)

const datasetFixture = `{
	"mainTitle": "CCG Starter Data Kit: Liberia",
	"publisher": "Zenodo",
	"type": "dataset",
	"description": ["A starter data kit for Liberia"],
	"author": [{
		"fullName": "Allington, Lucy",
		"name": "Lucy",
		"surname": "Allington",
		"rank": 1,
		"pid": {"id": {"scheme": "orcid_pending", "value": "0000-0003-1801-899x"}}
	}],
	"instance": [{"type": "Dataset", "publicationDate": "2023-01-16"}]
}`

const publicationFixture = `{
	"mainTitle": "<jats:title>Modelling African energy futures</jats:title>",
	"publisher": "Elsevier",
	"type": "publication",
	"description": "An energy systems model of the African continent",
	"container": {"name": "<i>Energy Strategy Reviews</i>", "iss": "7", "vol": "142"},
	"author": {
		"name": "Will",
		"surname": "Usher",
		"rank": 1
	},
	"instance": [{"type": "Article", "publicationDate": "2022-03-05"}],
	"indicators": {"citationImpact": {"citationCount": 7}}
}`

func rawResults(t *testing.T, fixtures ...string) []json.RawMessage {
	t.Helper()
	raw := make([]json.RawMessage, len(fixtures))
	for i, f := range fixtures {
		raw[i] = json.RawMessage(f)
	}
	return raw
}

func TestParseMetadataDataset(t *testing.T) {
	records, err := ParseMetadata(rawResults(t, datasetFixture), "10.5281/zenodo.4650794", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.DOI != "10.5281/zenodo.4650794" {
		t.Errorf("DOI = %q", rec.DOI)
	}
	if rec.Title != "CCG Starter Data Kit: Liberia" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Abstract != "A starter data kit for Liberia" {
		t.Errorf("Abstract = %q", rec.Abstract)
	}
	if rec.ResultType != "dataset" || rec.ResourceType != "Dataset" {
		t.Errorf("types = (%q, %q)", rec.ResultType, rec.ResourceType)
	}
	// Journal fields only exist for publications.
	if rec.Journal != "" || rec.Issue != "" || rec.Volume != "" {
		t.Errorf("journal fields = (%q, %q, %q), want empty", rec.Journal, rec.Issue, rec.Volume)
	}
	if rec.PublicationYear != 2023 || rec.PublicationMonth != 1 || rec.PublicationDay != 16 {
		t.Errorf("date = %d-%d-%d", rec.PublicationYear, rec.PublicationMonth, rec.PublicationDay)
	}
	if rec.Publisher != "Zenodo" {
		t.Errorf("Publisher = %q", rec.Publisher)
	}
	if rec.CitedByCount != 0 {
		t.Errorf("CitedByCount = %d, want 0", rec.CitedByCount)
	}
	if rec.CitedByCountDate.IsZero() {
		t.Error("CitedByCountDate not set")
	}

	if len(rec.Authors) != 1 {
		t.Fatalf("got %d authors, want 1", len(rec.Authors))
	}
	author := rec.Authors[0]
	if author.FirstName != "Lucy" || author.LastName != "Allington" {
		t.Errorf("author = (%q, %q)", author.FirstName, author.LastName)
	}
	if author.ORCID != "https://orcid.org/0000-0003-1801-899x" {
		t.Errorf("author ORCID = %q", author.ORCID)
	}
	if author.Rank != 1 {
		t.Errorf("author rank = %d", author.Rank)
	}
}

func TestParseMetadataPublication(t *testing.T) {
	alex := &types.OpenAlexWork{ID: "https://openalex.org/W2741809807", CitedByCount: 42}

	records, err := ParseMetadata(rawResults(t, publicationFixture), "10.1016/j.esr.2022.100001", alex, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Title != "Modelling African energy futures" {
		t.Errorf("Title = %q, want HTML stripped", rec.Title)
	}
	if rec.Journal != "Energy Strategy Reviews" || rec.Issue != "7" || rec.Volume != "142" {
		t.Errorf("journal fields = (%q, %q, %q)", rec.Journal, rec.Issue, rec.Volume)
	}
	if rec.ResourceType != "Article" {
		t.Errorf("ResourceType = %q", rec.ResourceType)
	}
	// Secondary provider metadata wins over OpenAIRE indicators.
	if rec.CitedByCount != 42 {
		t.Errorf("CitedByCount = %d, want 42", rec.CitedByCount)
	}
	if rec.OpenAlexID != "https://openalex.org/W2741809807" {
		t.Errorf("OpenAlexID = %q", rec.OpenAlexID)
	}
	// Single author object rather than array still parses.
	if len(rec.Authors) != 1 || rec.Authors[0].LastName != "Usher" {
		t.Errorf("Authors = %+v", rec.Authors)
	}
}

func TestParseMetadataCitationFallback(t *testing.T) {
	// Without secondary provider metadata the OpenAIRE citation
	// indicator is used.
	records, err := ParseMetadata(rawResults(t, publicationFixture), "10.1016/j.esr.2022.100001", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if records[0].CitedByCount != 7 {
		t.Errorf("CitedByCount = %d, want 7", records[0].CitedByCount)
	}
}

func TestParseMetadataUnknownResultType(t *testing.T) {
	fixture := `{"mainTitle": "A patent", "type": "patent", "publicationDate": "2020-01-01"}`

	_, err := ParseMetadata(rawResults(t, fixture), "10.1234/example", nil, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown result type")
	}
	if !strings.Contains(err.Error(), "unknown result type") {
		t.Errorf("error = %v", err)
	}
}

func TestParseMetadataUnknownResourceType(t *testing.T) {
	fixture := `{
		"mainTitle": "A thesis",
		"type": "publication",
		"instance": [{"type": "Thesis", "publicationDate": "2020-01-01"}]
	}`

	_, err := ParseMetadata(rawResults(t, fixture), "10.1234/example", nil, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown resource type")
	}
	if !strings.Contains(err.Error(), "unknown resource type") {
		t.Errorf("error = %v", err)
	}
}

func TestParseMetadataDateFallback(t *testing.T) {
	// Instance without a date falls back to the product-level date.
	fixture := `{
		"mainTitle": "A kit",
		"type": "other",
		"publicationDate": "2021-06-01",
		"instance": [{"type": "Other"}]
	}`

	records, err := ParseMetadata(rawResults(t, fixture), "10.5281/zenodo.1", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	rec := records[0]
	if rec.PublicationYear != 2021 || rec.PublicationMonth != 6 || rec.PublicationDay != 1 {
		t.Errorf("date = %d-%d-%d", rec.PublicationYear, rec.PublicationMonth, rec.PublicationDay)
	}
}

func TestParseMetadataBadDate(t *testing.T) {
	fixture := `{"mainTitle": "No date", "type": "other", "publicationDate": "sometime"}`

	_, err := ParseMetadata(rawResults(t, fixture), "10.5281/zenodo.1", nil, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestParseMetadataDroppedAuthor(t *testing.T) {
	// Authors without a usable name are skipped, not an error.
	fixture := `{
		"mainTitle": "A kit",
		"type": "other",
		"publicationDate": "2021-06-01",
		"author": [
			{"fullName": "not a name"},
			{"name": "Lucy", "surname": "Allington", "rank": 2}
		]
	}`

	records, err := ParseMetadata(rawResults(t, fixture), "10.5281/zenodo.1", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if len(records[0].Authors) != 1 {
		t.Fatalf("got %d authors, want 1", len(records[0].Authors))
	}
	if records[0].Authors[0].LastName != "Allington" {
		t.Errorf("kept author = %+v", records[0].Authors[0])
	}
}
