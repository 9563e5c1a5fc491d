// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared record and configuration types used
// across the ingestion pipeline.
package types

import "time"

// TrackedDOI follows one DOI through the stages of an ingestion run:
// pattern check, existence check, metadata fetch, and ingestion.
// It is created at batch start and discarded after metrics are reported.
type TrackedDOI struct {
	// Raw is the DOI string as supplied in the input list.
	Raw string `json:"raw" yaml:"raw"`

	// DOI is the normalized form: trimmed, resolver prefixes and a
	// trailing period stripped.
	DOI string `json:"doi" yaml:"doi"`

	ValidPattern     bool `json:"valid_pattern" yaml:"valid_pattern"`
	AlreadyExists    bool `json:"already_exists" yaml:"already_exists"`
	OpenAlexMetadata bool `json:"openalex_metadata" yaml:"openalex_metadata"`
	OpenAIREMetadata bool `json:"openaire_metadata" yaml:"openaire_metadata"`
	IngestionSuccess bool `json:"ingestion_success" yaml:"ingestion_success"`
}

// AnonymousAuthor is an unresolved author reference produced by the
// metadata parser. It carries no graph identity; the resolver decides
// whether it refers to an existing Author node or a new one.
type AnonymousAuthor struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`

	// ORCID in canonical URI form (https://orcid.org/<id>), or empty.
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`

	// Rank is the author's 1-based position in the citation author list.
	Rank int `json:"rank" yaml:"rank"`
}

// ArticleRecord is a normalized research output assembled from provider
// metadata, ready for upserting into the graph.
type ArticleRecord struct {
	DOI      string `json:"doi" yaml:"doi"`
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`

	Authors []AnonymousAuthor `json:"authors" yaml:"authors"`

	// Journal, Issue, and Volume are set only for publications.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Issue   string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Volume  string `json:"volume,omitempty" yaml:"volume,omitempty"`

	PublicationYear  int `json:"publication_year" yaml:"publication_year"`
	PublicationMonth int `json:"publication_month" yaml:"publication_month"`
	PublicationDay   int `json:"publication_day" yaml:"publication_day"`

	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	ResultType   string `json:"result_type" yaml:"result_type"`
	ResourceType string `json:"resource_type,omitempty" yaml:"resource_type,omitempty"`

	// OpenAlexID is the OpenAlex work identifier when the secondary
	// provider returned one.
	OpenAlexID string `json:"openalex,omitempty" yaml:"openalex,omitempty"`

	CitedByCount     int       `json:"cited_by_count" yaml:"cited_by_count"`
	CitedByCountDate time.Time `json:"cited_by_count_date" yaml:"cited_by_count_date"`
}

// AuthorNode is a persisted Author read back from the graph store.
type AuthorNode struct {
	UUID      string `json:"uuid" yaml:"uuid"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	ORCID     string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	OpenAlex  string `json:"openalex,omitempty" yaml:"openalex,omitempty"`
}

// ArticleNode is a persisted Article read back from the graph store.
type ArticleNode struct {
	UUID string `json:"uuid" yaml:"uuid"`
	DOI  string `json:"doi" yaml:"doi"`
}

// OpenAlexWork captures the fields we use from an OpenAlex work record.
type OpenAlexWork struct {
	ID           string `json:"id"`
	DOI          string `json:"doi"`
	Title        string `json:"title"`
	CitedByCount int    `json:"cited_by_count"`
}
