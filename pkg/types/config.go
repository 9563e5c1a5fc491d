// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-index/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MetadataConfig holds settings for the metadata fetch stage.
type MetadataConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheDir is the directory for the on-disk HTTP response cache.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// CacheTTL is how long cached provider responses stay fresh (default 30m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// AuditDir is the base directory for raw provider response dumps.
	// Responses land in AuditDir/<provider>/<doi>.json with slashes
	// removed from the DOI.
	AuditDir string `json:"audit_dir" yaml:"audit_dir"`

	// Email is sent as the mailto parameter to OpenAlex for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Token is the OpenAIRE bearer token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// RefreshToken, when set, is exchanged for a fresh access token at
	// startup instead of using Token directly.
	RefreshToken string `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`

	// RequestsPerSecond caps the provider request rate (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// GraphConfig holds settings for the graph store.
type GraphConfig struct {
	// Backend selects the store implementation: sqlite or memory.
	Backend string `json:"backend" yaml:"backend"`

	// Path is the SQLite database file (default data/graph/research-index.db).
	Path string `json:"path" yaml:"path"`
}

// IngestConfig holds settings for a DOI ingestion run.
type IngestConfig struct {
	// Limit caps the number of DOIs processed from the input list.
	// Zero means the whole list.
	Limit int `json:"limit" yaml:"limit"`

	// UpdateMetadata re-fetches metadata for DOIs that already exist in
	// the store. Existing Article nodes are not modified.
	UpdateMetadata bool `json:"update_metadata" yaml:"update_metadata"`

	// ReportPath is where the metrics report YAML is written after a run.
	// Empty disables the report file.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// NamesConfig holds thresholds for author name matching.
type NamesConfig struct {
	// SimilarityThreshold is the ratio above which two names are
	// considered the same (default 0.8).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// ORCIDSimilarityThreshold is the looser ratio used to sanity-check
	// a stored name against an incoming name when an ORCID matched
	// (default 0.4).
	ORCIDSimilarityThreshold float64 `json:"orcid_similarity_threshold" yaml:"orcid_similarity_threshold"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Metadata MetadataConfig `json:"metadata" yaml:"metadata"`
	Graph    GraphConfig    `json:"graph" yaml:"graph"`
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Names    NamesConfig    `json:"names" yaml:"names"`
}
