// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

// Metrics summarizes an ingestion run. The DOI lists backing each count
// are included so a failed run can be audited programmatically.
type Metrics struct {
	SubmittedDOIs      int     `json:"submitted_dois" yaml:"submitted_dois"`
	ProcessedDOIs      int     `json:"processed_dois" yaml:"processed_dois"`
	NewDOIs            int     `json:"new_dois" yaml:"new_dois"`
	ExistingDOIs       int     `json:"existing_dois" yaml:"existing_dois"`
	IngestedDOIs       int     `json:"ingested_dois" yaml:"ingested_dois"`
	MetadataFailure    int     `json:"metadata_failure" yaml:"metadata_failure"`
	ValidPatternDOIs   int     `json:"valid_pattern_dois" yaml:"valid_pattern_dois"`
	InvalidPatternDOIs int     `json:"invalid_pattern_dois" yaml:"invalid_pattern_dois"`
	OpenAlexSuccess    int     `json:"openalex_success" yaml:"openalex_success"`
	OpenAIRESuccess    int     `json:"openaire_success" yaml:"openaire_success"`
	TotalTimeSeconds   float64 `json:"total_time_seconds" yaml:"total_time_seconds"`

	Lists MetricLists `json:"lists" yaml:"lists"`
}

// MetricLists holds the DOIs behind each Metrics count.
type MetricLists struct {
	New            []string `json:"new,omitempty" yaml:"new,omitempty"`
	Existing       []string `json:"existing,omitempty" yaml:"existing,omitempty"`
	Ingested       []string `json:"ingested,omitempty" yaml:"ingested,omitempty"`
	Failed         []string `json:"failed,omitempty" yaml:"failed,omitempty"`
	ValidPattern   []string `json:"valid_pattern,omitempty" yaml:"valid_pattern,omitempty"`
	InvalidPattern []string `json:"invalid_pattern,omitempty" yaml:"invalid_pattern,omitempty"`
}

// IngestionMetrics assembles the aggregate counts for the run. Without
// the update flag, DOIs that already exist in the store are skipped
// rather than re-fetched, so they do not count as metadata failures.
func (m *Manager) IngestionMetrics() Metrics {
	metrics := Metrics{
		SubmittedDOIs:      len(m.submitted),
		ProcessedDOIs:      len(m.order),
		NewDOIs:            m.numNew,
		ExistingDOIs:       m.numExisting,
		ValidPatternDOIs:   m.numValidPattern,
		InvalidPatternDOIs: m.numInvalidPattern,
		TotalTimeSeconds:   m.endTime.Sub(m.startTime).Seconds(),
	}

	for _, doi := range m.order {
		entry := m.tracker[doi]

		if entry.ValidPattern {
			metrics.Lists.ValidPattern = append(metrics.Lists.ValidPattern, doi)
		} else {
			metrics.Lists.InvalidPattern = append(metrics.Lists.InvalidPattern, doi)
		}
		if entry.AlreadyExists {
			metrics.Lists.Existing = append(metrics.Lists.Existing, doi)
		} else if entry.ValidPattern {
			metrics.Lists.New = append(metrics.Lists.New, doi)
		}
		if entry.IngestionSuccess {
			metrics.IngestedDOIs++
			metrics.Lists.Ingested = append(metrics.Lists.Ingested, doi)
		}
		if entry.OpenAlexMetadata {
			metrics.OpenAlexSuccess++
		}
		if entry.OpenAIREMetadata {
			metrics.OpenAIRESuccess++
		}

		if m.updateMetadata {
			if entry.ValidPattern && !entry.IngestionSuccess {
				metrics.MetadataFailure++
				metrics.Lists.Failed = append(metrics.Lists.Failed, doi)
			}
		} else if !entry.IngestionSuccess && !entry.AlreadyExists {
			metrics.MetadataFailure++
			metrics.Lists.Failed = append(metrics.Lists.Failed, doi)
		}
	}

	return metrics
}
