// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/pkg/types"
)

// ExistenceChecker is the slice of the graph store the Manager needs:
// a single batched lookup of which DOIs already have an Article node.
type ExistenceChecker interface {
	ExistingDOIs(ctx context.Context, dois []string) (map[string]bool, error)
}

// Manager tracks a batch of DOIs through pattern check, existence
// check, metadata fetch, and ingestion, and reports aggregate metrics
// at the end of the run. It owns per-run state only; persisted entity
// state belongs to the graph store.
type Manager struct {
	submitted      []string
	limit          int
	updateMetadata bool

	// order preserves input order; tracker is keyed by normalized DOI.
	order   []string
	tracker map[string]*types.TrackedDOI

	numValidPattern   int
	numInvalidPattern int
	numExisting       int
	numNew            int

	startTime time.Time
	endTime   time.Time

	log *zap.Logger
}

// NewManager normalizes the raw DOI list and builds the tracker for the
// first limit entries. The list must be non-empty and the limit
// positive; a limit beyond the list length is capped to it. Duplicate
// DOIs collapse into a single tracked entry.
func NewManager(rawDOIs []string, limit int, updateMetadata bool, log *zap.Logger) (*Manager, error) {
	if len(rawDOIs) == 0 {
		return nil, fmt.Errorf("DOI list cannot be empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit > len(rawDOIs) {
		limit = len(rawDOIs)
	}

	m := &Manager{
		submitted:      make([]string, 0, len(rawDOIs)),
		limit:          limit,
		updateMetadata: updateMetadata,
		tracker:        make(map[string]*types.TrackedDOI, limit),
		log:            log,
	}

	for _, raw := range rawDOIs {
		m.submitted = append(m.submitted, Normalize(raw))
	}
	for i := 0; i < limit; i++ {
		normalized := m.submitted[i]
		if _, ok := m.tracker[normalized]; ok {
			continue
		}
		m.order = append(m.order, normalized)
		m.tracker[normalized] = &types.TrackedDOI{Raw: rawDOIs[i], DOI: normalized}
	}

	return m, nil
}

// StartIngestion marks the beginning of the run for wall-clock metrics.
func (m *Manager) StartIngestion() { m.startTime = time.Now() }

// EndIngestion marks the end of the run.
func (m *Manager) EndIngestion() { m.endTime = time.Now() }

// UpdateMetadata reports whether existing DOIs should be re-fetched.
func (m *Manager) UpdateMetadata() bool { return m.updateMetadata }

// Tracked returns the tracked DOIs in input order.
func (m *Manager) Tracked() []*types.TrackedDOI {
	out := make([]*types.TrackedDOI, len(m.order))
	for i, doi := range m.order {
		out[i] = m.tracker[doi]
	}
	return out
}

// Get returns the tracked entry for a normalized DOI, or nil.
func (m *Manager) Get(doi string) *types.TrackedDOI {
	return m.tracker[doi]
}

// PatternCheck validates every tracked DOI against the DOI pattern.
func (m *Manager) PatternCheck() {
	for _, doi := range m.order {
		entry := m.tracker[doi]
		if ValidPattern(doi) {
			m.log.Debug("valid DOI pattern", zap.String("doi", doi))
			entry.ValidPattern = true
		} else {
			m.log.Warn("invalid DOI pattern", zap.String("doi", doi))
		}
	}
}

// CheckExistence runs a single batched query against the store for all
// pattern-valid DOIs and marks those that already have an Article node.
// It fails when no DOI passed the pattern check.
func (m *Manager) CheckExistence(ctx context.Context, store ExistenceChecker) error {
	var valid []string
	for _, doi := range m.order {
		if m.tracker[doi].ValidPattern {
			valid = append(valid, doi)
		}
	}

	m.numValidPattern = len(valid)
	m.numInvalidPattern = len(m.order) - m.numValidPattern

	if len(valid) == 0 {
		return fmt.Errorf("no DOIs have passed the pattern check")
	}

	existing, err := store.ExistingDOIs(ctx, valid)
	if err != nil {
		return fmt.Errorf("searching for existing DOIs: %w", err)
	}

	for doi, exists := range existing {
		if entry, ok := m.tracker[doi]; ok && exists {
			entry.AlreadyExists = true
		}
	}

	m.numExisting = 0
	for _, doi := range valid {
		if m.tracker[doi].AlreadyExists {
			m.numExisting++
		}
	}
	m.numNew = m.numValidPattern - m.numExisting

	return nil
}

// ValidateDOIs runs the pattern check followed by the existence check.
func (m *Manager) ValidateDOIs(ctx context.Context, store ExistenceChecker) error {
	m.PatternCheck()
	if err := m.CheckExistence(ctx, store); err != nil {
		m.log.Error("DOI validation failed", zap.Error(err))
		return err
	}
	return nil
}
