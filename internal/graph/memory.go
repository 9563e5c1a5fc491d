// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ccg-dev/research-index/pkg/types"
)

type edgeKey struct {
	authorUUID  string
	articleUUID string
}

// MemoryStore keeps the graph in process memory. It backs tests and
// dry runs where nothing should touch disk.
type MemoryStore struct {
	mu       sync.Mutex
	articles map[string]*types.ArticleNode // keyed by DOI
	records  map[string]*types.ArticleRecord
	authors  map[string]*types.AuthorNode // keyed by UUID
	edges    map[edgeKey]int
}

// NewMemoryStore returns an empty in-memory graph.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.articles = make(map[string]*types.ArticleNode)
	s.records = make(map[string]*types.ArticleRecord)
	s.authors = make(map[string]*types.AuthorNode)
	s.edges = make(map[edgeKey]int)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *MemoryStore) ExistingDOIs(_ context.Context, dois []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make(map[string]bool)
	for _, doi := range dois {
		if _, ok := s.articles[doi]; ok {
			existing[doi] = true
		}
	}
	return existing, nil
}

func (s *MemoryStore) ArticleByDOI(_ context.Context, doi string) (*types.ArticleNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.articles[doi]
	if !ok {
		return nil, nil
	}
	copied := *node
	return &copied, nil
}

func (s *MemoryStore) CreateArticle(_ context.Context, node *types.ArticleNode, record *types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[node.DOI]; ok {
		return fmt.Errorf("inserting article %s: %w", node.DOI, ErrConstraint)
	}
	copied := *node
	recCopy := *record
	s.articles[node.DOI] = &copied
	s.records[node.DOI] = &recCopy
	return nil
}

// Record returns the stored article record for a DOI, or nil. Tests
// use it to inspect what ingestion wrote.
func (s *MemoryStore) Record(doi string) *types.ArticleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[doi]
}

func (s *MemoryStore) AuthorByORCID(_ context.Context, orcid string) (*types.AuthorNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orcid == "" {
		return nil, nil
	}
	for _, node := range s.authors {
		if node.ORCID == orcid {
			copied := *node
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AuthorByInitialAndLastName(_ context.Context, firstInitial, lastName string) (*types.AuthorNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, node := range s.authors {
		if strings.EqualFold(node.LastName, lastName) &&
			sameInitial(node.FirstName, firstInitial) {
			copied := *node
			return &copied, nil
		}
	}
	return nil, nil
}

// sameInitial compares the first rune of two names case-insensitively.
// Byte-wise comparison would falsely match multi-byte initials that
// share a UTF-8 lead byte.
func sameInitial(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	return unicode.ToLower(ra) == unicode.ToLower(rb)
}

func (s *MemoryStore) CreateAuthor(_ context.Context, node *types.AuthorNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node.ORCID != "" {
		for _, existing := range s.authors {
			if existing.ORCID == node.ORCID {
				return fmt.Errorf("inserting author %s %s: %w",
					node.FirstName, node.LastName, ErrConstraint)
			}
		}
	}
	copied := *node
	s.authors[node.UUID] = &copied
	return nil
}

func (s *MemoryStore) CreateAuthorOf(_ context.Context, authorUUID, articleUUID string, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edgeKey{authorUUID: authorUUID, articleUUID: articleUUID}
	if _, ok := s.edges[key]; ok {
		return nil
	}
	s.edges[key] = rank
	return nil
}

// Rank returns the stored authorship rank for an author/article pair
// and whether the edge exists. Tests use it to inspect link order.
func (s *MemoryStore) Rank(authorUUID, articleUUID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rank, ok := s.edges[edgeKey{authorUUID: authorUUID, articleUUID: articleUUID}]
	return rank, ok
}

func (s *MemoryStore) Counts(context.Context) (articles, authors, edges int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles), len(s.authors), len(s.edges), nil
}
