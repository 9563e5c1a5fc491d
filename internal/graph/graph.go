// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph persists the property graph of articles, authors, and
// authorship edges that DOI ingestion builds up. Two backends implement
// the Store interface: a SQLite store for durable single-node use and
// an in-memory store for tests.
package graph

import (
	"context"
	"errors"

	"github.com/ccg-dev/research-index/pkg/types"
)

// ErrConstraint reports that a write collided with a uniqueness
// constraint, which for this graph means the article DOI or author
// ORCID already exists.
var ErrConstraint = errors.New("graph: uniqueness constraint violated")

// Store is the property-graph persistence contract. Lookup methods
// return a nil node (and nil error) when nothing matches.
type Store interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Init drops all graph data and recreates an empty schema.
	Init(ctx context.Context) error

	// ExistingDOIs reports which of the given DOIs already have an
	// article node, as a set keyed by DOI.
	ExistingDOIs(ctx context.Context, dois []string) (map[string]bool, error)

	// ArticleByDOI returns the article node for a DOI, or nil.
	ArticleByDOI(ctx context.Context, doi string) (*types.ArticleNode, error)

	// CreateArticle stores a new article node carrying the parsed
	// record. A DOI collision returns ErrConstraint.
	CreateArticle(ctx context.Context, node *types.ArticleNode, record *types.ArticleRecord) error

	// AuthorByORCID returns the author node registered under a
	// canonical ORCID URI, or nil.
	AuthorByORCID(ctx context.Context, orcid string) (*types.AuthorNode, error)

	// AuthorByInitialAndLastName returns an author whose last name
	// matches exactly and whose first name starts with the same
	// initial, or nil. Matching is case-insensitive.
	AuthorByInitialAndLastName(ctx context.Context, firstInitial, lastName string) (*types.AuthorNode, error)

	// CreateAuthor stores a new author node. An ORCID collision
	// returns ErrConstraint.
	CreateAuthor(ctx context.Context, node *types.AuthorNode) error

	// CreateAuthorOf links an author to an article with an authorship
	// rank. Linking the same pair again is a no-op that keeps the
	// first rank.
	CreateAuthorOf(ctx context.Context, authorUUID, articleUUID string, rank int) error

	// Counts reports the number of articles, authors, and authorship
	// edges in the graph.
	Counts(ctx context.Context) (articles, authors, edges int, err error)

	// Close releases backend resources.
	Close() error
}

// Open builds a Store from cfg. Backend "memory" selects the in-memory
// store; anything else (including empty) selects SQLite at cfg.Path.
func Open(cfg types.GraphConfig) (Store, error) {
	if cfg.Backend == "memory" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(cfg)
}
