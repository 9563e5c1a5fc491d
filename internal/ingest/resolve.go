// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest orchestrates a DOI ingestion run: validating the
// batch, fetching provider metadata, parsing it, and upserting articles
// and authors into the graph store.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/internal/names"
	"github.com/ccg-dev/research-index/pkg/types"
)

// ResolveAuthor maps a parsed author reference onto a graph Author
// node, creating one when nothing matches. Resolution order:
//
//  1. ORCID lookup. A hit is accepted only when the stored name is at
//     least loosely similar to the incoming one; a registry mix-up
//     (same ORCID, unrelated name) is logged and falls through.
//  2. First-initial plus last-name lookup.
//  3. Create a new Author with a fresh UUID.
func ResolveAuthor(ctx context.Context, store graph.Store, author *types.AnonymousAuthor, cfg types.NamesConfig, log *zap.Logger) (*types.AuthorNode, error) {
	orcidThreshold := cfg.ORCIDSimilarityThreshold
	if orcidThreshold <= 0 {
		orcidThreshold = names.DefaultORCIDThreshold
	}

	orcid := author.ORCID
	fullName := author.FirstName + " " + author.LastName

	if orcid != "" {
		node, err := store.AuthorByORCID(ctx, orcid)
		if err != nil {
			return nil, err
		}
		if node != nil {
			stored := node.FirstName + " " + node.LastName
			// The score is computed with the general similarity
			// threshold; acceptance uses the looser ORCID threshold.
			score := names.Similarity(fullName, stored, cfg.SimilarityThreshold)
			if score >= orcidThreshold {
				return node, nil
			}
			log.Warn("ORCID matches an author with a different name",
				zap.String("orcid", orcid),
				zap.String("incoming", fullName),
				zap.String("stored", stored),
				zap.Float64("score", score))
			// The ORCID is claimed by someone else in the graph, so a
			// new node must not carry it.
			orcid = ""
		}
	}

	initial := string([]rune(author.FirstName)[:1])
	node, err := store.AuthorByInitialAndLastName(ctx, initial, author.LastName)
	if err != nil {
		return nil, err
	}
	if node != nil {
		log.Debug("matched author by initial and last name",
			zap.String("name", fullName), zap.String("uuid", node.UUID))
		return node, nil
	}

	node = &types.AuthorNode{
		UUID:      uuid.New().String(),
		FirstName: author.FirstName,
		LastName:  author.LastName,
		ORCID:     orcid,
	}
	if err := store.CreateAuthor(ctx, node); err != nil {
		return nil, fmt.Errorf("creating author %s: %w", fullName, err)
	}
	log.Info("created author", zap.String("name", fullName), zap.String("uuid", node.UUID))
	return node, nil
}
