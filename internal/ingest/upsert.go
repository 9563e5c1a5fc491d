// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/internal/graph"
	"github.com/ccg-dev/research-index/pkg/types"
)

// UpsertArticle stores an article record and links its authors.
// Articles are create-only: when a node for the DOI already exists it
// is reused untouched, so re-ingesting a DOI never rewrites its
// metadata. The boolean reports whether the article already existed.
func UpsertArticle(ctx context.Context, store graph.Store, record *types.ArticleRecord, cfg types.NamesConfig, log *zap.Logger) (*types.ArticleNode, bool, error) {
	node, err := store.ArticleByDOI(ctx, record.DOI)
	if err != nil {
		return nil, false, err
	}

	exists := node != nil
	if node == nil {
		node = &types.ArticleNode{UUID: uuid.New().String(), DOI: record.DOI}
		err := store.CreateArticle(ctx, node, record)
		switch {
		case errors.Is(err, graph.ErrConstraint):
			// Lost a race with another writer; reuse theirs.
			exists = true
			if node, err = store.ArticleByDOI(ctx, record.DOI); err != nil {
				return nil, false, err
			}
		case err != nil:
			return nil, false, fmt.Errorf("creating article %s: %w", record.DOI, err)
		default:
			log.Info("created article", zap.String("doi", record.DOI), zap.String("uuid", node.UUID))
		}
	}

	for i := range record.Authors {
		author := &record.Authors[i]
		authorNode, err := ResolveAuthor(ctx, store, author, cfg, log)
		if err != nil {
			return nil, exists, err
		}
		if err := store.CreateAuthorOf(ctx, authorNode.UUID, node.UUID, author.Rank); err != nil {
			return nil, exists, err
		}
	}

	return node, exists, nil
}
