// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ccg-dev/research-index/pkg/types"
)

const defaultDBPath = "data/graph/research-index.db"

// SQLiteStore persists the graph in a single SQLite database with
// articles and authors as node tables and author_of as the edge table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the graph database at cfg.Path and
// ensures the schema exists.
func NewSQLiteStore(cfg types.GraphConfig) (*SQLiteStore, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			uuid TEXT PRIMARY KEY,
			doi TEXT NOT NULL UNIQUE,
			title TEXT,
			abstract TEXT,
			journal TEXT,
			issue TEXT,
			volume TEXT,
			publication_year INTEGER,
			publication_month INTEGER,
			publication_day INTEGER,
			publisher TEXT,
			result_type TEXT,
			resource_type TEXT,
			openalex_id TEXT,
			cited_by_count INTEGER,
			cited_by_count_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			uuid TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			orcid TEXT UNIQUE,
			openalex TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_last_name ON authors(last_name)`,
		`CREATE TABLE IF NOT EXISTS author_of (
			author_uuid TEXT NOT NULL REFERENCES authors(uuid),
			article_uuid TEXT NOT NULL REFERENCES articles(uuid),
			rank INTEGER NOT NULL,
			PRIMARY KEY (author_uuid, article_uuid)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Init drops all graph data and recreates an empty schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	for _, table := range []string{"author_of", "authors", "articles"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("dropping table %s: %w", table, err)
		}
	}
	return s.createSchema()
}

// ExistingDOIs reports which of the given DOIs already have an article
// node.
func (s *SQLiteStore) ExistingDOIs(ctx context.Context, dois []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(dois) == 0 {
		return existing, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dois)), ",")
	args := make([]any, len(dois))
	for i, doi := range dois {
		args[i] = doi
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT doi FROM articles WHERE doi IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying existing DOIs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doi string
		if err := rows.Scan(&doi); err != nil {
			return nil, fmt.Errorf("scanning DOI: %w", err)
		}
		existing[doi] = true
	}
	return existing, rows.Err()
}

// ArticleByDOI returns the article node for a DOI, or nil.
func (s *SQLiteStore) ArticleByDOI(ctx context.Context, doi string) (*types.ArticleNode, error) {
	var node types.ArticleNode
	err := s.db.QueryRowContext(ctx,
		"SELECT uuid, doi FROM articles WHERE doi = ?", doi).Scan(&node.UUID, &node.DOI)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying article %s: %w", doi, err)
	}
	return &node, nil
}

// CreateArticle stores a new article node carrying the parsed record.
func (s *SQLiteStore) CreateArticle(ctx context.Context, node *types.ArticleNode, record *types.ArticleRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO articles (
			uuid, doi, title, abstract, journal, issue, volume,
			publication_year, publication_month, publication_day,
			publisher, result_type, resource_type,
			openalex_id, cited_by_count, cited_by_count_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.UUID, node.DOI, record.Title, record.Abstract, record.Journal,
		record.Issue, record.Volume,
		record.PublicationYear, record.PublicationMonth, record.PublicationDay,
		record.Publisher, record.ResultType, record.ResourceType,
		record.OpenAlexID, record.CitedByCount,
		record.CitedByCountDate.Format(time.RFC3339))
	if err != nil {
		return classifyConstraint(err, fmt.Sprintf("inserting article %s", node.DOI))
	}
	return nil
}

// AuthorByORCID returns the author node registered under a canonical
// ORCID URI, or nil.
func (s *SQLiteStore) AuthorByORCID(ctx context.Context, orcid string) (*types.AuthorNode, error) {
	if orcid == "" {
		return nil, nil
	}
	return s.scanAuthor(s.db.QueryRowContext(ctx,
		`SELECT uuid, first_name, last_name, orcid, openalex
		 FROM authors WHERE orcid = ?`, orcid))
}

// AuthorByInitialAndLastName returns an author whose last name matches
// exactly and whose first name starts with the same initial, or nil.
func (s *SQLiteStore) AuthorByInitialAndLastName(ctx context.Context, firstInitial, lastName string) (*types.AuthorNode, error) {
	return s.scanAuthor(s.db.QueryRowContext(ctx,
		`SELECT uuid, first_name, last_name, orcid, openalex
		 FROM authors
		 WHERE lower(last_name) = lower(?)
		   AND lower(substr(first_name, 1, 1)) = lower(?)
		 ORDER BY uuid LIMIT 1`, lastName, firstInitial))
}

func (s *SQLiteStore) scanAuthor(row *sql.Row) (*types.AuthorNode, error) {
	var node types.AuthorNode
	var orcid, openalex sql.NullString
	err := row.Scan(&node.UUID, &node.FirstName, &node.LastName, &orcid, &openalex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning author: %w", err)
	}
	node.ORCID = orcid.String
	node.OpenAlex = openalex.String
	return &node, nil
}

// CreateAuthor stores a new author node. An empty ORCID is stored as
// NULL so that unknown ORCIDs never collide with each other.
func (s *SQLiteStore) CreateAuthor(ctx context.Context, node *types.AuthorNode) error {
	var orcid any
	if node.ORCID != "" {
		orcid = node.ORCID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (uuid, first_name, last_name, orcid, openalex)
		 VALUES (?, ?, ?, ?, ?)`,
		node.UUID, node.FirstName, node.LastName, orcid, node.OpenAlex)
	if err != nil {
		return classifyConstraint(err, fmt.Sprintf("inserting author %s %s", node.FirstName, node.LastName))
	}
	return nil
}

// CreateAuthorOf links an author to an article with an authorship rank.
// Re-linking an existing pair keeps the first rank.
func (s *SQLiteStore) CreateAuthorOf(ctx context.Context, authorUUID, articleUUID string, rank int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO author_of (author_uuid, article_uuid, rank)
		 VALUES (?, ?, ?)`, authorUUID, articleUUID, rank)
	if err != nil {
		return fmt.Errorf("linking author %s to article %s: %w", authorUUID, articleUUID, err)
	}
	return nil
}

// Counts reports the number of articles, authors, and authorship edges.
func (s *SQLiteStore) Counts(ctx context.Context) (articles, authors, edges int, err error) {
	counts := []struct {
		table string
		dest  *int
	}{
		{"articles", &articles},
		{"authors", &authors},
		{"author_of", &edges},
	}
	for _, c := range counts {
		if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return 0, 0, 0, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return articles, authors, edges, nil
}

// classifyConstraint wraps SQLite uniqueness violations as
// ErrConstraint so callers can treat them as already-exists.
func classifyConstraint(err error, op string) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w", op, ErrConstraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}
