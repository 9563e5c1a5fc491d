// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata fetches raw research-product metadata for DOIs from
// the OpenAIRE and OpenAlex APIs. Responses are cached on disk keyed by
// request URL, and successful raw bodies are persisted per provider for
// audit and replay. The package returns provider payloads
// uninterpreted; parsing is the parser package's job.
package metadata

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ccg-dev/research-index/internal/httputil"
	"github.com/ccg-dev/research-index/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultCacheTTL  = 30 * time.Minute
	defaultRate      = 2.0
	defaultUserAgent = "research-index/0.1"
)

// Client fetches provider metadata with on-disk response caching and
// request rate limiting. All configuration is injected at construction;
// there is no package-level token state.
type Client struct {
	http    *http.Client
	cfg     types.MetadataConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient builds a metadata client from cfg, applying defaults for
// timeout, cache TTL, rate, and User-Agent.
func NewClient(cfg types.MetadataConfig, log *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		log:     log,
	}
}

// get performs a GET against reqURL, serving fresh cached bodies
// without touching the network. Only 2xx bodies are cached.
func (c *Client) get(ctx context.Context, reqURL string, header http.Header) ([]byte, int, error) {
	if body, ok := c.cacheLookup(reqURL); ok {
		c.log.Debug("cache hit", zap.String("url", reqURL))
		return body, http.StatusOK, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	c.log.Debug("provider response", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.cacheStore(reqURL, body)
	}
	return body, resp.StatusCode, nil
}

// cachePath returns the cache file for a request URL.
func (c *Client) cachePath(reqURL string) string {
	sum := sha256.Sum256([]byte(reqURL))
	return filepath.Join(c.cfg.CacheDir, fmt.Sprintf("%x.json", sum[:16]))
}

func (c *Client) cacheLookup(reqURL string) ([]byte, bool) {
	if c.cfg.CacheDir == "" {
		return nil, false
	}
	path := c.cachePath(reqURL)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.cfg.CacheTTL {
		return nil, false
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (c *Client) cacheStore(reqURL string, body []byte) {
	if c.cfg.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cfg.CacheDir, 0o755); err != nil {
		c.log.Warn("creating cache directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.cachePath(reqURL), body, 0o644); err != nil {
		c.log.Warn("writing cache entry", zap.Error(err))
	}
}

// saveRaw persists a successful raw provider response under
// AuditDir/<provider>/<doi>.json with slashes removed from the DOI so
// the name is filesystem safe.
func (c *Client) saveRaw(provider, doi string, body []byte) {
	if c.cfg.AuditDir == "" {
		return
	}
	dir := filepath.Join(c.cfg.AuditDir, provider)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.log.Warn("creating audit directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	name := strings.ReplaceAll(doi, "/", "") + ".json"
	if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
		c.log.Warn("writing audit file", zap.String("doi", doi), zap.Error(err))
	}
}

// statusError maps a non-2xx provider status to the fetch error
// taxonomy: 401/403 mean the token needs refreshing, 404 means no
// record, any other client error or a server error is surfaced as a
// provider failure.
func statusError(provider, doi string, status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Provider: provider, StatusCode: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Provider: provider, DOI: doi}
	case status >= 500:
		return &ProviderError{Provider: provider, Message: fmt.Sprintf("HTTP %d: provider outage, retry later", status)}
	default:
		return &ProviderError{Provider: provider, Message: fmt.Sprintf("HTTP %d", status)}
	}
}
