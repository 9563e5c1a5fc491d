// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

// FetchOpenAlex requests the OpenAlex work record for a DOI. The raw
// body of a successful response is written to the audit directory.
func (c *Client) FetchOpenAlex(ctx context.Context, doi string) (*types.OpenAlexWork, error) {
	c.log.Info("requesting DOI from OpenAlex", zap.String("doi", doi))

	reqURL := openAlexAPIBase + "doi:" + doi
	if c.cfg.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.cfg.Email)
	}

	body, status, err := c.get(ctx, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request for %s: %w", doi, err)
	}
	if status < 200 || status >= 300 {
		return nil, statusError("OpenAlex", doi, status)
	}

	var work types.OpenAlexWork
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response for %s: %w", doi, err)
	}
	if work.ID == "" {
		return nil, &NoResultsError{DOI: doi}
	}

	c.saveRaw("openalex", doi, body)

	return &work, nil
}
