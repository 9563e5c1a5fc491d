// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// openAIREAPIBase is the OpenAIRE search API. Declared as a var so
// tests can substitute an httptest server.
var openAIREAPIBase = "https://api.openaire.eu"

// openAIREEnvelope wraps the research-product search response.
type openAIREEnvelope struct {
	Error    json.RawMessage `json:"error"`
	Response struct {
		Results struct {
			Result []json.RawMessage `json:"result"`
		} `json:"results"`
	} `json:"response"`
}

// FetchOpenAIRE requests the research products registered for a DOI
// from the OpenAIRE Graph and returns them uninterpreted. The raw body
// of a successful response is written to the audit directory.
func (c *Client) FetchOpenAIRE(ctx context.Context, doi string) ([]json.RawMessage, error) {
	c.log.Info("requesting DOI from OpenAIRE", zap.String("doi", doi))

	reqURL := openAIREAPIBase + "/search/researchProducts?format=json&doi=" + url.QueryEscape(doi)
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	body, status, err := c.get(ctx, reqURL, header)
	if err != nil {
		return nil, fmt.Errorf("OpenAIRE request for %s: %w", doi, err)
	}
	if status < 200 || status >= 300 {
		return nil, statusError("OpenAIRE", doi, status)
	}

	var envelope openAIREEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing OpenAIRE response for %s: %w", doi, err)
	}
	if msg := errorMessage(envelope.Error); msg != "" {
		return nil, &ProviderError{Provider: "OpenAIRE", Message: msg}
	}

	c.saveRaw("openaire", doi, body)

	if len(envelope.Response.Results.Result) == 0 {
		return nil, &NoResultsError{DOI: doi}
	}
	return envelope.Response.Results.Result, nil
}

// errorMessage renders a non-empty error field from a provider body.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
