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

// openAIRETokenBase is the OpenAIRE user-management token exchange
// endpoint. Declared as a var so tests can substitute an httptest
// server.
var openAIRETokenBase = "https://services.openaire.eu/uoa-user-management/api/users/getAccessToken"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// RefreshAccessToken exchanges the configured refresh token for a fresh
// OpenAIRE access token and installs it on the client. Without a
// refresh token the already-configured token stands; having neither is
// an error because OpenAIRE requests would be rejected.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if c.cfg.RefreshToken == "" {
		if c.cfg.Token == "" {
			return fmt.Errorf("no OpenAIRE token found: set a token or a refresh token")
		}
		return nil
	}

	c.log.Info("found refresh token, obtaining access token")
	reqURL := openAIRETokenBase + "?refreshToken=" + url.QueryEscape(c.cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("token exchange failed, keeping configured token",
			zap.Int("status", resp.StatusCode))
		if c.cfg.Token == "" {
			return &AuthError{Provider: "OpenAIRE", StatusCode: resp.StatusCode}
		}
		return nil
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	c.cfg.Token = token.AccessToken
	return nil
}
