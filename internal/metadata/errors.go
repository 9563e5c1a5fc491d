// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import "fmt"

// AuthError reports a client-side authentication failure against a
// provider. The bearer token is invalid or expired; the caller should
// refresh it and retry.
type AuthError struct {
	Provider   string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: token invalid or expired, refresh and retry", e.Provider, e.StatusCode)
}

// NotFoundError reports that a provider has no record for a DOI.
type NotFoundError struct {
	Provider string
	DOI      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s has no record for DOI %s", e.Provider, e.DOI)
}

// ProviderError reports an error the provider stated explicitly, either
// as an error field in the response body or as a server-side failure.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// NoResultsError reports a well-formed provider response that contained
// zero research products for the DOI.
type NoResultsError struct {
	DOI string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("DOI %s returned no results", e.DOI)
}
