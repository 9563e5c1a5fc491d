// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi validates and normalizes DOI strings and tracks a batch
// of DOIs through the stages of an ingestion run.
package doi

import (
	"regexp"
	"strings"
)

// pattern is the Crossref-recommended DOI regular expression: a "10."
// directory indicator, a 4-9 digit registrant code, and a suffix drawn
// from a restricted character class, anchored at the end of the string.
var pattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:a-z0-9]+$`)

// digitPattern checks the stricter suffix requirement: somewhere after
// the registrant slash there must be at least one digit. A bare
// registrant word like "10.5281/zenodo" is not a resolvable DOI.
var digitPattern = regexp.MustCompile(`/[^/]*\d`)

// Normalize cleans a raw DOI string: surrounding whitespace and
// trailing periods are stripped, along with the doi.org resolver
// prefixes. Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".")
	s = strings.TrimPrefix(s, "https://doi.org/")
	s = strings.TrimPrefix(s, "doi.org/")
	return s
}

// ValidPattern reports whether a normalized DOI conforms to the DOI
// pattern. The match is case-insensitive and the suffix must contain at
// least one digit.
func ValidPattern(doi string) bool {
	return pattern.MatchString(doi) && digitPattern.MatchString(doi)
}
