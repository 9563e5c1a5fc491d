// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names scores the similarity of personal names for author
// deduplication. The score is a gestalt pattern-matching ratio tolerant
// of "Last First" versus "First Last" ordering.
package names

import "strings"

// DefaultThreshold is the ratio above which two names are considered
// the same person.
const DefaultThreshold = 0.8

// DefaultORCIDThreshold is the looser ratio used to sanity-check a name
// against an ORCID match. ORCID is itself a strong signal, so the name
// only needs to be plausible.
const DefaultORCIDThreshold = 0.4

// Similarity scores two names in [0, 1]. Both inputs are trimmed and
// lowercased. If the direct ratio clears threshold it is returned as-is;
// otherwise the token order of a is reversed (catching swapped name
// order) and that ratio is returned if it clears the threshold. Failing
// both, the mean of the two ratios is returned.
//
// Reversal is applied to the first argument only, so the score is not
// strictly symmetric for every input pair.
func Similarity(a, b string, threshold float64) float64 {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	direct := Ratio(a, b)
	if direct > threshold {
		return direct
	}

	reversed := Ratio(reverseTokens(a), b)
	if reversed > threshold {
		return reversed
	}

	return (direct + reversed) / 2.0
}

// reverseTokens reverses the space-separated token order of name.
func reverseTokens(name string) string {
	tokens := strings.Split(name, " ")
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return strings.Join(tokens, " ")
}
