// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// tagPattern matches tag-shaped substrings non-greedily. The dot does
// not cross newlines, so stray angle brackets on separate lines survive.
var tagPattern = regexp.MustCompile(`<.*?>`)

// cleanReplacements are applied in order after tag stripping. Provider
// abstracts arrive with non-breaking spaces, soft hyphens, narrow
// no-break spaces, and the occasional mojibake replacement sequence.
var cleanReplacements = []struct{ old, new string }{
	{"\n", " "},
	{" ", " "},   // non-breaking space
	{"­", " "},   // soft hyphen
	{"ï¿½", " "}, // mis-decoded replacement character
	{"&amp;", "&"},
	{" ", " "}, // narrow no-break space
	{"    ", " "},
	{"   ", " "},
	{"  ", " "},
}

// CleanHTML removes tag markup from a string, unescapes HTML entities,
// and normalizes Unicode to composed form (NFC). Known problematic
// whitespace sequences collapse to single regular spaces. Cleaning
// already-clean text is a no-op.
func CleanHTML(raw string) string {
	s := tagPattern.ReplaceAllString(raw, "")
	for _, r := range cleanReplacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	s = strings.TrimSpace(s)
	return html.UnescapeString(norm.NFC.String(s))
}
