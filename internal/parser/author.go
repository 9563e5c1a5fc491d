// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ccg-dev/research-index/pkg/types"
)

// orcidURIBase is the canonical prefix for ORCID identifiers.
const orcidURIBase = "https://orcid.org/"

var titleCaser = cases.Title(language.Und)

// ParseAuthor extracts an author record from a raw provider author
// entry. Provider data is messy: given and family names are sometimes
// both set to the full name, sometimes empty with only fullName
// populated, and sometimes the whole name is crammed into the surname
// field. ParseAuthor untangles these cases and returns nil when no
// usable first and last name can be determined; callers skip nil
// results without erroring.
func ParseAuthor(raw Author, log *zap.Logger) *types.AnonymousAuthor {
	orcid := extractORCID(raw.PID)

	firstName := titleCaser.String(raw.Name)
	lastName := titleCaser.String(raw.Surname)

	// Some records repeat the full name in both fields. Strip the
	// overlap from the longer one.
	if firstName != "" && strings.Contains(lastName, firstName) {
		lastName = strings.TrimSpace(strings.ReplaceAll(lastName, firstName, ""))
	}
	if lastName != "" && strings.Contains(firstName, lastName) {
		firstName = strings.TrimSpace(strings.ReplaceAll(firstName, lastName, ""))
	}

	if firstName == "" && lastName == "" && looksLikeName(raw.FullName) {
		tokens := strings.Fields(raw.FullName)
		switch {
		case len(tokens) == 2:
			firstName, lastName = tokens[0], tokens[1]
		case len(tokens) > 2:
			firstName, lastName = tokens[0], strings.Join(tokens[1:], " ")
		}
	}

	if lastName != "" && firstName == "" {
		// The whole name sits in the surname field. Clean it, then
		// split on the narrow no-break space some providers use,
		// falling back to a regular space.
		lastName = CleanHTML(lastName)
		tokens := strings.Split(lastName, " ")
		if len(tokens) == 1 {
			tokens = strings.Split(lastName, " ")
		}
		switch {
		case len(tokens) == 2:
			firstName, lastName = tokens[0], tokens[1]
		case len(tokens) > 2:
			firstName, lastName = tokens[0], strings.Join(tokens[1:], " ")
		default:
			log.Debug("could not split single-token name", zap.String("name", lastName))
			firstName, lastName = "", ""
		}
	}

	rank := raw.Rank
	if rank < 1 {
		rank = 1
	}

	if firstName == "" || lastName == "" {
		return nil
	}

	author := &types.AnonymousAuthor{
		FirstName: firstName,
		LastName:  lastName,
		Rank:      rank,
	}
	if orcid != "" {
		author.ORCID = orcidURIBase + orcid
	}
	log.Debug("parsed author metadata",
		zap.String("first_name", firstName),
		zap.String("last_name", lastName),
		zap.String("orcid", author.ORCID),
		zap.Int("rank", rank))
	return author
}

// looksLikeName reports whether a fullName string plausibly denotes a
// person. Provider records sometimes carry placeholder text in the
// fullName field; a string with no capitalization at all is rejected.
func looksLikeName(fullName string) bool {
	for _, r := range fullName {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// extractORCID returns the bare ORCID identifier from an author PID,
// accepting verified identifiers first and unverified ("pending") ones
// as a fallback.
func extractORCID(pid *PID) string {
	if pid == nil || pid.ID == nil {
		return ""
	}
	switch pid.ID.Scheme {
	case "orcid", "orcid_pending":
		return pid.ID.Value
	default:
		return ""
	}
}
