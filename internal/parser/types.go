// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import "encoding/json"

// Result is a single research product from the OpenAIRE Graph API.
// Fields that the API serves inconsistently (scalar or list, object or
// array) use the flexible types below.
type Result struct {
	MainTitle       string      `json:"mainTitle"`
	Publisher       string      `json:"publisher"`
	Type            string      `json:"type"`
	Container       *Container  `json:"container"`
	Description     StringList  `json:"description"`
	Author          AuthorList  `json:"author"`
	Instance        []Instance  `json:"instance"`
	PublicationDate string      `json:"publicationDate"`
	Indicators      *Indicators `json:"indicators"`
}

// Container describes the journal a publication appeared in.
type Container struct {
	Name   string `json:"name"`
	Issue  string `json:"iss"`
	Volume string `json:"vol"`
}

// Instance is one manifestation of a research product, carrying the
// resource subtype and a publication date.
type Instance struct {
	Type            string `json:"type"`
	PublicationDate string `json:"publicationDate"`
}

// Indicators carries citation metrics for a research product.
type Indicators struct {
	CitationImpact CitationImpact `json:"citationImpact"`
}

// CitationImpact holds the citation count reported by OpenAIRE.
type CitationImpact struct {
	CitationCount int `json:"citationCount"`
}

// Author is a raw author entry from a research product record.
type Author struct {
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Rank     int    `json:"rank"`
	PID      *PID   `json:"pid"`
}

// PID wraps an author's persistent identifier entry.
type PID struct {
	ID *PIDValue `json:"id"`
}

// PIDValue is a scheme/value identifier pair. Scheme is "orcid" for a
// verified identifier or "orcid_pending" for an unverified one.
type PIDValue struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// StringList accepts either a JSON string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// AuthorList accepts either a single JSON author object or an array.
type AuthorList []Author

// UnmarshalJSON implements json.Unmarshaler.
func (a *AuthorList) UnmarshalJSON(data []byte) error {
	var single Author
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AuthorList{single}
		return nil
	}
	var many []Author
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = AuthorList(many)
	return nil
}
