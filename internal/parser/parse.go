// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser transforms raw provider metadata into normalized
// article records ready for the graph store.
package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccg-dev/research-index/pkg/types"
)

// resultTypes is the closed vocabulary of research product types. An
// unknown value means the provider schema drifted and the parser needs
// a code update, so parsing fails rather than guessing.
var resultTypes = map[string]bool{
	"publication": true,
	"dataset":     true,
	"software":    true,
	"other":       true,
}

// resourceTypes maps a result type to its accepted resource subtypes.
// Result types absent from the map are unconstrained.
var resourceTypes = map[string][]string{
	"publication": {"Article", "Pre-print"},
	"dataset":     {"Dataset"},
}

// ParseMetadata interprets the raw research products returned by the
// primary provider for validDOI and returns normalized article records.
// One DOI normally yields a single record; a list is supported because
// provider responses occasionally repeat metadata blocks. Citation
// metrics come from the secondary provider's work record when present.
func ParseMetadata(raw []json.RawMessage, validDOI string, openalex *types.OpenAlexWork, log *zap.Logger) ([]types.ArticleRecord, error) {
	log.Info("parsing research products", zap.String("doi", validDOI), zap.Int("results", len(raw)))

	records := make([]types.ArticleRecord, 0, len(raw))
	for _, msg := range raw {
		var result Result
		if err := json.Unmarshal(msg, &result); err != nil {
			return nil, fmt.Errorf("decoding research product for %s: %w", validDOI, err)
		}

		record, err := parseResult(result, validDOI, openalex, log)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func parseResult(result Result, validDOI string, openalex *types.OpenAlexWork, log *zap.Logger) (types.ArticleRecord, error) {
	var record types.ArticleRecord
	record.DOI = validDOI
	record.Title = CleanHTML(result.MainTitle)
	record.Publisher = result.Publisher

	log.Info("parsing output", zap.String("title", record.Title))

	if !resultTypes[result.Type] {
		return record, fmt.Errorf("unknown result type %q for %s", result.Type, validDOI)
	}
	record.ResultType = result.Type
	log.Info("classified resource", zap.String("doi", validDOI), zap.String("result_type", result.Type))

	// Journal details only exist for publications.
	if result.Type == "publication" && result.Container != nil {
		record.Journal = CleanHTML(result.Container.Name)
		record.Issue = result.Container.Issue
		record.Volume = result.Container.Volume
	}

	if len(result.Description) > 0 {
		record.Abstract = CleanHTML(result.Description[0])
	}

	for _, rawAuthor := range result.Author {
		if author := ParseAuthor(rawAuthor, log); author != nil {
			record.Authors = append(record.Authors, *author)
		}
	}

	resourceType, date, err := parseInstances(result, validDOI, log)
	if err != nil {
		return record, err
	}
	record.ResourceType = resourceType

	if date == "" {
		date = result.PublicationDate
	}
	year, month, day, err := parseDate(date)
	if err != nil {
		return record, fmt.Errorf("parsing publication date for %s: %w", validDOI, err)
	}
	record.PublicationYear = year
	record.PublicationMonth = month
	record.PublicationDay = day

	record.CitedByCountDate = time.Now()
	if openalex != nil {
		record.OpenAlexID = openalex.ID
		record.CitedByCount = openalex.CitedByCount
	} else if result.Indicators != nil {
		record.CitedByCount = result.Indicators.CitationImpact.CitationCount
	}

	return record, nil
}

// parseInstances walks a product's instances, returning the resource
// subtype and the instance publication date. For result types with a
// constrained subtype vocabulary the first instance decides and an
// unexpected subtype is a hard error.
func parseInstances(result Result, validDOI string, log *zap.Logger) (resourceType, date string, err error) {
	accepted := resourceTypes[result.Type]
	for _, instance := range result.Instance {
		resourceType = instance.Type
		date = instance.PublicationDate
		if accepted == nil {
			continue
		}
		valid := false
		for _, want := range accepted {
			if resourceType == want {
				valid = true
				break
			}
		}
		if !valid {
			return "", "", fmt.Errorf("unknown resource type %q for %s %s", resourceType, result.Type, validDOI)
		}
		log.Info("classified instance", zap.String("doi", validDOI), zap.String("resource_type", resourceType))
		break
	}
	return resourceType, date, nil
}

// parseDate splits a hyphen-delimited provider date: the first segment
// is the year, the second the month, the last the day.
func parseDate(date string) (year, month, day int, err error) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("unexpected date format %q", date)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected date format %q", date)
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected date format %q", date)
	}
	if day, err = strconv.Atoi(parts[len(parts)-1]); err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected date format %q", date)
	}
	return year, month, day, nil
}
