// Package entity defines the core domain entities and validation logic for the
// collector. It contains the fundamental business objects such as ContentRecord,
// Source and CollectionTask, along with their validation rules and domain errors.
package entity

import (
	"fmt"
	"strings"
	"time"

	"content-collector/internal/utils/text"
)

// ContentOrigin identifies which extraction path produced a ContentRecord.
type ContentOrigin string

const (
	// OriginFeed marks records produced by the feed extractor.
	OriginFeed ContentOrigin = "feed"
	// OriginArticle marks records produced by the article extractor.
	OriginArticle ContentOrigin = "article"
)

// boilerplateMarkers are phrases that identify placeholder pages (error pages,
// paywalls) rather than real content. Matched case-insensitively as substrings.
var boilerplateMarkers = []string{
	"page not found",
	"404 error",
	"access denied",
	"subscribe to read",
	"login to continue",
}

// ContentRecord is the normalized unit of collected content.
// Records are created by an extractor from raw fetched bytes, validated before
// being handed to the store, and never mutated afterwards: re-fetching the same
// URL produces a new record, not an update.
type ContentRecord struct {
	Title       string
	URL         string
	BodyText    string
	Summary     string
	Author      string
	PublishedAt *time.Time
	Tags        []string
	Origin      ContentOrigin

	// Derived from BodyText via ComputeStats.
	WordCount   int
	ReadingTime int
}

// ComputeStats fills the derived WordCount and ReadingTime fields from
// BodyText. Reading time is estimated at 200 words per minute, with a minimum
// of one minute for any non-empty body.
func (c *ContentRecord) ComputeStats() {
	c.WordCount = text.CountWords(c.BodyText)
	c.ReadingTime = text.ReadingTime(c.WordCount)
}

// Validate checks whether the record's body text qualifies as real content.
// It rejects records with an empty or whitespace-only body, a trimmed body
// length (in runes) outside [minLength, maxLength], or a body containing any
// known boilerplate marker. The boundaries themselves are accepted.
//
// Validate is a pure function of (BodyText, minLength, maxLength); it has no
// side effects and identical inputs always yield identical outcomes.
func (c *ContentRecord) Validate(minLength, maxLength int) error {
	trimmed := strings.TrimSpace(c.BodyText)
	if trimmed == "" {
		return &ValidationError{Field: "bodyText", Message: "is empty"}
	}

	length := text.CountRunes(trimmed)
	if length < minLength {
		return &ValidationError{
			Field:   "bodyText",
			Message: fmt.Sprintf("too short: %d characters (minimum %d)", length, minLength),
		}
	}
	if length > maxLength {
		return &ValidationError{
			Field:   "bodyText",
			Message: fmt.Sprintf("too long: %d characters (maximum %d)", length, maxLength),
		}
	}

	lower := strings.ToLower(c.BodyText)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return &ValidationError{
				Field:   "bodyText",
				Message: fmt.Sprintf("looks like boilerplate (%q)", marker),
			}
		}
	}

	return nil
}
