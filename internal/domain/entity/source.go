package entity

import (
	"fmt"
	"time"
)

// SourceType identifies the collection strategy for a source.
type SourceType string

const (
	// SourceFeed is an RSS or Atom syndication feed.
	SourceFeed SourceType = "feed"
	// SourceBlog is a blog listing page scraped with the article extractor.
	SourceBlog SourceType = "blog"
	// SourceNews is a news listing page scraped with the article extractor.
	SourceNews SourceType = "news"
	// SourceVideo is reserved for video platforms. No extractor implements it;
	// the orchestrator treats it as zero results.
	SourceVideo SourceType = "video"
)

// validSourceTypes is the closed set of types accepted by Validate.
var validSourceTypes = map[SourceType]bool{
	SourceFeed:  true,
	SourceBlog:  true,
	SourceNews:  true,
	SourceVideo: true,
}

// Source is a registered collection target belonging to a client.
// The registry owns sources; the orchestrator only reads them and requests
// that LastCollectedAt be advanced after a completed collection attempt.
type Source struct {
	ID              int64
	ClientID        int64
	Name            string
	URL             string
	Type            SourceType
	Active          bool
	LastCollectedAt *time.Time
}

// Validate checks the Source fields that the collector depends on.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if s.URL == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	if !validSourceTypes[s.Type] {
		return &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("invalid source type %q (must be feed, blog, news, or video)", s.Type),
		}
	}
	return nil
}
