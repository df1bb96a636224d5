package extractor

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

// datePatterns match the date formats commonly embedded in article pages.
// Tried in order; the first substring that parses wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`), // ISO 8601
	regexp.MustCompile(`\d{4}/\d{2}/\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
	regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`), // Month DD, YYYY
}

// parseDate extracts the first recognizable date from a raw string. Returns
// nil when nothing parses.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, pattern := range datePatterns {
		match := pattern.FindString(raw)
		if match == "" {
			continue
		}
		t, err := dateparse.ParseAny(match)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}
