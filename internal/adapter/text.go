package adapter

import (
	"regexp"
	"strings"
	"time"
)

// htmlTagRe matches HTML/XML tags for stripping markup out of summaries.
var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// stripHTML removes markup tags and collapses the surrounding whitespace.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// dateLayouts are the upstream date formats we know how to normalize.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// normalizeDate converts common upstream date formats to YYYY-MM-DD.
// Unrecognized values are returned unchanged; the schema validator
// reports them.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	candidate := s
	if len(candidate) > 10 {
		candidate = candidate[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
