package adapter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caselex/caselex/internal/schema"
)

var (
	customNameChain    = fieldChain{"case_name", "title", "name"}
	customSummaryChain = fieldChain{"summary", "text", "content"}
	customBodyChain    = fieldChain{"body", "opinion_text", "plain_text"}
)

// CustomAdapter is the generic pass-through for user-supplied corpora
// that already resemble the canonical shape. When no explicit summary
// field exists it falls back to a bounded prefix of the body text.
type CustomAdapter struct{}

func (a *CustomAdapter) Name() string { return "custom" }

func (a *CustomAdapter) Extensions() []string { return []string{".json", ".txt"} }

func (a *CustomAdapter) Parse(path string, data []byte) (*schema.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return a.parseJSON(path, data)
	case ".txt":
		return draft(stem(path), string(data), "custom")
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (a *CustomAdapter) parseJSON(path string, data []byte) (*schema.Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	caseName := customNameChain.lookup(m)
	if caseName == "" {
		caseName = stem(path)
	}

	summary := customSummaryChain.lookup(m)
	if summary == "" {
		// No explicit summary: take a bounded prefix of the body.
		summary = summaryPrefix(stripHTML(customBodyChain.lookup(m)))
	}

	rec, err := draft(caseName, summary, "custom")
	if err != nil {
		return nil, err
	}

	if cite := (fieldChain{"citation"}).lookup(m); cite != "" {
		rec.Citation = cite
	}
	if date := (fieldChain{"date"}).lookup(m); date != "" {
		rec.Date = normalizeDate(date)
	}
	if jur := (fieldChain{"jurisdiction"}).lookup(m); jur != "" {
		rec.Jurisdiction = jur
	}
	if facts := (fieldChain{"facts"}).lookup(m); facts != "" {
		rec.Facts = facts
	}
	if holding := (fieldChain{"holding"}).lookup(m); holding != "" {
		rec.Holding = holding
	}
	if opinion := (fieldChain{"opinion_text"}).lookup(m); opinion != "" {
		rec.OpinionText = opinion
	}
	return rec, nil
}
