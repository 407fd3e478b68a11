package adapter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caselex/caselex/internal/schema"
)

// Field priority chains for the JSON shapes seen in the wild
// (CourtListener, Justia, official repositories).
var (
	scotusNameChain    = fieldChain{"case_name", "caseName", "name", "title"}
	scotusSummaryChain = fieldChain{"summary", "opinion_text", "opinionText", "plain_text", "html", "content"}
	scotusCiteChain    = fieldChain{"citation", "cite"}
	scotusDateChain    = fieldChain{"date", "decision_date"}
)

// SCOTUSAdapter normalizes Supreme Court opinions from JSON, XML, and
// plain-text dumps.
type SCOTUSAdapter struct{}

func (a *SCOTUSAdapter) Name() string { return "scotus" }

func (a *SCOTUSAdapter) Extensions() []string { return []string{".json", ".xml", ".txt"} }

func (a *SCOTUSAdapter) Parse(path string, data []byte) (*schema.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return a.parseJSON(path, data)
	case ".xml":
		return a.parseXML(path, data)
	case ".txt":
		return a.parseTXT(path, data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (a *SCOTUSAdapter) parseJSON(path string, data []byte) (*schema.Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	caseName := scotusNameChain.lookup(m)
	if caseName == "" {
		caseName = stem(path)
	}
	summary := stripHTML(scotusSummaryChain.lookup(m))

	rec, err := draft(caseName, summary, "scotus")
	if err != nil {
		return nil, err
	}

	if cite := scotusCiteChain.lookup(m); cite != "" {
		rec.Citation = cite
	}
	if date := scotusDateChain.lookup(m); date != "" {
		rec.Date = normalizeDate(date)
	}
	if jur := (fieldChain{"jurisdiction"}).lookup(m); jur != "" {
		rec.Jurisdiction = jur
	}
	return rec, nil
}

func (a *SCOTUSAdapter) parseXML(path string, data []byte) (*schema.Record, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	caseName := doc.findText("case_name", "title", "name")
	if caseName == "" {
		caseName = stem(path)
	}
	summary := doc.findText("opinion", "text", "content", "summary")

	rec, err := draft(caseName, summary, "scotus")
	if err != nil {
		return nil, err
	}

	if cite := doc.findText("citation"); cite != "" {
		rec.Citation = cite
	}
	if date := doc.findText("date"); date != "" {
		rec.Date = normalizeDate(date)
	}
	return rec, nil
}

func (a *SCOTUSAdapter) parseTXT(path string, data []byte) (*schema.Record, error) {
	// Filename becomes the case name, the full body the summary.
	return draft(stem(path), string(data), "scotus")
}
