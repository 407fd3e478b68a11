// Package adapter converts raw legal source files into draft canonical
// records.
//
// Each upstream source has its own adapter. Adapters share a small
// toolkit: prioritized field chains ("first present wins"), HTML
// stripping, date normalization, and a generic XML element finder.
// A failed parse is reported as an error for that one file and never
// aborts the surrounding batch.
package adapter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caselex/caselex/internal/schema"
)

// summaryPrefixLimit bounds the body-text prefix used as a fallback
// summary when a source has no explicit summary field.
const summaryPrefixLimit = 400

// ErrUnsupportedFormat is returned when a file extension has no parser
// in the selected adapter.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Adapter parses one raw source unit into a draft canonical record.
//
// Parse returns a draft with at least CaseName and Summary populated,
// or an error describing why the unit could not be used. Drafts are
// not yet stamped with an id or schema version; the normalizer does
// that after validation.
type Adapter interface {
	// Name is the adapter's registry name (matches the source tag).
	Name() string

	// Extensions lists the file extensions this adapter accepts,
	// including the leading dot.
	Extensions() []string

	// Parse converts one raw file into a draft record.
	Parse(path string, data []byte) (*schema.Record, error)
}

// ForSource returns the adapter registered under name.
func ForSource(name string) (Adapter, error) {
	switch name {
	case "scotus":
		return &SCOTUSAdapter{}, nil
	case "uscode":
		return &USCodeAdapter{}, nil
	case "private":
		return &PrivateAdapter{}, nil
	case "custom":
		return &CustomAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown adapter %q (available: scotus, uscode, private, custom)", name)
	}
}

// fieldChain is a prioritized list of field names; the first key
// present with a usable value wins.
type fieldChain []string

// lookup returns the first non-empty string value found in m walking
// the chain in priority order.
func (c fieldChain) lookup(m map[string]any) string {
	for _, key := range c {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
		}
	}
	return ""
}

// stem returns the file name without directory or extension, with
// underscores replaced by spaces. Used as the case-name fallback.
func stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}

// summaryPrefix truncates body text to a bounded prefix suitable as a
// fallback summary.
func summaryPrefix(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= summaryPrefixLimit {
		return body
	}
	return strings.TrimSpace(string(runes[:summaryPrefixLimit]))
}

// draft assembles a minimally-populated record, rejecting drafts that
// still lack a case name or summary after all fallbacks.
func draft(caseName, summary, source string) (*schema.Record, error) {
	caseName = strings.TrimSpace(caseName)
	summary = strings.TrimSpace(summary)
	if caseName == "" {
		return nil, errors.New("no case name could be derived")
	}
	if summary == "" {
		return nil, errors.New("no summary could be derived")
	}
	return &schema.Record{
		CaseName: caseName,
		Summary:  summary,
		Source:   source,
	}, nil
}
