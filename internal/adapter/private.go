package adapter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caselex/caselex/internal/schema"
)

var (
	privateNameChain    = fieldChain{"term", "title", "name"}
	privateSummaryChain = fieldChain{"definition", "text", "content", "summary"}
)

// PrivateAdapter normalizes licensed reference works (Black's Law
// Dictionary, American Jurisprudence). The concrete source tag is
// derived from the file name: anything containing "black" is tagged
// blackslaw, everything else amjur.
//
// Only use this with properly licensed content; raw proprietary
// material must never be committed.
type PrivateAdapter struct{}

func (a *PrivateAdapter) Name() string { return "private" }

func (a *PrivateAdapter) Extensions() []string { return []string{".json", ".xml", ".txt"} }

func (a *PrivateAdapter) Parse(path string, data []byte) (*schema.Record, error) {
	source := privateSource(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}

		caseName := privateNameChain.lookup(m)
		if caseName == "" {
			caseName = stem(path)
		}

		rec, err := draft(caseName, privateSummaryChain.lookup(m), source)
		if err != nil {
			return nil, err
		}
		if cite := (fieldChain{"citation"}).lookup(m); cite != "" {
			rec.Citation = cite
		}
		return rec, nil

	case ".xml":
		doc, err := parseXML(data)
		if err != nil {
			return nil, err
		}
		// Plain text extraction of the whole document.
		return draft(stem(path), strings.TrimSpace(doc.allText()), source)

	case ".txt":
		return draft(stem(path), string(data), source)

	default:
		return nil, ErrUnsupportedFormat
	}
}

// privateSource picks the closed-enumeration tag for a licensed file.
func privateSource(path string) string {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "black") {
		return "blackslaw"
	}
	return "amjur"
}
