// Package schema defines the canonical legal record and its validation.
//
// A canonical record is one normalized legal document or definition.
// Its identity is a pure function of (case_name, summary), which makes
// re-ingestion of identical content a deterministic no-op.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SchemaVersion is the fixed schema tag stamped on every record.
const SchemaVersion = "1"

// idLength is the number of hex characters kept from the content hash.
const idLength = 16

// Record is a normalized legal document or definition.
// CaseName and Summary are required; everything else is optional metadata.
type Record struct {
	ID            string `json:"id,omitempty"`
	CaseName      string `json:"case_name"`
	Summary       string `json:"summary"`
	SchemaVersion string `json:"schema_version,omitempty"`
	Source        string `json:"source,omitempty"`
	Citation      string `json:"citation,omitempty"`
	Date          string `json:"date,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty"`
	Facts         string `json:"facts,omitempty"`
	Holding       string `json:"holding,omitempty"`
	OpinionText   string `json:"opinion_text,omitempty"`
}

// ValidSources is the closed enumeration of accepted source tags.
var ValidSources = map[string]bool{
	"scotus":    true,
	"uscode":    true,
	"blackslaw": true,
	"amjur":     true,
	"custom":    true,
}

// SourceNames returns the accepted source tags in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(ValidSources))
	for name := range ValidSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComputeID derives the deterministic record id from its content.
// Identical (caseName, summary) pairs always produce the identical id,
// which is what deduplication relies on.
func ComputeID(caseName, summary string) string {
	h := sha256.Sum256([]byte(caseName + "\x00" + summary))
	return hex.EncodeToString(h[:])[:idLength]
}

// Stamp fills in the derived fields of a draft record: id, schema
// version, and the source tag when one is given. It does not validate.
func (r *Record) Stamp(sourceTag string) {
	r.ID = ComputeID(r.CaseName, r.Summary)
	r.SchemaVersion = SchemaVersion
	if sourceTag != "" {
		r.Source = sourceTag
	}
}

// Validate checks a record against the schema and returns one message
// per violation. An empty slice means the record is valid. Pure: no
// side effects, no mutation.
func Validate(r *Record) []string {
	var errs []string

	if strings.TrimSpace(r.CaseName) == "" {
		errs = append(errs, "missing required field: case_name")
	}
	if strings.TrimSpace(r.Summary) == "" {
		errs = append(errs, "missing required field: summary")
	}

	if r.Source != "" && !ValidSources[r.Source] {
		errs = append(errs, fmt.Sprintf(
			"invalid source %q, must be one of: %s",
			r.Source, strings.Join(SourceNames(), ", ")))
	}

	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			errs = append(errs, fmt.Sprintf(
				"field 'date' must be a YYYY-MM-DD calendar date, got: %s", r.Date))
		}
	}

	return errs
}

// IsValid reports whether the record passes schema validation.
func IsValid(r *Record) bool {
	return len(Validate(r)) == 0
}
