package adapter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caselex/caselex/internal/schema"
)

// uscodeFileRe extracts title and section numbers from file names such
// as title_18_sec_241.txt or Title42Section1983.txt.
var uscodeFileRe = regexp.MustCompile(`(?i)title[_\s]?(\d+).*?sec(?:tion)?[_\s]?(\d+)`)

// USCodeAdapter normalizes U.S. Code sections from uscode.house.gov and
// govinfo.gov style XML, plus plain-text extracts.
type USCodeAdapter struct{}

func (a *USCodeAdapter) Name() string { return "uscode" }

func (a *USCodeAdapter) Extensions() []string { return []string{".xml", ".txt"} }

func (a *USCodeAdapter) Parse(path string, data []byte) (*schema.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return a.parseXML(path, data)
	case ".txt":
		return a.parseTXT(path, data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (a *USCodeAdapter) parseXML(_ string, data []byte) (*schema.Record, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	title := doc.findText("title", "num")
	section := doc.findText("section", "enum")
	heading := doc.findText("heading")

	caseName := fmt.Sprintf("USC Title %s Section %s", title, section)
	if heading != "" {
		caseName += " - " + heading
	}

	summary := doc.findText("text", "content", "chapeau")

	rec, err := draft(caseName, summary, "uscode")
	if err != nil {
		return nil, err
	}
	rec.Jurisdiction = "federal"
	if title != "" && section != "" {
		rec.Citation = fmt.Sprintf("%s U.S.C. § %s", title, section)
	}
	return rec, nil
}

func (a *USCodeAdapter) parseTXT(path string, data []byte) (*schema.Record, error) {
	filename := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var caseName, citation string
	if m := uscodeFileRe.FindStringSubmatch(filename); m != nil {
		caseName = fmt.Sprintf("USC Title %s Section %s", m[1], m[2])
		citation = fmt.Sprintf("%s U.S.C. § %s", m[1], m[2])
	} else {
		caseName = strings.ReplaceAll(filename, "_", " ")
	}

	rec, err := draft(caseName, string(data), "uscode")
	if err != nil {
		return nil, err
	}
	rec.Jurisdiction = "federal"
	rec.Citation = citation
	return rec, nil
}
