package normalize

import (
	"regexp"
	"strings"
)

// maxNameLength bounds the sanitized file name stem.
const maxNameLength = 100

var (
	unsafeCharsRe = regexp.MustCompile(`[^\w\s-]`)
	separatorRe   = regexp.MustCompile(`[-\s]+`)
)

// SanitizeName turns a case name into a safe file name stem: unsafe
// characters removed, runs of spaces and dashes collapsed to a single
// underscore, length bounded.
func SanitizeName(caseName string) string {
	name := unsafeCharsRe.ReplaceAllString(caseName, "")
	name = separatorRe.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "_")
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
		name = strings.Trim(name, "_")
	}
	return name
}
