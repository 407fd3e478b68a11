package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	caselexerrors "github.com/caselex/caselex/internal/errors"
)

// ValidateDir validates every persisted record in dir and returns one
// message per problem found, prefixed with the offending file name.
//
// A missing directory is a fatal configuration error, not a validation
// finding: there is nothing to validate.
func ValidateDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, caselexerrors.New(caselexerrors.ErrCodeMissingSource,
				fmt.Sprintf("case directory does not exist: %s", dir), err)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, caselexerrors.ConfigError(fmt.Sprintf("not a directory: %s", dir), nil)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(paths)

	var findings []string
	for _, path := range paths {
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			findings = append(findings, fmt.Sprintf("%s: cannot read file: %v", name, err))
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			findings = append(findings, fmt.Sprintf("%s: invalid JSON: %v", name, err))
			continue
		}

		for _, msg := range Validate(&rec) {
			findings = append(findings, fmt.Sprintf("%s: %s", name, msg))
		}
	}

	return findings, nil
}
