package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogPath returns the default log file path (~/.caselex/logs/caselex.log).
// Falls back to the current directory if the home directory is unavailable.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".caselex", "logs", "caselex.log")
	}
	return filepath.Join(home, ".caselex", "logs", "caselex.log")
}
