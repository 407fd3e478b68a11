// Package errors provides structured error handling for caselex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Parse errors (malformed source units)
//   - 4XX: Validation errors
//   - 5XX: Integrity and internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryParse indicates malformed source unit errors.
	CategoryParse Category = "PARSE"
	// CategoryValidation indicates schema validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryIntegrity indicates persisted-store integrity errors.
	CategoryIntegrity Category = "INTEGRITY"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the batch can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid  = "ERR_101_CONFIG_INVALID"
	ErrCodeUnknownAdapter = "ERR_102_UNKNOWN_ADAPTER"
	ErrCodeMissingSource  = "ERR_103_MISSING_SOURCE_DIR"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileRead     = "ERR_202_FILE_READ"
	ErrCodeFileWrite    = "ERR_203_FILE_WRITE"
	ErrCodeStoreLocked  = "ERR_204_STORE_LOCKED"

	// Parse errors (300-399)
	ErrCodeParseFailed = "ERR_301_PARSE_FAILED"
	ErrCodeEmptyDraft  = "ERR_302_EMPTY_DRAFT"
	ErrCodeUnsupported = "ERR_303_UNSUPPORTED_FORMAT"

	// Validation errors (400-499)
	ErrCodeInvalidRecord = "ERR_401_INVALID_RECORD"

	// Integrity and internal errors (500-599)
	ErrCodeStoreIntegrity = "ERR_501_STORE_INTEGRITY"
	ErrCodeModelMismatch  = "ERR_502_MODEL_MISMATCH"
	ErrCodeInternal       = "ERR_503_INTERNAL"
)

// categoryFromCode derives the category from an error code prefix.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryParse
	case '4':
		return CategoryValidation
	case '5':
		return CategoryIntegrity
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from an error code.
// Configuration and integrity failures abort processing; parse and
// validation failures are recovered per file.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig, CategoryIntegrity:
		return SeverityFatal
	default:
		return SeverityError
	}
}
