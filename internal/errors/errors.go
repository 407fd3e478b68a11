package errors

import (
	"fmt"
)

// CaselexError is the structured error type for caselex.
// It provides context for error handling, logging, and user presentation.
type CaselexError struct {
	// Code is the unique error code (e.g., "ERR_103_MISSING_SOURCE_DIR").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Parse, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CaselexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CaselexError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CaselexError.
func (e *CaselexError) Is(target error) bool {
	if t, ok := target.(*CaselexError); ok {
		return e.Code == t.Code
	}
	return false
}

// IsFatal reports whether the error should abort processing.
func (e *CaselexError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CaselexError) WithDetail(key, value string) *CaselexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *CaselexError) WithSuggestion(suggestion string) *CaselexError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CaselexError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CaselexError {
	return &CaselexError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CaselexError from an existing error.
// The error's message becomes the CaselexError message.
func Wrap(code string, err error) *CaselexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *CaselexError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// MissingSourceError creates the fatal missing-source-directory error.
func MissingSourceError(dir string) *CaselexError {
	return New(ErrCodeMissingSource, fmt.Sprintf("source directory not found: %s", dir), nil).
		WithSuggestion("check the --src path or create the directory")
}

// ParseError creates a parse error for a malformed source unit.
func ParseError(message string, cause error) *CaselexError {
	return New(ErrCodeParseFailed, message, cause)
}

// ValidationError creates a schema validation error.
func ValidationError(message string, cause error) *CaselexError {
	return New(ErrCodeInvalidRecord, message, cause)
}

// IntegrityError creates a store integrity error.
// Integrity errors are fatal: a desynchronized store must never serve queries.
func IntegrityError(message string, cause error) *CaselexError {
	return New(ErrCodeStoreIntegrity, message, cause)
}

// IsFatal checks if an error is a fatal CaselexError.
func IsFatal(err error) bool {
	if ce, ok := err.(*CaselexError); ok {
		return ce.IsFatal()
	}
	return false
}
