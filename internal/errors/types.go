// Package errors provides the structured error type used at the boundaries
// of tagcheck: reading the input file and loading configuration.
//
// Structural problems in a document are never errors; they are reported as
// validator diagnostics. A CheckError means the run itself could not finish.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes.
const (
	CodeFileNotFound  = "ERR_FILE_NOT_FOUND"
	CodeFileRead      = "ERR_FILE_READ"
	CodeDecode        = "ERR_DECODE"
	CodeTokenize      = "ERR_TOKENIZE"
	CodeInvalidConfig = "ERR_INVALID_CONFIG"
	CodeNoInput       = "ERR_NO_INPUT"
	CodeBadFormat     = "ERR_BAD_FORMAT"
)

// CheckError is a structured error type with context.
type CheckError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	FilePath string
	Line     int
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *CheckError) Is(target error) bool {
	var t *CheckError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithLocation adds file location information.
func (e *CheckError) WithLocation(filePath string, line int) *CheckError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *CheckError {
	return &CheckError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *CheckError {
	return &CheckError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *CheckError {
	return &CheckError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *CheckError {
	return &CheckError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetErrorType returns the type of a CheckError, or internal for anything else.
func GetErrorType(err error) ErrorType {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Type
	}

	return ErrorTypeInternal
}
