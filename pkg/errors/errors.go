// Package errors provides structured error types for layerforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// The codes mirror the recovery policy of the remap pipeline:
//   - DEGENERATE_RECT and INVALID_*: precondition errors, fatal to the
//     specific computation and rejected before any mapping division
//   - MISSING_LAYER: a dangling override or anchor reference; non-fatal,
//     the affected layer falls back to un-adjusted geometry
//   - MISSING_PIXELS: a pixel buffer absent during compositing; non-fatal,
//     the layer is skipped and a diagnostic recorded
//   - GENERATION_FAILED / TIMEOUT: async generation failures; recorded as
//     "not synthesizing", no automatic retry
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDegenerateRect, "source rect %s has no area", r)
//	if errors.Is(err, errors.ErrCodeDegenerateRect) {
//	    // Reject the computation for this slot
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGeneration, origErr, "generate preview for %s", slot)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Precondition errors: fatal to the specific computation.
	ErrCodeDegenerateRect Code = "DEGENERATE_RECT"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidLayerID Code = "INVALID_LAYER_ID"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Missing references: non-fatal, geometry degrades gracefully.
	ErrCodeMissingLayer  Code = "MISSING_LAYER"
	ErrCodeMissingAnchor Code = "MISSING_ANCHOR"

	// Missing resources during compositing.
	ErrCodeMissingPixels Code = "MISSING_PIXELS"

	// Async generation failures.
	ErrCodeGeneration Code = "GENERATION_FAILED"
	ErrCodeTimeout    Code = "TIMEOUT"

	// Storage and lookup.
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Internal errors.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsPrecondition reports whether the error is a precondition violation that
// should halt the computation for its slot rather than degrade.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateRect, ErrCodeInvalidInput, ErrCodeInvalidLayerID, ErrCodeInvalidFormat:
		return true
	}
	return false
}
