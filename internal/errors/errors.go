package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a scorelog error code.
type ErrorCode string

const (
	ErrFormat           ErrorCode = "FORMAT_ERROR"      // 422: section grammar violation
	ErrParse            ErrorCode = "PARSE_ERROR"       // 422: record-level grammar violation
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404: missing mark, behavior, or file
	ErrOutOfRange       ErrorCode = "OUT_OF_RANGE"      // 422: duration beyond serializable bounds
	ErrInvalidPartition ErrorCode = "INVALID_PARTITION" // 422: file set fails role validation
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewFormat creates a 422 error for a structural violation of the log grammar.
// The source identifies the file or stream being parsed.
func NewFormat(source, msg string) *Error {
	return &Error{
		Code:    ErrFormat,
		Status:  422,
		Message: fmt.Sprintf("%s in %s", msg, source),
		Details: map[string]any{"source": source},
	}
}

// NewFormatLines creates a 422 error for a header line mismatch, reporting
// both the line found in the source and the line that was expected.
func NewFormatLines(source, found, expected string) *Error {
	return &Error{
		Code:    ErrFormat,
		Status:  422,
		Message: fmt.Sprintf("in %s, found %q instead of the expected %q", source, found, expected),
		Details: map[string]any{"source": source, "found": found, "expected": expected},
	}
}

// NewParse creates a 422 error for a line that violates record grammar.
// The element names the positional field that failed (frame, time, ...).
func NewParse(line, element, reason string) *Error {
	return &Error{
		Code:    ErrParse,
		Status:  422,
		Message: fmt.Sprintf("invalid line %q (%s)", line, reason),
		Details: map[string]any{"line": line, "element": element},
	}
}

// NewNotFound creates a 404 error for a missing mark, behavior, or file.
func NewNotFound(what string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"subject": what},
	}
}

// NewOutOfRange creates a 422 error for a duration that cannot be serialized.
func NewOutOfRange(msg string) *Error {
	return &Error{
		Code:    ErrOutOfRange,
		Status:  422,
		Message: msg,
	}
}

// NewInvalidPartition creates a 422 error carrying every validation problem
// collected across the file-set partitions.
func NewInvalidPartition(problems []string) *Error {
	return &Error{
		Code:    ErrInvalidPartition,
		Status:  422,
		Message: fmt.Sprintf("file set validation failed: %s", strings.Join(problems, "; ")),
		Details: map[string]any{"problems": problems},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) an Error with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *Error
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
