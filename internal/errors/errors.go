package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Sorteador error code.
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrPermissionDenied   ErrorCode = "PERMISSION_DENIED"   // 403
	ErrFormat             ErrorCode = "FORMAT_ERROR"        // 415
	ErrPreconditionFailed ErrorCode = "PRECONDITION_FAILED" // 412
	ErrOutOfRange         ErrorCode = "OUT_OF_RANGE"        // 400
	ErrEmptySet           ErrorCode = "EMPTY_SET"           // 404
	ErrIO                 ErrorCode = "IO_ERROR"            // 500
	ErrCorruptState       ErrorCode = "CORRUPT_STATE"       // 500
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// SorteioError represents a structured error with code, status, and details.
type SorteioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *SorteioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *SorteioError) Unwrap() error {
	return e.cause
}

// NewNotFound creates a 404 error for a missing file.
func NewNotFound(path string) *SorteioError {
	return &SorteioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("arquivo não encontrado: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewPermissionDenied creates a 403 error for an unreadable or unwritable path.
func NewPermissionDenied(msg, path string, cause error) *SorteioError {
	return &SorteioError{
		Code:    ErrPermissionDenied,
		Status:  403,
		Message: msg,
		Details: map[string]any{"path": path},
		cause:   cause,
	}
}

// NewFormat creates a 415 error for a file that is not a usable spreadsheet.
func NewFormat(msg string, cause error) *SorteioError {
	return &SorteioError{
		Code:    ErrFormat,
		Status:  415,
		Message: msg,
		cause:   cause,
	}
}

// NewPrecondition creates a 412 error for an operation invoked before its
// required state exists.
func NewPrecondition(msg string) *SorteioError {
	return &SorteioError{
		Code:    ErrPreconditionFailed,
		Status:  412,
		Message: msg,
	}
}

// NewOutOfRange creates a 400 error for a quantity outside [min, max].
func NewOutOfRange(what string, value, min, max int) *SorteioError {
	return &SorteioError{
		Code:    ErrOutOfRange,
		Status:  400,
		Message: fmt.Sprintf("%s deve estar entre %d e %d (recebido %d)", what, min, max, value),
		Details: map[string]any{"value": value, "min": min, "max": max},
	}
}

// NewEmptySet creates a 404 error for a category filter that matches nothing.
func NewEmptySet(category string) *SorteioError {
	return &SorteioError{
		Code:    ErrEmptySet,
		Status:  404,
		Message: fmt.Sprintf("nenhum item com classificação '%s'", category),
		Details: map[string]any{"category": category},
	}
}

// NewIO creates a 500 error for a generic file system failure.
func NewIO(msg string, cause error) *SorteioError {
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &SorteioError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		cause:   cause,
	}
}

// NewCorruptState creates a 500 error for a persisted file that cannot be parsed.
func NewCorruptState(path string, cause error) *SorteioError {
	return &SorteioError{
		Code:    ErrCorruptState,
		Status:  500,
		Message: "o arquivo de histórico está corrompido. Um novo será criado.",
		Details: map[string]any{"path": path},
		cause:   cause,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SorteioError {
	return &SorteioError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SorteioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SorteioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if err (or anything it wraps) is a SorteioError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SorteioError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns err as a *SorteioError, wrapping unknown errors as INTERNAL.
func As(err error) *SorteioError {
	var sErr *SorteioError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return NewInternal(err)
}
