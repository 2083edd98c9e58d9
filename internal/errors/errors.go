package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Marginalia error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrEmptySelection    ErrorCode = "EMPTY_SELECTION"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrPositionNotFound  ErrorCode = "POSITION_NOT_FOUND"  // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrConflict          ErrorCode = "CONFLICT"            // 409
	ErrArticleTooLarge   ErrorCode = "ARTICLE_TOO_LARGE"   // 413
	ErrInternal          ErrorCode = "INTERNAL"            // 500
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

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewEmptySelection creates a 400 error for empty or whitespace-only selections.
// Callers must not persist a highlight after receiving this error.
func NewEmptySelection() *Error {
	return &Error{
		Code:    ErrEmptySelection,
		Status:  400,
		Message: "selection is empty or whitespace-only",
	}
}

// NewNotFound creates a 404 error for a missing article, highlight, or note.
func NewNotFound(kind, identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewPositionNotFound creates a 404 error for when every restoration strategy
// has been exhausted for a stored position.
func NewPositionNotFound(highlightID string) *Error {
	return &Error{
		Code:    ErrPositionNotFound,
		Status:  404,
		Message: fmt.Sprintf("position could not be located for highlight %s", highlightID),
		Details: map[string]any{"highlight_id": highlightID},
	}
}

// NewNameAlreadyExists creates a 409 error for article title collisions.
func NewNameAlreadyExists(title string) *Error {
	return &Error{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("article with title %q already exists", title),
		Details: map[string]any{"title": title},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *Error {
	return &Error{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewArticleTooLarge creates a 413 error when article content exceeds the size limit.
func NewArticleTooLarge(max, actual int) *Error {
	return &Error{
		Code:    ErrArticleTooLarge,
		Status:  413,
		Message: fmt.Sprintf("article exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the underlying error is kept in Details for logging.
func NewInternal(err error) *Error {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a structured Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
