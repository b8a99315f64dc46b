// Package errors provides the standardized error taxonomy shared by the
// session, API client, record and experience layers.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// No valid session at all. Handled at the boundary with a redirect
	// to the login page.
	ErrCodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"

	// A token exists but is stale or could not be confirmed server-side.
	// Triggers logout, then redirect.
	ErrCodeSessionExpired ErrorCode = "SESSION_EXPIRED"

	// Transport-level failure after the retry budget is spent.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// A local data-store query or scan failed.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"

	// The server rejected the request with a non-retryable status.
	ErrCodeAPI ErrorCode = "API_ERROR"

	// Domain-rule violations.
	ErrCodeInvalidPhase ErrorCode = "INVALID_PHASE"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodePermission   ErrorCode = "PERMISSION_DENIED"
)

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Status    int       `json:"status,omitempty"` // HTTP status for API_ERROR
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAuthenticationError creates a non-retryable missing-session error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "No authenticated session",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionExpiredError creates a stale-token error.
func NewSessionExpiredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionExpired,
		Message:   "Session has expired",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError wraps a transport or store failure. op names the operation
// that failed.
func NewNetworkError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   fmt.Sprintf("%s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError wraps a database query, exec or scan failure. op names
// the operation that failed.
func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   fmt.Sprintf("%s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAPIError creates an error for a server-rejected request. message falls
// back to the HTTP status text upstream, so it is always non-empty here.
func NewAPIError(status int, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPI,
		Message:   message,
		Status:    status,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPhaseError creates a probation renewal rule violation.
func NewInvalidPhaseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPhase,
		Message:   "Experience period is not renewable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a missing-record error.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates an invalid-input error for the named field or
// payload.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   fmt.Sprintf("invalid %s", field),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionError maps a row-level-security rejection from the store.
func NewPermissionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePermission,
		Message:   "Operation not permitted for this role",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandard unwraps err into a *StandardError, or nil.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	se := AsStandard(err)
	return se != nil && se.Code == code
}

// IsAuthFailure reports whether err should send the caller to the login page.
func IsAuthFailure(err error) bool {
	return HasCode(err, ErrCodeAuthentication) || HasCode(err, ErrCodeSessionExpired)
}
