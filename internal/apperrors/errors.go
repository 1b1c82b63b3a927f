package apperrors

import (
	"errors"
	"net/http"
)

// ErrUnauthenticated indicates that no principal could be resolved for the request.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden indicates that the principal lacks the required role or is not the subject of the resource.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrInvalidTransition indicates that a state machine precondition was not met.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrConflict indicates that a concurrent write won the race for the same row.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// AppError carries an HTTP-ish code, a message that is safe to show to callers
// and the underlying cause. errors.Is matches both the kind sentinel and the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
	kind    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError wraps an unexpected failure (store unreachable, scan failure, ...).
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewUnauthenticatedError reports a request without a resolvable principal.
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, kind: ErrUnauthenticated}
}

// NewNotFoundError reports a missing submission/round/assignment/version/issue.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, kind: ErrNotFound}
}

// NewForbiddenError reports a principal that may not perform the action.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, kind: ErrForbidden}
}

// NewConflictError reports a lost concurrent-write race.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, kind: ErrConflict}
}

// NewValidationFailedError reports malformed input.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, kind: ErrValidation}
}

// NewInvalidTransitionError reports an unmet state machine precondition.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, kind: ErrInvalidTransition}
}

// PublicMessage returns the message of the outermost AppError, or fallback when the
// error carries no caller-safe message.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.kind != nil {
		return appErr.Message
	}
	return fallback
}
