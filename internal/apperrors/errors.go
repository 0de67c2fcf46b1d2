package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Billing engine errors.
var (
	// ErrInvalidRate is returned when a conversion rate is zero or negative.
	ErrInvalidRate = errors.New("invalid conversion rate")

	// ErrCaseNotFound means the case disappeared between listing and processing.
	ErrCaseNotFound = errors.New("case not found")

	// ErrCaseClosed is returned for mutations against a completed case.
	ErrCaseClosed = errors.New("case is complete")

	// ErrPersistence wraps a failed write of case totals.
	ErrPersistence = errors.New("persistence failure")

	// ErrAuditLog wraps a failed charge history insert.
	ErrAuditLog = errors.New("audit log failure")

	// ErrDataIntegrity flags a source row with a missing or non-numeric amount.
	ErrDataIntegrity = errors.New("data integrity warning")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewDuplicateError returns an AppError that matches ErrDuplicate.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}
