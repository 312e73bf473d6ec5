package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidPosition      ErrorCode = "invalid_position"
	InvalidAccountNumber ErrorCode = "invalid_account_number"
	AccountNotFound      ErrorCode = "account_not_found"
	AccountExists        ErrorCode = "account_exists"
	InvalidName          ErrorCode = "invalid_name"
	IOFailure            ErrorCode = "io_error"
	ShortRead            ErrorCode = "short_read"
	ShortWrite           ErrorCode = "short_write"
	NoAccounts           ErrorCode = "no_accounts"
	InvalidInput         ErrorCode = "invalid_input"
	InternalError        ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy so the predefined errors stay untouched.
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps an error code to the status the HTTP layer should return.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidAccountNumber, InvalidName, InvalidInput:
		return http.StatusBadRequest
	case AccountNotFound, NoAccounts:
		return http.StatusNotFound
	case AccountExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAccountNumber = NewAppError(InvalidAccountNumber, "account number must be between 1 and 100")
	ErrAccountNotFound      = NewAppError(AccountNotFound, "account not found")
	ErrAccountExists        = NewAppError(AccountExists, "account already exists")
	ErrInvalidName          = NewAppError(InvalidName, "names must be non-empty and contain only letters, spaces, hyphens and apostrophes")
	ErrNoAccounts           = NewAppError(NoAccounts, "no accounts on file")
)
