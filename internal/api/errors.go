package api

import "github.com/pkg/errors"

type ErrorCode string

const (
	// ErrorCodeTransport covers network failures and undecodable responses;
	// surfaced as a generic retry-able banner.
	ErrorCodeTransport ErrorCode = "TRANSPORT"
	// ErrorCodeUnauthorized (401) means "not signed in", not a failure:
	// callers reset dependent state instead of showing an error.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	// ErrorCodeConflict (409) is surfaced as a field-level validation error,
	// e.g. a duplicate username on registration.
	ErrorCodeConflict ErrorCode = "CONFLICT"
	ErrorCodeServer   ErrorCode = "SERVER"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, status int, message string) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func codeOf(err error) ErrorCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrorCodeTransport
}

func IsUnauthorized(err error) bool { return codeOf(err) == ErrorCodeUnauthorized }
func IsNotFound(err error) bool     { return codeOf(err) == ErrorCodeNotFound }
func IsConflict(err error) bool     { return codeOf(err) == ErrorCodeConflict }
