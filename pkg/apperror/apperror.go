// Package apperror defines the coded domain errors returned by services and
// converted to HTTP responses at the request boundary.
//
//	if exists {
//	    return nil, apperror.DuplicateIdentity("email already registered")
//	}
//
//	if apperror.IsCode(err, apperror.CodeNotFound) { ... }
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeDuplicateIdentity  Code = "DUPLICATE_IDENTITY"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeOwnershipMismatch  Code = "OWNERSHIP_MISMATCH"
	CodeInvalidRequest     Code = "INVALID_REQUEST"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus maps a code to its response status. Ownership mismatches are
// reported as 404 so a caller cannot probe for other owners' rows.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeDuplicateIdentity, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeInvalidToken, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeNotFound, CodeOwnershipMismatch:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a client-safe message and an
// optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// Sentinels for errors.Is.
var (
	ErrDuplicateIdentity  = &Error{Code: CodeDuplicateIdentity, Message: "identity already exists"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Message: "invalid token"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "token expired"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrOwnershipMismatch  = &Error{Code: CodeOwnershipMismatch, Message: "not found"}
	ErrInvalidRequest     = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

func DuplicateIdentity(msg string) *Error {
	return &Error{Code: CodeDuplicateIdentity, Message: msg}
}

func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

func InvalidToken(msg string, cause error) *Error {
	return &Error{Code: CodeInvalidToken, Message: msg, cause: cause}
}

func TokenExpired(msg string, cause error) *Error {
	return &Error{Code: CodeTokenExpired, Message: msg, cause: cause}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// OwnershipMismatch carries the same message a NotFound for the row would.
func OwnershipMismatch(msg string) *Error {
	return &Error{Code: CodeOwnershipMismatch, Message: msg}
}

func InvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

func InvalidRequestf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Wrap attaches a code and client-safe message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Internal wraps an unexpected failure. Its message never reaches clients.
func Internal(err error, msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
