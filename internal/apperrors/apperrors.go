// Package apperrors is the single place where low-level storage and
// auth failures are turned into user-facing categories. Handlers never
// inspect driver errors themselves; they hand everything to Classify.
package apperrors

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AppError is a classified failure: a stable user message, an HTTP
// status, and (for validation) the full list of violated rules.
type AppError struct {
	Status  int
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind labels the severity the response body carries: client mistakes
// are "fail", everything 5xx is "error".
func (e *AppError) Kind() string {
	if e.Status < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

func Validation(details []string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: "invalid input",
		Details: details,
	}
}

func NotFound(what string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: what + " not found"}
}

func Conflict(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

func Auth(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

func Transport(err error) *AppError {
	return &AppError{
		Status:  http.StatusServiceUnavailable,
		Message: "storage is unreachable, try again shortly",
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		Err:     err,
	}
}

// Postgres SQLSTATE codes we care about.
const (
	pgInvalidTextRepresentation = "22P02"
	pgNotNullViolation          = "23502"
	pgForeignKeyViolation       = "23503"
	pgUniqueViolation           = "23505"
)

// Classify maps any error to an AppError. Already-classified errors
// pass through untouched.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return &AppError{Status: http.StatusBadRequest, Message: "malformed identifier", Err: err}
		case pgUniqueViolation:
			return &AppError{Status: http.StatusConflict, Message: "a record with that value already exists", Err: err}
		case pgNotNullViolation:
			return &AppError{Status: http.StatusBadRequest, Message: "a required field is missing", Err: err}
		case pgForeignKeyViolation:
			return &AppError{Status: http.StatusBadRequest, Message: "referenced record does not exist", Err: err}
		}
		// Class 08 is connection_exception.
		if strings.HasPrefix(pgErr.Code, "08") {
			return Transport(err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return Transport(err)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Auth("session expired, please log in again")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims) {
		return Auth("invalid session token")
	}

	return Internal(err)
}
