package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppError is an anticipated, operational failure that is safe to surface to
// the client as-is. Anything that is not an AppError is treated as a
// programming or unknown error and never shown verbatim outside development.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns "fail" for 4xx and "error" for 5xx, mirroring the response
// envelope statuses.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return StatusFail
	}
	return StatusError
}

func NewAppError(message string, statusCode int) *AppError {
	return &AppError{
		Code:       codeForStatus(statusCode),
		Message:    message,
		StatusCode: statusCode,
	}
}

func ValidationError(message string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: message, StatusCode: http.StatusBadRequest}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, StatusCode: http.StatusUnauthorized}
}

func ForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, StatusCode: http.StatusForbidden}
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("No %s found with that ID", resource),
		StatusCode: http.StatusNotFound,
	}
}

func ConflictError(field string) *AppError {
	return &AppError{
		Code:       "DUPLICATE_FIELD",
		Message:    fmt.Sprintf("Duplicate field value: %s. Please use another value", field),
		StatusCode: http.StatusBadRequest,
	}
}

func RateLimitedError() *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    "Too many requests from this IP. Please try again later",
		StatusCode: http.StatusTooManyRequests,
	}
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TranslateDBError converts driver-level failures into operational errors so
// that native error shapes never reach the client-facing handler.
func TranslateDBError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAppError(err); ok {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFoundError(resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		return ConflictError(duplicateKeyField(err))
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 {
				return ConflictError(duplicateKeyField(err))
			}
		}
	}

	return err
}

// duplicateKeyField digs the offending key out of the driver's duplicate-key
// message. Best effort; falls back to the raw notion of "value".
func duplicateKeyField(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, "dup key: {"); idx != -1 {
		rest := msg[idx+len("dup key: {"):]
		if end := strings.Index(rest, ":"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return "value"
}

// TranslateJWTError maps token failures onto the Unauthorized slot of the
// taxonomy, distinguishing expiry from tampering only in the message.
func TranslateJWTError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return UnauthorizedError("Your token has expired. Please login again")
	}
	return UnauthorizedError("Invalid token. Please login again")
}
