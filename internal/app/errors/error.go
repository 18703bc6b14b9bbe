package errors

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// ErrorCode identifies the category of an AppError so callers can react
// programmatically instead of parsing messages.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConcurrency     ErrorCode = "CONCURRENCY_CONFLICT"
	CodeConstraint      ErrorCode = "CONSTRAINT_VIOLATION"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// FieldError is a single field-level validation violation. Validation
// failures report every violated field at once rather than the first one.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	StatusCode int          `json:"-"`
	Code       ErrorCode    `json:"code"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, code ErrorCode, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewValidationError(message string, fields ...FieldError) *AppError {
	err := NewAppError(http.StatusBadRequest, CodeValidation, message)
	err.Fields = fields
	return err
}

// NewInvalidStateError rejects an operation the aggregate's current
// lifecycle state forbids. Definitive, never retried.
func NewInvalidStateError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeInvalidState, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message)
}

// NewConcurrencyError signals a lost update: the aggregate version changed
// under the caller, who should reload and retry.
func NewConcurrencyError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConcurrency, message)
}

func NewConstraintViolationError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConstraint, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message)
}

func NewTooManyRequestsError(message string, limit int, resetUnix int64) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests,
		fmt.Sprintf("%s (limit %d, resets at %d)", message, limit, resetUnix))
}

func NewInternalServerError(originalError error, message string) *AppError {
	if originalError != nil {
		logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	}
	return NewAppError(http.StatusInternalServerError, CodeInternal, message)
}
