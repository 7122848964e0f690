package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeTransport    ErrorType = "TRANSPORT_ERROR"
	ErrorTypeAPI          ErrorType = "API_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeFieldTooLong     ErrorCode = "FIELD_TOO_LONG"
	ErrCodeWrongFieldType   ErrorCode = "WRONG_FIELD_TYPE"
	ErrCodeDuplicateValue   ErrorCode = "DUPLICATE_VALUE"

	ErrCodeRequestFailed  ErrorCode = "REQUEST_FAILED"
	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeBadEnvelope    ErrorCode = "BAD_ENVELOPE"
	ErrCodeBackendError   ErrorCode = "BACKEND_ERROR"
	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeIncompleteLogin    ErrorCode = "INCOMPLETE_LOGIN"
	ErrCodeNotLoggedIn        ErrorCode = "NOT_LOGGED_IN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeUnknownEntity ErrorCode = "UNKNOWN_ENTITY"
	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
)

// AppError carries the failure taxonomy used across the console: validation
// failures never reach the network, transport failures mean the backend was
// unreachable, API failures carry the backend's message verbatim.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			if len(messages) > 0 {
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewTransportError covers the "fetch rejected or timed out" class: the
// operation is abandoned, caches stay unchanged, nothing is retried.
func NewTransportError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Code:    ErrCodeRequestFailed,
		Message: message,
		Cause:   cause,
	}
}

// NewAPIError covers backend-reported business failures. The message is the
// backend's own message and is surfaced to the operator verbatim.
func NewAPIError(message string, statusCode int) *AppError {
	return &AppError{
		Type:       ErrorTypeAPI,
		Code:       ErrCodeBackendError,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrIncompleteLogin = NewUnauthorizedError("login response carried no user or token", ErrCodeIncompleteLogin)
	ErrNotLoggedIn     = NewUnauthorizedError("not logged in", ErrCodeNotLoggedIn)
	ErrTokenExpired    = NewUnauthorizedError("session token has expired", ErrCodeTokenExpired)
	ErrUnknownEntity   = NewValidationError("unknown entity kind", ErrCodeUnknownEntity)
	ErrRecordNotFound  = NewNotFoundError("record not found", ErrCodeRecordNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
