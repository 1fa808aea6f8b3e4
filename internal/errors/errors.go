package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode int

const (
	// Caller errors
	ErrCodeBadRequest   ErrorCode = 400
	ErrCodeUnauthorized ErrorCode = 401
	ErrCodeNotFound     ErrorCode = 404
	ErrCodeInvalidKey   ErrorCode = 420
	ErrCodeInvalidRange ErrorCode = 421

	// Scan outcomes and server errors
	ErrCodeInternal      ErrorCode = 500
	ErrCodeStorage       ErrorCode = 507
	ErrCodeNonUTF8Output ErrorCode = 520
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, key.ErrInvalidKey) matches any invalid key error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewBadRequest creates a bad request error
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidKey creates an invalid key error
func NewInvalidKey(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidKey,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidRange creates an invalid key range error
func NewInvalidRange(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidRange,
		Message:    message,
		HTTPStatus: http.StatusRequestedRangeNotSatisfiable,
	}
}

// NewNonUTF8Output creates the error returned when a deciphered buffer is not text
func NewNonUTF8Output(message string) *AppError {
	return &AppError{
		Code:       ErrCodeNonUTF8Output,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewUnauthorized creates an unauthorized error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewNotFound creates a not found error
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewStorageErrorWithCause creates a storage error with cause
func NewStorageErrorWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStorage,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalWithCause creates an internal error with cause
func NewInternalWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// HasCode reports whether any error in err's chain is an *AppError with code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// ToHTTPStatus converts an error to HTTP status code
func ToHTTPStatus(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// ToJSON converts an error to JSON bytes
func ToJSON(err error) []byte {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		data, _ := json.Marshal(map[string]interface{}{
			"code": appErr.Code,
			"msg":  appErr.Message,
		})
		return data
	}
	data, _ := json.Marshal(map[string]interface{}{
		"code": ErrCodeInternal,
		"msg":  err.Error(),
	})
	return data
}
