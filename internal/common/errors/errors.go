// Package errors provides the classified error taxonomy shared by the
// dataset loaders and the webhook request boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request path
const (
	ErrCodeFormatError        ErrorCode = "FORMAT_ERROR"
	ErrCodeDatasetUnavailable ErrorCode = "DATASET_UNAVAILABLE"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Startup / dataset loading
const (
	ErrCodeDatasetLoadFailed        ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeInvalidRecord            ErrorCode = "INVALID_RECORD"
	ErrCodeDuplicateRecord          ErrorCode = "DUPLICATE_RECORD"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeUnknownSource            ErrorCode = "UNKNOWN_SOURCE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewFormatError creates a non-retryable, user-correctable input error.
func NewFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormatError,
		Message:   "Utterance does not match the NameID format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetUnavailableError creates a retryable lookup-time dataset error.
func NewDatasetUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetUnavailable,
		Message:   "Enrollment dataset unavailable",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps any unclassified fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatasetLoadFailedError creates a retryable startup load error.
func NewDatasetLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetLoadFailed,
		Message:   "Failed to load enrollment dataset",
		Details:   fmt.Sprintf("source: %s, error: %s", source, errDetails(err)),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidRecordError creates a non-retryable row validation error.
func NewInvalidRecordError(row int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRecord,
		Message:   "Invalid enrollment record",
		Details:   fmt.Sprintf("row: %d, %s", row, details),
		Retryable: false,
		Metadata:  map[string]interface{}{"row": row},
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateRecordError creates a non-retryable duplicate key error.
func NewDuplicateRecordError(name, employeeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateRecord,
		Message:   "Duplicate enrollment record",
		Details:   fmt.Sprintf("name: %s, employeeId: %s", name, employeeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnknownSourceError creates a non-retryable configuration error.
func NewUnknownSourceError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownSource,
		Message:   "Unsupported dataset source",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the webhook response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeFormatError:
		return http.StatusBadRequest
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFormatError:
		return "user_input"
	case ErrCodeDatasetUnavailable, ErrCodeDatasetLoadFailed, ErrCodeDatabaseConnectionFailed:
		return "data_source"
	case ErrCodeInvalidRecord, ErrCodeDuplicateRecord:
		return "data_quality"
	case ErrCodeUnknownSource:
		return "configuration"
	default:
		return "internal"
	}
}
