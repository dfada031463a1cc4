// Package errors provides custom error types for the networth API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Flow submission errors. Validation errors are field-level and recoverable;
// they never reach the repository. A failed inline asset creation aborts the
// whole submission. Repository errors mean the submission did not happen and
// identical input may be resubmitted.
var (
	ErrValidation           = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrAssetCreationFailed  = &AppError{Code: "ASSET_CREATION_FAILED", Message: "Could not create the new asset", StatusCode: http.StatusBadGateway}
	ErrRepository           = &AppError{Code: "REPOSITORY_ERROR", Message: "The flow could not be saved", StatusCode: http.StatusBadGateway}
	ErrSubmissionInFlight   = &AppError{Code: "SUBMISSION_IN_FLIGHT", Message: "A submission is already in progress", StatusCode: http.StatusConflict}
	ErrUnknownCategory      = &AppError{Code: "UNKNOWN_CATEGORY", Message: "Unknown flow category", StatusCode: http.StatusBadRequest}
	ErrCurrencyRateNotFound = &AppError{Code: "CURRENCY_RATE_NOT_FOUND", Message: "No conversion rate posted for currency", StatusCode: http.StatusBadRequest}
)

// Asset errors.
var (
	ErrAssetNotFound     = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAsset    = &AppError{Code: "DUPLICATE_ASSET", Message: "An asset with this name already exists", StatusCode: http.StatusConflict}
	ErrNotAdjustable     = &AppError{Code: "NOT_ADJUSTABLE", Message: "This asset type does not support balance adjustment", StatusCode: http.StatusBadRequest}
	ErrNotShareBased     = &AppError{Code: "NOT_SHARE_BASED", Message: "This asset type does not track shares", StatusCode: http.StatusBadRequest}
	ErrInsufficientShare = &AppError{Code: "INSUFFICIENT_SHARES", Message: "Insufficient shares for this sale", StatusCode: http.StatusBadRequest}
)

// Debt errors.
var (
	ErrDebtNotFound = &AppError{Code: "DEBT_NOT_FOUND", Message: "Debt not found", StatusCode: http.StatusNotFound}
)

// Flow errors.
var (
	ErrFlowNotFound = &AppError{Code: "FLOW_NOT_FOUND", Message: "Flow not found", StatusCode: http.StatusNotFound}
)

// Schedule errors.
var (
	ErrScheduleNotFound = &AppError{Code: "SCHEDULE_NOT_FOUND", Message: "Recurring schedule not found", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrQuoteUnavailable = &AppError{Code: "QUOTE_UNAVAILABLE", Message: "Market data is currently unavailable", StatusCode: http.StatusBadGateway}
)
