package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Validation error codes, raised by value object construction
const (
	// ErrCodeInvalidEmail is used when an email address fails validation
	ErrCodeInvalidEmail = "INVALID_EMAIL"
	// ErrCodeInvalidPhone is used when a phone number fails validation
	ErrCodeInvalidPhone = "INVALID_PHONE"
	// ErrCodeInvalidCredit is used when a credit amount is not a finite number
	ErrCodeInvalidCredit = "INVALID_CREDIT"
	// ErrCodeInvalidName is used when a name field is empty or too long
	ErrCodeInvalidName = "INVALID_NAME"
	// ErrCodeInvalidAmount is used when a transaction amount is invalid
	ErrCodeInvalidAmount = "INVALID_AMOUNT"
	// ErrCodeInvalidInput is used for other invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeCreditNonPositive is used when an operation would leave the
	// credit balance below zero
	ErrCodeCreditNonPositive = "CREDIT_NON_POSITIVE"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeInvalidEmail:  http.StatusBadRequest,
	ErrCodeInvalidPhone:  http.StatusBadRequest,
	ErrCodeInvalidCredit: http.StatusBadRequest,
	ErrCodeInvalidName:   http.StatusBadRequest,
	ErrCodeInvalidAmount: http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeCreditNonPositive: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown validation-style codes fall back to 400, anything else to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
