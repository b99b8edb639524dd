package dto

import "net/http"

// Error codes returned in the "code" field of error bodies. Domain errors
// carry the same strings, so a DomainError code maps straight through.
const (
	// ErrCodeInternal is used for storage and other unexpected failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeValidation is used when field validation fails
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key was already seen
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	// ErrCodeServiceUnavailable is used when a dependency is down
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeInvalidInput:       http.StatusUnprocessableEntity,
	ErrCodeDuplicateRequest:   http.StatusConflict,
	ErrCodePayloadTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
