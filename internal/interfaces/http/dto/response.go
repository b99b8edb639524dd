package dto

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	RequestID string              `json:"request_id,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// MessageResponse is the body of writes that only confirm success
type MessageResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
}

// NewValidationErrorResponse creates a 422 body listing messages per field
func NewValidationErrorResponse(requestID string, fields map[string][]string) ErrorResponse {
	return ErrorResponse{
		Message:   "Validation failed",
		Code:      ErrCodeValidation,
		RequestID: requestID,
		Errors:    fields,
	}
}
