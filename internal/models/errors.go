package models

import "net/http"

// ServiceError is an API-visible failure with a machine-readable code.
// Anything else that escapes a handler is reported as a generic internal
// error so internals never leak to callers.
type ServiceError struct {
	Message    string
	Code       string
	StatusCode int
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError builds a ServiceError, defaulting the status to 400.
func NewServiceError(message, code string, statusCode int) *ServiceError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &ServiceError{Message: message, Code: code, StatusCode: statusCode}
}

// ErrorEnvelope is the uniform error response body.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the user-facing message and code.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FormatError wraps a message and code in the response envelope.
func FormatError(message, code string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorBody{Message: message, Code: code}}
}
