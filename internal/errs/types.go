package errs

import (
	"net/http"
	"strconv"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors carries
// field-level validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusMethodNotAllowed),
		Message:  "Method not allowed",
		Status:   http.StatusMethodNotAllowed,
		Override: true,
	}
}

// NewTooManyRequestsError creates a 429 with a retry hint.
func NewTooManyRequestsError(retryAfterSeconds int) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusTooManyRequests),
		Message:  "Too many requests",
		Status:   http.StatusTooManyRequests,
		Override: true,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "Please wait before trying again",
			Value:   strconv.Itoa(retryAfterSeconds),
		},
	}
}

// NewInternalServerError creates a generic 500 that leaks nothing about the cause.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewServerError creates a 500 with a caller-chosen message, for failures
// the frontend is allowed to see (e.g. "Missing server config").
func NewServerError(message string, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusInternalServerError)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusInternalServerError,
		Override: true,
	}
}

// NewBadGatewayError creates a 502 for upstream provider failures.
func NewBadGatewayError(message string, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusBadGateway)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadGateway,
		Override: true,
	}
}

// NewGatewayTimeoutError creates a 504 for upstream providers that did not
// answer in time.
func NewGatewayTimeoutError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusGatewayTimeout),
		Message:  message,
		Status:   http.StatusGatewayTimeout,
		Override: true,
	}
}

// ValidationError converts a generic validation error into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
