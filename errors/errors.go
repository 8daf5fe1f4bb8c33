package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type of the library.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates whether a fresh attempt may succeed.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidArgument creates an error for a rejected initialization parameter.
func InvalidArgument(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: reason,
		Retryable: false, Details: details,
	}
}

// NotInitialized creates an error for a sign-in on an unconfigured client.
func NotInitialized() *AppError {
	return &AppError{
		Code: ErrCodeNotInitialized, Message: "SignInWithApple must be initialized before use.",
		Retryable: false,
	}
}

// Conflict creates an error for an operation invalid in the current phase.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		Retryable: false,
	}
}

// SecurityValidationFailed creates an error for a state mismatch on the redirect.
func SecurityValidationFailed(message string) *AppError {
	if message == "" {
		message = "Security validation failed (state mismatch)"
	}
	return &AppError{
		Code: ErrCodeSecurityValidation, Message: message,
		Retryable: false,
	}
}

// ProviderError creates an error carrying the provider's error code and description.
func ProviderError(providerCode, description string) *AppError {
	if providerCode == "" {
		providerCode = "unknown_error"
	}
	if description == "" {
		description = "Authentication failed"
	}
	return &AppError{
		Code: ErrCodeProviderError, Message: description,
		Retryable: false,
		Details: map[string]any{
			"provider_code": providerCode,
			"description":   description,
		},
	}
}

// MalformedRedirect creates an error for a redirect that could not be processed.
func MalformedRedirect(message string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedRedirect, Message: message,
		Retryable: true,
	}
}

// Cancelled creates the cancellation outcome.
func Cancelled(message string) *AppError {
	if message == "" {
		message = "User canceled the login"
	}
	return &AppError{
		Code: ErrCodeCancelled, Message: message,
		Retryable: true,
	}
}

// TransportUnknown creates an error for an unrecognized bridge result code.
func TransportUnknown(resultCode int) *AppError {
	return &AppError{
		Code: ErrCodeTransportUnknown, Message: fmt.Sprintf("Unknown result code: %d", resultCode),
		Retryable: true,
		Details:   map[string]any{"result_code": resultCode},
	}
}

// Internal creates an error for an unexpected library failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Predicates ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsCancelled reports whether err is the cancellation outcome.
func IsCancelled(err error) bool {
	return IsCode(err, ErrCodeCancelled)
}

// ErrorResponse is the JSON structure the relay returns to the browser.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to the browser.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}
