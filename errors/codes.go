package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Synchronous errors, returned directly from the call that caused them.
const (
	// ErrCodeInvalidArgument indicates bad initialization parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotInitialized indicates a sign-in attempted on an unconfigured client.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	// ErrCodeConflict indicates an operation invalid for the current session phase.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Terminal errors, delivered asynchronously through the result bridge.
const (
	// ErrCodeSecurityValidation indicates the redirect state did not match the attempt.
	ErrCodeSecurityValidation ErrorCode = "SECURITY_VALIDATION_FAILED"
	// ErrCodeProviderError indicates the identity provider returned an error parameter.
	ErrCodeProviderError ErrorCode = "PROVIDER_ERROR"
	// ErrCodeMalformedRedirect indicates the redirect could not be parsed.
	ErrCodeMalformedRedirect ErrorCode = "MALFORMED_REDIRECT"
	// ErrCodeCancelled indicates the user left the flow. It is an outcome, not a fault.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeTransportUnknown indicates an unexpected result code from the host bridge.
	ErrCodeTransportUnknown ErrorCode = "TRANSPORT_UNKNOWN"
)

// Internal errors
const (
	// ErrCodeInternal indicates a failure inside the library itself.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// A new attempt may succeed where these failed; the rest are deterministic.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeCancelled:         true,
	ErrCodeTransportUnknown:  true,
	ErrCodeMalformedRedirect: true,
	ErrCodeInternal:          false,
}

// IsRetryableCode returns true if starting a fresh attempt may succeed.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
