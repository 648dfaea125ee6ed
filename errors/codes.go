package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors raised while talking to outbound APIs.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal covers local failures such as filesystem errors.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService covers failures of ffmpeg and remote APIs.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode reports whether a caller could reasonably try again. The
// service itself never retries; the flag is surfaced in logs and responses.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
