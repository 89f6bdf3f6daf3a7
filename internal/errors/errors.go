package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
// Codes double as the short machine-readable "error" field in HTTP responses.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed input caught before business logic.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeMissingToken indicates no bearer credentials were supplied.
	ErrCodeMissingToken ErrorCode = "missing_token"
	// ErrCodeUnauthenticated indicates no identity was attached to the request
	// context where one was required (a wiring error, not a user error).
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeInvalidCredentials indicates a rejected email/password pair.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeInvalidToken indicates a present but rejected bearer token
	// (forged, malformed, or expired; callers cannot tell which).
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	// ErrCodeForbidden indicates an authenticated identity with insufficient role.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUnavailable indicates an unreachable or timed-out upstream service.
	ErrCodeUnavailable ErrorCode = "unavailable"
	// ErrCodeUpstream indicates the upstream responded with an error status;
	// the upstream's own status code is echoed to the client.
	ErrCodeUpstream ErrorCode = "upstream"
	// ErrCodeInternal indicates an unclassified internal failure.
	ErrCodeInternal ErrorCode = "internal"
)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Status carries the upstream HTTP status for ErrCodeUpstream errors
	Status int
	// Details lists field-level validation failures (optional)
	Details []FieldError
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationFields creates a Validation error carrying field-level details.
func ValidationFields(details ...FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "request validation failed",
		Details: details,
	}
}

// MissingToken creates the error returned when no bearer token accompanies
// a protected request.
func MissingToken() *AppError {
	return &AppError{Code: ErrCodeMissingToken, Message: "Access token required"}
}

// Unauthenticated creates the error returned when no verified identity is
// present where one is required.
func Unauthenticated() *AppError {
	return &AppError{Code: ErrCodeUnauthenticated, Message: "Authentication required"}
}

// InvalidCredentials creates the uniform credential-rejection error.
// The same value is returned for unknown emails and wrong passwords so the
// two cases are not distinguishable by callers.
func InvalidCredentials() *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: "Invalid credentials"}
}

// InvalidToken creates the uniform token-rejection error. Expired and forged
// tokens produce the same observable outcome.
func InvalidToken(cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidToken, Message: "Invalid or expired token", Cause: cause}
}

// Forbidden creates the error returned when the caller's role is outside
// the allowed set for a route.
func Forbidden() *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: "Insufficient permissions"}
}

// Unavailable creates a new Unavailable error.
func Unavailable(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message, Cause: cause}
}

// Upstream creates an error echoing an upstream HTTP failure.
func Upstream(status int, message string) *AppError {
	return &AppError{Code: ErrCodeUpstream, Message: message, Status: status}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsInvalidToken checks if an error is an InvalidToken error.
func IsInvalidToken(err error) bool { return isCode(err, ErrCodeInvalidToken) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsUnavailable checks if an error is an Unavailable error.
func IsUnavailable(err error) bool { return isCode(err, ErrCodeUnavailable) }

// IsUpstream checks if an error is an Upstream error.
func IsUpstream(err error) bool { return isCode(err, ErrCodeUpstream) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status code the client should see.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 500
	}
	switch appErr.Code {
	case ErrCodeValidation:
		return 400
	case ErrCodeMissingToken, ErrCodeUnauthenticated, ErrCodeInvalidCredentials:
		return 401
	case ErrCodeInvalidToken, ErrCodeForbidden:
		return 403
	case ErrCodeUnavailable:
		return 503
	case ErrCodeUpstream:
		if appErr.Status != 0 {
			return appErr.Status
		}
		return 502
	case ErrCodeInternal:
		return 500
	default:
		return 500
	}
}
