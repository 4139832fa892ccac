package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("User not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("Email or password is incorrect")
	// ErrEmailExists is returned when sign-up hits the unique email constraint.
	ErrEmailExists = errors.New("Email already exists")
	// ErrBlogNotFound is returned when a blog id does not resolve.
	ErrBlogNotFound = errors.New("Blog not found.")
	// ErrNotOwner is returned when a scoped blog mutation matched nothing.
	ErrNotOwner = errors.New("Unauthorized")
	// ErrInvalidRefreshToken is returned when a refresh token is not tracked for its user.
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
	// ErrRefreshTokenRequired is returned when rotation is attempted without a token.
	ErrRefreshTokenRequired = errors.New("Refresh token is required")
)

// ValidationError reports the first rule a request payload violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// HTTPError represents an HTTP error with status code. The body sent to clients
// is the bare message.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// Unauthorized builds a 401 rejection.
func Unauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, "UNAUTHORIZED")
}

// Forbidden builds a 403 rejection.
func Forbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, "FORBIDDEN")
}

// NotFound builds a 404 rejection.
func NotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, "NOT_FOUND")
}

// MapErrorToHTTP converts a service error to an HTTP error. Errors that already
// carry a status keep it; everything else is reported with the endpoint's
// fallback status and the error's own message.
func MapErrorToHTTP(err error, fallback int) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(fallback, validationErr.Message, "VALIDATION_FAILED")
	}

	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrBlogNotFound):
		return NewHTTPError(fallback, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(fallback, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(fallback, err.Error(), "EMAIL_EXISTS")
	default:
		return NewHTTPError(fallback, err.Error(), "INTERNAL_ERROR")
	}
}
