package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrIdentityExists    = errors.New("identity already exists")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("access forbidden")
	ErrNoIDToken         = errors.New("No ID token found")
)

// ValidationError reports a missing or malformed input caught before any
// remote call was made.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

// BackendError wraps a failure returned by the remote backend. Its message is
// the backend's message, unchanged.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }

// MappedAuthError is a provider error whose code was rewritten into a
// user-facing message.
type MappedAuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *MappedAuthError) Error() string { return e.Message }

func (e *MappedAuthError) Unwrap() error { return e.Err }

// Identity provider error codes.
const (
	CodeInvalidEmail        = "auth/invalid-email"
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodeUserNotFound        = "auth/user-not-found"
	CodeWrongPassword       = "auth/wrong-password"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeRequiresRecentLogin = "auth/requires-recent-login"
)

// AuthError is a coded failure raised by the identity provider.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

func (e *AuthError) Error() string { return e.Message }

// AuthErrorCode extracts the provider code from err, or "" when err carries none.
func AuthErrorCode(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
