package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Auth pipeline error taxonomy
var (
	// Missing credential fields, rejected before any I/O
	ErrValidation = errors.New("validation error")
	// Upstream rejected the credentials or the bearer token
	ErrAuthentication = errors.New("invalid credentials")
	// Network, DNS or timeout failure reaching the upstream
	ErrTransport = errors.New("transport error")
	// Upstream answered 2xx but the body broke the contract
	ErrProtocol = errors.New("protocol error")

	// Session errors
	ErrSessionInvalid     = errors.New("session invalid")
	ErrSessionExpired     = fmt.Errorf("%w: expired", ErrSessionInvalid)
	ErrSessionRevoked     = fmt.Errorf("%w: revoked", ErrSessionInvalid)
	ErrRefreshUnsupported = errors.New("token refresh not supported")
)

const (
	msgInvalidLogin = "Invalid username or password"
	msgServerError  = "Server error, please try again"
	msgMissingField = "Username and password are required"
	msgSession      = "Your session has expired, please sign in again"
	msgNoRefresh    = "Token refresh is not available"
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// UserMessage maps an error to the message shown on the login page.
// Wrong credentials and server-side failures are kept distinguishable.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return msgMissingField
	case errors.Is(err, ErrAuthentication):
		return msgInvalidLogin
	case errors.Is(err, ErrSessionInvalid):
		return msgSession
	case errors.Is(err, ErrRefreshUnsupported):
		return msgNoRefresh
	default:
		return msgServerError
	}
}

// HTTPStatus maps an error to the status code returned by JSON endpoints.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrSessionInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTransport), errors.Is(err, ErrProtocol):
		return http.StatusBadGateway
	case errors.Is(err, ErrRefreshUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Reason returns a short label for metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrSessionExpired):
		return "expired"
	case errors.Is(err, ErrSessionRevoked):
		return "revoked"
	case errors.Is(err, ErrSessionInvalid):
		return "invalid"
	default:
		return "internal"
	}
}
