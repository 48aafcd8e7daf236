package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappings(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		reason  string
		message string
	}{
		{nil, http.StatusOK, "none", ""},
		{Wrapf(ErrValidation, "login"), http.StatusBadRequest, "validation", msgMissingField},
		{Wrapf(ErrAuthentication, "login"), http.StatusUnauthorized, "authentication", msgInvalidLogin},
		{fmt.Errorf("dial: %w", ErrTransport), http.StatusBadGateway, "transport", msgServerError},
		{fmt.Errorf("body: %w", ErrProtocol), http.StatusBadGateway, "protocol", msgServerError},
		{ErrSessionExpired, http.StatusUnauthorized, "expired", msgSession},
		{ErrSessionRevoked, http.StatusUnauthorized, "revoked", msgSession},
		{ErrSessionInvalid, http.StatusUnauthorized, "invalid", msgSession},
		{ErrRefreshUnsupported, http.StatusNotImplemented, "internal", msgNoRefresh},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal", msgServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.status, HTTPStatus(tt.err), "%v", tt.err)
		require.Equal(t, tt.reason, Reason(tt.err), "%v", tt.err)
		require.Equal(t, tt.message, UserMessage(tt.err), "%v", tt.err)
	}
}

func TestSessionErrorsAreInvalid(t *testing.T) {
	require.True(t, Is(ErrSessionExpired, ErrSessionInvalid))
	require.True(t, Is(ErrSessionRevoked, ErrSessionInvalid))
	require.False(t, Is(ErrSessionInvalid, ErrSessionExpired))
}

func TestWrapf(t *testing.T) {
	require.Nil(t, Wrapf(nil, "ignored"))
	err := Wrapf(ErrTransport, "calling %s", "upstream")
	require.Equal(t, "calling upstream: transport error", err.Error())
	require.ErrorIs(t, err, ErrTransport)

	err = Wrapf(ErrSessionRevoked, "decode")
	require.Equal(t, "decode: session invalid: revoked", err.Error())
	require.ErrorIs(t, err, ErrSessionInvalid)
}
