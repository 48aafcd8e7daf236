package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/identity/identityfake"
	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"github.com/jrsteele09/docdash/permissions"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "jdoe"
	testPassword = "s3cret"
	testAccess   = "A"
	testRefresh  = "R"
)

func setupUpstream(t *testing.T) *identityfake.Upstream {
	t.Helper()
	u := identityfake.New()
	t.Cleanup(u.Close)
	u.AddAccount(identityfake.Account{
		Password:     testPassword,
		User:         identity.User{ID: "u1", Username: testUsername, Fullname: "John Doe", Bio: "archivist"},
		AccessToken:  testAccess,
		RefreshToken: testRefresh,
		Permissions: permissions.Set{
			Raw:       []string{"documents.read"},
			Resources: map[string]map[string]bool{"documents": {"read": true}},
		},
	})
	return u
}

func TestClient_Login(t *testing.T) {
	u := setupUpstream(t)
	u.CookieAttributes = "Max-Age=604800; HttpOnly; Path=/"
	c := identity.NewClient(u.URL)

	result, err := c.Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, "u1", result.User.ID)
	require.Equal(t, "John Doe", result.User.Fullname)
	require.Equal(t, testAccess, result.Tokens.AccessToken)
	require.Equal(t, testRefresh, result.Tokens.RefreshToken)
	require.Contains(t, result.Header.Values("Set-Cookie"), "refresh-token=R; Max-Age=604800; HttpOnly; Path=/")
}

func TestClient_Login_ValidationBeforeNetwork(t *testing.T) {
	u := setupUpstream(t)
	c := identity.NewClient(u.URL)

	for _, creds := range []identity.Credentials{
		{Username: "", Password: "x"},
		{Username: "x", Password: ""},
		{},
	} {
		_, err := c.Login(context.Background(), creds)
		require.ErrorIs(t, err, autherrors.ErrValidation)
	}
	require.Zero(t, u.LoginCalls())
}

func TestClient_Login_Failures(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		u := setupUpstream(t)
		_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: "nope"})
		require.ErrorIs(t, err, autherrors.ErrAuthentication)
		require.Equal(t, 1, u.LoginCalls(), "no retry")
	})

	t.Run("upstream error status", func(t *testing.T) {
		u := setupUpstream(t)
		u.LoginStatus = http.StatusInternalServerError
		_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrAuthentication)
	})

	t.Run("unparseable body", func(t *testing.T) {
		u := setupUpstream(t)
		u.LoginBody = "<html>oops</html>"
		_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrProtocol)
	})

	t.Run("missing access token", func(t *testing.T) {
		u := setupUpstream(t)
		u.LoginBody = `{"user":{"id":"u1"},"refreshToken":"R"}`
		_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrProtocol)
	})

	t.Run("missing user id", func(t *testing.T) {
		u := setupUpstream(t)
		u.LoginBody = `{"user":{"username":"jdoe"},"accessToken":"A"}`
		_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrProtocol)
	})

	t.Run("transport failure", func(t *testing.T) {
		u := setupUpstream(t)
		url := u.URL
		u.Close()
		_, err := identity.NewClient(url).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrTransport)
	})

	t.Run("caller deadline", func(t *testing.T) {
		u := setupUpstream(t)
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)
		_, err := identity.NewClient(u.URL).Login(ctx, identity.Credentials{Username: testUsername, Password: testPassword})
		require.ErrorIs(t, err, autherrors.ErrTransport)
	})
}

func TestClient_Login_RefreshTokenOnlyInCookie(t *testing.T) {
	u := setupUpstream(t)
	u.OmitBodyRefreshToken = true
	u.CookieAttributes = "Path=/"

	result, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
	require.NoError(t, err)
	require.Empty(t, result.Tokens.RefreshToken)
	require.Len(t, result.Header.Values("Set-Cookie"), 1)
}

func TestClient_Profile(t *testing.T) {
	u := setupUpstream(t)
	c := identity.NewClient(u.URL)

	profile, err := c.Profile(context.Background(), testAccess)
	require.NoError(t, err)
	require.Equal(t, "u1", profile.ID)
	require.Equal(t, []string{"documents.read"}, profile.Permissions.Raw)
	require.True(t, profile.Permissions.Resources["documents"]["read"])

	_, err = c.Profile(context.Background(), "bogus")
	require.ErrorIs(t, err, autherrors.ErrAuthentication)

	_, err = c.Profile(context.Background(), "")
	require.ErrorIs(t, err, autherrors.ErrValidation)

	u.ProfileStatus = http.StatusServiceUnavailable
	_, err = c.Profile(context.Background(), testAccess)
	require.ErrorIs(t, err, autherrors.ErrTransport)
}

func TestClient_NumericUserIDs(t *testing.T) {
	u := setupUpstream(t)
	u.LoginBody = `{"user":{"id":42,"username":"jdoe"},"accessToken":"A","refreshToken":"R"}`
	c := identity.NewClient(u.URL)

	result, err := c.Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, "42", result.User.ID)
	require.Equal(t, "jdoe", result.User.Username)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"username":"jdoe","email":"j@example.com","permissions":{"raw":["documents.read"],"resources":{"documents":{"read":true}}}}`))
	}))
	t.Cleanup(srv.Close)

	profile, err := identity.NewClient(srv.URL).Profile(context.Background(), testAccess)
	require.NoError(t, err)
	require.Equal(t, "42", profile.ID)
	require.Equal(t, "j@example.com", profile.Email)
	require.True(t, permissions.NewSnapshot(profile.Permissions).Can("documents", "read"))
}

func TestClient_Login_RejectsNonScalarUserID(t *testing.T) {
	u := setupUpstream(t)
	u.LoginBody = `{"user":{"id":{"n":1}},"accessToken":"A"}`

	_, err := identity.NewClient(u.URL).Login(context.Background(), identity.Credentials{Username: testUsername, Password: testPassword})
	require.ErrorIs(t, err, autherrors.ErrProtocol)
}
