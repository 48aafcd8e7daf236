package main

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/identity/identityfake"
	"github.com/jrsteele09/docdash/internal/config"
	"github.com/jrsteele09/docdash/server"
	"github.com/jrsteele09/docdash/session"
	"github.com/jrsteele09/docdash/session/revocation"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	u := identityfake.New()
	t.Cleanup(u.Close)
	u.CookieAttributes = "Max-Age=604800; HttpOnly; Path=/"
	u.AddAccount(identityfake.Account{
		Password:     "pw",
		User:         identity.User{ID: "u1", Username: "jdoe"},
		AccessToken:  "A",
		RefreshToken: "R",
	})

	cfg := config.Default()
	cfg.IdentityRoot = u.URL
	client := identity.NewClient(cfg.GetIdentityRoot())
	store, err := session.NewStore(client, cfg, session.WithRevocation(revocation.NewMemory(time.Minute)))
	require.NoError(t, err)
	srv, err := server.New(cfg, client, store)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}

func runTokens(t *testing.T, args ...string) string {
	t.Helper()
	cmd := tokensCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestTokensCmd_SignIn(t *testing.T) {
	base := startServer(t)
	out := runTokens(t, "--base-url", base, "-u", "jdoe", "-p", "pw")

	require.Contains(t, out, "signed in")
	require.Contains(t, out, "refresh-token   R")
	require.Contains(t, out, "auth-ready      true")
	require.Contains(t, out, `"username":"jdoe"`)
}

func TestTokensCmd_DropAndPreset(t *testing.T) {
	base := startServer(t)

	out := runTokens(t, "--base-url", base, "-u", "jdoe", "-p", "pw", "--drop", "refresh-token")
	require.Contains(t, out, "refresh-token   (absent)")

	out = runTokens(t, "--base-url", base, "--cookie", "access-token=manual")
	require.Contains(t, out, "access-token    manual")
	require.Contains(t, out, "session: {}")
}

func TestTokensCmd_BadCredentials(t *testing.T) {
	base := startServer(t)
	cmd := tokensCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--base-url", base, "-u", "jdoe", "-p", "wrong"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid username or password")
}
