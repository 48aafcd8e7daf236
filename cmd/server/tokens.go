package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/docdash/clienttoken"
	"github.com/jrsteele09/docdash/cookies"
	"github.com/spf13/cobra"
)

// tokensCmd signs in against a running server and shows the cookies a browser would hold.
func tokensCmd() *cobra.Command {
	var (
		baseURL  string
		username string
		password string
		presets  []string
		drop     []string
	)

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Sign in to a running server and inspect the auth cookies it issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := clienttoken.New(baseURL)
			if err != nil {
				return err
			}
			for _, p := range presets {
				name, value, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("--cookie %q: expected name=value", p)
				}
				acc.Set(name, value)
			}

			out := cmd.OutOrStdout()
			if username != "" {
				if err := signIn(acc, username, password); err != nil {
					return err
				}
				fmt.Fprintln(out, "signed in")
			}
			for _, name := range drop {
				acc.Delete(name)
			}

			for _, name := range []string{cookies.RefreshTokenCookie, cookies.AuthReadyCookie, cookies.AccessTokenCookie} {
				if v, ok := acc.Get(name); ok {
					fmt.Fprintf(out, "  %-15s %s\n", name, v)
				} else {
					fmt.Fprintf(out, "  %-15s (absent)\n", name)
				}
			}
			fmt.Fprintf(out, "  %d cookie(s) held for %s\n", len(acc.All()), acc.BaseURL())

			session, err := fetch(acc, "/api/auth/session")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "session: %s\n", session)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign in with")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password to sign in with")
	cmd.Flags().StringArrayVar(&presets, "cookie", nil, "cookie to set before any request (name=value, repeatable)")
	cmd.Flags().StringArrayVar(&drop, "drop", nil, "cookie to delete after signing in (repeatable)")
	return cmd
}

func signIn(acc *clienttoken.Accessor, username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := acc.Client().Post(strings.TrimSuffix(acc.BaseURL(), "/")+"/api/auth/callback-handler", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return fmt.Errorf("sign in: %s (%d)", failure.Error, resp.StatusCode)
	}
	return nil
}

func fetch(acc *clienttoken.Accessor, path string) (string, error) {
	resp, err := acc.Client().Get(strings.TrimSuffix(acc.BaseURL(), "/") + path)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
