package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/docdash/cookies"
	"github.com/jrsteele09/docdash/identity"
	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"github.com/jrsteele09/docdash/session"
	"github.com/rs/zerolog/log"
)

const maxRequestBody = 64 << 10

type callbackResponse struct {
	Success     bool           `json:"success"`
	User        *identity.User `json:"user,omitempty"`
	AccessToken string         `json:"accessToken,omitempty"`
	Error       string         `json:"error,omitempty"`
}

type sessionResponse struct {
	User        identity.User `json:"user"`
	AccessToken string        `json:"accessToken"`
	Expires     string        `json:"expires"`
}

// CallbackHandler exchanges credentials, relays the upstream refresh-token cookie and
// starts a session (POST /api/auth/callback-handler).
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := readCredentials(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, callbackResponse{Error: "Invalid request body"})
			return
		}

		ctx, cancel := s.upstreamContext(r)
		defer cancel()

		sess, err := s.sessions.Login(ctx, w, creds)
		if err != nil {
			s.logLoginFailure(err, creds.Username)
			writeJSON(w, autherrors.HTTPStatus(err), callbackResponse{Error: autherrors.UserMessage(err)})
			return
		}
		if err := s.startSession(w, r, sess); err != nil {
			log.Err(err).Str("user", sess.User.ID).Msg("Failed to write session cookie")
			writeJSON(w, http.StatusInternalServerError, callbackResponse{Error: autherrors.UserMessage(err)})
			return
		}

		writeJSON(w, http.StatusOK, callbackResponse{
			Success:     true,
			User:        &sess.User,
			AccessToken: sess.AccessToken,
		})
	}
}

// startSession writes the session cookie and the short-lived, script-readable auth-ready marker.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	if err := s.sessions.Write(w, r, sess); err != nil {
		return err
	}
	cookies.Set(w, cookies.BuildCookie(cookies.AuthReadyCookie, "true", s.cookieOptions(r, s.config.GetAuthReadyTTL(), false)))
	return nil
}

func (s *Server) logLoginFailure(err error, username string) {
	evt := log.Warn()
	if autherrors.HTTPStatus(err) >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("username", username).Str("reason", autherrors.Reason(err)).Msg("Login failed")
}

// SessionHandler returns the current session's projection, or {} when anonymous.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.FromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusOK, struct{}{})
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			User:        sess.User,
			AccessToken: sess.AccessToken,
			Expires:     sess.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.Logout(r.Context(), w, r); err != nil {
			log.Err(err).Msg("Logout: revoking session")
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// SetRefreshTokenHandler stores a refresh token supplied by the client in the HTTP-only cookie.
func (s *Server) SetRefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err != nil || body.RefreshToken == "" {
			writeJSONError(w, "refreshToken is required", http.StatusBadRequest)
			return
		}
		cookies.Set(w, cookies.BuildCookie(cookies.RefreshTokenCookie, body.RefreshToken,
			s.cookieOptions(r, s.config.GetRefreshCookieDefaultTTL(), true)))
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GetRefreshTokenHandler reports whether the refresh-token cookie is present. The value is
// only disclosed in DEV.
func (s *Server) GetRefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := struct {
			Present      bool   `json:"present"`
			RefreshToken string `json:"refreshToken,omitempty"`
		}{}
		if ck, err := r.Cookie(cookies.RefreshTokenCookie); err == nil && ck.Value != "" {
			resp.Present = true
			if s.config.IsDev() {
				resp.RefreshToken = ck.Value
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) DeleteRefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookies.Set(w, cookies.BuildDeletionCookie(cookies.RefreshTokenCookie, s.cookieOptions(r, 0, true)))
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// RefreshHandler asks the session store for a new token pair.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.FromRequest(r)
		if err != nil {
			writeJSONError(w, autherrors.UserMessage(err), http.StatusUnauthorized)
			return
		}

		ctx, cancel := s.upstreamContext(r)
		defer cancel()
		refreshed, err := s.sessions.Refresh(ctx, sess)
		if err != nil {
			log.Debug().Err(err).Str("session", sess.ID).Msg("Refresh failed")
			writeJSONError(w, autherrors.UserMessage(err), autherrors.HTTPStatus(err))
			return
		}
		if err := s.sessions.Write(w, r, refreshed); err != nil {
			writeJSONError(w, autherrors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": refreshed.AccessToken})
	}
}

// ProfileHandler proxies the upstream profile using the session's access token, or the
// access-token cookie for callers without a session.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.accessToken(r)
		if token == "" {
			writeJSONError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		ctx, cancel := s.upstreamContext(r)
		defer cancel()
		profile, err := s.profiles.Profile(ctx, token)
		if err != nil {
			log.Warn().Err(err).Str("reason", autherrors.Reason(err)).Msg("Profile fetch failed")
			writeJSONError(w, autherrors.UserMessage(err), autherrors.HTTPStatus(err))
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) accessToken(r *http.Request) string {
	if sess, err := s.sessions.FromRequest(r); err == nil {
		return sess.AccessToken
	}
	if ck, err := r.Cookie(cookies.AccessTokenCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (s *Server) cookieOptions(r *http.Request, ttl time.Duration, httpOnly bool) cookies.Options {
	return cookies.Options{
		Domain:   s.config.GetCookieDomain(),
		SameSite: s.config.GetCookieSameSite(),
		Secure:   s.config.GetSecureCookies() || cookies.IsSecureRequest(r),
		HttpOnly: httpOnly,
		TTL:      ttl,
	}
}

// readCredentials accepts a JSON body or a form post.
func readCredentials(r *http.Request) (identity.Credentials, error) {
	var creds identity.Credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(&creds); err != nil {
			return creds, err
		}
		return creds, nil
	}
	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	creds.Username = r.FormValue("username")
	creds.Password = r.FormValue("password")
	return creds, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]any{"success": false, "error": description})
}
