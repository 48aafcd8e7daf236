package server

import (
	"net/http"
	"strings"

	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName     string
	Error       string
	Username    string // preserved on error
	CallbackURL string
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderLogin(w, http.StatusOK, LoginPageData{
			Error:       r.URL.Query().Get("error"),
			CallbackURL: s.safeCallback(r.URL.Query().Get("callbackUrl")),
		})
	}
}

// LoginSubmissionHandler processes the login form (POST /login) and redirects to the callback URL.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		creds, _ := readCredentials(r)
		callback := s.safeCallback(r.FormValue("callbackUrl"))

		ctx, cancel := s.upstreamContext(r)
		defer cancel()

		sess, err := s.sessions.Login(ctx, w, creds)
		if err == nil {
			err = s.startSession(w, r, sess)
		}
		if err != nil {
			s.logLoginFailure(err, creds.Username)
			s.renderLogin(w, autherrors.HTTPStatus(err), LoginPageData{
				Error:       autherrors.UserMessage(err),
				Username:    creds.Username,
				CallbackURL: callback,
			})
			return
		}
		http.Redirect(w, r, callback, http.StatusSeeOther)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, data LoginPageData) {
	data.AppName = s.config.GetAppName()
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := s.loginTmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
	}
}

// safeCallback keeps post-login redirects on this origin and away from the login page itself.
func (s *Server) safeCallback(raw string) string {
	landing := s.config.GetRouteTable().Landing
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return landing
	}
	if raw == RouteLogin || strings.HasPrefix(raw, RouteLogin+"?") {
		return landing
	}
	return raw
}
