package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/docdash/guard"
	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/internal/config"
	"github.com/jrsteele09/docdash/session"
)

// ProfileClient fetches the upstream profile for an access token. identity.Client implements it.
type ProfileClient interface {
	Profile(ctx context.Context, accessToken string) (*identity.Profile, error)
}

type Server struct {
	env      string
	router   chi.Router
	config   config.Config
	profiles ProfileClient
	sessions *session.Store
	guard    *guard.Guard

	loginTmpl *template.Template
	pageTmpl  *template.Template
}

func New(cfg config.Config, profiles ProfileClient, sessions *session.Store) (*Server, error) {
	if profiles == nil || sessions == nil {
		return nil, fmt.Errorf("[Server New] profile client and session store are required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		router:   chi.NewRouter(),
		config:   cfg,
		profiles: profiles,
		sessions: sessions,
		guard:    guard.New(sessions, cfg),
	}

	var err error
	if s.loginTmpl, err = ParseTemplate("login.html"); err != nil {
		return nil, fmt.Errorf("[Server New] parse login template: %w", err)
	}
	if s.pageTmpl, err = ParseTemplate("page.html"); err != nil {
		return nil, fmt.Errorf("[Server New] parse page template: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logRoute(method, route)
		return nil
	})
}

// upstreamContext bounds a call to the identity backend by IDENTITY_TIMEOUT.
func (s *Server) upstreamContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.config.GetIdentityTimeout())
}
