package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.LoggingMiddleware)
	r.Use(s.RecoverMiddleware)
	r.Use(s.guard.Middleware)

	r.Get(RouteHealth, s.HealthHandler())
	r.Method(http.MethodGet, RouteMetrics, promhttp.Handler())
	r.Handle(RouteStatic, http.StripPrefix("/static/", FileServerHandler()))

	r.Route(RouteAuthRoot, func(r chi.Router) {
		r.Use(s.CorsMiddleware)
		r.Post(RouteAuthCallbackHandler, s.CallbackHandler())
		r.Get(RouteAuthSession, s.SessionHandler())
		r.Post(RouteAuthLogout, s.LogoutHandler())
		r.Post(RouteAuthRefreshToken, s.SetRefreshTokenHandler())
		r.Get(RouteAuthRefreshToken, s.GetRefreshTokenHandler())
		r.Delete(RouteAuthRefreshToken, s.DeleteRefreshTokenHandler())
		r.Post(RouteAuthRefresh, s.RefreshHandler())
		r.Get(RouteAuthProfile, s.ProfileHandler())
	})

	r.Group(func(r chi.Router) {
		r.Use(s.FrameSecurityMiddleware)
		r.Get(RouteLogin, s.LoginPageUIHandler())
		r.Post(RouteLogin, s.LoginSubmissionHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.PermissionsMiddleware)
			r.Get(RouteRoot, s.IndexHandler())
			r.Get(RouteDashboard, s.PageHandler(pageDashboard))
			r.Get(RouteDashboard+"/*", s.PageHandler(pageDashboard))
			r.Get(RouteProfile, s.PageHandler(pageProfile))
			r.Get(RouteSettings, s.PageHandler(pageSettings))
			r.With(RequirePermission("users", "manage")).Get(RouteAdmin, s.PageHandler(pageAdmin))
		})
	})
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
