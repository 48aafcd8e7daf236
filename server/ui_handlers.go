package server

import (
	"net/http"

	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/permissions"
	"github.com/jrsteele09/docdash/session"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

type page struct {
	Name  string
	Title string
	Path  string
}

var (
	pageDashboard = page{Name: "dashboard", Title: "Documents", Path: RouteDashboard}
	pageProfile   = page{Name: "profile", Title: "Profile", Path: RouteProfile}
	pageSettings  = page{Name: "settings", Title: "Settings", Path: RouteSettings}
	pageAdmin     = page{Name: "admin", Title: "Administration", Path: RouteAdmin}

	navigation = []page{pageDashboard, pageProfile, pageSettings, pageAdmin}
)

type PageData struct {
	AppName     string
	Page        page
	Nav         []page
	User        identity.User
	Permissions []string
	RequestPath string
}

// IndexHandler sends signed-in users to the landing page. Anonymous users never reach it.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.config.GetRouteTable().Landing, http.StatusSeeOther)
	}
}

// PageHandler renders one of the dashboard shell pages.
func (s *Server) PageHandler(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			http.Redirect(w, r, s.guard.Classifier().LoginURL(r.URL.Path), http.StatusSeeOther)
			return
		}
		provider, _ := permissions.FromContext(r.Context())

		tmpl, err := bindPermissions(s.pageTmpl, provider)
		if err != nil {
			log.Err(err).Msg("Failed to bind page template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		data := PageData{
			AppName:     s.config.GetAppName(),
			Page:        p,
			Nav:         navigation,
			User:        sess.User,
			RequestPath: r.URL.Path,
		}
		if provider != nil {
			if snap, ok := provider.Snapshot(); ok {
				data.Permissions = snap.Set().Raw
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Str("page", p.Name).Msg("Failed to render page")
		}
	}
}
