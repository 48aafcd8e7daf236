package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/docdash/permissions"
	"github.com/jrsteele09/docdash/session"
	"github.com/rs/zerolog/log"
)

// PermissionsMiddleware gives each authenticated page request its own permission provider,
// loaded from the upstream profile before the page renders.
func (s *Server) PermissionsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		provider := permissions.NewProvider(permissions.FetcherFunc(func(ctx context.Context) (permissions.Set, error) {
			profile, err := s.profiles.Profile(ctx, sess.AccessToken)
			if err != nil {
				return permissions.Set{}, err
			}
			return profile.Permissions, nil
		}))

		ctx, cancel := s.upstreamContext(r)
		err := provider.Load(ctx)
		cancel()
		if err != nil {
			// checks read false until a later request loads successfully
			log.Warn().Err(err).Str("user", sess.User.ID).Msg("Loading permissions")
		}

		next.ServeHTTP(w, r.WithContext(permissions.WithProvider(r.Context(), provider)))
	})
}

// RequirePermission rejects requests whose provider does not grant action on resource.
func RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !permissions.Can(r.Context(), resource, action) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
