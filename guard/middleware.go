package guard

import (
	"net/http"

	"github.com/jrsteele09/docdash/cookies"
	"github.com/jrsteele09/docdash/internal/config"
	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"github.com/jrsteele09/docdash/internal/metrics"
	"github.com/jrsteele09/docdash/session"
	"github.com/rs/zerolog/log"
)

// Sessions is what the guard needs from the session store.
type Sessions interface {
	FromRequest(r *http.Request) (*session.Session, error)
	Touch(s *session.Session) (*session.Session, bool)
	Write(w http.ResponseWriter, r *http.Request, s *session.Session) error
	Clear(w http.ResponseWriter, r *http.Request)
}

type Config interface {
	config.CorsConfig
	config.CookieConfig
	config.RouteConfig
}

type Guard struct {
	sessions   Sessions
	classifier *Classifier
	cfg        Config
}

func New(sessions Sessions, cfg Config) *Guard {
	return &Guard{
		sessions:   sessions,
		classifier: NewClassifier(cfg.GetRouteTable()),
		cfg:        cfg,
	}
}

func (g *Guard) Classifier() *Classifier {
	return g.classifier
}

// Middleware runs the guard in front of next. A session that fails verification is
// treated as anonymous and its cookie cleared.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if g.classifier.Excluded(path) {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := g.sessions.FromRequest(r)
		if err != nil {
			if !autherrors.Is(err, session.ErrNoSession) {
				log.Debug().Err(err).Str("path", path).Str("reason", autherrors.Reason(err)).Msg("guard: dropping session")
				g.sessions.Clear(w, r)
			}
			sess = nil
		}

		decision := g.classifier.Decide(sess != nil, path)
		metrics.RecordGuardDecision(decision.label())

		if decision.Action == Redirect {
			http.Redirect(w, r, decision.Location, redirectStatus(r.Method))
			return
		}
		if !decision.Mirror {
			next.ServeHTTP(w, r)
			return
		}

		if touched, ok := g.sessions.Touch(sess); ok {
			if err := g.sessions.Write(w, r, touched); err != nil {
				log.Err(err).Str("session", sess.ID).Msg("guard: re-signing session")
			} else {
				sess = touched
			}
		}
		g.mirror(w, sess)
		SetCORSHeaders(w, r, g.cfg)

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// redirectStatus keeps the method for reads. Anything else is turned into a GET of
// the target so a form post is never replayed against it.
func redirectStatus(method string) int {
	if method == http.MethodGet || method == http.MethodHead {
		return http.StatusTemporaryRedirect
	}
	return http.StatusSeeOther
}

// mirror copies the session's tokens into cookies for requests that cannot read the
// signed session. The refresh token stays HttpOnly.
func (g *Guard) mirror(w http.ResponseWriter, sess *session.Session) {
	opts := cookies.Options{
		Domain:   g.cfg.GetCookieDomain(),
		SameSite: "none",
		Secure:   true,
	}

	access := opts
	access.TTL = g.cfg.GetMirrorAccessTTL()
	cookies.Set(w, cookies.BuildCookie(cookies.AccessTokenCookie, sess.AccessToken, access))

	refresh := opts
	refresh.HttpOnly = true
	refresh.TTL = g.cfg.GetMirrorRefreshTTL()
	cookies.Set(w, cookies.BuildCookie(cookies.RefreshTokenCookie, sess.RefreshToken, refresh))
}

// SetCORSHeaders echoes an allowed Origin with credentials, or falls back to the
// wildcard without credentials.
func SetCORSHeaders(w http.ResponseWriter, r *http.Request, cfg config.CorsConfig) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	allowed := cfg.GetAllowedOrigins()
	h := w.Header()
	switch {
	case allowed.IsAllowedOrigin(origin):
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	case allowed.IsAllowedOrigin("*"):
		h.Set("Access-Control-Allow-Origin", "*")
	default:
		return false
	}
	h.Set("Access-Control-Allow-Methods", cfg.GetAllowedMethods())
	h.Set("Access-Control-Allow-Headers", cfg.GetAllowedHeaders())
	return true
}
