package cookies

import (
	"net/http"
	"time"

	"github.com/jrsteele09/docdash/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Relayer copies the upstream refresh-token cookie into this application's response.
type Relayer struct {
	name       string
	defaultTTL time.Duration
}

func NewRelayer(defaultTTL time.Duration) *Relayer {
	return &Relayer{name: RefreshTokenCookie, defaultTTL: defaultTTL}
}

var defaultRelayer = NewRelayer(DefaultLifetime)

// Relay uses the package defaults: refresh-token cookie, 7 day fallback lifetime.
func Relay(upstream http.Header, w http.ResponseWriter) (string, bool) {
	return defaultRelayer.Relay(upstream, w)
}

// Relay finds the refresh-token Set-Cookie in the upstream header and re-issues it on w.
// It returns false, leaving w untouched, when the upstream sent no such cookie.
func (r *Relayer) Relay(upstream http.Header, w http.ResponseWriter) (string, bool) {
	d, ok := r.find(upstream)
	if !ok {
		metrics.RecordCookieRelay("absent")
		return "", false
	}
	if w != nil {
		Set(w, d.Cookie(r.defaultTTL))
	}
	metrics.RecordCookieRelay("relayed")
	return d.Value, true
}

// Extract returns the parsed refresh-token descriptor without writing anything.
func (r *Relayer) Extract(upstream http.Header) (Descriptor, bool) {
	return r.find(upstream)
}

func (r *Relayer) find(upstream http.Header) (Descriptor, bool) {
	for _, line := range upstream.Values("Set-Cookie") {
		d, err := ParseSetCookie(line)
		if err != nil {
			metrics.RecordCookieRelay("malformed")
			log.Debug().Err(err).Msg("skipping upstream Set-Cookie")
			continue
		}
		if d.Name == r.name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Set writes c on w, replacing any Set-Cookie already queued for the same cookie name.
func Set(w http.ResponseWriter, c *http.Cookie) {
	h := w.Header()
	existing := h.Values("Set-Cookie")
	if len(existing) > 0 {
		kept := make([]string, 0, len(existing))
		for _, line := range existing {
			if d, err := ParseSetCookie(line); err == nil && d.Name == c.Name {
				continue
			}
			kept = append(kept, line)
		}
		h.Del("Set-Cookie")
		for _, line := range kept {
			h.Add("Set-Cookie", line)
		}
	}
	http.SetCookie(w, c)
}
