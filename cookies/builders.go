package cookies

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names shared by the relay, session store and guard.
const (
	RefreshTokenCookie = "refresh-token"
	AccessTokenCookie  = "access-token"
	AuthReadyCookie    = "auth-ready"
	SessionTokenCookie = "session-token"
)

// Options describe how a cookie is scoped.
type Options struct {
	Domain   string
	SameSite string
	Secure   bool
	HttpOnly bool
	TTL      time.Duration
}

func ParseSameSite(s string) http.SameSite {
	if mode, ok := sameSiteMode(s); ok {
		return mode
	}
	return http.SameSiteLaxMode
}

func BuildCookie(name, value string, o Options) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: o.HttpOnly,
		Secure:   o.Secure,
		SameSite: ParseSameSite(o.SameSite),
	}
	if strings.TrimSpace(o.Domain) != "" {
		ck.Domain = o.Domain
	}
	if o.TTL > 0 {
		ck.MaxAge = int(o.TTL.Seconds())
	}
	if ck.SameSite == http.SameSiteNoneMode {
		ck.Secure = true
	}
	return ck
}

func BuildDeletionCookie(name string, o Options) *http.Cookie {
	ck := BuildCookie(name, "", o)
	ck.Expires = time.Unix(0, 0).UTC()
	ck.MaxAge = -1
	return ck
}

// IsSecureRequest reports whether the request arrived over TLS, directly or through a proxy.
func IsSecureRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
