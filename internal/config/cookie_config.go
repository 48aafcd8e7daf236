package config

import (
	"time"

	"github.com/jrsteele09/docdash/cookies"
)

const (
	defaultRefreshCookieTTL = 7 * 24 * time.Hour
	defaultAuthReadyTTL     = 15 * time.Minute
	defaultMirrorAccessTTL  = 24 * time.Hour
	defaultMirrorRefreshTTL = 30 * 24 * time.Hour
)

type CookieConfig interface {
	GetSessionCookieName() string
	GetCookieDomain() string
	GetCookieSameSite() string
	GetSecureCookies() bool
	GetRefreshCookieDefaultTTL() time.Duration
	GetAuthReadyTTL() time.Duration
	GetMirrorAccessTTL() time.Duration
	GetMirrorRefreshTTL() time.Duration
}

type Cookies struct {
	SessionName       string        `envconfig:"SESSION_COOKIE_NAME" default:"session-token"`
	Domain            string        `envconfig:"COOKIE_DOMAIN" default:""`
	SameSite          string        `envconfig:"COOKIE_SAMESITE" default:"lax"`
	Secure            bool          `envconfig:"COOKIE_SECURE" default:"false"`
	RefreshDefaultTTL time.Duration `envconfig:"REFRESH_COOKIE_TTL" default:"168h"`
	AuthReadyTTL      time.Duration `envconfig:"AUTH_READY_TTL" default:"15m"`
	MirrorAccessTTL   time.Duration `envconfig:"MIRROR_ACCESS_TTL" default:"24h"`
	MirrorRefreshTTL  time.Duration `envconfig:"MIRROR_REFRESH_TTL" default:"720h"`
}

var _ CookieConfig = Cookies{}

func (c Cookies) GetSessionCookieName() string {
	if c.SessionName == "" {
		return cookies.SessionTokenCookie
	}
	return c.SessionName
}

func (c Cookies) GetCookieDomain() string {
	return c.Domain
}

func (c Cookies) GetCookieSameSite() string {
	return c.SameSite
}

// GetSecureCookies forces the Secure flag; otherwise it follows the request scheme.
func (c Cookies) GetSecureCookies() bool {
	return c.Secure
}

func (c Cookies) GetRefreshCookieDefaultTTL() time.Duration {
	return orDefault(c.RefreshDefaultTTL, defaultRefreshCookieTTL)
}

func (c Cookies) GetAuthReadyTTL() time.Duration {
	return orDefault(c.AuthReadyTTL, defaultAuthReadyTTL)
}

func (c Cookies) GetMirrorAccessTTL() time.Duration {
	return orDefault(c.MirrorAccessTTL, defaultMirrorAccessTTL)
}

func (c Cookies) GetMirrorRefreshTTL() time.Duration {
	return orDefault(c.MirrorRefreshTTL, defaultMirrorRefreshTTL)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
