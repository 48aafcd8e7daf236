package cookies

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultLifetime applies when the upstream cookie carries neither Max-Age nor Expires.
const DefaultLifetime = 7 * 24 * time.Hour

var ErrMalformedCookie = errors.New("malformed Set-Cookie header")

// Descriptor is a parsed Set-Cookie header folded into concrete fields.
type Descriptor struct {
	Name       string
	Value      string
	Attributes []Attribute // in header order, malformed and unknown ones dropped

	MaxAge    int // seconds, only meaningful when HasMaxAge
	HasMaxAge bool
	Expires   time.Time // ignored when HasMaxAge
	Path      string
	Domain    string
	Secure    bool
	HttpOnly  bool
	SameSite  http.SameSite
}

// ParseSetCookie scans a single Set-Cookie header value: the name/value pair first,
// then each attribute. Only a broken name/value pair is an error.
func ParseSetCookie(line string) (Descriptor, error) {
	segments := strings.Split(line, ";")
	name, value, found := strings.Cut(segments[0], "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Descriptor{}, ErrMalformedCookie
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}

	d := Descriptor{Name: name, Value: value}
	for _, segment := range segments[1:] {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if attr, ok := parseAttribute(segment); ok {
			d.Attributes = append(d.Attributes, attr)
		}
	}
	d.fold()
	return d, nil
}

func (d *Descriptor) fold() {
	d.Path = "/"
	d.HttpOnly = true
	d.SameSite = http.SameSiteLaxMode

	for _, attr := range d.Attributes {
		switch a := attr.(type) {
		case MaxAge:
			d.MaxAge = int(a)
			d.HasMaxAge = true
		case Expires:
			d.Expires = time.Time(a)
		case Path:
			d.Path = string(a)
		case Domain:
			d.Domain = string(a)
		case Secure:
			d.Secure = true
		case HttpOnly:
			d.HttpOnly = bool(a)
		case SameSite:
			d.SameSite = http.SameSite(a)
		default:
		}
	}
	if d.HasMaxAge {
		d.Expires = time.Time{}
	}
}

// Lifetime is the effective lifetime of the cookie relative to now.
func (d Descriptor) Lifetime(now time.Time) time.Duration {
	switch {
	case d.HasMaxAge:
		return time.Duration(d.MaxAge) * time.Second
	case !d.Expires.IsZero():
		return d.Expires.Sub(now)
	default:
		return DefaultLifetime
	}
}

// Cookie rebuilds the descriptor as an origin-scoped cookie: the upstream Domain is dropped.
// defaultTTL is used when the upstream set no lifetime.
func (d Descriptor) Cookie(defaultTTL time.Duration) *http.Cookie {
	if defaultTTL <= 0 {
		defaultTTL = DefaultLifetime
	}
	c := &http.Cookie{
		Name:     d.Name,
		Value:    d.Value,
		Path:     d.Path,
		Secure:   d.Secure,
		HttpOnly: d.HttpOnly,
		SameSite: d.SameSite,
	}
	switch {
	case d.HasMaxAge && d.MaxAge <= 0:
		c.MaxAge = -1
	case d.HasMaxAge:
		c.MaxAge = d.MaxAge
	case !d.Expires.IsZero():
		c.Expires = d.Expires
	default:
		c.MaxAge = int(defaultTTL.Seconds())
	}
	if c.SameSite == http.SameSiteNoneMode {
		c.Secure = true
	}
	return c
}
