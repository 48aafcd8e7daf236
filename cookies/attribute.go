package cookies

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Attribute is one parsed Set-Cookie attribute. The set of variants is closed:
// MaxAge, Expires, Path, Domain, Secure, HttpOnly and SameSite.
type Attribute interface {
	attribute()
}

type MaxAge int

type Expires time.Time

type Path string

type Domain string

type Secure struct{}

// HttpOnly is true unless the upstream explicitly wrote HttpOnly=false (or 0).
type HttpOnly bool

type SameSite http.SameSite

func (MaxAge) attribute()   {}
func (Expires) attribute()  {}
func (Path) attribute()     {}
func (Domain) attribute()   {}
func (Secure) attribute()   {}
func (HttpOnly) attribute() {}
func (SameSite) attribute() {}

// expiresLayouts covers RFC 1123 plus the dashed and two-digit-year forms still seen in the wild.
var expiresLayouts = []string{
	http.TimeFormat,
	time.RFC1123,
	"Mon, 02-Jan-2006 15:04:05 MST",
	"Mon, 02-Jan-06 15:04:05 MST",
	time.RFC850,
	time.ANSIC,
}

// parseAttribute converts one "key[=value]" segment. ok is false for unknown or
// malformed attributes, which the caller skips.
func parseAttribute(segment string) (Attribute, bool) {
	key, val, _ := strings.Cut(segment, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	val = strings.TrimSpace(val)

	switch key {
	case "max-age":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, false
		}
		return MaxAge(n), true
	case "expires":
		t, ok := parseExpires(val)
		if !ok {
			return nil, false
		}
		return Expires(t), true
	case "path":
		if !strings.HasPrefix(val, "/") {
			return nil, false
		}
		return Path(val), true
	case "domain":
		val = strings.TrimPrefix(val, ".")
		if val == "" {
			return nil, false
		}
		return Domain(strings.ToLower(val)), true
	case "secure":
		return Secure{}, true
	case "httponly":
		switch strings.ToLower(val) {
		case "", "true", "1":
			return HttpOnly(true), true
		case "false", "0":
			return HttpOnly(false), true
		}
		return nil, false
	case "samesite":
		mode, ok := sameSiteMode(val)
		if !ok {
			return nil, false
		}
		return SameSite(mode), true
	default:
		return nil, false
	}
}

func parseExpires(val string) (time.Time, bool) {
	val = strings.Trim(val, `"`)
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func sameSiteMode(val string) (http.SameSite, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "lax":
		return http.SameSiteLaxMode, true
	case "strict":
		return http.SameSiteStrictMode, true
	case "none":
		return http.SameSiteNoneMode, true
	default:
		return http.SameSiteDefaultMode, false
	}
}
