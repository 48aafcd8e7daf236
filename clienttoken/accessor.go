// Package clienttoken reads and writes auth cookies from the client side of a
// connection: a cookie jar scoped to one base URL.
package clienttoken

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Accessor gives direct access to the cookies a client holds for one origin. It does
// no validation and no network I/O of its own.
type Accessor struct {
	jar  http.CookieJar
	base *url.URL
}

func New(baseURL string) (*Accessor, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("clienttoken: new jar: %w", err)
	}
	return NewWithJar(jar, baseURL)
}

func NewWithJar(jar http.CookieJar, baseURL string) (*Accessor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("clienttoken: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("clienttoken: base url %q must be absolute", baseURL)
	}
	root := *base
	root.Path = "/"
	root.RawQuery = ""
	return &Accessor{jar: jar, base: &root}, nil
}

// Get returns the cookie's value as the jar would send it to the base URL.
func (a *Accessor) Get(name string) (string, bool) {
	for _, c := range a.jar.Cookies(a.base) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Set stores a session-lifetime cookie at Path=/.
func (a *Accessor) Set(name, value string) {
	a.jar.SetCookies(a.base, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// Delete expires the cookie immediately.
func (a *Accessor) Delete(name string) {
	a.jar.SetCookies(a.base, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
}

// All lists every cookie the jar holds for the base URL.
func (a *Accessor) All() []*http.Cookie {
	return a.jar.Cookies(a.base)
}

func (a *Accessor) BaseURL() string {
	return a.base.String()
}

// Client returns an HTTP client that shares this accessor's jar.
func (a *Accessor) Client() *http.Client {
	return &http.Client{
		Jar: a.jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
