// Package guard decides, before any page renders, whether a request proceeds or is
// redirected, and keeps the browser's token cookies in step with its session.
package guard

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/docdash/internal/config"
)

type Action int

const (
	Proceed Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "proceed"
}

// Decision is the guard's verdict for one request. Mirror is set when the session's
// tokens should be copied into plain cookies.
type Decision struct {
	Action   Action
	Location string
	Mirror   bool
}

// label names the decision for metrics.
func (d Decision) label() string {
	switch {
	case d.Action == Redirect:
		return "redirect"
	case d.Mirror:
		return "proceed_authenticated"
	default:
		return "proceed"
	}
}

// Classifier sorts paths into protected, public and unclassified. Unclassified paths
// are not protected.
type Classifier struct {
	protected []string
	public    map[string]bool
	authRoot  string
	excluded  []string
	login     string
	landing   string
}

func NewClassifier(t config.RouteTable) *Classifier {
	c := &Classifier{
		protected: t.Protected,
		public:    make(map[string]bool, len(t.Public)),
		authRoot:  t.AuthRoot,
		excluded:  t.Excluded,
		login:     t.Login,
		landing:   t.Landing,
	}
	for _, p := range t.Public {
		c.public[p] = true
	}
	return c
}

func (c *Classifier) IsProtected(path string) bool {
	for _, prefix := range c.protected {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (c *Classifier) IsPublic(path string) bool {
	if c.public[path] {
		return true
	}
	return c.authRoot != "" && strings.HasPrefix(path, c.authRoot)
}

// Excluded reports whether the guard does not run at all for path.
func (c *Classifier) Excluded(path string) bool {
	for _, prefix := range c.excluded {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// LoginURL is the login page with path preserved as the callback.
func (c *Classifier) LoginURL(path string) string {
	return c.login + "?callbackUrl=" + url.QueryEscape(path)
}

// Decide applies the decision table. Rows are checked in order.
func (c *Classifier) Decide(authenticated bool, path string) Decision {
	switch {
	case !authenticated && c.IsProtected(path):
		return Decision{Action: Redirect, Location: c.LoginURL(path)}
	case !authenticated && path == "/":
		return Decision{Action: Redirect, Location: c.login}
	case authenticated && path == c.login:
		return Decision{Action: Redirect, Location: c.landing}
	case authenticated:
		return Decision{Action: Proceed, Mirror: true}
	default:
		return Decision{Action: Proceed}
	}
}
