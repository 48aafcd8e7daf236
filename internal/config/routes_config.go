package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RouteConfig interface {
	GetRouteTable() RouteTable
}

// RouteTable drives route classification in the guard.
type RouteTable struct {
	Protected []string `yaml:"protected"` // path prefixes that require a session
	Public    []string `yaml:"public"`    // exact paths that never require a session
	AuthRoot  string   `yaml:"auth_root"` // prefix of the auth endpoints
	Excluded  []string `yaml:"excluded"`  // prefixes the guard never runs on
	Login     string   `yaml:"login"`
	Landing   string   `yaml:"landing"`
}

type Routes struct {
	RoutesFile string `envconfig:"ROUTES_FILE" default:""`
	table      RouteTable
}

func (r Routes) GetRouteTable() RouteTable {
	if r.table.Login == "" {
		return DefaultRouteTable()
	}
	return r.table
}

func DefaultRouteTable() RouteTable {
	return RouteTable{
		Protected: []string{"/dashboard", "/profile", "/settings", "/admin", "/api/protected"},
		Public:    []string{"/login", "/register", "/forgot-password"},
		AuthRoot:  "/api/auth",
		Excluded:  []string{"/api/", "/static/", "/images/", "/favicon.ico", "/metrics", "/healthz"},
		Login:     "/login",
		Landing:   "/dashboard",
	}
}

// LoadRouteTable reads a YAML routes file. Omitted keys keep their defaults.
func LoadRouteTable(path string) (RouteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RouteTable{}, fmt.Errorf("config: read routes file: %w", err)
	}
	table := DefaultRouteTable()
	var overrides RouteTable
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return RouteTable{}, fmt.Errorf("config: parse routes file: %w", err)
	}
	if overrides.Protected != nil {
		table.Protected = overrides.Protected
	}
	if overrides.Public != nil {
		table.Public = overrides.Public
	}
	if overrides.Excluded != nil {
		table.Excluded = overrides.Excluded
	}
	if overrides.AuthRoot != "" {
		table.AuthRoot = overrides.AuthRoot
	}
	if overrides.Login != "" {
		table.Login = overrides.Login
	}
	if overrides.Landing != "" {
		table.Landing = overrides.Landing
	}
	return table, nil
}
