package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port     string `envconfig:"PORT" default:"8080"`
	AppName  string `envconfig:"APP_NAME" default:"DocDash"`
	Env      string `envconfig:"ENV" default:"DEV"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetBaseURL returns the public URL of the dashboard (e.g., "https://docs.example.com")
func (e EnvVars) GetBaseURL() string {
	return e.BaseURL
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) IsDev() bool {
	return strings.EqualFold(e.GetEnv(), "DEV")
}
