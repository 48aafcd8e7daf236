package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config interface {
	EnvConfig
	CorsConfig
	IdentityConfig
	SessionConfig
	CookieConfig
	RouteConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetLogLevel() string
	GetEnv() string
	IsDev() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// Values is populated from the environment by envconfig. Tests build it through Default.
type Values struct {
	EnvVars
	Cors
	Identity
	Session
	Cookies
	Routes
}

var _ Config = (*Values)(nil)

// Load reads an optional .env file, then the process environment, then the optional routes file.
func Load(envFile string) (*Values, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load() // .env in the working directory is optional
	}

	v := &Values{}
	if err := envconfig.Process("", v); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	v.Routes.table = DefaultRouteTable()
	if v.RoutesFile != "" {
		table, err := LoadRouteTable(v.RoutesFile)
		if err != nil {
			return nil, err
		}
		v.Routes.table = table
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Default returns the built-in defaults without touching the environment.
func Default() *Values {
	return &Values{
		EnvVars: EnvVars{
			Port:     "8080",
			AppName:  "DocDash",
			Env:      "DEV",
			BaseURL:  "http://localhost:8080",
			LogLevel: "info",
		},
		Cors: Cors{
			Origins: []string{"*"},
		},
		Identity: Identity{
			IdentityRoot:    "http://localhost:4000",
			IdentityTimeout: defaultIdentityTimeout,
		},
		Session: Session{
			Secret:             "dev-only-session-secret-change-me",
			Issuer:             "docdash",
			MaxAge:             defaultSessionMaxAge,
			RevocationBackend:  RevocationMemory,
			RedisAddr:          "localhost:6379",
			RedisKeyPrefix:     "docdash:revoked",
			RevocationSweepAge: defaultSweep,
		},
		Cookies: Cookies{
			SessionName:       "session-token",
			SameSite:          "lax",
			RefreshDefaultTTL: defaultRefreshCookieTTL,
			AuthReadyTTL:      defaultAuthReadyTTL,
			MirrorAccessTTL:   defaultMirrorAccessTTL,
			MirrorRefreshTTL:  defaultMirrorRefreshTTL,
		},
		Routes: Routes{table: DefaultRouteTable()},
	}
}

func (v *Values) validate() error {
	if strings.TrimSpace(v.IdentityRoot) == "" {
		return fmt.Errorf("config: IDENTITY_ROOT is required")
	}
	if v.Secret == "" {
		if !v.IsDev() {
			return fmt.Errorf("config: SESSION_SECRET is required outside DEV")
		}
		v.Secret = Default().Secret
	}
	if len(v.Secret) < 16 {
		return fmt.Errorf("config: SESSION_SECRET must be at least 16 characters")
	}
	switch v.RevocationBackend {
	case RevocationMemory, RevocationRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_REVOCATION %q", v.RevocationBackend)
	}
	return nil
}
