package config

import "time"

const (
	defaultSessionMaxAge = 30 * 24 * time.Hour
	defaultSweep         = 10 * time.Minute

	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionIssuer() string
	GetSessionMaxAge() time.Duration
	GetSessionUpdateAge() time.Duration
	GetRevocationBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
	GetRevocationSweepInterval() time.Duration
}

type Session struct {
	Secret    string        `envconfig:"SESSION_SECRET"`
	Issuer    string        `envconfig:"SESSION_ISSUER" default:"docdash"`
	MaxAge    time.Duration `envconfig:"SESSION_MAX_AGE" default:"720h"`
	UpdateAge time.Duration `envconfig:"SESSION_UPDATE_AGE" default:"0s"`

	RevocationBackend  string        `envconfig:"SESSION_REVOCATION" default:"memory"`
	RevocationSweepAge time.Duration `envconfig:"SESSION_REVOCATION_SWEEP" default:"10m"`
	RedisAddr          string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB            int           `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix     string        `envconfig:"REDIS_KEY_PREFIX" default:"docdash:revoked"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionSecret() string {
	return s.Secret
}

func (s Session) GetSessionIssuer() string {
	return s.Issuer
}

func (s Session) GetSessionMaxAge() time.Duration {
	if s.MaxAge <= 0 {
		return defaultSessionMaxAge
	}
	return s.MaxAge
}

// GetSessionUpdateAge is the minimum session age before a request re-signs it. Zero re-signs on every request.
func (s Session) GetSessionUpdateAge() time.Duration {
	return s.UpdateAge
}

func (s Session) GetRevocationBackend() string {
	return s.RevocationBackend
}

func (s Session) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Session) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Session) GetRedisDB() int {
	return s.RedisDB
}

func (s Session) GetRedisKeyPrefix() string {
	return s.RedisKeyPrefix
}

func (s Session) GetRevocationSweepInterval() time.Duration {
	if s.RevocationSweepAge <= 0 {
		return defaultSweep
	}
	return s.RevocationSweepAge
}
