package config

import (
	"strings"
	"time"
)

const defaultIdentityTimeout = 15 * time.Second

type IdentityConfig interface {
	GetIdentityRoot() string
	GetIdentityTimeout() time.Duration
}

// Identity points at the upstream identity backend (login + profile endpoints).
type Identity struct {
	IdentityRoot    string        `envconfig:"IDENTITY_ROOT" default:"http://localhost:4000"`
	IdentityTimeout time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"15s"`
}

var _ IdentityConfig = Identity{}

func (i Identity) GetIdentityRoot() string {
	return strings.TrimRight(i.IdentityRoot, "/")
}

func (i Identity) GetIdentityTimeout() time.Duration {
	if i.IdentityTimeout <= 0 {
		return defaultIdentityTimeout
	}
	return i.IdentityTimeout
}
