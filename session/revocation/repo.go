// Package revocation records session IDs that were logged out before their expiry.
package revocation

import (
	"context"
	"time"
)

// Repo remembers revoked session IDs until the session would have expired anyway.
type Repo interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}
