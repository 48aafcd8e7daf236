package revocation

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps revoked IDs in process. Entries expire with the session they belong to.
type Memory struct {
	c       *gocache.Cache
	nowFunc func() time.Time
}

func NewMemory(sweepInterval time.Duration) *Memory {
	return &Memory{
		c:       gocache.New(gocache.NoExpiration, sweepInterval),
		nowFunc: time.Now,
	}
}

func (m *Memory) Revoke(_ context.Context, id string, until time.Time) error {
	ttl := until.Sub(m.nowFunc())
	if ttl <= 0 {
		return nil
	}
	m.c.Set(id, until, ttl)
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, id string) (bool, error) {
	_, found := m.c.Get(id)
	return found, nil
}

func (m *Memory) Len() int {
	return m.c.ItemCount()
}
