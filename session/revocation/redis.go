package revocation

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Redis shares revocations between replicas. Keys carry a TTL equal to the session's remaining lifetime.
type Redis struct {
	c       *rdb.Client
	prefix  string
	nowFunc func() time.Time
}

func NewRedis(opts RedisOptions) *Redis {
	return &Redis{
		c:       rdb.NewClient(&rdb.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}),
		prefix:  opts.KeyPrefix,
		nowFunc: time.Now,
	}
}

func (r *Redis) key(id string) string {
	if r.prefix == "" {
		return id
	}
	return r.prefix + ":" + id
}

func (r *Redis) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := until.Sub(r.nowFunc())
	if ttl <= 0 {
		return nil
	}
	if err := r.c.Set(ctx, r.key(id), until.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revocation: redis set: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.c.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation: redis exists: %w", err)
	}
	return n > 0, nil
}

// Ping checks connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.c.Close()
}
