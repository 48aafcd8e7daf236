package permissions

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the current user's permission set, typically from the profile endpoint.
type Fetcher interface {
	FetchPermissions(ctx context.Context) (Set, error)
}

type FetcherFunc func(ctx context.Context) (Set, error)

func (f FetcherFunc) FetchPermissions(ctx context.Context) (Set, error) {
	return f(ctx)
}

// Provider owns one permission snapshot for its lifetime. The snapshot is fetched at
// most once until Invalidate is called; checks never trigger a fetch.
type Provider struct {
	fetcher Fetcher
	group   singleflight.Group

	mu         sync.RWMutex
	generation int
	loaded     bool
	snapshot   *Snapshot
	err        error
}

func NewProvider(f Fetcher) *Provider {
	return &Provider{fetcher: f}
}

// Load fetches the snapshot if this provider has not loaded one yet. Concurrent
// callers share a single fetch.
func (p *Provider) Load(ctx context.Context) error {
	p.mu.RLock()
	if p.loaded {
		err := p.err
		p.mu.RUnlock()
		return err
	}
	gen := p.generation
	p.mu.RUnlock()

	_, err, _ := p.group.Do(strconv.Itoa(gen), func() (interface{}, error) {
		p.mu.RLock()
		if p.loaded && p.generation == gen {
			err := p.err
			p.mu.RUnlock()
			return nil, err
		}
		p.mu.RUnlock()

		set, err := p.fetcher.FetchPermissions(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.generation != gen {
			// invalidated while fetching; the result is stale
			return nil, err
		}
		p.loaded = true
		p.err = err
		if err == nil {
			p.snapshot = NewSnapshot(set)
		}
		return nil, err
	})
	return err
}

// Snapshot returns the last fetched snapshot; ok is false while loading or after a failed fetch.
func (p *Provider) Snapshot() (*Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.snapshot != nil
}

func (p *Provider) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *Provider) HasPermission(key string) bool {
	snap, _ := p.Snapshot()
	return snap.HasPermission(key)
}

func (p *Provider) Can(resource, action string) bool {
	snap, _ := p.Snapshot()
	return snap.Can(resource, action)
}

// Invalidate drops the snapshot; the next Load refetches.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.loaded = false
	p.snapshot = nil
	p.err = nil
}

type contextKey struct{}

func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(contextKey{}).(*Provider)
	return p, ok && p != nil
}

// Can checks the provider in ctx. It is false when there is none.
func Can(ctx context.Context, resource, action string) bool {
	p, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return p.Can(resource, action)
}

func HasPermission(ctx context.Context, key string) bool {
	p, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return p.HasPermission(key)
}
