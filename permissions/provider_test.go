package permissions_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/docdash/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentSet() permissions.Set {
	return permissions.Set{
		Raw: []string{"documents.read", "journals.read"},
		Resources: map[string]map[string]bool{
			"documents": {"read": true, "create": true, "delete": false},
			"roles":     {"read": true},
		},
	}
}

func countingFetcher(set permissions.Set, err error, calls *int32) permissions.FetcherFunc {
	return func(ctx context.Context) (permissions.Set, error) {
		atomic.AddInt32(calls, 1)
		return set, err
	}
}

func TestProvider_ChecksAfterLoad(t *testing.T) {
	var calls int32
	p := permissions.NewProvider(countingFetcher(documentSet(), nil, &calls))
	require.NoError(t, p.Load(context.Background()))

	tests := []struct {
		resource, action string
		want             bool
	}{
		{"documents", "read", true},
		{"documents", "create", true},
		{"documents", "delete", false},
		{"documents", "archive", false},
		{"roles", "read", true},
		{"departments", "read", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Can(tt.resource, tt.action), "%s/%s", tt.resource, tt.action)
	}
	assert.True(t, p.HasPermission("documents.read"))
	assert.False(t, p.HasPermission("documents.delete"))
}

func TestProvider_FalseBeforeLoad(t *testing.T) {
	var calls int32
	p := permissions.NewProvider(countingFetcher(documentSet(), nil, &calls))

	assert.False(t, p.Can("documents", "read"))
	assert.False(t, p.HasPermission("documents.read"))
	_, ok := p.Snapshot()
	assert.False(t, ok)
	assert.Zero(t, atomic.LoadInt32(&calls), "checks never fetch")
}

func TestProvider_FalseAfterFailedFetch(t *testing.T) {
	var calls int32
	fetchErr := errors.New("upstream down")
	p := permissions.NewProvider(countingFetcher(documentSet(), fetchErr, &calls))

	require.ErrorIs(t, p.Load(context.Background()), fetchErr)
	assert.False(t, p.Can("documents", "read"))
	assert.ErrorIs(t, p.Err(), fetchErr)

	require.ErrorIs(t, p.Load(context.Background()), fetchErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "failed fetch is not retried implicitly")
}

func TestProvider_LoadsOnce(t *testing.T) {
	var calls int32
	p := permissions.NewProvider(countingFetcher(documentSet(), nil, &calls))

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Load(context.Background()))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestProvider_ConcurrentLoadSharesFetch(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	p := permissions.NewProvider(permissions.FetcherFunc(func(ctx context.Context) (permissions.Set, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return documentSet(), nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Load(context.Background()))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, p.Can("documents", "read"))
}

func TestProvider_Invalidate(t *testing.T) {
	var calls int32
	p := permissions.NewProvider(countingFetcher(documentSet(), nil, &calls))
	require.NoError(t, p.Load(context.Background()))

	p.Invalidate()
	assert.False(t, p.Can("documents", "read"))

	require.NoError(t, p.Load(context.Background()))
	assert.True(t, p.Can("documents", "read"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSnapshot_IsolatedFromSource(t *testing.T) {
	set := documentSet()
	snap := permissions.NewSnapshot(set)
	set.Resources["documents"]["delete"] = true
	set.Raw[0] = "changed"

	assert.False(t, snap.Can("documents", "delete"))
	assert.True(t, snap.HasPermission("documents.read"))

	var nilSnap *permissions.Snapshot
	assert.False(t, nilSnap.Can("documents", "read"))
	assert.Empty(t, nilSnap.Set().Raw)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, permissions.Can(ctx, "documents", "read"))

	var calls int32
	p := permissions.NewProvider(countingFetcher(documentSet(), nil, &calls))
	require.NoError(t, p.Load(ctx))
	ctx = permissions.WithProvider(ctx, p)

	got, ok := permissions.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.True(t, permissions.Can(ctx, "documents", "create"))
	assert.True(t, permissions.HasPermission(ctx, "journals.read"))
}
