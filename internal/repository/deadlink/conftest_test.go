package deadlink

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-media/imagery/internal/db"
	"github.com/halcyon-media/imagery/internal/domain"
)

// mockCache implements the consumer interface for tests.
// It is safe for concurrent use since probes fan out.
type mockCache struct {
	mu    sync.Mutex
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	sets  map[string]string
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	fn := m.getFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets == nil {
		m.sets = make(map[string]string)
	}
	m.sets[key] = string(value)
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) setValue(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sets[key]
	return v, ok
}

func newTestFilter(t *testing.T) (*Filter, *mockCache) {
	t.Helper()
	mc := &mockCache{}
	f := New(mc, Config{
		ProbeTimeout: 2 * time.Second,
		CacheTTL:     time.Hour,
		MaxParallel:  4,
	}, nil, zap.NewNop())
	return f, mc
}

func hitsFor(urls []string) []domain.Hit {
	hits := make([]domain.Hit, len(urls))
	for i, u := range urls {
		hits[i] = domain.Hit{Identifier: u, URL: u}
	}
	return hits
}
