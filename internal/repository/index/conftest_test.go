package index

import (
	"context"
	"testing"

	"github.com/halcyon-media/imagery/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchRankedFn func(ctx context.Context, q *db.RankedQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchRanked(ctx context.Context, q *db.RankedQuery) (*db.SearchResult, error) {
	if m.searchRankedFn != nil {
		return m.searchRankedFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{
		IndexName:       "image:idx",
		KeyPrefix:       "img:",
		MaxResultWindow: 10000,
	})
	return repo, ms
}

func entryFields(title, url, license string) map[string]string {
	return map[string]string{
		"title":   title,
		"url":     url,
		"license": license,
	}
}
