package provider

import (
	"context"
	"errors"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hGetAllFn func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hGetAllFn != nil {
		return m.hGetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func TestGet_Known(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)
	ctx := context.Background()

	ms.hGetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "provider:museum" {
			t.Errorf("unexpected key: %s", key)
		}
		return map[string]string{
			"display_name": "City Museum",
			"domain_url":   "https://museum.example.org",
		}, nil
	}

	p, ok, err := repo.Get(ctx, "museum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected provider to be found")
	}
	if p.DisplayName != "City Museum" || p.DomainURL != "https://museum.example.org" {
		t.Errorf("unexpected provider: %+v", p)
	}
	if p.Identifier != "museum" {
		t.Errorf("unexpected identifier: %s", p.Identifier)
	}
}

func TestGet_Unknown(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)
	ctx := context.Background()

	p, ok, err := repo.Get(ctx, "nobody")
	if err != nil {
		t.Fatalf("a missing provider is not an error, got %v", err)
	}
	if ok {
		t.Errorf("expected ok=false, got %+v", p)
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)
	ctx := context.Background()

	ms.hGetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return nil, errors.New("connection reset")
	}

	_, ok, err := repo.Get(ctx, "museum")
	if err == nil {
		t.Fatal("expected error")
	}
	if ok {
		t.Error("expected ok=false on error")
	}
}
