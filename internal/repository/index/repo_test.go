package index

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyon-media/imagery/internal/db"
	"github.com/halcyon-media/imagery/internal/domain"
)

func TestSearch_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, q *db.RankedQuery) (*db.SearchResult, error) {
		if q.IndexName != "image:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.Text != "sunset" {
			t.Errorf("unexpected text: %s", q.Text)
		}
		if q.Offset != 20 || q.Limit != 20 {
			t.Errorf("unexpected window: %d/%d", q.Offset, q.Limit)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "img:aaa", Score: 9.5, Fields: entryFields("Sunset", "https://example.org/a.jpg", "by")},
				{Key: "img:bbb", Score: 4.0, Fields: entryFields("Dusk", "https://example.org/b.jpg", "cc0")},
			},
		}, nil
	}

	hits, total, err := repo.Search(ctx, "sunset", nil, 20, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Identifier != "aaa" {
		t.Errorf("expected key prefix trimmed, got %q", hits[0].Identifier)
	}
	if hits[0].Title != "Sunset" || hits[0].Score != 9.5 {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
	if hits[1].Identifier != "bbb" {
		t.Errorf("unexpected hit order: %+v", hits)
	}
}

func TestSearch_LicenseFilter(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, q *db.RankedQuery) (*db.SearchResult, error) {
		got := q.TagFilters["license"]
		if len(got) != 2 || got[0] != "by" || got[1] != "by-sa" {
			t.Errorf("unexpected license filter: %v", got)
		}
		return &db.SearchResult{}, nil
	}

	if _, _, err := repo.Search(ctx, "cats", []string{"by", "by-sa"}, 0, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_NoFilterOmit(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, q *db.RankedQuery) (*db.SearchResult, error) {
		if q.TagFilters != nil {
			t.Errorf("expected no tag filters, got %v", q.TagFilters)
		}
		return &db.SearchResult{}, nil
	}

	if _, _, err := repo.Search(ctx, "cats", nil, 0, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_TagsSplit(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		fields := entryFields("Sunset", "https://example.org/a.jpg", "by")
		fields["tags"] = "nature,sky,dunes"
		return &db.SearchResult{
			Total:   1,
			Entries: []db.SearchEntry{{Key: "img:aaa", Fields: fields}},
		}, nil
	}

	hits, _, err := repo.Search(ctx, "sunset", nil, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags := hits[0].Tags
	if len(tags) != 3 || tags[0] != "nature" || tags[2] != "dunes" {
		t.Errorf("unexpected tags: %v", tags)
	}
}

func TestSearch_DerivesLicenseURL(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		fields := entryFields("Sunset", "https://example.org/a.jpg", "by-sa")
		fields["license_version"] = "2.0"
		return &db.SearchResult{
			Total:   1,
			Entries: []db.SearchEntry{{Key: "img:aaa", Fields: fields}},
		}, nil
	}

	hits, _, err := repo.Search(ctx, "sunset", nil, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://creativecommons.org/licenses/by-sa/2.0/"
	if hits[0].LicenseURL != want {
		t.Errorf("got %q, want %q", hits[0].LicenseURL, want)
	}
}

func TestSearch_KeepsStoredLicenseURL(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		fields := entryFields("Sunset", "https://example.org/a.jpg", "by")
		fields["license_url"] = "https://example.org/custom-license"
		return &db.SearchResult{
			Total:   1,
			Entries: []db.SearchEntry{{Key: "img:aaa", Fields: fields}},
		}, nil
	}

	hits, _, err := repo.Search(ctx, "sunset", nil, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].LicenseURL != "https://example.org/custom-license" {
		t.Errorf("stored license_url must win, got %q", hits[0].LicenseURL)
	}
}

func TestSearch_WindowRefusedUpFront(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	called := false
	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		called = true
		return &db.SearchResult{}, nil
	}

	_, _, err := repo.Search(ctx, "cats", nil, 9990, 20)
	if !errors.Is(err, domain.ErrDeepPagination) {
		t.Fatalf("expected ErrDeepPagination, got %v", err)
	}
	if called {
		t.Error("store must not be queried for a refused window")
	}
}

func TestSearch_WindowAtBoundaryAllowed(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	if _, _, err := repo.Search(ctx, "cats", nil, 9980, 20); err != nil {
		t.Fatalf("offset+limit equal to the window must pass, got %v", err)
	}
}

func TestSearch_TranslatesWindowExceeded(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		return nil, db.ErrWindowExceeded
	}

	_, _, err := repo.Search(ctx, "cats", nil, 0, 20)
	if !errors.Is(err, domain.ErrDeepPagination) {
		t.Fatalf("expected ErrDeepPagination, got %v", err)
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection reset")
	}

	_, _, err := repo.Search(ctx, "cats", nil, 0, 20)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrDeepPagination) {
		t.Error("plain store errors must not map to ErrDeepPagination")
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchRankedFn = func(_ context.Context, _ *db.RankedQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 0}, nil
	}

	hits, total, err := repo.Search(ctx, "nothing", nil, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(hits) != 0 {
		t.Errorf("expected empty result, got total=%d hits=%d", total, len(hits))
	}
}
