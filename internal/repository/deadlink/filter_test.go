package deadlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilterDead_DropsDeadPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "dead") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, _ := newTestFilter(t)
	urls := []string{
		srv.URL + "/a-live.jpg",
		srv.URL + "/b-dead.jpg",
		srv.URL + "/c-live.jpg",
		srv.URL + "/d-live.jpg",
	}
	hits := hitsFor(urls)

	live := f.FilterDead(context.Background(), hits, urls)
	if len(live) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(live))
	}
	if live[0].URL != urls[0] || live[1].URL != urls[2] || live[2].URL != urls[3] {
		t.Errorf("survivor order changed: %+v", live)
	}
}

func TestFilterDead_CacheHitSkipsProbe(t *testing.T) {
	var probed atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		probed.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, mc := newTestFilter(t)
	url := srv.URL + "/cached.jpg"
	mc.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != statusKeyPrefix+url {
			t.Errorf("unexpected cache key: %s", key)
		}
		return []byte("200"), nil
	}

	live := f.FilterDead(context.Background(), hitsFor([]string{url}), []string{url})
	if len(live) != 1 {
		t.Fatalf("expected cached URL to survive, got %d", len(live))
	}
	if probed.Load() != 0 {
		t.Errorf("expected no probe on cache hit, got %d", probed.Load())
	}
}

func TestFilterDead_CachedDeadVerdict(t *testing.T) {
	f, mc := newTestFilter(t)
	url := "https://example.invalid/gone.jpg"
	mc.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("404"), nil
	}

	live := f.FilterDead(context.Background(), hitsFor([]string{url}), []string{url})
	if len(live) != 0 {
		t.Errorf("expected cached dead verdict to drop the hit, got %+v", live)
	}
}

func TestFilterDead_ProbeVerdictCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, mc := newTestFilter(t)
	url := srv.URL + "/fresh.jpg"

	f.FilterDead(context.Background(), hitsFor([]string{url}), []string{url})

	got, ok := mc.setValue(statusKeyPrefix + url)
	if !ok {
		t.Fatal("expected the verdict to be cached")
	}
	if got != "200" {
		t.Errorf("expected cached 200, got %q", got)
	}
}

func TestFilterDead_ProbeErrorCountsDead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // probe hits a closed listener

	f, mc := newTestFilter(t)
	url := srv.URL + "/unreachable.jpg"

	live := f.FilterDead(context.Background(), hitsFor([]string{url}), []string{url})
	if len(live) != 0 {
		t.Errorf("expected unreachable URL to be dropped, got %+v", live)
	}

	got, ok := mc.setValue(statusKeyPrefix + url)
	if !ok {
		t.Fatal("expected the error verdict to be cached")
	}
	if got != "500" {
		t.Errorf("expected cached 500, got %q", got)
	}
}

func TestFilterDead_CanceledRequestNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, mc := newTestFilter(t)
	url := srv.URL + "/aborted.jpg"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := f.FilterDead(ctx, hitsFor([]string{url}), []string{url})
	if len(live) != 0 {
		t.Errorf("canceled probe must not pass the hit, got %+v", live)
	}

	// The probe failed because the caller went away, not because the link
	// is dead; the verdict must not stick for later searchers.
	if got, ok := mc.setValue(statusKeyPrefix + url); ok {
		t.Errorf("canceled probe cached verdict %q", got)
	}
}

func TestFilterDead_MismatchedInputUnchanged(t *testing.T) {
	f, _ := newTestFilter(t)
	hits := hitsFor([]string{"https://a.example/x.jpg", "https://b.example/y.jpg"})

	live := f.FilterDead(context.Background(), hits, []string{"https://a.example/x.jpg"})
	if len(live) != len(hits) {
		t.Errorf("mismatched slices must pass through, got %d", len(live))
	}
}

func TestFilterDead_Empty(t *testing.T) {
	f, _ := newTestFilter(t)
	if live := f.FilterDead(context.Background(), nil, nil); len(live) != 0 {
		t.Errorf("expected empty, got %+v", live)
	}
}
