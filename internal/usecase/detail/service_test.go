package detail

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/halcyon-media/imagery/internal/domain"
	"github.com/halcyon-media/imagery/internal/domain/imageproxy"
)

// --- Mocks ---

type mockRecords struct {
	rec domain.ImageRecord
	err error
}

func (m *mockRecords) Get(_ context.Context, _ string) (domain.ImageRecord, error) {
	return m.rec, m.err
}

type mockProviders struct {
	prov  domain.Provider
	found bool
	err   error

	gotIdentifier string
}

func (m *mockProviders) Get(_ context.Context, identifier string) (domain.Provider, bool, error) {
	m.gotIdentifier = identifier
	return m.prov, m.found, m.err
}

type mockViews struct {
	count int64
	err   error

	gotIdentifier string
}

func (m *mockViews) RecordView(_ context.Context, identifier string) (int64, error) {
	m.gotIdentifier = identifier
	return m.count, m.err
}

func noProxy() imageproxy.Policy {
	return imageproxy.NewPolicy(false, "", 0, nil)
}

func testRecord() domain.ImageRecord {
	return domain.ImageRecord{
		Identifier:        "abc-123",
		Title:             "Old Clock",
		Creator:           "jane",
		CreatorURL:        "jane.example.com",
		URL:               "https://cdn.example.com/clock.jpg",
		Provider:          "museum",
		License:           "by",
		LicenseVersion:    "4.0",
		ForeignLandingURL: "museum.example.com/clock",
	}
}

// --- Tests ---

func TestGet_HappyPath(t *testing.T) {
	records := &mockRecords{rec: testRecord()}
	providers := &mockProviders{
		prov:  domain.Provider{Identifier: "museum", DisplayName: "City Museum", DomainURL: "https://museum.example.com"},
		found: true,
	}
	views := &mockViews{count: 42}
	svc := New(records, providers, views, noProxy())

	det, err := svc.Get(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if providers.gotIdentifier != "museum" {
		t.Errorf("provider lookup = %q, want record's provider", providers.gotIdentifier)
	}
	if views.gotIdentifier != "abc-123" {
		t.Errorf("view tracked for %q", views.gotIdentifier)
	}
	if det.ProviderName != "City Museum" || det.ProviderURL != "https://museum.example.com" {
		t.Errorf("provider display = %q / %q", det.ProviderName, det.ProviderURL)
	}
	if det.ViewCount != 42 {
		t.Errorf("view count = %d, want 42", det.ViewCount)
	}
	if det.CreatorURL != "https://jane.example.com" {
		t.Errorf("creator url not repaired: %q", det.CreatorURL)
	}
	if det.ForeignLandingURL != "https://museum.example.com/clock" {
		t.Errorf("foreign landing not repaired: %q", det.ForeignLandingURL)
	}
	if det.URL != "https://cdn.example.com/clock.jpg" {
		t.Errorf("secure image url changed: %q", det.URL)
	}
}

func TestGet_UnknownProviderFallsBack(t *testing.T) {
	records := &mockRecords{rec: testRecord()}
	providers := &mockProviders{found: false}
	svc := New(records, providers, &mockViews{count: 1}, noProxy())

	det, err := svc.Get(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.ProviderName != "museum" {
		t.Errorf("provider name = %q, want raw identifier", det.ProviderName)
	}
	if det.ProviderURL != "Unknown" {
		t.Errorf("provider url = %q, want Unknown", det.ProviderURL)
	}
}

func TestGet_InsecureURLProxiedFullResolution(t *testing.T) {
	rec := testRecord()
	rec.URL = "http://cdn.example.com/clock.jpg"
	records := &mockRecords{rec: rec}
	policy := imageproxy.NewPolicy(true, "https://thumbs.example.com", 600, nil)
	svc := New(records, &mockProviders{found: true}, &mockViews{count: 1}, policy)

	det, err := svc.Get(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No width segment on the detail variant.
	want := "https://thumbs.example.com/http://cdn.example.com/clock.jpg"
	if det.URL != want {
		t.Errorf("url = %q, want %q", det.URL, want)
	}
}

func TestGet_NotFound(t *testing.T) {
	records := &mockRecords{err: fmt.Errorf("image abc-123: %w", domain.ErrNotFound)}
	svc := New(records, &mockProviders{}, &mockViews{}, noProxy())

	_, err := svc.Get(context.Background(), "abc-123")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_ProviderStoreError(t *testing.T) {
	records := &mockRecords{rec: testRecord()}
	providers := &mockProviders{err: errors.New("connection reset")}
	svc := New(records, providers, &mockViews{}, noProxy())

	if _, err := svc.Get(context.Background(), "abc-123"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_ViewTrackerError(t *testing.T) {
	records := &mockRecords{rec: testRecord()}
	views := &mockViews{err: errors.New("connection reset")}
	svc := New(records, &mockProviders{found: true}, views, noProxy())

	if _, err := svc.Get(context.Background(), "abc-123"); err == nil {
		t.Fatal("expected error")
	}
}
