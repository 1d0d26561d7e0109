package detail

import (
	"context"
	"fmt"

	"github.com/halcyon-media/imagery/internal/domain"
	"github.com/halcyon-media/imagery/internal/domain/imageproxy"
)

// Service hydrates single-image detail views.
type Service struct {
	records   RecordStore
	providers ProviderStore
	views     ViewTracker
	policy    imageproxy.Policy
}

// New creates a detail service.
func New(records RecordStore, providers ProviderStore, views ViewTracker, policy imageproxy.Policy) *Service {
	return &Service{records: records, providers: providers, views: views, policy: policy}
}

// Get loads one record and enriches it with provider display fields, the
// updated view count, repaired URLs, and full-resolution proxying.
func (s *Service) Get(ctx context.Context, identifier string) (domain.ImageDetail, error) {
	rec, err := s.records.Get(ctx, identifier)
	if err != nil {
		return domain.ImageDetail{}, fmt.Errorf("get record: %w", err)
	}

	det := domain.ImageDetail{ImageRecord: rec}

	prov, found, err := s.providers.Get(ctx, rec.Provider)
	if err != nil {
		return domain.ImageDetail{}, fmt.Errorf("get provider %s: %w", rec.Provider, err)
	}
	if found {
		det.ProviderName = prov.DisplayName
		det.ProviderURL = prov.DomainURL
	} else {
		// Unregistered providers render under their raw identifier.
		det.ProviderName = rec.Provider
		det.ProviderURL = "Unknown"
	}

	count, err := s.views.RecordView(ctx, identifier)
	if err != nil {
		return domain.ImageDetail{}, fmt.Errorf("record view: %w", err)
	}
	det.ViewCount = count

	det.CreatorURL = domain.EnsureScheme(det.CreatorURL)
	det.ForeignLandingURL = domain.EnsureScheme(det.ForeignLandingURL)
	det.URL, _ = s.policy.FullResolution(det.URL)

	return det, nil
}
