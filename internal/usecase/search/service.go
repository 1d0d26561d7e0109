package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/halcyon-media/imagery/internal/domain"
	"github.com/halcyon-media/imagery/internal/domain/imageproxy"
	"github.com/halcyon-media/imagery/internal/domain/page"
	"github.com/halcyon-media/imagery/internal/metrics"
)

// Service assembles ranked index hits into navigable result pages.
type Service struct {
	index      Index
	deadLinks  DeadLinkFilter
	policy     imageproxy.Policy
	hitCeiling int
}

// New creates a search service. hitCeiling is the deepest ranked hit the
// service exposes through pagination.
func New(index Index, deadLinks DeadLinkFilter, policy imageproxy.Policy, hitCeiling int) *Service {
	return &Service{index: index, deadLinks: deadLinks, policy: policy, hitCeiling: hitCeiling}
}

// Search runs the ranked query and normalizes every surviving hit: detail
// link, URL scheme repair, and proxy rewrite. Results keep the index's
// relevance ordering.
func (s *Service) Search(
	ctx context.Context, q domain.SearchQuery, link LinkBuilder,
) (domain.ResultPage, error) {
	offset := page.Offset(q.Page, q.PageSize)

	hits, total, err := s.index.Search(ctx, q.Text, q.Licenses, offset, q.PageSize)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return domain.ResultPage{}, fmt.Errorf("search index: %w", err)
	}

	// Detail links attach before dead-link filtering so every candidate
	// carries one, whichever subset survives.
	for i := range hits {
		hits[i].Detail = link(hits[i].Identifier)
	}

	if q.FilterDead && len(hits) > 0 {
		urls := make([]string, len(hits))
		for i := range hits {
			urls[i] = hits[i].URL
		}
		hits = s.deadLinks.FilterDead(ctx, hits, urls)
	}

	for i := range hits {
		hits[i].URL = domain.EnsureScheme(hits[i].URL)
		hits[i].ForeignLandingURL = domain.EnsureScheme(hits[i].ForeignLandingURL)
		hits[i].CreatorURL = domain.EnsureScheme(hits[i].CreatorURL)

		d := s.policy.Decide(hits[i].Provider, hits[i].Thumbnail, hits[i].URL)
		if d.Proxied {
			hits[i].Thumbnail = d.ProxiedURL
		}
		if s.policy.Enabled() {
			metrics.ProxyDecisionsTotal.WithLabelValues(
				string(d.Target), strconv.FormatBool(d.Proxied),
			).Inc()
		}
	}

	pageCount := page.Count(total, q.PageSize, s.hitCeiling)
	resultCount := page.ResultCount(total, len(hits), q.PageSize, pageCount)

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()

	return domain.ResultPage{
		ResultCount: resultCount,
		PageCount:   pageCount,
		Results:     hits,
	}, nil
}
