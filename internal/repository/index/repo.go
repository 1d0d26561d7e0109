package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyon-media/imagery/internal/db"
	"github.com/halcyon-media/imagery/internal/domain"
)

// store is the consumer interface for ranked search (ISP).
type store interface {
	SearchRanked(ctx context.Context, q *db.RankedQuery) (*db.SearchResult, error)
}

// hitFields are the hash fields hydrated into a search hit. The identifier
// lives in the key, not the hash.
var hitFields = []string{
	"title", "creator", "creator_url", "tags",
	"url", "thumbnail", "provider", "source",
	"license", "license_version", "license_url", "foreign_landing_url",
}

// Config carries index naming and the pagination window bound.
type Config struct {
	IndexName       string
	KeyPrefix       string
	MaxResultWindow int
}

// Repo implements usecase/search.Index over a ranked full-text index.
type Repo struct {
	store store
	cfg   Config
}

// New creates an index repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Search runs a relevance-ranked query and hydrates one Hit per entry.
// Windows past the index's configured maximum are refused up front so the
// caller sees the same refusal the index itself would produce.
func (r *Repo) Search(
	ctx context.Context, text string, licenses []string, offset, limit int,
) ([]domain.Hit, int, error) {
	if offset+limit > r.cfg.MaxResultWindow {
		return nil, 0, fmt.Errorf(
			"window %d exceeds %d: %w", offset+limit, r.cfg.MaxResultWindow, domain.ErrDeepPagination,
		)
	}

	q := &db.RankedQuery{
		IndexName:    r.cfg.IndexName,
		Text:         text,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: hitFields,
	}
	if len(licenses) > 0 {
		q.TagFilters = map[string][]string{"license": licenses}
	}

	sr, err := r.store.SearchRanked(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrWindowExceeded) {
			return nil, 0, fmt.Errorf("search %q: %w", text, domain.ErrDeepPagination)
		}
		return nil, 0, fmt.Errorf("search %q: %w", text, err)
	}

	if sr == nil || sr.Total == 0 {
		return nil, 0, nil
	}

	hits := make([]domain.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, r.hitFromEntry(entry))
	}
	return hits, sr.Total, nil
}

// hitFromEntry maps flat hash fields onto a Hit.
func (r *Repo) hitFromEntry(entry db.SearchEntry) domain.Hit {
	f := entry.Fields
	h := domain.Hit{
		Identifier:        strings.TrimPrefix(entry.Key, r.cfg.KeyPrefix),
		Title:             f["title"],
		Creator:           f["creator"],
		CreatorURL:        f["creator_url"],
		URL:               f["url"],
		Thumbnail:         f["thumbnail"],
		Provider:          f["provider"],
		Source:            f["source"],
		License:           f["license"],
		LicenseVersion:    f["license_version"],
		LicenseURL:        f["license_url"],
		ForeignLandingURL: f["foreign_landing_url"],
		Score:             entry.Score,
	}
	if tags := f["tags"]; tags != "" {
		h.Tags = strings.Split(tags, ",")
	}
	if h.LicenseURL == "" && h.License != "" {
		h.LicenseURL = domain.LicenseURL(h.License, h.LicenseVersion)
	}
	return h
}
