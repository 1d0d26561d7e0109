package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/halcyon-media/imagery/internal/domain"
)

// store is the consumer interface for record lookups (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo loads full image records from their hash keys.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a record repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns the stored record for an identifier.
// An empty hash reply means the key does not exist.
func (r *Repo) Get(ctx context.Context, identifier string) (domain.ImageRecord, error) {
	key := r.keyPrefix + identifier

	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.ImageRecord{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.ImageRecord{}, fmt.Errorf("image %s: %w", identifier, domain.ErrNotFound)
	}

	return recordFromFields(identifier, fields), nil
}

func recordFromFields(identifier string, f map[string]string) domain.ImageRecord {
	rec := domain.ImageRecord{
		Identifier:        identifier,
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
		Attribution:       f["attribution"],
	}
	if tags := f["tags"]; tags != "" {
		rec.Tags = strings.Split(tags, ",")
	}
	if rec.LicenseURL == "" && rec.License != "" {
		rec.LicenseURL = domain.LicenseURL(rec.License, rec.LicenseVersion)
	}
	return rec
}
