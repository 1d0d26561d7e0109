package provider

import (
	"context"
	"fmt"

	"github.com/halcyon-media/imagery/internal/domain"
)

const keyPrefix = "provider:"

// store is the consumer interface for provider metadata (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo resolves provider display metadata.
type Repo struct {
	store store
}

// New creates a provider repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the provider entry for an identifier. A missing entry is not
// an error; callers fall back to the raw identifier.
func (r *Repo) Get(ctx context.Context, identifier string) (domain.Provider, bool, error) {
	key := keyPrefix + identifier

	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Provider{}, false, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Provider{}, false, nil
	}

	return domain.Provider{
		Identifier:  identifier,
		DisplayName: fields["display_name"],
		DomainURL:   fields["domain_url"],
	}, true, nil
}
