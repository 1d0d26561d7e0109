package detail

import (
	"context"

	"github.com/halcyon-media/imagery/internal/domain"
)

// RecordStore loads full image records.
type RecordStore interface {
	Get(ctx context.Context, identifier string) (domain.ImageRecord, error)
}

// ProviderStore resolves provider display metadata. A missing entry is
// reported through the bool, not an error.
type ProviderStore interface {
	Get(ctx context.Context, identifier string) (domain.Provider, bool, error)
}

// ViewTracker counts detail views per image.
type ViewTracker interface {
	RecordView(ctx context.Context, identifier string) (int64, error)
}
