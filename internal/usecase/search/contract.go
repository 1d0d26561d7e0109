package search

import (
	"context"

	"github.com/halcyon-media/imagery/internal/domain"
)

// Index defines the ranked-index contract for search operations.
type Index interface {
	Search(
		ctx context.Context, text string, licenses []string,
		offset, limit int,
	) ([]domain.Hit, int, error)
}

// DeadLinkFilter drops hits whose image URLs no longer resolve.
// Survivors keep their relative order.
type DeadLinkFilter interface {
	FilterDead(ctx context.Context, hits []domain.Hit, urls []string) []domain.Hit
}

// LinkBuilder renders an absolute detail URL for an identifier. Each request
// supplies its own builder bound to the inbound host and scheme.
type LinkBuilder func(identifier string) string
