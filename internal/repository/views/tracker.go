package views

import (
	"context"
	"fmt"
)

const keyPrefix = "views:"

// store is the consumer interface for the view counter (ISP).
type store interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// Tracker counts detail views per image.
type Tracker struct {
	store store
}

// New creates a view tracker.
func New(s store) *Tracker {
	return &Tracker{store: s}
}

// RecordView increments the counter for an identifier and returns the new total.
func (t *Tracker) RecordView(ctx context.Context, identifier string) (int64, error) {
	n, err := t.store.Incr(ctx, keyPrefix+identifier)
	if err != nil {
		return 0, fmt.Errorf("incr views %s: %w", identifier, err)
	}
	return n, nil
}
