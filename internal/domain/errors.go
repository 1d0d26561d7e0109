package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound signals an identifier absent from storage.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals malformed query parameters.
	ErrValidation = errors.New("validation failed")
	// ErrDeepPagination signals a page beyond what the ranked index serves.
	ErrDeepPagination = errors.New("deep pagination is not allowed")
	// ErrSourceFetch signals an unreachable or undecodable watermark source image.
	ErrSourceFetch = errors.New("source image fetch failed")
	// ErrEncoding signals a fatal failure encoding the derivative image.
	ErrEncoding = errors.New("image encoding failed")
	// ErrRightsMetadata signals a rights-expression embedding failure.
	// Recovered locally by the watermark pipeline, never surfaced to callers.
	ErrRightsMetadata = errors.New("rights metadata embedding failed")
)

// ValidationError wraps ErrValidation with per-field details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	b.WriteString(": ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Fields[k])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a field-level validation error.
func NewValidation(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
