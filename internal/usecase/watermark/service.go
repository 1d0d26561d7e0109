package watermark

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyon-media/imagery/internal/imaging"
	"github.com/halcyon-media/imagery/internal/metadata"
	"github.com/halcyon-media/imagery/internal/metrics"
)

// Service produces attribution-framed derivatives of stored images.
//
// The render path (source fetch, decode, composite, encode) runs inside a
// bounded semaphore so slow sources cannot stall unrelated requests. The
// record lookup stays outside it: a missing image answers without taking a
// render slot.
type Service struct {
	records RecordStore
	fetch   Fetcher
	render  Renderer
	embed   Embedder
	sem     chan struct{}
}

// New creates a watermark service running at most maxConcurrent renders.
func New(records RecordStore, fetch Fetcher, render Renderer, embed Embedder, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Service{
		records: records,
		fetch:   fetch,
		render:  render,
		embed:   embed,
		sem:     make(chan struct{}, maxConcurrent),
	}
}

// Watermark renders one image with its attribution frame and embedded
// rights metadata. The returned bytes are a complete JPEG stream.
func (s *Service) Watermark(ctx context.Context, identifier string) ([]byte, error) {
	rec, err := s.records.Get(ctx, identifier)
	if err != nil {
		metrics.WatermarkRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get record: %w", err)
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		metrics.WatermarkRequestsTotal.WithLabelValues("canceled").Inc()
		return nil, ctx.Err()
	}
	defer func() { <-s.sem }()

	start := time.Now()

	src, err := s.fetch.Fetch(ctx, rec.URL)
	if err != nil {
		metrics.WatermarkRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	caption := imaging.AttributionText(rec.Title, rec.Creator, rec.License, rec.LicenseVersion)

	framed, err := s.render.Render(src, caption)
	if err != nil {
		metrics.WatermarkRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("render: %w", err)
	}

	attribution := rec.Attribution
	if attribution == "" {
		attribution = caption
	}

	// Re-encoding strips the source's EXIF; carry it over verbatim, or
	// synthesize a minimal block when the source had none.
	exifPayload := metadata.PreservedEXIF(src)
	if exifPayload == nil {
		exifPayload = metadata.SynthesizeEXIF(attribution, rec.Creator, rec.LicenseURL)
	}

	out, err := s.embed.Embed(ctx, framed, exifPayload, metadata.Provenance{
		Creator:         rec.Creator,
		LicenseURL:      rec.LicenseURL,
		Attribution:     attribution,
		WorkLandingPage: rec.ForeignLandingURL,
		Identifier:      rec.Identifier,
	})
	if err != nil {
		metrics.WatermarkRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed metadata: %w", err)
	}

	metrics.WatermarkRenderDuration.Observe(time.Since(start).Seconds())
	metrics.WatermarkRequestsTotal.WithLabelValues("success").Inc()

	return out, nil
}
