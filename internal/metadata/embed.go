package metadata

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/halcyon-media/imagery/internal/domain"
	"github.com/halcyon-media/imagery/internal/logger"
)

// Embedder splices rights metadata into freshly encoded JPEG bytes over two
// independently failing channels. The EXIF channel is load-bearing: its
// failure fails the request. The XMP channel is best-effort: on failure the
// EXIF-only bytes ship and the failure is logged with the record identifier.
type Embedder struct {
	failures *prometheus.CounterVec
	xmp      func(Provenance) ([]byte, error)
}

// NewEmbedder creates an embedder.
// failures is a counter vec with label "channel" ("exif"/"xmp"), passed
// explicitly.
func NewEmbedder(failures *prometheus.CounterVec) *Embedder {
	return &Embedder{failures: failures, xmp: XMPPacket}
}

// Embed re-attaches the preserved EXIF payload and adds an XMP rights packet
// after it. A nil exifPayload skips the EXIF segment.
func (e *Embedder) Embed(ctx context.Context, encoded, exifPayload []byte, p Provenance) ([]byte, error) {
	var segments [][]byte
	if len(exifPayload) > 0 {
		segments = append(segments, exifPayload)
	}

	withEXIF, err := spliceAPP1(encoded, segments...)
	if err != nil {
		e.incFailure("exif")
		return nil, fmt.Errorf("embed exif: %w: %w", domain.ErrEncoding, err)
	}

	xmpPayload, err := e.buildXMP(p)
	if err != nil {
		e.recoverXMP(ctx, p.Identifier, err)
		return withEXIF, nil
	}

	annotated, err := spliceAPP1(encoded, append(segments, xmpPayload)...)
	if err != nil {
		e.recoverXMP(ctx, p.Identifier, err)
		return withEXIF, nil
	}
	return annotated, nil
}

func (e *Embedder) buildXMP(p Provenance) ([]byte, error) {
	packet, err := e.xmp(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRightsMetadata, err)
	}

	payload := append([]byte(xmpHeader), packet...)
	if len(payload) > maxSegmentPayload {
		return nil, fmt.Errorf("%w: packet %d bytes exceeds segment capacity",
			domain.ErrRightsMetadata, len(payload))
	}
	return payload, nil
}

func (e *Embedder) recoverXMP(ctx context.Context, identifier string, err error) {
	logger.FromContext(ctx).Error("Failed to embed rights metadata",
		zap.String("identifier", identifier), zap.Error(err))
	e.incFailure("xmp")
}

func (e *Embedder) incFailure(channel string) {
	if e.failures != nil {
		e.failures.WithLabelValues(channel).Inc()
	}
}
