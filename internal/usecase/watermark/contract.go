package watermark

import (
	"context"

	"github.com/halcyon-media/imagery/internal/domain"
	"github.com/halcyon-media/imagery/internal/metadata"
)

// RecordStore loads full image records.
type RecordStore interface {
	Get(ctx context.Context, identifier string) (domain.ImageRecord, error)
}

// Fetcher retrieves source image bytes over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer composites the attribution frame and re-encodes as JPEG.
type Renderer interface {
	Render(src []byte, caption string) ([]byte, error)
}

// Embedder re-attaches EXIF and adds the XMP rights packet.
type Embedder interface {
	Embed(ctx context.Context, encoded, exifPayload []byte, p metadata.Provenance) ([]byte, error)
}
