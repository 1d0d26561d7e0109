package metadata

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/halcyon-media/imagery/internal/domain"
)

func TestEmbed_BothChannels(t *testing.T) {
	e := NewEmbedder(nil)
	encoded := encodedJPEG(t)
	exifPayload := SynthesizeEXIF("description", "jane", "copyright")

	out, err := e.Embed(context.Background(), encoded, exifPayload, testProvenance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if findAPP1(out, exifHeader) == nil {
		t.Error("EXIF segment missing")
	}
	xmpSeg := findAPP1(out, []byte(xmpHeader))
	if xmpSeg == nil {
		t.Fatal("XMP segment missing")
	}
	if !bytes.Contains(xmpSeg, []byte("cc:attributionName")) {
		t.Error("XMP segment carries no rights block")
	}

	iEXIF := bytes.Index(out, exifHeader)
	iXMP := bytes.Index(out, []byte(xmpHeader))
	if iEXIF < 0 || iXMP < 0 || iEXIF > iXMP {
		t.Errorf("EXIF must precede XMP: %d vs %d", iEXIF, iXMP)
	}

	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("annotated stream no longer decodes: %v", err)
	}
}

func TestEmbed_NoEXIFPayload(t *testing.T) {
	e := NewEmbedder(nil)
	encoded := encodedJPEG(t)

	out, err := e.Embed(context.Background(), encoded, nil, testProvenance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findAPP1(out, exifHeader) != nil {
		t.Error("no EXIF payload was given, none must appear")
	}
	if findAPP1(out, []byte(xmpHeader)) == nil {
		t.Error("XMP segment missing")
	}
}

func TestEmbed_XMPFailureFallsBack(t *testing.T) {
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_embed_failures_total"},
		[]string{"channel"},
	)
	e := NewEmbedder(failures)
	e.xmp = func(Provenance) ([]byte, error) {
		return nil, errors.New("serializer broke")
	}

	encoded := encodedJPEG(t)
	exifPayload := SynthesizeEXIF("description", "jane", "copyright")

	out, err := e.Embed(context.Background(), encoded, exifPayload, testProvenance())
	if err != nil {
		t.Fatalf("the request must survive an XMP failure, got %v", err)
	}
	if findAPP1(out, exifHeader) == nil {
		t.Error("EXIF-only fallback must still carry the EXIF segment")
	}
	if findAPP1(out, []byte(xmpHeader)) != nil {
		t.Error("failed XMP attempt must be discarded")
	}

	if got := testutil.ToFloat64(failures.WithLabelValues("xmp")); got != 1 {
		t.Errorf("expected 1 xmp failure, got %v", got)
	}
}

func TestEmbed_OversizeXMPFallsBack(t *testing.T) {
	e := NewEmbedder(nil)
	e.xmp = func(Provenance) ([]byte, error) {
		return make([]byte, maxSegmentPayload+1), nil
	}

	encoded := encodedJPEG(t)
	out, err := e.Embed(context.Background(), encoded, nil, testProvenance())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findAPP1(out, []byte(xmpHeader)) != nil {
		t.Error("oversize packet must be discarded")
	}
	if !bytes.Equal(out, encoded) {
		t.Error("fallback must return the channel-A bytes unchanged")
	}
}

func TestEmbed_BadStreamIsFatal(t *testing.T) {
	e := NewEmbedder(nil)

	_, err := e.Embed(context.Background(), []byte("not a jpeg"),
		SynthesizeEXIF("d", "a", "c"), testProvenance())
	if !errors.Is(err, domain.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}
