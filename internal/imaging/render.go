package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/halcyon-media/imagery/internal/domain"
)

const (
	minFontSize = 14
	maxFontSize = 48
)

// Renderer composites an attribution frame below source images.
type Renderer struct {
	font    *sfnt.Font
	quality int
}

// NewRenderer parses the embedded Go Regular face once and fixes the JPEG
// output quality.
func NewRenderer(jpegQuality int) (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 75
	}
	return &Renderer{font: f, quality: jpegQuality}, nil
}

// Render decodes src (JPEG, PNG, GIF, or WebP), appends a white band with the
// caption in black text, and re-encodes the result as JPEG. The encoded
// output carries no metadata segments; callers re-attach those separately.
func (r *Renderer) Render(src []byte, caption string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode source: %w: %w", domain.ErrSourceFetch, err)
	}

	framed, err := r.frame(img, caption)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, framed, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w: %w", domain.ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// frame draws the caption band under the image. Font size scales with image
// width inside fixed bounds so narrow thumbnails stay legible.
func (r *Renderer) frame(img image.Image, caption string) (image.Image, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	size := float64(width) / 40
	if size < minFontSize {
		size = minFontSize
	}
	if size > maxFontSize {
		size = maxFontSize
	}

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size font: %w: %w", domain.ErrEncoding, err)
	}
	defer face.Close()

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	padding := lineHeight / 2

	maxLineWidth := width - 2*padding
	if maxLineWidth < 1 {
		maxLineWidth = width
	}
	lines := wrapText(face, caption, maxLineWidth)

	bandHeight := 2*padding + lineHeight*len(lines)

	out := image.NewRGBA(image.Rect(0, 0, width, height+bandHeight))
	draw.Draw(out, image.Rect(0, 0, width, height), img, bounds.Min, draw.Src)
	draw.Draw(out, image.Rect(0, height, width, height+bandHeight),
		image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	y := height + padding + metrics.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(padding, y)
		d.DrawString(line)
		y += lineHeight
	}

	return out, nil
}

// wrapText greedily packs words into lines no wider than maxWidth. A single
// word wider than the limit gets its own line rather than being split.
func wrapText(face font.Face, s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
