package metadata

import (
	"bytes"
	"encoding/binary"

	"github.com/bep/imagemeta"
)

var exifHeader = []byte("Exif\x00\x00")

// TIFF tags used by the synthesized block.
const (
	tagImageDescription = 0x010E
	tagArtist           = 0x013B
	tagCopyright        = 0x8298
)

// PreservedEXIF extracts the EXIF APP1 payload from the source bytes so it
// can be re-attached after re-encoding strips it. The payload is returned
// verbatim, signature header included, but only when the source's EXIF
// still parses; corrupt blocks read as absent.
func PreservedEXIF(src []byte) []byte {
	payload := findAPP1(src, exifHeader)
	if payload == nil {
		return nil
	}

	_, err := imagemeta.Decode(imagemeta.Options{
		R:               bytes.NewReader(src),
		ImageFormat:     imagemeta.JPEG,
		Sources:         imagemeta.EXIF,
		ShouldHandleTag: func(imagemeta.TagInfo) bool { return false },
		HandleTag:       func(imagemeta.TagInfo) error { return nil },
	})
	if err != nil {
		return nil
	}

	return payload
}

// SynthesizeEXIF builds a minimal little-endian TIFF block carrying the
// attribution in the ImageDescription, Artist, and Copyright tags. Empty
// fields are skipped; all empty yields nil.
func SynthesizeEXIF(description, artist, copyright string) []byte {
	type entry struct {
		tag   uint16
		value []byte
	}

	var entries []entry
	add := func(tag uint16, s string) {
		if s == "" {
			return
		}
		entries = append(entries, entry{tag: tag, value: append([]byte(s), 0)})
	}
	// IFD entries must stay sorted by tag.
	add(tagImageDescription, description)
	add(tagArtist, artist)
	add(tagCopyright, copyright)

	if len(entries) == 0 {
		return nil
	}

	le := binary.LittleEndian
	n := len(entries)
	// Offsets are relative to the TIFF header; out-of-line values start
	// right after the IFD terminator.
	dataOffset := uint32(8 + 2 + 12*n + 4)

	b := make([]byte, 0, int(dataOffset)+len(exifHeader)+64)
	b = append(b, exifHeader...)
	b = append(b, 'I', 'I')
	b = le.AppendUint16(b, 42)
	b = le.AppendUint32(b, 8)

	b = le.AppendUint16(b, uint16(n))
	var data []byte
	for _, e := range entries {
		b = le.AppendUint16(b, e.tag)
		b = le.AppendUint16(b, 2) // ASCII
		b = le.AppendUint32(b, uint32(len(e.value)))
		if len(e.value) <= 4 {
			var inline [4]byte
			copy(inline[:], e.value)
			b = append(b, inline[:]...)
		} else {
			b = le.AppendUint32(b, dataOffset+uint32(len(data)))
			data = append(data, e.value...)
		}
	}
	b = le.AppendUint32(b, 0) // no next IFD

	return append(b, data...)
}
