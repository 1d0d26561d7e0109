package metadata

import (
	"bytes"
	"fmt"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1

	// Segment length is a two-byte field that counts itself.
	maxSegmentPayload = 65535 - 2
)

// spliceAPP1 inserts one APP1 segment per payload immediately after the SOI
// marker, in the order given. Payloads carry their own signature header.
func spliceAPP1(jpg []byte, payloads ...[]byte) ([]byte, error) {
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != markerSOI {
		return nil, fmt.Errorf("not a JPEG stream")
	}

	total := len(jpg)
	for _, p := range payloads {
		if len(p) > maxSegmentPayload {
			return nil, fmt.Errorf("APP1 payload %d bytes exceeds segment capacity", len(p))
		}
		total += 4 + len(p)
	}

	out := make([]byte, 0, total)
	out = append(out, jpg[:2]...)
	for _, p := range payloads {
		length := len(p) + 2
		out = append(out, 0xFF, markerAPP1, byte(length>>8), byte(length))
		out = append(out, p...)
	}
	return append(out, jpg[2:]...), nil
}

// findAPP1 returns the payload of the first APP1 segment starting with
// prefix, or nil. The scan stops at scan data.
func findAPP1(jpg []byte, prefix []byte) []byte {
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != markerSOI {
		return nil
	}

	i := 2
	for i+4 <= len(jpg) {
		if jpg[i] != 0xFF {
			return nil
		}
		marker := jpg[i+1]
		if marker == markerSOS || marker == markerEOI {
			return nil
		}

		length := int(jpg[i+2])<<8 | int(jpg[i+3])
		if length < 2 || i+2+length > len(jpg) {
			return nil
		}

		payload := jpg[i+4 : i+2+length]
		if marker == markerAPP1 && bytes.HasPrefix(payload, prefix) {
			return payload
		}
		i += 2 + length
	}
	return nil
}
