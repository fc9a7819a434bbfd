// Package polyline converts between the precision-5 encoded polyline format and coordinate paths.
//
// Decoding is delegated to the Google Maps client library after validation. Decode never fails:
// empty or malformed input yields an empty path, which callers treat as "no geometry".
package polyline

import (
	"math"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"googlemaps.github.io/maps"
)

const (
	scale        = 1e5
	minChar      = 63
	maxChar      = 126
	chunkMask    = 0x1f
	continuation = 0x20
	// maxChunks bounds a single value to 35 bits, enough for any coordinate at 1e5 scale.
	maxChunks = 7
)

// Decode parses an encoded polyline into coordinates in (latitude, longitude) order.
// It returns an empty, non-nil slice when the input is empty or malformed.
func Decode(encoded string) []models.Coordinates {
	if !Valid(encoded) {
		return []models.Coordinates{}
	}

	path, err := maps.DecodePolyline(encoded)
	if err != nil {
		return []models.Coordinates{}
	}

	coords := make([]models.Coordinates, 0, len(path))
	for _, p := range path {
		coords = append(coords, models.FromLatLng(p))
	}

	return coords
}

// Encode packs coordinates into an encoded polyline string. Each value is rounded to 1e-5 degrees
// and delta-encoded against the previous point.
func Encode(coords []models.Coordinates) string {
	if len(coords) == 0 {
		return ""
	}

	var out strings.Builder
	var prevLat, prevLng int64
	for _, c := range coords {
		lat := int64(math.Round(c.Latitude * scale))
		lng := int64(math.Round(c.Longitude * scale))

		writeValue(&out, lat-prevLat)
		writeValue(&out, lng-prevLng)

		prevLat, prevLng = lat, lng
	}

	return out.String()
}

func writeValue(out *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}

	for u >= continuation {
		out.WriteByte(byte((u&chunkMask)|continuation) + minChar)
		u >>= 5
	}
	out.WriteByte(byte(u) + minChar)
}

// Valid reports whether encoded is a complete, well-formed polyline: every character is in the
// printable range, every value terminates, and values come in latitude/longitude pairs.
func Valid(encoded string) bool {
	if encoded == "" {
		return false
	}

	values, chunks := 0, 0
	for i := range len(encoded) {
		c := encoded[i]
		if c < minChar || c > maxChar {
			return false
		}

		chunks++
		if chunks > maxChunks {
			return false
		}

		if (c-minChar)&continuation == 0 {
			values++
			chunks = 0
		}
	}

	return chunks == 0 && values%2 == 0
}
