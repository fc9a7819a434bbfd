package polyline_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/polyline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference path from the published polyline algorithm description.
const referencePolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("reference polyline", func(t *testing.T) {
		t.Parallel()

		coords := polyline.Decode(referencePolyline)

		require.Len(t, coords, 3)
		assert.InDelta(t, 38.5, coords[0].Latitude, 1e-6)
		assert.InDelta(t, -120.2, coords[0].Longitude, 1e-6)
		assert.InDelta(t, 40.7, coords[1].Latitude, 1e-6)
		assert.InDelta(t, -120.95, coords[1].Longitude, 1e-6)
		assert.InDelta(t, 43.252, coords[2].Latitude, 1e-6)
		assert.InDelta(t, -126.453, coords[2].Longitude, 1e-6)
	})

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()

		coords := polyline.Decode("")

		require.NotNil(t, coords)
		assert.Empty(t, coords)
	})

	t.Run("characters outside the alphabet", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, polyline.Decode("abc def"))
		assert.Empty(t, polyline.Decode("_p~iF\n~ps|U"))
	})

	t.Run("truncated value", func(t *testing.T) {
		t.Parallel()

		// Drop the final character so the last value never terminates.
		assert.Empty(t, polyline.Decode(referencePolyline[:len(referencePolyline)-1]))
	})

	t.Run("odd number of values", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, polyline.Decode("_p~iF"))
	})

	t.Run("oversized value", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, polyline.Decode("~~~~~~~~~?"))
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("reference path", func(t *testing.T) {
		t.Parallel()

		coords := []models.Coordinates{
			{Latitude: 38.5, Longitude: -120.2},
			{Latitude: 40.7, Longitude: -120.95},
			{Latitude: 43.252, Longitude: -126.453},
		}

		assert.Equal(t, referencePolyline, polyline.Encode(coords))
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, polyline.Encode(nil))
	})
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	paths := map[string][]models.Coordinates{
		"single point": {{Latitude: 17.385, Longitude: 78.4867}},
		"hyderabad loop": {
			{Latitude: 17.38504, Longitude: 78.48667},
			{Latitude: 17.44119, Longitude: 78.39839},
			{Latitude: 17.36163, Longitude: 78.47466},
			{Latitude: 17.38504, Longitude: 78.48667},
		},
		"hemispheres": {
			{Latitude: -33.86882, Longitude: 151.20929},
			{Latitude: 51.50735, Longitude: -0.12776},
			{Latitude: 0, Longitude: 0},
			{Latitude: 89.99999, Longitude: -179.99999},
		},
		"sub-precision noise": {
			{Latitude: 10.0000001, Longitude: 20.0000049},
			{Latitude: 10.1234567, Longitude: 20.7654321},
		},
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			decoded := polyline.Decode(polyline.Encode(path))

			require.Len(t, decoded, len(path))
			for i := range path {
				assert.LessOrEqual(t, math.Abs(decoded[i].Latitude-path[i].Latitude), 1e-5, "lat at %d", i)
				assert.LessOrEqual(t, math.Abs(decoded[i].Longitude-path[i].Longitude), 1e-5, "lon at %d", i)
			}
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, polyline.Valid(referencePolyline))
	assert.True(t, polyline.Valid("??"))
	assert.False(t, polyline.Valid(""))
	assert.False(t, polyline.Valid("?"))
	assert.False(t, polyline.Valid("_"))
}
