// Package geometry computes viewports over stops and decoded route geometry.
package geometry

import (
	"math"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/paulmach/orb"
)

const (
	// MinPadding is the absolute padding in degrees applied to an axis whose span is zero.
	MinPadding = 0.01
	// Tolerance is the per-axis distance in degrees under which two points are the same place.
	Tolerance = 1e-5
)

// ComputeBounds returns the minimal rectangle containing every point, expanded on each side by
// paddingFraction of its span. An axis with zero span is padded by MinPadding instead.
// The second return value is false when points is empty.
func ComputeBounds(points []models.Coordinates, paddingFraction float64) (models.Bounds, bool) {
	if len(points) == 0 {
		return models.Bounds{}, false
	}

	if paddingFraction < 0 {
		paddingFraction = 0
	}

	padded := padBound(envelope(points), paddingFraction)
	padded.Min[1] = math.Max(padded.Min[1], -90)
	padded.Max[1] = math.Min(padded.Max[1], 90)

	return toBounds(padded), true
}

// Envelope returns the unpadded minimal rectangle over points.
func Envelope(points []models.Coordinates) (models.Bounds, bool) {
	if len(points) == 0 {
		return models.Bounds{}, false
	}

	return toBounds(envelope(points)), true
}

// envelope works in orb's (lon, lat) order; nothing outside this file sees it.
func envelope(points []models.Coordinates) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.Longitude, p.Latitude})
	}

	return mp.Bound()
}

// padBound pads each axis independently. Bound.Pad is uniform, so the narrower padding goes
// through Pad and the wider axis is stretched with Extend.
func padBound(b orb.Bound, fraction float64) orb.Bound {
	lonPad := pad(b.Right()-b.Left(), fraction)
	latPad := pad(b.Top()-b.Bottom(), fraction)

	return b.Pad(math.Min(lonPad, latPad)).
		Extend(orb.Point{b.Left() - lonPad, b.Bottom() - latPad}).
		Extend(orb.Point{b.Right() + lonPad, b.Top() + latPad})
}

func pad(span, fraction float64) float64 {
	if span == 0 {
		return MinPadding
	}
	return span * fraction
}

func toBounds(b orb.Bound) models.Bounds {
	return models.Bounds{
		South: b.Bottom(),
		West:  b.Left(),
		North: b.Top(),
		East:  b.Right(),
	}
}

// SameCoordinate reports whether a and b are within Tolerance of each other on both axes.
func SameCoordinate(a, b models.Coordinates) bool {
	return math.Abs(a.Latitude-b.Latitude) < Tolerance && math.Abs(a.Longitude-b.Longitude) < Tolerance
}
