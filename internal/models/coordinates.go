package models

import "googlemaps.github.io/maps"

// Coordinates represents a geographical point. Latitude always comes first internally;
// conversion to longitude-first pairs happens only at external boundaries.
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lon"` // Longitude of the geographical point.
}

// FromLatLng converts a Google Maps point back into Coordinates.
func FromLatLng(p maps.LatLng) Coordinates {
	return Coordinates{Latitude: p.Lat, Longitude: p.Lng}
}

// Bounds is an axis-aligned geographic rectangle.
type Bounds struct {
	South float64 `json:"south"` // Minimum latitude.
	West  float64 `json:"west"`  // Minimum longitude.
	North float64 `json:"north"` // Maximum latitude.
	East  float64 `json:"east"`  // Maximum longitude.
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (b Bounds) Contains(c Coordinates) bool {
	return c.Latitude >= b.South && c.Latitude <= b.North &&
		c.Longitude >= b.West && c.Longitude <= b.East
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Coordinates {
	return Coordinates{Latitude: (b.South + b.North) / 2, Longitude: (b.West + b.East) / 2}
}
