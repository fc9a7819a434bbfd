package models

import (
	"strconv"
	"strings"
)

// DepotName is the stop name that marks the shared depot, compared case-insensitively.
const DepotName = "depot"

// Stop is a geographic point assigned to a vehicle. Name and Demand are optional.
type Stop struct {
	Coordinates

	Name   *string  `json:"name,omitempty"`
	Demand *float64 `json:"demand,omitempty"`
}

// IsDepot reports whether the stop is named "depot" (ignoring case and surrounding spaces).
func (s Stop) IsDepot() bool {
	return s.Name != nil && strings.EqualFold(strings.TrimSpace(*s.Name), DepotName)
}

// Label returns the stop name, or "Stop <position>" for unnamed stops. Position is 1-based.
func (s Stop) Label(position int) string {
	if s.Name != nil && strings.TrimSpace(*s.Name) != "" {
		return *s.Name
	}
	return "Stop " + strconv.Itoa(position)
}

// RouteSummary holds the totals reported by the optimizer for one vehicle route.
type RouteSummary struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// VehicleRoute is the normalized per-vehicle result. ID is unique within one result set.
type VehicleRoute struct {
	ID              int           `json:"id"`
	Stops           []Stop        `json:"stops"`
	EncodedGeometry *string       `json:"encodedGeometry,omitempty"`
	Summary         *RouteSummary `json:"summary,omitempty"`
}

// DistanceMeters returns the summary distance, or 0 when the vehicle has no summary.
func (v VehicleRoute) DistanceMeters() float64 {
	if v.Summary == nil {
		return 0
	}
	return v.Summary.DistanceMeters
}

// DurationSeconds returns the summary duration, or 0 when the vehicle has no summary.
func (v VehicleRoute) DurationSeconds() float64 {
	if v.Summary == nil {
		return 0
	}
	return v.Summary.DurationSeconds
}

// Geometry returns the encoded polyline, or an empty string when absent.
func (v VehicleRoute) Geometry() string {
	if v.EncodedGeometry == nil {
		return ""
	}
	return *v.EncodedGeometry
}

// Baseline is a fleet-wide pre-optimization reference total.
type Baseline struct {
	DistanceMeters  float64 `json:"distance"`
	DurationSeconds float64 `json:"duration"`
}
