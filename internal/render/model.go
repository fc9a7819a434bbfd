// Package render builds the immutable map model that the display surface paints.
package render

import (
	"github.com/UnknownOlympus/waypoint/internal/aggregate"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Status summarises how complete a Model is.
type Status string

const (
	StatusEmpty   Status = "empty"   // No vehicles: "no routes yet".
	StatusPartial Status = "partial" // Some vehicle lacks geometry or a summary.
	StatusOK      Status = "ok"
)

// DepotTooltip labels the depot marker.
const DepotTooltip = "Depot"

// Marker is a point feature on the map.
type Marker struct {
	Position models.Coordinates `json:"position"`
	Stop     models.Stop        `json:"stop"`
	Index    int                `json:"index"` // 1-based position in the vehicle's stop list.
	Tooltip  string             `json:"tooltip"`
	Opacity  float64            `json:"opacity"`
	ZIndex   int                `json:"zIndex"`
}

// VehicleFeature is everything drawn for one vehicle.
type VehicleFeature struct {
	ID          int                  `json:"id"`
	Color       string               `json:"color"`
	Coordinates []models.Coordinates `json:"coordinates"`
	Stops       []Marker             `json:"stops"`
	Emphasized  bool                 `json:"emphasized"`
	Weight      float64              `json:"weight"`
	Opacity     float64              `json:"opacity"`
}

// LegendEntry describes one vehicle in the legend.
type LegendEntry struct {
	ID         int     `json:"id"`
	Label      string  `json:"label"`
	StopCount  int     `json:"stopCount"`
	DistanceKm float64 `json:"distanceKm"`
	Color      string  `json:"color"`
}

// Model is a derived snapshot of the results view. It is rebuilt, never mutated.
type Model struct {
	Depot           *Marker             `json:"depot"`
	DepotCoordinate *models.Coordinates `json:"depotCoordinate"`
	VehicleFeatures []VehicleFeature    `json:"vehicleFeatures"`
	Legend          []LegendEntry       `json:"legend"`
	Viewport        *models.Bounds      `json:"viewport"`
	Center          *models.Coordinates `json:"center"`
	Status          Status              `json:"status"`
	Metrics         aggregate.Metrics   `json:"metrics"`

	// DecodeFailures lists vehicles whose encoded geometry was present but did not decode.
	DecodeFailures []int `json:"-"`
}
