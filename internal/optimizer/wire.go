package optimizer

import (
	"fmt"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// The optimizer's own response shape, used when sending a normalized result set back to the
// insights endpoints.
type (
	wireVehicle struct {
		ID            int          `json:"id"`
		Stops         []wireStop   `json:"stops"`
		Route         wireRouteSet `json:"route"`
		TotalDistance float64      `json:"totalDistance"`
		TotalDuration float64      `json:"totalDuration"`
	}

	wireStop struct {
		Lat    float64  `json:"lat"`
		Lon    float64  `json:"lon"`
		Name   *string  `json:"name,omitempty"`
		Demand *float64 `json:"demand,omitempty"`
	}

	wireRouteSet struct {
		Routes []wireRoute `json:"routes"`
	}

	wireRoute struct {
		Geometry string      `json:"geometry,omitempty"`
		Summary  wireSummary `json:"summary"`
	}

	wireSummary struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	}
)

func toWire(vehicles []models.VehicleRoute) []wireVehicle {
	out := make([]wireVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		stops := make([]wireStop, 0, len(v.Stops))
		for _, s := range v.Stops {
			stops = append(stops, wireStop{Lat: s.Latitude, Lon: s.Longitude, Name: s.Name, Demand: s.Demand})
		}

		summary := wireSummary{Distance: v.DistanceMeters(), Duration: v.DurationSeconds()}
		out = append(out, wireVehicle{
			ID:            v.ID,
			Stops:         stops,
			Route:         wireRouteSet{Routes: []wireRoute{{Geometry: v.Geometry(), Summary: summary}}},
			TotalDistance: summary.Distance,
			TotalDuration: summary.Duration,
		})
	}

	return out
}

type wireBaseline struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// toWireBaseline returns nil for an absent baseline so the remote side applies its own fallback.
func toWireBaseline(b *models.Baseline) *wireBaseline {
	if b == nil {
		return nil
	}
	return &wireBaseline{Distance: b.DistanceMeters, Duration: b.DurationSeconds}
}

type explainRequest struct {
	Vehicles []wireVehicle `json:"vehicles"`
	Baseline *wireBaseline `json:"baseline,omitempty"`
}

type explainResponse struct {
	Insights []models.Insight `json:"insights"`
}

type askRequest struct {
	Question string        `json:"question"`
	Vehicles []wireVehicle `json:"vehicles"`
	Baseline *wireBaseline `json:"baseline,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type baselineResponse struct {
	BeforeDistance *float64 `json:"beforeDistance"`
	BeforeTime     *float64 `json:"beforeTime"`
}

// ValidateInsights checks the structural contract of an insights payload: a non-empty list whose
// entries all name a vehicle and carry an explanation.
func ValidateInsights(insights []models.Insight) error {
	if len(insights) == 0 {
		return ErrInvalidInsights
	}
	for i, in := range insights {
		if in.Vehicle == "" || in.Explanation == "" {
			return fmt.Errorf("%w: entry %d is incomplete", ErrInvalidInsights, i)
		}
	}

	return nil
}
