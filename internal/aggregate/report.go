package aggregate

import (
	"fmt"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Unavailable is displayed for figures that need a baseline when none is present.
const Unavailable = "unavailable"

const secondsPerHour = 3600

// Figure is one before/after row of the results dashboard.
type Figure struct {
	Label          string   `json:"label"`
	Before         *float64 `json:"before"`
	After          float64  `json:"after"`
	Saved          *float64 `json:"saved"`
	SavingsPercent *int     `json:"savingsPercent"`

	BeforeText  string `json:"beforeText"`
	AfterText   string `json:"afterText"`
	SavedText   string `json:"savedText"`
	SavingsText string `json:"savingsText"`
}

// Report builds the distance, time, fuel and cost rows from aggregated metrics.
func Report(m Metrics, currency string) []Figure {
	km := func(v float64) string { return fmt.Sprintf("%.2f km", v) }
	hrs := func(v float64) string { return fmt.Sprintf("%.2f hrs", v) }
	money := func(v float64) string { return fmt.Sprintf("%s%.0f", currency, v) }

	return []Figure{
		figure("Total Distance", scale(m.BaselineDistanceMeters, metersPerKm),
			m.TotalDistanceMeters/metersPerKm, m.DistanceSavingsPercent, km),
		figure("Travel Time", scale(m.BaselineDurationSeconds, secondsPerHour),
			m.TotalDurationSeconds/secondsPerHour, m.DurationSavingsPercent, hrs),
		figure("Fuel Cost", m.BaselineFuelCost, m.FuelCost, costSavings(m.FuelCost, m.BaselineFuelCost), money),
		figure("Total Cost", m.BaselineTotalCost, m.TotalCost, costSavings(m.TotalCost, m.BaselineTotalCost), money),
	}
}

func figure(label string, before *float64, after float64, pct *int, format func(float64) string) Figure {
	f := Figure{
		Label:          label,
		Before:         before,
		After:          after,
		SavingsPercent: pct,
		BeforeText:     Unavailable,
		AfterText:      format(after),
		SavedText:      Unavailable,
		SavingsText:    Unavailable,
	}

	if before != nil {
		saved := *before - after
		f.Saved = &saved
		f.BeforeText = format(*before)
		f.SavedText = format(saved)
	}
	if pct != nil {
		f.SavingsText = fmt.Sprintf("%d%%", *pct)
	}

	return f
}

func costSavings(after float64, before *float64) *int {
	if before == nil {
		return nil
	}
	return SavingsPercent(after, *before)
}

func scale(v *float64, divisor float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(*v / divisor)
}

// VehicleSummary is the textual description of one vehicle's route.
type VehicleSummary struct {
	ID            int     `json:"id"`
	Label         string  `json:"label"`
	StopCount     int     `json:"stopCount"`
	Route         string  `json:"route"`
	DistanceKm    float64 `json:"distanceKm"`
	DurationHours float64 `json:"durationHours"`
}

// NoStops describes a vehicle that was assigned nothing.
const NoStops = "No stops assigned"

// Summaries describes every vehicle in input order.
func Summaries(vehicles []models.VehicleRoute) []VehicleSummary {
	out := make([]VehicleSummary, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleSummary{
			ID:            v.ID,
			Label:         VehicleLabel(v.ID),
			StopCount:     len(v.Stops),
			Route:         routeText(v.Stops),
			DistanceKm:    VehicleDistanceKm(v),
			DurationHours: round2(v.DurationSeconds() / secondsPerHour),
		})
	}

	return out
}

// VehicleLabel is the display name of a vehicle.
func VehicleLabel(id int) string {
	return fmt.Sprintf("Truck %d", id)
}

func routeText(stops []models.Stop) string {
	switch len(stops) {
	case 0:
		return NoStops
	case 1:
		return stops[0].Label(1)
	}

	parts := []string{stops[0].Label(1)}
	if len(stops) > 2 {
		parts = append(parts, "...")
	}
	parts = append(parts, stops[len(stops)-1].Label(len(stops)))

	return strings.Join(parts, " → ")
}
