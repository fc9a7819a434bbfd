// Package aggregate derives fleet totals, savings against a baseline, and cost figures.
package aggregate

import (
	"math"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Default per-kilometre rates in currency units.
const (
	DefaultFuelRatePerKm  = 10
	DefaultTotalRatePerKm = 13
)

const metersPerKm = 1000

// Rates converts distance into money.
type Rates struct {
	FuelPerKm  float64 // Fuel cost per kilometre.
	TotalPerKm float64 // Fully loaded operating cost per kilometre.
}

// DefaultRates returns the documented default rates.
func DefaultRates() Rates {
	return Rates{FuelPerKm: DefaultFuelRatePerKm, TotalPerKm: DefaultTotalRatePerKm}
}

// Metrics is the aggregated view of one result set. Pointer fields are nil when they depend on a
// baseline that is absent, so "unavailable" is never confused with zero.
type Metrics struct {
	TotalDistanceMeters  float64 `json:"totalDistanceMeters"`
	TotalDurationSeconds float64 `json:"totalDurationSeconds"`
	FuelCost             float64 `json:"fuelCost"`
	TotalCost            float64 `json:"totalCost"`

	BaselineDistanceMeters  *float64 `json:"baselineDistanceMeters"`
	BaselineDurationSeconds *float64 `json:"baselineDurationSeconds"`
	BaselineFuelCost        *float64 `json:"baselineFuelCost"`
	BaselineTotalCost       *float64 `json:"baselineTotalCost"`

	DistanceSavingsPercent *int `json:"distanceSavingsPercent"`
	DurationSavingsPercent *int `json:"durationSavingsPercent"`
}

// Aggregate sums the vehicle summaries and compares them with the baseline when one is given.
// Vehicles without a summary contribute zero.
func Aggregate(vehicles []models.VehicleRoute, baseline *models.Baseline, rates Rates) Metrics {
	var m Metrics
	for _, v := range vehicles {
		m.TotalDistanceMeters += v.DistanceMeters()
		m.TotalDurationSeconds += v.DurationSeconds()
	}

	m.FuelCost = cost(m.TotalDistanceMeters, rates.FuelPerKm)
	m.TotalCost = cost(m.TotalDistanceMeters, rates.TotalPerKm)

	if baseline == nil {
		return m
	}

	m.BaselineDistanceMeters = ptr(baseline.DistanceMeters)
	m.BaselineDurationSeconds = ptr(baseline.DurationSeconds)
	m.BaselineFuelCost = ptr(cost(baseline.DistanceMeters, rates.FuelPerKm))
	m.BaselineTotalCost = ptr(cost(baseline.DistanceMeters, rates.TotalPerKm))
	m.DistanceSavingsPercent = SavingsPercent(m.TotalDistanceMeters, baseline.DistanceMeters)
	m.DurationSavingsPercent = SavingsPercent(m.TotalDurationSeconds, baseline.DurationSeconds)

	return m
}

// SavingsPercent returns round(100 * (1 - after/before)) floored at zero, or nil when before is
// not positive. A result worse than the baseline reports 0.
func SavingsPercent(after, before float64) *int {
	if before <= 0 {
		return nil
	}

	pct := int(math.Round(100 * (1 - after/before)))
	if pct < 0 {
		pct = 0
	}

	return &pct
}

// VehicleDistanceKm returns the vehicle's distance in kilometres rounded to two decimals.
func VehicleDistanceKm(v models.VehicleRoute) float64 {
	return round2(v.DistanceMeters() / metersPerKm)
}

func cost(meters, ratePerKm float64) float64 {
	return meters / metersPerKm * ratePerKm
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T { return &v }
