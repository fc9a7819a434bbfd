// Package normalizer maps raw optimizer output into the VehicleRoute model.
//
// Only the overall shape is enforced: the result must hold a sequence of objects that each carry
// an integer "id" and a "stops" sequence. Every field below that is optional and defaulted locally.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// ErrMalformedResultSet is returned when the optimizer output does not have the required shape.
var ErrMalformedResultSet = errors.New("malformed result set")

type resultSet struct {
	Vehicles json.RawMessage `json:"vehicles"`
	Warnings json.RawMessage `json:"warnings"`
}

// routeEnvelope mirrors the optimizer's nested "route" object.
type routeEnvelope struct {
	Routes []json.RawMessage `json:"routes"`
}

type routeEntry struct {
	Geometry json.RawMessage `json:"geometry"`
	Summary  json.RawMessage `json:"summary"`
}

type summaryEntry struct {
	Distance json.RawMessage `json:"distance"`
	Duration json.RawMessage `json:"duration"`
}

// Normalize parses a full optimizer response ({"vehicles": [...], "warnings": [...]}) and returns
// the normalized vehicles in input order.
func Normalize(data []byte) ([]models.VehicleRoute, error) {
	var set resultSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResultSet, err)
	}

	if isNull(set.Vehicles) {
		return nil, fmt.Errorf("%w: missing vehicles", ErrMalformedResultSet)
	}

	return NormalizeVehicles(set.Vehicles)
}

// NormalizeVehicles normalizes a raw JSON array of vehicle entries.
func NormalizeVehicles(raw json.RawMessage) ([]models.VehicleRoute, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%w: vehicles is not a sequence", ErrMalformedResultSet)
	}

	vehicles := make([]models.VehicleRoute, 0, len(entries))
	for idx, entry := range entries {
		vehicle, err := normalizeVehicle(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: vehicle at index %d: %w", ErrMalformedResultSet, idx, err)
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

// Warnings returns the optimizer warnings carried by a response, ignoring anything that is not
// a list of strings.
func Warnings(data []byte) []string {
	var set resultSet
	if err := json.Unmarshal(data, &set); err != nil || isNull(set.Warnings) {
		return nil
	}

	var warnings []string
	if err := json.Unmarshal(set.Warnings, &warnings); err != nil {
		return nil
	}

	return warnings
}

func normalizeVehicle(entry json.RawMessage) (models.VehicleRoute, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
		return models.VehicleRoute{}, errors.New("entry is not an object")
	}

	id, err := decodeID(fields["id"])
	if err != nil {
		return models.VehicleRoute{}, err
	}

	var rawStops []json.RawMessage
	if isNull(fields["stops"]) {
		return models.VehicleRoute{}, errors.New("missing stops")
	}
	if err = json.Unmarshal(fields["stops"], &rawStops); err != nil {
		return models.VehicleRoute{}, errors.New("stops is not a sequence")
	}

	stops := make([]models.Stop, 0, len(rawStops))
	for pos, rawStop := range rawStops {
		stop, errStop := normalizeStop(rawStop)
		if errStop != nil {
			return models.VehicleRoute{}, fmt.Errorf("stop %d: %w", pos+1, errStop)
		}
		stops = append(stops, stop)
	}

	vehicle := models.VehicleRoute{ID: id, Stops: stops}

	if route, ok := primaryRoute(fields["route"]); ok {
		vehicle.EncodedGeometry = decodeString(route.Geometry)
		vehicle.Summary = decodeSummary(route.Summary)
	}

	return vehicle, nil
}

func decodeID(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, errors.New("missing id")
	}

	var id float64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, errors.New("id is not a number")
	}
	if id != math.Trunc(id) || math.Abs(id) > math.MaxInt32 {
		return 0, errors.New("id is not an integer")
	}

	return int(id), nil
}

func normalizeStop(raw json.RawMessage) (models.Stop, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return models.Stop{}, errors.New("stop is not an object")
	}

	stop := models.Stop{
		Coordinates: models.Coordinates{
			Latitude:  decodeFloatOr(fields["lat"], 0),
			Longitude: decodeFloatOr(fields["lon"], 0),
		},
		Name:   decodeString(fields["name"]),
		Demand: decodeFloat(fields["demand"]),
	}

	return stop, nil
}

// primaryRoute returns the first element of the vehicle's route.routes list. The optimizer only
// ever reports one route per vehicle; a missing or empty list means "no route".
func primaryRoute(raw json.RawMessage) (routeEntry, bool) {
	if isNull(raw) {
		return routeEntry{}, false
	}

	var envelope routeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Routes) == 0 {
		return routeEntry{}, false
	}

	var entry routeEntry
	if err := json.Unmarshal(envelope.Routes[0], &entry); err != nil {
		return routeEntry{}, false
	}

	return entry, true
}

func decodeSummary(raw json.RawMessage) *models.RouteSummary {
	if isNull(raw) {
		return nil
	}

	var entry summaryEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil
	}

	return &models.RouteSummary{
		DistanceMeters:  decodeFloatOr(entry.Distance, 0),
		DurationSeconds: decodeFloatOr(entry.Duration, 0),
	}
}

func decodeString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}

	return &s
}

func decodeFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}

	return &f
}

func decodeFloatOr(raw json.RawMessage, fallback float64) float64 {
	if f := decodeFloat(raw); f != nil {
		return *f
	}
	return fallback
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
