package render

import (
	"fmt"

	"github.com/UnknownOlympus/waypoint/internal/aggregate"
	"github.com/UnknownOlympus/waypoint/internal/geometry"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/selection"
)

// Builder turns a normalized result set into a Model. It holds no state between builds.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts.withDefaults()}
}

// Build derives the Model for the vehicles under the given selection. depotOverride, when not
// nil, takes precedence over the depot found among the stops.
func (b *Builder) Build(
	vehicles []models.VehicleRoute,
	baseline *models.Baseline,
	sel selection.State,
	depotOverride *models.Stop,
) Model {
	model := Model{
		VehicleFeatures: make([]VehicleFeature, 0, len(vehicles)),
		Legend:          make([]LegendEntry, 0, len(vehicles)),
		Status:          StatusEmpty,
		Metrics:         aggregate.Aggregate(vehicles, baseline, *b.opts.Rates),
	}
	if len(vehicles) == 0 {
		return model
	}

	style := b.opts.Style
	depot := depotOverride
	if depot == nil {
		depot = ResolveDepot(vehicles)
	}
	if depot != nil {
		position := depot.Coordinates
		model.DepotCoordinate = &position
		model.Depot = &Marker{
			Position: position,
			Stop:     *depot,
			Tooltip:  DepotTooltip,
			Opacity:  style.MarkerOpacity,
			ZIndex:   style.DepotZIndex,
		}
	}

	model.Status = StatusOK
	points := make([]models.Coordinates, 0)
	for idx, v := range vehicles {
		color := b.opts.Palette[idx%len(b.opts.Palette)]
		emphasized := sel.Emphasized(v.ID)

		path := b.opts.Decode(v.Geometry())
		if v.Geometry() != "" && len(path) == 0 {
			model.DecodeFailures = append(model.DecodeFailures, v.ID)
		}
		if len(v.Stops) > 0 && (len(path) == 0 || v.Summary == nil) {
			model.Status = StatusPartial
		}

		feature := VehicleFeature{
			ID:          v.ID,
			Color:       color,
			Coordinates: path,
			Stops:       make([]Marker, 0, len(v.Stops)),
			Emphasized:  emphasized,
			Weight:      pick(emphasized, style.RouteWeight, style.DimmedRouteWeight),
			Opacity:     pick(emphasized, style.RouteOpacity, style.DimmedRouteOpacity),
		}
		for i, s := range v.Stops {
			points = append(points, s.Coordinates)
			if model.DepotCoordinate != nil && geometry.SameCoordinate(s.Coordinates, *model.DepotCoordinate) {
				continue
			}
			feature.Stops = append(feature.Stops, Marker{
				Position: s.Coordinates,
				Stop:     s,
				Index:    i + 1,
				Tooltip:  fmt.Sprintf("%s (%s)", s.Label(i+1), aggregate.VehicleLabel(v.ID)),
				Opacity:  pick(emphasized, style.MarkerOpacity, style.DimmedMarkerOpacity),
			})
		}
		points = append(points, path...)

		model.VehicleFeatures = append(model.VehicleFeatures, feature)
		model.Legend = append(model.Legend, LegendEntry{
			ID:         v.ID,
			Label:      aggregate.VehicleLabel(v.ID) + " Route",
			StopCount:  len(v.Stops),
			DistanceKm: aggregate.VehicleDistanceKm(v),
			Color:      color,
		})
	}

	if viewport, ok := geometry.ComputeBounds(points, *b.opts.Padding); ok {
		model.Viewport = &viewport
		center := viewport.Center()
		model.Center = &center
	} else if model.DepotCoordinate != nil {
		center := *model.DepotCoordinate
		model.Center = &center
	}

	return model
}

// ResolveDepot returns the first stop named "depot" in vehicle then stop order, else the first
// stop of the first vehicle with stops, else nil.
func ResolveDepot(vehicles []models.VehicleRoute) *models.Stop {
	for _, v := range vehicles {
		for _, s := range v.Stops {
			if s.IsDepot() {
				return &s
			}
		}
	}
	for _, v := range vehicles {
		if len(v.Stops) > 0 {
			s := v.Stops[0]
			return &s
		}
	}

	return nil
}

func pick(emphasized bool, on, off float64) float64 {
	if emphasized {
		return on
	}
	return off
}
