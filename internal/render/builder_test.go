package render_test

import (
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/polyline"
	"github.com/UnknownOlympus/waypoint/internal/render"
	"github.com/UnknownOlympus/waypoint/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stop(lat, lon float64, name string) models.Stop {
	s := models.Stop{Coordinates: models.Coordinates{Latitude: lat, Longitude: lon}}
	if name != "" {
		s.Name = &name
	}
	return s
}

func routed(id int, stops ...models.Stop) models.VehicleRoute {
	coords := make([]models.Coordinates, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, s.Coordinates)
	}
	encoded := polyline.Encode(coords)

	return models.VehicleRoute{
		ID:              id,
		Stops:           stops,
		EncodedGeometry: &encoded,
		Summary:         &models.RouteSummary{DistanceMeters: 1234, DurationSeconds: 60},
	}
}

func ptr(v float64) *float64 { return &v }

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	model := render.NewBuilder(render.Options{}).Build(nil, nil, selection.Unfocused, nil)

	assert.Nil(t, model.DepotCoordinate)
	assert.Nil(t, model.Depot)
	assert.Empty(t, model.VehicleFeatures)
	assert.Empty(t, model.Legend)
	assert.Nil(t, model.Viewport)
	assert.Equal(t, render.StatusEmpty, model.Status)
}

func TestBuild_DepotDeduplication(t *testing.T) {
	t.Parallel()

	vehicles := []models.VehicleRoute{
		{ID: 1, Stops: []models.Stop{stop(10, 20, "Depot"), stop(11, 21, "")}},
		{ID: 2, Stops: []models.Stop{stop(10.0000001, 20.0000001, "")}},
	}

	model := render.NewBuilder(render.Options{}).Build(vehicles, nil, selection.Unfocused, nil)

	require.NotNil(t, model.DepotCoordinate)
	assert.Equal(t, models.Coordinates{Latitude: 10, Longitude: 20}, *model.DepotCoordinate)
	require.NotNil(t, model.Depot)
	assert.Equal(t, render.DepotTooltip, model.Depot.Tooltip)
	assert.Equal(t, 1000, model.Depot.ZIndex)

	require.Len(t, model.VehicleFeatures, 2)
	require.Len(t, model.VehicleFeatures[0].Stops, 1)
	assert.Equal(t, 2, model.VehicleFeatures[0].Stops[0].Index)
	assert.Equal(t, "Stop 2 (Truck 1)", model.VehicleFeatures[0].Stops[0].Tooltip)
	assert.Empty(t, model.VehicleFeatures[1].Stops)

	// The legend still counts suppressed stops.
	assert.Equal(t, 2, model.Legend[0].StopCount)
	assert.Equal(t, 1, model.Legend[1].StopCount)
}

func TestResolveDepot(t *testing.T) {
	t.Parallel()

	t.Run("named depot wins over first stop", func(t *testing.T) {
		t.Parallel()

		vehicles := []models.VehicleRoute{
			{ID: 1, Stops: []models.Stop{stop(1, 1, "A")}},
			{ID: 2, Stops: []models.Stop{stop(2, 2, "B"), stop(3, 3, "  DEPOT ")}},
		}

		depot := render.ResolveDepot(vehicles)

		require.NotNil(t, depot)
		assert.Equal(t, models.Coordinates{Latitude: 3, Longitude: 3}, depot.Coordinates)
	})

	t.Run("falls back to first stop of first non-empty vehicle", func(t *testing.T) {
		t.Parallel()

		vehicles := []models.VehicleRoute{
			{ID: 1},
			{ID: 2, Stops: []models.Stop{stop(5, 6, ""), stop(7, 8, "")}},
		}

		depot := render.ResolveDepot(vehicles)

		require.NotNil(t, depot)
		assert.Equal(t, models.Coordinates{Latitude: 5, Longitude: 6}, depot.Coordinates)
	})

	t.Run("no stops anywhere", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, render.ResolveDepot([]models.VehicleRoute{{ID: 1}, {ID: 2}}))
	})
}

func TestBuild_DepotOverride(t *testing.T) {
	t.Parallel()

	vehicles := []models.VehicleRoute{
		{ID: 1, Stops: []models.Stop{stop(10, 20, "Depot"), stop(30, 40, "")}},
	}
	override := stop(30, 40, "Warehouse")

	model := render.NewBuilder(render.Options{}).Build(vehicles, nil, selection.Unfocused, &override)

	require.NotNil(t, model.DepotCoordinate)
	assert.Equal(t, models.Coordinates{Latitude: 30, Longitude: 40}, *model.DepotCoordinate)
	require.Len(t, model.VehicleFeatures[0].Stops, 1)
	assert.Equal(t, "Depot (Truck 1)", model.VehicleFeatures[0].Stops[0].Tooltip)
}

func TestBuild_PaletteByPosition(t *testing.T) {
	t.Parallel()

	palette := render.DefaultPalette()
	vehicles := make([]models.VehicleRoute, 0, 11)
	for i := range 11 {
		vehicles = append(vehicles, routed(100-i, stop(float64(i), float64(i), "")))
	}

	model := render.NewBuilder(render.Options{}).Build(vehicles, nil, selection.Unfocused, nil)

	require.Len(t, model.VehicleFeatures, 11)
	for i, f := range model.VehicleFeatures {
		assert.Equal(t, palette[i%len(palette)], f.Color)
		assert.Equal(t, f.Color, model.Legend[i].Color)
		assert.Equal(t, vehicles[i].ID, model.Legend[i].ID)
	}
	assert.Equal(t, "blue", model.VehicleFeatures[9].Color)
	assert.Equal(t, "Truck 100 Route", model.Legend[0].Label)
	assert.InDelta(t, 1.23, model.Legend[0].DistanceKm, 1e-9)
}

func TestBuild_Emphasis(t *testing.T) {
	t.Parallel()

	vehicles := []models.VehicleRoute{
		routed(3, stop(0, 0, "Depot"), stop(1, 1, "")),
		routed(5, stop(0, 0, "Depot"), stop(2, 2, "")),
	}
	builder := render.NewBuilder(render.Options{})

	unfocused := builder.Build(vehicles, nil, selection.Unfocused, nil)
	for _, f := range unfocused.VehicleFeatures {
		assert.True(t, f.Emphasized)
		assert.InDelta(t, 6.0, f.Weight, 1e-9)
		assert.InDelta(t, 1.0, f.Opacity, 1e-9)
	}

	focused := builder.Build(vehicles, nil, selection.FocusedOn(5), nil)
	dimmed, bright := focused.VehicleFeatures[0], focused.VehicleFeatures[1]

	assert.False(t, dimmed.Emphasized)
	assert.InDelta(t, 3.0, dimmed.Weight, 1e-9)
	assert.InDelta(t, 0.15, dimmed.Opacity, 1e-9)
	assert.InDelta(t, 0.25, dimmed.Stops[0].Opacity, 1e-9)
	assert.True(t, bright.Emphasized)
	assert.InDelta(t, 1.0, bright.Stops[0].Opacity, 1e-9)

	// Emphasis never changes geometry or the legend.
	assert.Equal(t, unfocused.VehicleFeatures[0].Coordinates, dimmed.Coordinates)
	assert.Equal(t, unfocused.Legend, focused.Legend)
	assert.Equal(t, unfocused.Viewport, focused.Viewport)
}

func TestBuild_ViewportCoversRouteGeometry(t *testing.T) {
	t.Parallel()

	// The route bows north of both stops.
	path := []models.Coordinates{{Latitude: 0, Longitude: 0}, {Latitude: 5, Longitude: 1}, {Latitude: 0, Longitude: 2}}
	encoded := polyline.Encode(path)
	vehicles := []models.VehicleRoute{{
		ID:              1,
		Stops:           []models.Stop{stop(0, 0, "Depot"), stop(0, 2, "")},
		EncodedGeometry: &encoded,
		Summary:         &models.RouteSummary{},
	}}

	model := render.NewBuilder(render.Options{Padding: ptr(0.1)}).Build(vehicles, nil, selection.Unfocused, nil)

	require.NotNil(t, model.Viewport)
	for _, p := range path {
		assert.True(t, model.Viewport.Contains(p), "viewport %+v misses %+v", *model.Viewport, p)
	}
	assert.InDelta(t, 5.5, model.Viewport.North, 1e-6)
	require.NotNil(t, model.Center)
	assert.Equal(t, render.StatusOK, model.Status)
}

func TestBuild_ZeroPaddingIsHonoured(t *testing.T) {
	t.Parallel()

	vehicles := []models.VehicleRoute{routed(1, stop(0, 0, "Depot"), stop(2, 4, ""))}

	unpadded := render.NewBuilder(render.Options{Padding: ptr(0.0)}).Build(vehicles, nil, selection.Unfocused, nil)
	padded := render.NewBuilder(render.Options{}).Build(vehicles, nil, selection.Unfocused, nil)

	require.NotNil(t, unpadded.Viewport)
	assert.InDelta(t, 0, unpadded.Viewport.South, 1e-9)
	assert.InDelta(t, 2, unpadded.Viewport.North, 1e-9)
	assert.InDelta(t, 4, unpadded.Viewport.East, 1e-9)

	require.NotNil(t, padded.Viewport)
	assert.InDelta(t, 2+2*render.DefaultPadding, padded.Viewport.North, 1e-9)
}

func TestBuild_PartialStatus(t *testing.T) {
	t.Parallel()

	bad := "@@@"
	vehicles := []models.VehicleRoute{
		routed(1, stop(0, 0, ""), stop(1, 1, "")),
		{ID: 2, Stops: []models.Stop{stop(2, 2, "")}, EncodedGeometry: &bad},
	}

	model := render.NewBuilder(render.Options{}).Build(vehicles, nil, selection.Unfocused, nil)

	assert.Equal(t, render.StatusPartial, model.Status)
	assert.Equal(t, []int{2}, model.DecodeFailures)
	assert.Empty(t, model.VehicleFeatures[1].Coordinates)
	require.NotNil(t, model.Viewport)
	assert.True(t, model.Viewport.Contains(models.Coordinates{Latitude: 2, Longitude: 2}))
}

func TestBuild_CustomOptions(t *testing.T) {
	t.Parallel()

	style := render.DefaultStyle()
	style.RouteWeight = 9
	opts := render.Options{
		Palette: []string{"#111", "#222"},
		Style:   &style,
		Decode:  func(string) []models.Coordinates { return nil },
	}
	vehicles := []models.VehicleRoute{
		routed(1, stop(0, 0, "")), routed(2, stop(1, 1, "")), routed(3, stop(2, 2, "")),
	}

	model := render.NewBuilder(opts).Build(vehicles, &models.Baseline{DistanceMeters: 10000}, selection.Unfocused, nil)

	assert.Equal(t, "#111", model.VehicleFeatures[2].Color)
	assert.InDelta(t, 9.0, model.VehicleFeatures[0].Weight, 1e-9)
	require.NotNil(t, model.Metrics.DistanceSavingsPercent)
	assert.Equal(t, 63, *model.Metrics.DistanceSavingsPercent)
}
