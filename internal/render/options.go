package render

import (
	"github.com/UnknownOlympus/waypoint/internal/aggregate"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/polyline"
)

// DefaultPadding is the viewport padding as a fraction of its span.
const DefaultPadding = 0.08

// DefaultPalette returns the route colours in assignment order.
func DefaultPalette() []string {
	return []string{"blue", "green", "purple", "orange", "red", "cyan", "pink", "yellow", "brown"}
}

// Style holds the display weights for emphasized and dimmed features.
type Style struct {
	RouteWeight        float64
	DimmedRouteWeight  float64
	RouteOpacity       float64
	DimmedRouteOpacity float64

	MarkerOpacity       float64
	DimmedMarkerOpacity float64

	DepotZIndex int
}

// DefaultStyle returns the standard map styling.
func DefaultStyle() Style {
	return Style{
		RouteWeight:         6,
		DimmedRouteWeight:   3,
		RouteOpacity:        1,
		DimmedRouteOpacity:  0.15,
		MarkerOpacity:       1,
		DimmedMarkerOpacity: 0.25,
		DepotZIndex:         1000,
	}
}

// Options configures a Builder. Nil or empty fields fall back to the defaults; a Padding of 0
// is honoured and yields an unpadded viewport apart from the zero-span minimum.
type Options struct {
	Palette []string
	Padding *float64
	Style   *Style
	Rates   *aggregate.Rates
	Decode  func(string) []models.Coordinates
}

func (o Options) withDefaults() Options {
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette()
	}
	if o.Padding == nil {
		p := DefaultPadding
		o.Padding = &p
	}
	if o.Style == nil {
		s := DefaultStyle()
		o.Style = &s
	}
	if o.Rates == nil {
		r := aggregate.DefaultRates()
		o.Rates = &r
	}
	if o.Decode == nil {
		o.Decode = polyline.Decode
	}

	return o
}
