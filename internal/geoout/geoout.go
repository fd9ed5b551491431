// Package geoout renders a route result as a GeoJSON Feature, for callers
// that want to hand the path straight to a map renderer.
package geoout

import (
	"github.com/paulmach/go.geojson"

	"github.com/kestrelnav/bikeroute-core"
)

// Feature builds a GeoJSON LineString Feature from a route result. The four
// distance totals are carried as feature properties alongside the overall
// distance, so a map client can colour segments without re-deriving the
// buckets.
func Feature(result *bikeroute.RouteResult) *geojson.Feature {
	coords := make([][]float64, len(result.Path))
	for i, p := range result.Path {
		coords[i] = []float64{p.Lon, p.Lat}
	}

	f := geojson.NewLineStringFeature(coords)
	f.SetProperty("dist_car_free_km", result.Stats.CarFreeKM)
	f.SetProperty("dist_separated_km", result.Stats.SeparatedKM)
	f.SetProperty("dist_with_cars_km", result.Stats.WithCarsKM)
	f.SetProperty("dist_pushing_km", result.Stats.PushingKM)
	f.SetProperty("total_distance_km", result.TotalDistanceKM)
	f.SetProperty("iterations", result.Iterations)
	return f
}

// MarshalJSON renders the Feature to its JSON encoding.
func MarshalJSON(result *bikeroute.RouteResult) ([]byte, error) {
	return Feature(result).MarshalJSON()
}
