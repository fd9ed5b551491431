// Package resultjson frames a route result as JSON for callers that want a
// machine-readable primary result stream (§6: "JSON framing of the result;
// the core returns a structured path and statistics, which a thin adapter
// serialises").
package resultjson

import (
	"github.com/goccy/go-json"

	"github.com/kestrelnav/bikeroute-core"
)

// point mirrors bikeroute.LatLon with JSON field names; kept distinct so the
// core package carries no JSON tags of its own.
type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type stats struct {
	CarFreeKM   float64 `json:"dist_car_free"`
	SeparatedKM float64 `json:"dist_separated"`
	WithCarsKM  float64 `json:"dist_with_cars"`
	PushingKM   float64 `json:"dist_pushing"`
}

type document struct {
	Path            []point `json:"path"`
	Stats           stats   `json:"stats"`
	TotalDistanceKM float64 `json:"total_distance_km"`
	Iterations      int     `json:"iterations"`
}

// Marshal renders a route result as an indented JSON document.
func Marshal(result *bikeroute.RouteResult) ([]byte, error) {
	doc := document{
		Path:            make([]point, len(result.Path)),
		TotalDistanceKM: result.TotalDistanceKM,
		Iterations:      result.Iterations,
		Stats: stats{
			CarFreeKM:   result.Stats.CarFreeKM,
			SeparatedKM: result.Stats.SeparatedKM,
			WithCarsKM:  result.Stats.WithCarsKM,
			PushingKM:   result.Stats.PushingKM,
		},
	}
	for i, p := range result.Path {
		doc.Path[i] = point{Lat: p.Lat, Lon: p.Lon}
	}
	return json.MarshalIndent(doc, "", "  ")
}
