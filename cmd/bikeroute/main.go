// Command bikeroute is a thin CLI around the routing core: it parses the
// invocation surface described in §6, runs one route request, and prints
// the result to stdout, reserving stderr for diagnostics (§6: "MUST NOT
// pollute the primary result stream").
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gotidy/ptr"
	"github.com/spf13/cobra"

	bikeroute "github.com/kestrelnav/bikeroute-core"
	"github.com/kestrelnav/bikeroute-core/internal/diagserver"
	"github.com/kestrelnav/bikeroute-core/internal/geoout"
	"github.com/kestrelnav/bikeroute-core/internal/resultjson"
)

type options struct {
	tilesRoot string

	originLat float64
	originLon float64
	destLat   float64
	destLon   float64

	bicycleType  int
	useRoads     float64
	avoidPushing bool
	avoidCars    bool

	jsonOut    bool
	geojsonOut bool
	diagAddr   string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bikeroute",
		Short: "Compute a bicycle route over a local tile store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.tilesRoot, "tiles-root", "", "root directory of the tile store (required)")
	flags.Float64Var(&opts.originLat, "origin-lat", 0, "origin latitude")
	flags.Float64Var(&opts.originLon, "origin-lon", 0, "origin longitude")
	flags.Float64Var(&opts.destLat, "dest-lat", 0, "destination latitude")
	flags.Float64Var(&opts.destLon, "dest-lon", 0, "destination longitude")
	flags.IntVar(&opts.bicycleType, "bicycle-type", 3, "0=road, 1=cross, 2=hybrid, 3=mountain")
	flags.Float64Var(&opts.useRoads, "use-roads", 0.25, "road-preference weight in [0,1]")
	flags.BoolVar(&opts.avoidPushing, "avoid-pushing", false, "penalise pedestrian-only edges more heavily")
	flags.BoolVar(&opts.avoidCars, "avoid-cars", false, "penalise car-accessible edges by estimated stress")
	flags.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON instead of plain text")
	flags.BoolVar(&opts.geojsonOut, "geojson", false, "print the result as a GeoJSON Feature")
	flags.StringVar(&opts.diagAddr, "diag-addr", "", "if set, serve cache/iteration diagnostics on this address")

	root.MarkFlagsMutuallyExclusive("json", "geojson")
	root.MarkFlagRequired("tiles-root")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// run builds a RouteRequest from the parsed flags and prints the result.
// bicycle-type and use-roads are only forwarded as overrides when the user
// actually set them, so DefaultProfile's values apply otherwise (§6).
func run(cmd *cobra.Command, opts *options) error {
	engine, err := bikeroute.NewEngine(opts.tilesRoot)
	if err != nil {
		return fmt.Errorf("open tile store: %w", err)
	}

	if opts.diagAddr != "" {
		srv := diagserver.New(engine)
		go func() {
			if err := srv.ListenAndServe(opts.diagAddr); err != nil {
				log.Printf("diagserver: %v", err)
			}
		}()
		defer srv.Shutdown()
	}

	req := bikeroute.RouteRequest{
		OriginLat:    opts.originLat,
		OriginLon:    opts.originLon,
		DestLat:      opts.destLat,
		DestLon:      opts.destLon,
		AvoidPushing: ptr.Bool(opts.avoidPushing),
		AvoidCars:    ptr.Bool(opts.avoidCars),
	}
	if cmd.Flags().Changed("bicycle-type") {
		req.BicycleType = ptr.Int(opts.bicycleType)
	}
	if cmd.Flags().Changed("use-roads") {
		req.UseRoads = ptr.Float64(opts.useRoads)
	}

	result, err := engine.Route(context.Background(), req)
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}

	switch {
	case opts.jsonOut:
		body, err := resultjson.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		os.Stdout.Write(body)
		os.Stdout.Write([]byte("\n"))
	case opts.geojsonOut:
		body, err := geoout.MarshalJSON(result)
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		os.Stdout.Write(body)
		os.Stdout.Write([]byte("\n"))
	default:
		for _, p := range result.Path {
			fmt.Printf("%.6f,%.6f\n", p.Lat, p.Lon)
		}
		fmt.Printf("# total %.3f km (car_free=%.3f separated=%.3f with_cars=%.3f pushing=%.3f), %d iterations\n",
			result.TotalDistanceKM, result.Stats.CarFreeKM, result.Stats.SeparatedKM,
			result.Stats.WithCarsKM, result.Stats.PushingKM, result.Iterations)
	}

	return nil
}
