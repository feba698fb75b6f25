package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	routeclient "route-engine-client"
	"route-engine-client/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	backend    string
	logLevel   string
	requestID  string
	timeout    time.Duration
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "routeq",
		Short: "Query a routing engine",
		Long: `routeq runs one route, trip, match, table or nearest query against the
engine selected by configuration (mock, remote or native) and prints the
response as JSON. Coordinates are given as "lon,lat".`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (optional, environment overrides it)")
	root.PersistentFlags().StringVar(&g.backend, "backend", "", "override the configured backend (mock, remote, native)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.requestID, "request-id", "", "request id attached to engine logs (default: random)")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 30*time.Second, "overall deadline for the query")

	root.AddCommand(
		newRouteCommand(g),
		newTripCommand(g),
		newMatchCommand(g),
		newTableCommand(g),
		newNearestCommand(g),
	)
	return root
}

// run opens the configured engine, calls query and prints its result.
func run(cmd *cobra.Command, g *globalFlags, query func(context.Context, routeclient.Engine) (any, error)) error {
	cfg, err := routeclient.LoadConfig(g.configPath)
	if err != nil {
		return err
	}
	if g.backend != "" {
		cfg.Backend = g.backend
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}

	eng, err := routeclient.Open(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	reqID := g.requestID
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx, cancel := context.WithTimeout(obs.WithRequestID(cmd.Context(), reqID), g.timeout)
	defer cancel()

	resp, err := query(ctx, eng)
	if err != nil {
		return fmt.Errorf("%s query failed (%s): %w", cmd.Name(), routeclient.Classify(err), err)
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type pathFlags struct {
	steps       bool
	annotations bool
	geometry    string
	overview    string
}

// register adds the shared flags; overview defaults to the service's own
// default so an omitted flag leaves the request unchanged.
func (p *pathFlags) register(cmd *cobra.Command, overview routeclient.OverviewZoom) {
	cmd.Flags().BoolVar(&p.steps, "steps", false, "include turn-by-turn steps")
	cmd.Flags().BoolVar(&p.annotations, "annotations", false, "include per-segment annotations")
	cmd.Flags().StringVar(&p.geometry, "geometry", "polyline", "geometry encoding (polyline, polyline6, geojson)")
	cmd.Flags().StringVar(&p.overview, "overview", overview.String(), "overview detail (simplified, full, false)")
}

func (p *pathFlags) parse() (routeclient.GeometryType, routeclient.OverviewZoom, error) {
	geometry, err := parseGeometry(p.geometry)
	if err != nil {
		return 0, 0, err
	}
	overview, err := parseOverview(p.overview)
	if err != nil {
		return 0, 0, err
	}
	return geometry, overview, nil
}

func newRouteCommand(g *globalFlags) *cobra.Command {
	var path pathFlags
	var alternatives bool

	cmd := &cobra.Command{
		Use:   "route LON,LAT LON,LAT [LON,LAT...]",
		Short: "Fastest route through the points in order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parseCoordinates(args)
			if err != nil {
				return err
			}
			geometry, overview, err := path.parse()
			if err != nil {
				return err
			}
			req, err := routeclient.NewRouteRequestBuilder(points...).
				Alternatives(alternatives).
				Steps(path.steps).
				Annotations(path.annotations).
				Geometry(geometry).
				Overview(overview).
				Build()
			if err != nil {
				return err
			}
			return run(cmd, g, func(ctx context.Context, e routeclient.Engine) (any, error) {
				return e.Route(ctx, req)
			})
		},
	}
	path.register(cmd, routeclient.OverviewSimplified)
	cmd.Flags().BoolVar(&alternatives, "alternatives", false, "also return alternative routes")
	return cmd
}

func newTripCommand(g *globalFlags) *cobra.Command {
	var path pathFlags
	var roundtrip bool

	cmd := &cobra.Command{
		Use:   "trip LON,LAT LON,LAT [LON,LAT...]",
		Short: "Shortest tour visiting every point",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parseCoordinates(args)
			if err != nil {
				return err
			}
			geometry, overview, err := path.parse()
			if err != nil {
				return err
			}
			b := routeclient.NewTripRequestBuilder(points...).
				Steps(path.steps).
				Annotations(path.annotations).
				Geometry(geometry).
				Overview(overview).
				Roundtrip(roundtrip)
			if !roundtrip {
				b.Source(routeclient.TripSourceFirst).Destination(routeclient.TripDestinationLast)
			}
			req, err := b.Build()
			if err != nil {
				return err
			}
			return run(cmd, g, func(ctx context.Context, e routeclient.Engine) (any, error) {
				return e.Trip(ctx, req)
			})
		},
	}
	path.register(cmd, routeclient.OverviewFalse)
	cmd.Flags().BoolVar(&roundtrip, "roundtrip", true, "return to the first point; when false the tour runs first to last")
	return cmd
}

func newMatchCommand(g *globalFlags) *cobra.Command {
	var path pathFlags
	var timestamps string
	var tidy bool

	cmd := &cobra.Command{
		Use:   "match LON,LAT LON,LAT [LON,LAT...]",
		Short: "Snap a GPS trace to the road network",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parseCoordinates(args)
			if err != nil {
				return err
			}
			geometry, overview, err := path.parse()
			if err != nil {
				return err
			}
			b := routeclient.NewMatchRequestBuilder(points...).
				Steps(path.steps).
				Annotations(path.annotations).
				Geometry(geometry).
				Overview(overview).
				Tidy(tidy)
			if timestamps != "" {
				ts, err := parseTimestamps(timestamps)
				if err != nil {
					return err
				}
				b.Timestamps(ts...)
			} else {
				b.Gaps(routeclient.GapsIgnore)
			}
			req, err := b.Build()
			if err != nil {
				return err
			}
			return run(cmd, g, func(ctx context.Context, e routeclient.Engine) (any, error) {
				return e.Match(ctx, req)
			})
		},
	}
	path.register(cmd, routeclient.OverviewSimplified)
	cmd.Flags().StringVar(&timestamps, "timestamps", "", "comma-separated unix seconds, one per point")
	cmd.Flags().BoolVar(&tidy, "tidy", false, "drop redundant trace points")
	return cmd
}

func newTableCommand(g *globalFlags) *cobra.Command {
	var sources, destinations, annotations string

	cmd := &cobra.Command{
		Use:   "table --sources LON,LAT[;LON,LAT...] --destinations LON,LAT[;LON,LAT...]",
		Short: "Duration and distance matrix between two point sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseCoordinates(splitList(sources))
			if err != nil {
				return fmt.Errorf("sources: %w", err)
			}
			dst, err := parseCoordinates(splitList(destinations))
			if err != nil {
				return fmt.Errorf("destinations: %w", err)
			}
			ann, err := parseTableAnnotation(annotations)
			if err != nil {
				return err
			}
			req, err := routeclient.NewTableRequestBuilder(src, dst).Annotations(ann).Build()
			if err != nil {
				return err
			}
			return run(cmd, g, func(ctx context.Context, e routeclient.Engine) (any, error) {
				return e.Table(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&sources, "sources", "", "semicolon-separated source coordinates")
	cmd.Flags().StringVar(&destinations, "destinations", "", "semicolon-separated destination coordinates")
	cmd.Flags().StringVar(&annotations, "annotations", "duration", "matrices to return (duration, distance, duration,distance)")
	return cmd
}

func newNearestCommand(g *globalFlags) *cobra.Command {
	var number int
	var radius float64

	cmd := &cobra.Command{
		Use:   "nearest LON,LAT",
		Short: "Closest road segments to a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parseCoordinate(args[0])
			if err != nil {
				return err
			}
			b := routeclient.NewNearestRequestBuilder(point).Number(number)
			if radius > 0 {
				b.Radius(radius)
			}
			req, err := b.Build()
			if err != nil {
				return err
			}
			return run(cmd, g, func(ctx context.Context, e routeclient.Engine) (any, error) {
				return e.Nearest(ctx, req)
			})
		},
	}
	cmd.Flags().IntVar(&number, "number", 1, "number of segments to return")
	cmd.Flags().Float64Var(&radius, "radius", 0, "search radius in meters (0: unlimited)")
	return cmd
}

// parseCoordinate reads "lon,lat", the order used on the engine's wire.
func parseCoordinate(s string) (routeclient.Coordinate, error) {
	lonStr, latStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return routeclient.Coordinate{}, fmt.Errorf("coordinate %q: want lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return routeclient.Coordinate{}, fmt.Errorf("coordinate %q: longitude: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return routeclient.Coordinate{}, fmt.Errorf("coordinate %q: latitude: %w", s, err)
	}
	return routeclient.NewCoordinate(lat, lon)
}

func parseCoordinates(args []string) ([]routeclient.Coordinate, error) {
	out := make([]routeclient.Coordinate, 0, len(args))
	for _, a := range args {
		c, err := parseCoordinate(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ";")
}

func parseTimestamps(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseGeometry(s string) (routeclient.GeometryType, error) {
	switch s {
	case "polyline":
		return routeclient.GeometryPolyline, nil
	case "polyline6":
		return routeclient.GeometryPolyline6, nil
	case "geojson":
		return routeclient.GeometryGeoJSON, nil
	}
	return 0, fmt.Errorf("unknown geometry %q", s)
}

func parseOverview(s string) (routeclient.OverviewZoom, error) {
	switch s {
	case "simplified":
		return routeclient.OverviewSimplified, nil
	case "full":
		return routeclient.OverviewFull, nil
	case "false":
		return routeclient.OverviewFalse, nil
	}
	return 0, fmt.Errorf("unknown overview %q", s)
}

func parseTableAnnotation(s string) (routeclient.TableAnnotation, error) {
	switch s {
	case "duration":
		return routeclient.TableAnnotationDuration, nil
	case "distance":
		return routeclient.TableAnnotationDistance, nil
	case "duration,distance", "distance,duration":
		return routeclient.TableAnnotationAll, nil
	}
	return 0, fmt.Errorf("unknown annotations %q", s)
}
