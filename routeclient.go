// Package routeclient builds validated routing queries (route, trip, match,
// table, nearest) and executes them against an OSRM-compatible engine: one
// loaded in-process, one reached over HTTP, or an offline mock.
//
//	eng, err := routeclient.NewRemote("http://localhost:5000", routeclient.ProfileCar)
//	req, err := routeclient.NewRouteRequestBuilder(from, to).Steps(true).Build()
//	resp, err := eng.Route(ctx, req)
//
// Every engine returns the same response types and the same error shape;
// use Classify to branch on failures.
package routeclient

import (
	"route-engine-client/internal/adapters/engine"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/ports"
	"route-engine-client/internal/services"
)

type (
	Engine = ports.Engine

	Coordinate         = domain.Coordinate
	Bearing            = domain.Bearing
	Approach           = domain.Approach
	Exclude            = domain.Exclude
	CarExclude         = domain.CarExclude
	BicycleExclude     = domain.BicycleExclude
	Snapping           = domain.Snapping
	GeometryType       = domain.GeometryType
	OverviewZoom       = domain.OverviewZoom
	GapsBehaviour      = domain.GapsBehaviour
	TableAnnotation    = domain.TableAnnotation
	FallbackCoordinate = domain.FallbackCoordinate
	TripSource         = domain.TripSource
	TripDestination    = domain.TripDestination
	Profile            = domain.Profile
	Algorithm          = domain.Algorithm

	RouteRequestBuilder   = services.RouteRequestBuilder
	TripRequestBuilder    = services.TripRequestBuilder
	MatchRequestBuilder   = services.MatchRequestBuilder
	TableRequestBuilder   = services.TableRequestBuilder
	NearestRequestBuilder = services.NearestRequestBuilder
	RouteRequest          = services.RouteRequest
	TripRequest           = services.TripRequest
	MatchRequest          = services.MatchRequest
	TableRequest          = services.TableRequest
	NearestRequest        = services.NearestRequest
	RouteSummary          = services.RouteSummary

	Geometry        = domain.Geometry
	Status          = domain.Status
	Waypoint        = domain.Waypoint
	Route           = domain.Route
	RouteLeg        = domain.RouteLeg
	RouteStep       = domain.RouteStep
	Annotation      = domain.Annotation
	RouteResponse   = domain.RouteResponse
	TripResponse    = domain.TripResponse
	MatchResponse   = domain.MatchResponse
	TableResponse   = domain.TableResponse
	NearestResponse = domain.NearestResponse

	RequestError        = domain.RequestError
	ValueError          = domain.ValueError
	EngineError         = domain.EngineError
	GeometryDecodeError = domain.GeometryDecodeError
	ErrorClass          = domain.ErrorClass

	Option = engine.Option
)

const (
	ApproachUnrestricted = domain.ApproachUnrestricted
	ApproachCurb         = domain.ApproachCurb
	ApproachOpposite     = domain.ApproachOpposite

	CarToll      = domain.CarToll
	CarMotorway  = domain.CarMotorway
	CarFerry     = domain.CarFerry
	BicycleFerry = domain.BicycleFerry

	SnappingDefault = domain.SnappingDefault
	SnappingAny     = domain.SnappingAny

	GeometryPolyline  = domain.GeometryPolyline
	GeometryPolyline6 = domain.GeometryPolyline6
	GeometryGeoJSON   = domain.GeometryGeoJSON

	OverviewSimplified = domain.OverviewSimplified
	OverviewFull       = domain.OverviewFull
	OverviewFalse      = domain.OverviewFalse

	GapsSplit  = domain.GapsSplit
	GapsIgnore = domain.GapsIgnore

	TableAnnotationNone     = domain.TableAnnotationNone
	TableAnnotationDuration = domain.TableAnnotationDuration
	TableAnnotationDistance = domain.TableAnnotationDistance
	TableAnnotationAll      = domain.TableAnnotationAll

	FallbackInput   = domain.FallbackInput
	FallbackSnapped = domain.FallbackSnapped

	TripSourceAny       = domain.TripSourceAny
	TripSourceFirst     = domain.TripSourceFirst
	TripDestinationAny  = domain.TripDestinationAny
	TripDestinationLast = domain.TripDestinationLast

	ProfileCar  = domain.ProfileCar
	ProfileBike = domain.ProfileBike
	ProfileFoot = domain.ProfileFoot

	AlgorithmMLD = domain.AlgorithmMLD
	AlgorithmCH  = domain.AlgorithmCH

	ClassNone         = domain.ClassNone
	ClassConstruction = domain.ClassConstruction
	ClassNative       = domain.ClassNative
	ClassRemote       = domain.ClassRemote
	ClassEmpty        = domain.ClassEmpty
	ClassUnknown      = domain.ClassUnknown
)

// Sentinel kinds, for errors.Is.
var (
	ErrCoordinateOutOfRange = domain.ErrCoordinateOutOfRange
	ErrInvalidBearing       = domain.ErrInvalidBearing

	ErrInsufficientPoints          = domain.ErrInsufficientPoints
	ErrDimensionMismatch           = domain.ErrDimensionMismatch
	ErrNegativeRadius              = domain.ErrNegativeRadius
	ErrDifferentExcludeTypes       = domain.ErrDifferentExcludeTypes
	ErrTimestampsNotSorted         = domain.ErrTimestampsNotSorted
	ErrTimestampsRequired          = domain.ErrTimestampsRequired
	ErrNegativeTimestamp           = domain.ErrNegativeTimestamp
	ErrEmptyWaypoints              = domain.ErrEmptyWaypoints
	ErrWaypointIndexOutOfBounds    = domain.ErrWaypointIndexOutOfBounds
	ErrEmptySources                = domain.ErrEmptySources
	ErrEmptyDestinations           = domain.ErrEmptyDestinations
	ErrIncompleteFallbackPair      = domain.ErrIncompleteFallbackPair
	ErrScaleFactorRequiresDuration = domain.ErrScaleFactorRequiresDuration
	ErrNonPositiveFallbackSpeed    = domain.ErrNonPositiveFallbackSpeed
	ErrNonPositiveScaleFactor      = domain.ErrNonPositiveScaleFactor
	ErrInvalidNumber               = domain.ErrInvalidNumber
	ErrUnsupportedTripCombination  = domain.ErrUnsupportedTripCombination

	ErrInitialization = domain.ErrInitialization
	ErrInvalidPath    = domain.ErrInvalidPath
	ErrInternal       = domain.ErrInternal
	ErrDecode         = domain.ErrDecode
	ErrEndpoint       = domain.ErrEndpoint
	ErrEmptyResponse  = domain.ErrEmptyResponse
)

// UnlimitedRadius leaves one point's snapping radius unconstrained.
var UnlimitedRadius = domain.UnlimitedRadius

func NewCoordinate(lat, lon float64) (Coordinate, error) { return domain.NewCoordinate(lat, lon) }
func MustCoordinate(lat, lon float64) Coordinate         { return domain.MustCoordinate(lat, lon) }
func NewBearing(angle, rng int) (Bearing, error)         { return domain.NewBearing(angle, rng) }

// Classify reports which layer an error came from.
func Classify(err error) ErrorClass { return domain.Classify(err) }

func DecodeGeometry(raw []byte) (Geometry, error) { return domain.DecodeGeometry(raw) }

func NewRouteRequestBuilder(points ...Coordinate) *RouteRequestBuilder {
	return services.NewRouteRequestBuilder(points...)
}

func NewTripRequestBuilder(points ...Coordinate) *TripRequestBuilder {
	return services.NewTripRequestBuilder(points...)
}

func NewMatchRequestBuilder(points ...Coordinate) *MatchRequestBuilder {
	return services.NewMatchRequestBuilder(points...)
}

func NewTableRequestBuilder(sources, destinations []Coordinate) *TableRequestBuilder {
	return services.NewTableRequestBuilder(sources, destinations)
}

func NewNearestRequestBuilder(point Coordinate) *NearestRequestBuilder {
	return services.NewNearestRequestBuilder(point)
}
