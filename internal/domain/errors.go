package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Value errors, returned while constructing coordinates and options.
var (
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
	ErrInvalidBearing       = errors.New("invalid bearing")
)

// Construction errors, returned by request builders before any engine is
// touched. They are wrapped in *RequestError.
var (
	ErrInsufficientPoints          = errors.New("insufficient points")
	ErrDimensionMismatch           = errors.New("dimension mismatch")
	ErrNegativeRadius              = errors.New("radius must be non-negative")
	ErrDifferentExcludeTypes       = errors.New("exclude types are not all of the same type")
	ErrTimestampsNotSorted         = errors.New("timestamps must be in ascending order")
	ErrTimestampsRequired          = errors.New("timestamps are required for split gaps behaviour")
	ErrNegativeTimestamp           = errors.New("timestamps must be non-negative")
	ErrEmptyWaypoints              = errors.New("waypoints must not be empty")
	ErrWaypointIndexOutOfBounds    = errors.New("waypoint index out of bounds")
	ErrEmptySources                = errors.New("sources must not be empty")
	ErrEmptyDestinations           = errors.New("destinations must not be empty")
	ErrIncompleteFallbackPair      = errors.New("fallback speed and fallback coordinate must be set together")
	ErrNonPositiveFallbackSpeed    = errors.New("fallback speed must be positive")
	ErrNonPositiveScaleFactor      = errors.New("scale factor must be positive")
	ErrScaleFactorRequiresDuration = errors.New("scale factor requires duration annotations")
	ErrInvalidNumber               = errors.New("number of results must be at least 1")
	ErrUnsupportedTripCombination  = errors.New("unsupported trip source/destination/roundtrip combination")
)

// Execution errors, returned by engines. They are wrapped in *EngineError.
var (
	ErrInitialization = errors.New("engine initialization failed")
	ErrInvalidPath    = errors.New("invalid map data path")
	ErrInternal       = errors.New("engine call failed")
	ErrDecode         = errors.New("response decode failed")
	ErrEndpoint       = errors.New("endpoint request failed")
	ErrEmptyResponse  = errors.New("empty response")
)

type ValueError struct {
	Kind   error
	Detail string
}

func (e *ValueError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ValueError) Unwrap() error { return e.Kind }

// Per-point options named by RequestError.Option.
const (
	OptionBearings     = "bearings"
	OptionRadiuses     = "radiuses"
	OptionHints        = "hints"
	OptionApproaches   = "approaches"
	OptionTimestamps   = "timestamps"
	OptionWaypoints    = "waypoints"
	OptionExclude      = "exclude"
	OptionFallback     = "fallback"
	OptionScaleFactor  = "scale_factor"
	OptionNumber       = "number"
	OptionSource       = "source"
	OptionDestination  = "destination"
	OptionSources      = "sources"
	OptionDestinations = "destinations"
)

// RequestError reports the first invariant a builder found violated.
//
// Option names the offending field. For sources/destinations arrays of a
// table request it is prefixed, e.g. "sources.bearings". Index is the
// offending element where one exists, otherwise -1. Got and Want carry the
// lengths or bounds involved.
type RequestError struct {
	Service Service
	Kind    error
	Option  string
	Index   int
	Got     int
	Want    int
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s request: %v", e.Service, e.Kind)

	switch {
	case errors.Is(e.Kind, ErrInsufficientPoints):
		fmt.Fprintf(&b, ": got %d, want at least %d", e.Got, e.Want)
	case errors.Is(e.Kind, ErrDimensionMismatch):
		fmt.Fprintf(&b, " between points and %s: got %d, want %d", e.Option, e.Got, e.Want)
	case errors.Is(e.Kind, ErrWaypointIndexOutOfBounds):
		fmt.Fprintf(&b, ": index %d for points with size %d", e.Index, e.Want)
	case errors.Is(e.Kind, ErrTimestampsNotSorted):
		fmt.Fprintf(&b, ": timestamp %d is smaller than its predecessor", e.Index)
	case e.Index >= 0 && e.Option != "":
		fmt.Fprintf(&b, ": %s[%d]", e.Option, e.Index)
	case e.Option != "":
		fmt.Fprintf(&b, ": %s", e.Option)
	}

	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Kind }

// Backend identifies which engine implementation produced an error.
type Backend string

const (
	BackendNative Backend = "native"
	BackendRemote Backend = "remote"
	BackendMock   Backend = "mock"
)

// EngineError is the single execution error shape shared by every engine.
// Status is the HTTP status for the remote engine and the boundary status
// code for the native engine; zero when not applicable.
type EngineError struct {
	Backend Backend
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	var b strings.Builder
	if e.Backend != "" {
		b.WriteString(string(e.Backend))
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "engine: %v", e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EngineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorClass is the coarse category a caller branches on.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassConstruction
	ClassNative
	ClassRemote
	ClassEmpty
	ClassUnknown
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassConstruction:
		return "construction"
	case ClassNative:
		return "native"
	case ClassRemote:
		return "remote"
	case ClassEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Classify maps any error returned by this library onto an ErrorClass.
// An empty response is ClassEmpty whichever engine produced it.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, ErrEmptyResponse) {
		return ClassEmpty
	}

	var reqErr *RequestError
	var valErr *ValueError
	if errors.As(err, &reqErr) || errors.As(err, &valErr) {
		return ClassConstruction
	}

	var engErr *EngineError
	if errors.As(err, &engErr) {
		switch engErr.Backend {
		case BackendNative:
			return ClassNative
		case BackendRemote:
			return ClassRemote
		}
	}

	return ClassUnknown
}
