package services

import (
	"route-engine-client/internal/domain"
	"slices"
)

// TableRequestBuilder accumulates the options of a distance/duration matrix
// query between sources and destinations.
type TableRequestBuilder struct {
	req TableRequest
}

func NewTableRequestBuilder(sources, destinations []domain.Coordinate) *TableRequestBuilder {
	return &TableRequestBuilder{req: TableRequest{
		sources:       slices.Clone(sources),
		destinations:  slices.Clone(destinations),
		annotations:   domain.TableAnnotationDuration,
		generateHints: true,
	}}
}

func (b *TableRequestBuilder) Sources(points ...domain.Coordinate) *TableRequestBuilder {
	b.req.sources = slices.Clone(points)
	return b
}

func (b *TableRequestBuilder) Destinations(points ...domain.Coordinate) *TableRequestBuilder {
	b.req.destinations = slices.Clone(points)
	return b
}

func (b *TableRequestBuilder) Annotations(a domain.TableAnnotation) *TableRequestBuilder {
	b.req.annotations = a
	return b
}

// FallbackSpeed sets the crow-flies speed (m/s) used for pairs without a
// route. It requires FallbackCoordinate.
func (b *TableRequestBuilder) FallbackSpeed(speed float64) *TableRequestBuilder {
	b.req.fallbackSpeed = &speed
	return b
}

func (b *TableRequestBuilder) FallbackCoordinate(f domain.FallbackCoordinate) *TableRequestBuilder {
	b.req.fallbackCoordinate = &f
	return b
}

// ScaleFactor scales the returned durations. It requires duration
// annotations.
func (b *TableRequestBuilder) ScaleFactor(factor float64) *TableRequestBuilder {
	b.req.scaleFactor = &factor
	return b
}

func (b *TableRequestBuilder) SourceBearings(bearings ...domain.Bearing) *TableRequestBuilder {
	b.req.sourceOptions.bearings = cloneOrEmpty(bearings)
	return b
}

func (b *TableRequestBuilder) DestinationBearings(bearings ...domain.Bearing) *TableRequestBuilder {
	b.req.destinationOptions.bearings = cloneOrEmpty(bearings)
	return b
}

func (b *TableRequestBuilder) SourceRadiuses(radiuses ...float64) *TableRequestBuilder {
	b.req.sourceOptions.radiuses = cloneOrEmpty(radiuses)
	return b
}

func (b *TableRequestBuilder) DestinationRadiuses(radiuses ...float64) *TableRequestBuilder {
	b.req.destinationOptions.radiuses = cloneOrEmpty(radiuses)
	return b
}

func (b *TableRequestBuilder) GenerateHints(v bool) *TableRequestBuilder {
	b.req.generateHints = v
	return b
}

func (b *TableRequestBuilder) SourceHints(hints ...string) *TableRequestBuilder {
	b.req.sourceOptions.hints = cloneOrEmpty(hints)
	return b
}

func (b *TableRequestBuilder) DestinationHints(hints ...string) *TableRequestBuilder {
	b.req.destinationOptions.hints = cloneOrEmpty(hints)
	return b
}

func (b *TableRequestBuilder) SourceApproaches(approaches ...domain.Approach) *TableRequestBuilder {
	b.req.sourceOptions.approaches = cloneOrEmpty(approaches)
	return b
}

func (b *TableRequestBuilder) DestinationApproaches(approaches ...domain.Approach) *TableRequestBuilder {
	b.req.destinationOptions.approaches = cloneOrEmpty(approaches)
	return b
}

func (b *TableRequestBuilder) Exclude(exclude ...domain.Exclude) *TableRequestBuilder {
	b.req.exclude = cloneOrEmpty(exclude)
	return b
}

func (b *TableRequestBuilder) Snapping(s domain.Snapping) *TableRequestBuilder {
	b.req.snapping = s
	b.req.snappingSet = true
	return b
}

func (b *TableRequestBuilder) Build() (TableRequest, error) {
	req := b.req.clone()
	if err := req.Validate(); err != nil {
		return TableRequest{}, err
	}
	return req, nil
}

// TableRequest is an immutable matrix query.
type TableRequest struct {
	sources            []domain.Coordinate
	destinations       []domain.Coordinate
	annotations        domain.TableAnnotation
	fallbackSpeed      *float64
	fallbackCoordinate *domain.FallbackCoordinate
	scaleFactor        *float64
	sourceOptions      pointOptions
	destinationOptions pointOptions
	generateHints      bool
	exclude            []domain.Exclude
	snapping           domain.Snapping
	snappingSet        bool
}

func (r TableRequest) Service() domain.Service { return domain.ServiceTable }

func (r TableRequest) Sources() []domain.Coordinate        { return slices.Clone(r.sources) }
func (r TableRequest) Destinations() []domain.Coordinate   { return slices.Clone(r.destinations) }
func (r TableRequest) Annotations() domain.TableAnnotation { return r.annotations }
func (r TableRequest) GenerateHints() bool                 { return r.generateHints }
func (r TableRequest) Exclude() []domain.Exclude           { return slices.Clone(r.exclude) }

func (r TableRequest) Snapping() (domain.Snapping, bool) { return r.snapping, r.snappingSet }

// FallbackSpeed returns the fallback speed and whether it was set.
func (r TableRequest) FallbackSpeed() (float64, bool) {
	if r.fallbackSpeed == nil {
		return 0, false
	}
	return *r.fallbackSpeed, true
}

func (r TableRequest) FallbackCoordinate() (domain.FallbackCoordinate, bool) {
	if r.fallbackCoordinate == nil {
		return domain.FallbackInput, false
	}
	return *r.fallbackCoordinate, true
}

func (r TableRequest) ScaleFactor() (float64, bool) {
	if r.scaleFactor == nil {
		return 0, false
	}
	return *r.scaleFactor, true
}

func (r TableRequest) SourceBearings() []domain.Bearing      { return r.sourceOptions.Bearings() }
func (r TableRequest) DestinationBearings() []domain.Bearing { return r.destinationOptions.Bearings() }
func (r TableRequest) SourceRadiuses() []float64             { return r.sourceOptions.Radiuses() }
func (r TableRequest) DestinationRadiuses() []float64        { return r.destinationOptions.Radiuses() }
func (r TableRequest) SourceHints() []string                 { return r.sourceOptions.Hints() }
func (r TableRequest) DestinationHints() []string            { return r.destinationOptions.Hints() }

func (r TableRequest) SourceApproaches() []domain.Approach {
	return r.sourceOptions.Approaches()
}

func (r TableRequest) DestinationApproaches() []domain.Approach {
	return r.destinationOptions.Approaches()
}

// Validate re-runs the builder checks.
func (r TableRequest) Validate() error {
	if len(r.sources) == 0 {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrEmptySources,
			Option:  domain.OptionSources,
			Index:   -1,
		}
	}
	if len(r.destinations) == 0 {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrEmptyDestinations,
			Option:  domain.OptionDestinations,
			Index:   -1,
		}
	}

	if r.fallbackSpeed != nil && !(*r.fallbackSpeed > 0) {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrNonPositiveFallbackSpeed,
			Option:  domain.OptionFallback,
			Index:   -1,
		}
	}
	if r.scaleFactor != nil && !(*r.scaleFactor > 0) {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrNonPositiveScaleFactor,
			Option:  domain.OptionScaleFactor,
			Index:   -1,
		}
	}
	if (r.fallbackSpeed == nil) != (r.fallbackCoordinate == nil) {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrIncompleteFallbackPair,
			Option:  domain.OptionFallback,
			Index:   -1,
		}
	}
	if r.scaleFactor != nil && !r.annotations.HasDuration() {
		return &domain.RequestError{
			Service: domain.ServiceTable,
			Kind:    domain.ErrScaleFactorRequiresDuration,
			Option:  domain.OptionScaleFactor,
			Index:   -1,
		}
	}

	if err := r.sourceOptions.validate(domain.ServiceTable, domain.OptionSources+".", len(r.sources)); err != nil {
		return err
	}
	if err := r.destinationOptions.validate(domain.ServiceTable, domain.OptionDestinations+".", len(r.destinations)); err != nil {
		return err
	}
	return validateExclude(domain.ServiceTable, r.exclude)
}

func (r TableRequest) clone() TableRequest {
	r.sources = slices.Clone(r.sources)
	r.destinations = slices.Clone(r.destinations)
	r.sourceOptions = r.sourceOptions.clone()
	r.destinationOptions = r.destinationOptions.clone()
	r.exclude = slices.Clone(r.exclude)
	return r
}
