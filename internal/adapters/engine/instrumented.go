package engine

import (
	"context"
	"route-engine-client/internal/domain"
	"route-engine-client/internal/platform/metrics"
	"route-engine-client/internal/ports"
	"route-engine-client/internal/services"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentedEngine wraps an Engine with one span and one metrics
// observation per call. Results pass through unchanged.
type InstrumentedEngine struct {
	inner   ports.Engine
	backend domain.Backend
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Instrument wraps inner. A nil tracer disables spans and nil metrics
// disables counting.
func Instrument(inner ports.Engine, backend domain.Backend, m *metrics.Metrics, tracer trace.Tracer) *InstrumentedEngine {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &InstrumentedEngine{inner: inner, backend: backend, metrics: m, tracer: tracer}
}

func (e *InstrumentedEngine) Route(ctx context.Context, req services.RouteRequest) (*domain.RouteResponse, error) {
	ctx, done := e.start(ctx, domain.ServiceRoute)
	resp, err := e.inner.Route(ctx, req)
	done(err)
	return resp, err
}

func (e *InstrumentedEngine) Trip(ctx context.Context, req services.TripRequest) (*domain.TripResponse, error) {
	ctx, done := e.start(ctx, domain.ServiceTrip)
	resp, err := e.inner.Trip(ctx, req)
	done(err)
	return resp, err
}

func (e *InstrumentedEngine) Match(ctx context.Context, req services.MatchRequest) (*domain.MatchResponse, error) {
	ctx, done := e.start(ctx, domain.ServiceMatch)
	resp, err := e.inner.Match(ctx, req)
	done(err)
	return resp, err
}

func (e *InstrumentedEngine) Table(ctx context.Context, req services.TableRequest) (*domain.TableResponse, error) {
	ctx, done := e.start(ctx, domain.ServiceTable)
	resp, err := e.inner.Table(ctx, req)
	done(err)
	return resp, err
}

func (e *InstrumentedEngine) Nearest(ctx context.Context, req services.NearestRequest) (*domain.NearestResponse, error) {
	ctx, done := e.start(ctx, domain.ServiceNearest)
	resp, err := e.inner.Nearest(ctx, req)
	done(err)
	return resp, err
}

func (e *InstrumentedEngine) Close() error { return e.inner.Close() }

func (e *InstrumentedEngine) start(ctx context.Context, service domain.Service) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "engine."+string(service),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("engine.backend", string(e.backend)),
			attribute.String("engine.service", string(service)),
		),
	)

	return ctx, func(err error) {
		class := domain.Classify(err)
		span.SetAttributes(attribute.String("engine.error_class", class.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		e.metrics.Observe(string(e.backend), string(service), class.String(), time.Since(start).Seconds())
	}
}
