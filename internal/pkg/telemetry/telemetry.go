// Package telemetry initializes OpenTelemetry logs, metrics and tracing with
// OTLP exporters over gRPC. Exporter endpoints are taken from the standard
// OTEL_EXPORTER_OTLP_* environment variables.
//
// When telemetry is disabled the global no-op providers stay in place, so
// instrumented code can always record without checking.
package telemetry

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// Config controls whether and how telemetry is exported.
type Config struct {
	// Enabled turns on the OTLP exporters. When false Init is a no-op.
	Enabled bool

	// ServiceName identifies this process in the observability backend.
	ServiceName string

	// ServiceVersion is attached to the resource when non-empty.
	ServiceVersion string
}

// ShutdownFunc flushes and stops all telemetry providers.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// loggerProvider is the log provider installed by Init, nil while telemetry
// is disabled.
var loggerProvider atomic.Pointer[sdklog.LoggerProvider]

// LoggerProvider returns the log provider installed by Init, or nil when
// telemetry is disabled or already shut down.
func LoggerProvider() log.LoggerProvider {
	if lp := loggerProvider.Load(); lp != nil {
		return lp
	}
	return nil
}

// initLoggerProvider sets up an OTLP gRPC LoggerProvider with a batching
// processor and registers it globally.
func initLoggerProvider(ctx context.Context, res *sdkresource.Resource) (*sdklog.LoggerProvider, error) {
	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	global.SetLoggerProvider(lp)
	loggerProvider.Store(lp)
	return lp, nil
}

// initMeterProvider sets up an OTLP gRPC MeterProvider with a periodic
// reader and registers it globally.
func initMeterProvider(ctx context.Context, res *sdkresource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// initTracerProvider sets up an OTLP gRPC TracerProvider with a batching
// exporter and registers it globally.
func initTracerProvider(ctx context.Context, res *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

func newResource(cfg Config) (*sdkresource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	return sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

// Init installs the global logger, meter and tracer providers described by
// cfg and the W3C trace-context propagator. Call it before logger.Init so
// the log bridge can pick up LoggerProvider.
//
// The returned ShutdownFunc must be called on exit to flush pending data.
// If a provider fails to start, any provider already created is shut down
// before the error is returned.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	lp, err := initLoggerProvider(ctx, res)
	if err != nil {
		return nil, err
	}

	mp, err := initMeterProvider(ctx, res)
	if err != nil {
		loggerProvider.Store(nil)
		return nil, errors.Join(err, lp.Shutdown(ctx))
	}

	tp, err := initTracerProvider(ctx, res)
	if err != nil {
		loggerProvider.Store(nil)
		return nil, errors.Join(err, mp.Shutdown(ctx), lp.Shutdown(ctx))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		loggerProvider.Store(nil)
		return errors.Join(
			mp.Shutdown(ctx),
			tp.Shutdown(ctx),
			lp.Shutdown(ctx),
		)
	}, nil
}
