package telemetry

import (
	"context"
	"errors"

	"admin/internal/configuration"
	"admin/internal/models"

	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Setup starts tracing and profiling when their endpoints are configured.
// The returned func flushes and stops whatever was started; it is never nil.
func Setup(ctx context.Context, config models.TelemetryConfiguration) func(context.Context) error {
	var shutdowns []func(context.Context) error

	if config.OTLPEndpoint != "" {
		if shutdown, err := startTracing(ctx, config.OTLPEndpoint); err != nil {
			zap.L().Error("Failed to start tracing", zap.Error(err))
		} else {
			shutdowns = append(shutdowns, shutdown)
			zap.L().Info("Tracing enabled", zap.String("endpoint", config.OTLPEndpoint))
		}
	}

	if config.PyroscopeAddress != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: configuration.AppName,
			ServerAddress:   config.PyroscopeAddress,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
			},
		})
		if err != nil {
			zap.L().Error("Failed to start profiling", zap.Error(err))
		} else {
			shutdowns = append(shutdowns, func(context.Context) error { return profiler.Stop() })
			zap.L().Info("Profiling enabled", zap.String("address", config.PyroscopeAddress))
		}
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, shutdown := range shutdowns {
			errs = append(errs, shutdown(ctx))
		}
		return errors.Join(errs...)
	}
}

func startTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", configuration.AppName)),
	)
	if err != nil {
		return nil, err
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}
